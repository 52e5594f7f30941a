package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/gosuri/uilive"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const keyHelp = "space start/stop  t/v/m mode  2-4 beats  +/- tempo  [/] tempo by 10  q quit"

// TerminalUI is the interactive front end: keys in, one live status line out.
type TerminalUI struct {
	ctrl *Controller
	log  *logrus.Entry

	message string
}

func NewTerminalUI(ctrl *Controller, log *logrus.Entry) *TerminalUI {
	return &TerminalUI{ctrl: ctrl, log: log}
}

func (ui *TerminalUI) Run(ctx context.Context) error {
	keys, err := keyboard.GetKeys(10)
	if err != nil {
		return errors.Wrap(err, "error while opening keyboard")
	}
	defer keyboard.Close()

	w := uilive.New()
	w.Start()
	defer w.Stop()

	// picks up load progress and failures between key presses
	refresh := time.NewTicker(250 * time.Millisecond)
	defer refresh.Stop()

	ui.render(w)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-refresh.C:
			ui.render(w)
		case ev := <-keys:
			if ev.Err != nil {
				return errors.Wrap(ev.Err, "error while reading keyboard")
			}
			quit, err := ui.handle(ev.Rune, ev.Key)
			if quit {
				return nil
			}
			ui.message = ""
			if err != nil {
				ui.log.WithError(err).Debug("key rejected")
				ui.message = err.Error()
			}
			ui.render(w)
		}
	}
}

// handle applies one key press. It reports quit for the exit keys.
func (ui *TerminalUI) handle(ch rune, key keyboard.Key) (bool, error) {
	switch {
	case key == keyboard.KeyEsc, key == keyboard.KeyCtrlC, ch == 'q':
		return true, nil
	case key == keyboard.KeySpace, ch == ' ':
		if !ui.ctrl.IsRunning() && !ui.ctrl.CanRun() {
			return false, nil
		}
		return false, ui.ctrl.Toggle()
	case ch == 't':
		return false, ui.ctrl.SetMode(Tick)
	case ch == 'v':
		return false, ui.ctrl.SetMode(Vocal)
	case ch == 'm':
		if ui.ctrl.Config().Mode == Tick {
			return false, ui.ctrl.SetMode(Vocal)
		}
		return false, ui.ctrl.SetMode(Tick)
	case ch >= '0' && ch <= '9':
		ts, ok := TimeSigForBeats(int(ch - '0'))
		if !ok {
			return false, fmt.Errorf("no %c beat time signature", ch)
		}
		return false, ui.ctrl.SetBeatsPerMeasure(ts.Beats)
	case ch == '+', ch == '=', key == keyboard.KeyArrowUp:
		return false, ui.nudgeTempo(1)
	case ch == '-', key == keyboard.KeyArrowDown:
		return false, ui.nudgeTempo(-1)
	case ch == ']':
		return false, ui.nudgeTempo(10)
	case ch == '[':
		return false, ui.nudgeTempo(-10)
	}
	return false, nil
}

func (ui *TerminalUI) nudgeTempo(by float64) error {
	bpm := ClampTempo(ui.ctrl.Config().BPM + by)
	if bpm == ui.ctrl.Config().BPM {
		return nil
	}
	return ui.ctrl.SetTempo(bpm)
}

func (ui *TerminalUI) render(w io.Writer) {
	fmt.Fprintln(w, ui.statusLine())
	fmt.Fprintln(w, keyHelp)
	if ui.message != "" {
		fmt.Fprintln(w, ui.message)
	}
}

func (ui *TerminalUI) statusLine() string {
	cfg := ui.ctrl.Config()
	return fmt.Sprintf("BPM %v | %s | %d/4 | %s", cfg.BPM, cfg.Mode, cfg.BeatsPerMeasure, ui.ctrl.Status())
}
