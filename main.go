package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/faiface/beep"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func main() {
	settings, err := ResolveSettings(flag.CommandLine, os.Args[1:])
	if err != nil {
		logrus.Fatalf("%v", err)
	}

	interactive := isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
	log, err := newLogger(settings.LogLevel, interactive)
	if err != nil {
		logrus.Fatalf("%v", err)
	}

	out, err := OpenSpeaker(beep.SampleRate(defaultSampleRate), speakerLatency)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer out.Close()

	clips := NewAudioPlayer(out, settings.ClipPaths(), Read, log.WithField("component", "clips"))
	clips.Preload()

	sched, err := NewScheduler(settings.TempoConfig(), NewClickRenderer(out), clips, log.WithField("component", "scheduler"))
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go sched.Run(ctx)

	ctrl := NewController(sched, clips, settings.TempoConfig())

	if interactive {
		if settings.AutoStart {
			go func() {
				if err := startWhenReady(ctx, ctrl, clips); err != nil {
					log.WithError(err).Warn("autostart failed")
				}
			}()
		}
		err = NewTerminalUI(ctrl, log.WithField("component", "ui")).Run(ctx)
	} else {
		log.WithFields(logrus.Fields{
			"bpm":     settings.Tempo,
			"timesig": settings.TimeSig,
			"mode":    settings.Mode,
		}).Info("running headless, stop with ctrl+c")
		if err = startWhenReady(ctx, ctrl, clips); err == nil {
			<-ctx.Done()
		}
	}

	if stopErr := sched.Stop(); stopErr != nil && errors.Cause(stopErr) != ErrSchedulerClosed {
		log.WithError(stopErr).Warn("stopping metronome")
	}
	if err != nil && errors.Cause(err) != context.Canceled {
		log.Errorf("%v", err)
		out.Close()
		os.Exit(1)
	}
}

// startWhenReady blocks until the run control is enabled, then starts playback.
func startWhenReady(ctx context.Context, ctrl *Controller, clips *AudioPlayer) error {
	poll := time.NewTicker(100 * time.Millisecond)
	defer poll.Stop()

	for !ctrl.CanRun() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clips.Done():
		case <-poll.C:
			if err := clips.Err(); err != nil {
				return err
			}
		}
	}
	return ctrl.SetRunning(true)
}

func newLogger(level string, interactive bool) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		DisableColors: !interactive,
	})

	if level == "" {
		// keep the live status line readable
		if interactive {
			log.SetLevel(logrus.WarnLevel)
		} else {
			log.SetLevel(logrus.InfoLevel)
		}
		return log, nil
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "invalid log level")
	}
	log.SetLevel(lvl)
	return log, nil
}
