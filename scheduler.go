package main

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// TempoConfig is replaced as a whole on every change.
type TempoConfig struct {
	BPM             float64
	Mode            Mode
	BeatsPerMeasure int
}

func (c TempoConfig) Validate() error {
	if !(c.BPM > 0) || math.IsInf(c.BPM, 0) {
		return errors.Wrapf(ErrInvalidConfig, "tempo must be a positive number, got %v", c.BPM)
	}
	// the beat interval has to fit a Duration and be at least a nanosecond
	if ns := float64(time.Minute) / c.BPM; ns < 1 || ns >= math.MaxInt64 {
		return errors.Wrapf(ErrInvalidConfig, "tempo %v gives no usable beat interval", c.BPM)
	}
	if c.BeatsPerMeasure <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "beats per measure must be above zero, got %d", c.BeatsPerMeasure)
	}
	if c.Mode != Tick && c.Mode != Vocal {
		return errors.Wrapf(ErrInvalidConfig, "unknown mode %v", c.Mode)
	}
	return nil
}

// Interval is the time between two beats, 60000/bpm milliseconds.
func (c TempoConfig) Interval() time.Duration {
	return time.Duration(float64(time.Minute) / c.BPM)
}

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.Ticker.C }

func newTimeTicker(d time.Duration) Ticker { return timeTicker{time.NewTicker(d)} }

// Scheduler fires once per beat and hands each beat to the renderer of the
// current mode. All of its state lives on the goroutine running Run; the
// exported methods are executed there one at a time, so a firing never
// overlaps a reconfiguration.
type Scheduler struct {
	renderers map[Mode]SoundRenderer
	vocal     VocalRenderer
	log       *logrus.Entry
	newTicker func(time.Duration) Ticker

	cmds chan func()
	done chan struct{}

	cfg      TempoConfig
	cursor   int
	running  bool
	ticker   Ticker
	interval time.Duration
	nextTick time.Time
}

func NewScheduler(cfg TempoConfig, click SoundRenderer, vocal VocalRenderer, log *logrus.Entry) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scheduler{
		renderers: map[Mode]SoundRenderer{
			Tick:  click,
			Vocal: vocal,
		},
		vocal:     vocal,
		log:       log,
		newTicker: newTimeTicker,
		cmds:      make(chan func()),
		done:      make(chan struct{}),
		cfg:       cfg,
	}, nil
}

// Run owns the scheduler until ctx is cancelled. Playback is stopped on the
// way out.
func (s *Scheduler) Run(ctx context.Context) {
	defer close(s.done)
	for {
		var tick <-chan time.Time
		if s.ticker != nil {
			tick = s.ticker.C()
		}

		select {
		case <-ctx.Done():
			s.stop()
			return
		case fn := <-s.cmds:
			fn()
		case now := <-tick:
			s.fire(now)
		}
	}
}

func (s *Scheduler) do(fn func()) error {
	finished := make(chan struct{})
	cmd := func() {
		fn()
		close(finished)
	}
	select {
	case s.cmds <- cmd:
	case <-s.done:
		return ErrSchedulerClosed
	}
	<-finished
	return nil
}

// Configure swaps in a new tempo, mode and signature. While running, the
// timer is replaced and the measure starts again from the first beat.
func (s *Scheduler) Configure(cfg TempoConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return s.do(func() {
		s.cfg = cfg
		if s.running {
			s.restart()
			s.log.WithFields(s.fields()).Info("metronome reconfigured")
		}
	})
}

func (s *Scheduler) Start() error {
	var err error
	if derr := s.do(func() { err = s.start() }); derr != nil {
		return derr
	}
	return err
}

// Stop is safe to call whether or not the metronome is running.
func (s *Scheduler) Stop() error {
	return s.do(s.stop)
}

// Running, Config and Cursor report zero values once Run has returned.
func (s *Scheduler) Running() bool {
	var running bool
	_ = s.do(func() { running = s.running })
	return running
}

func (s *Scheduler) Config() TempoConfig {
	var cfg TempoConfig
	_ = s.do(func() { cfg = s.cfg })
	return cfg
}

// Cursor is the index of the next beat to render.
func (s *Scheduler) Cursor() int {
	var cursor int
	_ = s.do(func() { cursor = s.cursor })
	return cursor
}

// CanStart reports whether the renderer for mode is ready to play.
func (s *Scheduler) CanStart(mode Mode) bool {
	return mode != Vocal || s.vocal.Loaded()
}

func (s *Scheduler) start() error {
	if s.running {
		return ErrAlreadyRunning
	}
	if !s.CanStart(s.cfg.Mode) {
		return ErrAudioNotLoaded
	}
	s.running = true
	s.restart()
	s.log.WithFields(s.fields()).Info("metronome started")
	return nil
}

func (s *Scheduler) stop() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	s.vocal.SilenceAll()
	if s.running {
		s.running = false
		s.log.Info("metronome stopped")
	}
}

// restart cancels the current timer before creating the next one so there is
// never more than one.
func (s *Scheduler) restart() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
	s.cursor = 0
	s.interval = s.cfg.Interval()
	s.ticker = s.newTicker(s.interval)
	s.nextTick = time.Now().Add(s.interval)
}

func (s *Scheduler) fire(now time.Time) {
	if !s.running {
		return
	}

	drift := now.Sub(s.nextTick)
	if drift > driftTolerance || drift < -driftTolerance {
		s.log.WithField("drift", drift).Debug("beat off schedule, resyncing")
		s.nextTick = now
	}
	s.nextTick = s.nextTick.Add(s.interval)

	s.renderers[s.cfg.Mode].Render(s.cursor)
	s.cursor = (s.cursor + 1) % s.cfg.BeatsPerMeasure
}

func (s *Scheduler) fields() logrus.Fields {
	return logrus.Fields{
		"bpm":   s.cfg.BPM,
		"mode":  s.cfg.Mode,
		"beats": s.cfg.BeatsPerMeasure,
	}
}
