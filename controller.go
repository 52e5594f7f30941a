package main

import "sync"

// Metronome is what the scheduler looks like from the front end.
type Metronome interface {
	Configure(cfg TempoConfig) error
	Start() error
	Stop() error
	Running() bool
	CanStart(mode Mode) bool
}

// Controller holds the values the user is editing and pushes them to the
// metronome as one TempoConfig per change. A rejected change leaves the
// previous values in place.
type Controller struct {
	m     Metronome
	clips *AudioPlayer

	mu  sync.Mutex
	cfg TempoConfig
}

func NewController(m Metronome, clips *AudioPlayer, cfg TempoConfig) *Controller {
	return &Controller{m: m, clips: clips, cfg: cfg}
}

func (c *Controller) SetTempo(bpm float64) error {
	return c.update(func(cfg *TempoConfig) { cfg.BPM = bpm })
}

func (c *Controller) SetMode(mode Mode) error {
	return c.update(func(cfg *TempoConfig) { cfg.Mode = mode })
}

func (c *Controller) SetBeatsPerMeasure(beats int) error {
	return c.update(func(cfg *TempoConfig) { cfg.BeatsPerMeasure = beats })
}

func (c *Controller) update(change func(*TempoConfig)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.cfg
	change(&next)
	if err := c.m.Configure(next); err != nil {
		return err
	}
	c.cfg = next
	return nil
}

func (c *Controller) SetRunning(run bool) error {
	if !run {
		return c.m.Stop()
	}
	if c.m.Running() {
		return nil
	}
	if !c.CanRun() {
		return ErrAudioNotLoaded
	}
	return c.m.Start()
}

func (c *Controller) Toggle() error {
	return c.SetRunning(!c.m.Running())
}

func (c *Controller) Config() TempoConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

func (c *Controller) IsRunning() bool { return c.m.Running() }

// AudioLoaded is false until every vocal clip is ready.
func (c *Controller) AudioLoaded() bool { return c.clips.Loaded() }

// CanRun is the enabled state of the run control. It stays disabled until
// every clip is loaded, whichever mode is selected.
func (c *Controller) CanRun() bool {
	return c.AudioLoaded() && c.m.CanStart(c.Config().Mode)
}

// Status is the label of the run control.
func (c *Controller) Status() string {
	switch {
	case c.IsRunning():
		return "Stop"
	case c.CanRun():
		return "Start"
	case c.clips.Err() != nil:
		return "load failed: " + c.clips.Err().Error()
	default:
		return "Loading..."
	}
}
