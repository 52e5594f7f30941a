package main

import (
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/pkg/errors"
)

// Output is the audio device the renderers push streamers into. Anything
// touching a streamer that is already playing must hold Lock.
type Output interface {
	SampleRate() beep.SampleRate
	Play(s ...beep.Streamer)
	Lock()
	Unlock()
}

type speakerOutput struct {
	sr beep.SampleRate
}

// OpenSpeaker initializes the default audio device. There is one speaker per
// process, so this is called once from main.
func OpenSpeaker(sr beep.SampleRate, latency time.Duration) (*speakerOutput, error) {
	if err := speaker.Init(sr, sr.N(latency)); err != nil {
		return nil, errors.Wrap(err, "error while initializing speaker")
	}
	return &speakerOutput{sr: sr}, nil
}

func (o *speakerOutput) SampleRate() beep.SampleRate { return o.sr }

func (o *speakerOutput) Play(s ...beep.Streamer) { speaker.Play(s...) }

func (o *speakerOutput) Lock() { speaker.Lock() }

func (o *speakerOutput) Unlock() { speaker.Unlock() }

// Close drops whatever is still playing and releases the device.
func (o *speakerOutput) Close() {
	speaker.Clear()
	speaker.Close()
}
