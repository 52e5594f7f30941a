package main

import (
	"fmt"
	"time"
)

type TimeSignature struct {
	Beats     int // number of beats per meassure
	NoteValue int // note that represent that one beat
}

const (
	MIN_TEMPO = 1
	MAX_TEMPO = 400
)

// Spoken count only goes up to four, so signatures stop there.
var TIME_SIGNATURES = []TimeSignature{
	{4, 4},
	{3, 4},
	{2, 4},
}

const (
	clickFrequency = 1000.0
	clickDuration  = 100 * time.Millisecond
	clickGain      = 1.0

	// vocalSlots is the number of spoken count clips, one per beat index.
	vocalSlots = 4

	// a firing arriving further than this from its expected time resyncs
	// the drift tracker.
	driftTolerance = 10 * time.Millisecond

	defaultSampleRate = 44100
	speakerLatency    = time.Second / 30
)

func (ts TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", ts.Beats, ts.NoteValue)
}
