package main

// SoundRenderer turns one firing of the scheduler into sound. Render must
// return quickly; the audio itself plays on the speaker's own clock.
type SoundRenderer interface {
	Render(beat int)
}

// VocalRenderer is the sample playback variant. Its readiness gates starting
// the scheduler in Vocal mode.
type VocalRenderer interface {
	SoundRenderer
	Loaded() bool
	SilenceAll()
}
