package main

import (
	"math"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
)

// ClickRenderer synthesizes a short tone for every beat. It keeps no state
// between calls so overlapping clicks are mixed independently.
type ClickRenderer struct {
	out Output
}

func NewClickRenderer(out Output) *ClickRenderer {
	return &ClickRenderer{out: out}
}

func (c *ClickRenderer) Render(int) { c.PlayClick() }

func (c *ClickRenderer) PlayClick() {
	sr := c.out.SampleRate()
	gain := &effects.Volume{
		Streamer: sine(sr, clickFrequency),
		Base:     2,
		Volume:   math.Log2(clickGain),
	}
	c.out.Play(beep.Take(sr.N(clickDuration), gain))
}

// sine is an endless oscillator starting at phase zero.
func sine(sr beep.SampleRate, freq float64) beep.Streamer {
	step := 2 * math.Pi * freq / float64(sr)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for i := range samples {
			v := math.Sin(step * float64(pos))
			samples[i][0] = v
			samples[i][1] = v
			pos++
		}
		return len(samples), true
	})
}
