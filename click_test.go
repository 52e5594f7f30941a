package main

import (
	"math"
	"testing"
)

func TestClickIsOneHundredMilliseconds(t *testing.T) {
	out := newFakeOutput()
	NewClickRenderer(out).PlayClick()

	played := out.streamers()
	if len(played) != 1 {
		t.Fatalf("PlayClick played %d streamers, want 1", len(played))
	}
	samples := out.drain(played[0])
	if want := testRate.N(clickDuration); len(samples) != want {
		t.Fatalf("click is %d samples, want %d", len(samples), want)
	}
}

func TestClickIsFullGainTone(t *testing.T) {
	out := newFakeOutput()
	NewClickRenderer(out).PlayClick()
	samples := out.drain(out.streamers()[0])

	var peak float64
	rising := 0
	for i, s := range samples {
		if s[0] != s[1] {
			t.Fatalf("sample %d differs between channels: %v", i, s)
		}
		peak = math.Max(peak, math.Abs(s[0]))
		if i > 0 && samples[i-1][0] < 0 && s[0] >= 0 {
			rising++
		}
	}

	if peak < 0.99 || peak > 1 {
		t.Fatalf("peak %v, want full scale", peak)
	}
	// 1000 Hz for 100 ms is 100 cycles
	if rising < 98 || rising > 101 {
		t.Fatalf("%d cycles, want about 100", rising)
	}
}

func TestOverlappingClicksAreIndependent(t *testing.T) {
	out := newFakeOutput()
	click := NewClickRenderer(out)

	click.PlayClick()
	first := out.streamers()[0]
	head := make([][2]float64, 200)
	first.Stream(head)

	click.Render(3)
	second := out.streamers()[1]
	fresh := make([][2]float64, 200)
	second.Stream(fresh)

	for i := range head {
		if head[i] != fresh[i] {
			t.Fatalf("second click sample %d = %v, want %v", i, fresh[i], head[i])
		}
	}
	if rest := out.drain(first); len(rest) != testRate.N(clickDuration)-len(head) {
		t.Fatalf("first click lost samples to the second: %d left", len(rest))
	}
}
