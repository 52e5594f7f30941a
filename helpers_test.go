package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/sirupsen/logrus"
)

const testRate = beep.SampleRate(44100)

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

type fakeOutput struct {
	sr      beep.SampleRate
	speaker sync.Mutex

	mu     sync.Mutex
	played []beep.Streamer
}

func newFakeOutput() *fakeOutput { return &fakeOutput{sr: testRate} }

func (o *fakeOutput) SampleRate() beep.SampleRate { return o.sr }

func (o *fakeOutput) Play(s ...beep.Streamer) {
	o.mu.Lock()
	o.played = append(o.played, s...)
	o.mu.Unlock()
}

func (o *fakeOutput) Lock()   { o.speaker.Lock() }
func (o *fakeOutput) Unlock() { o.speaker.Unlock() }

func (o *fakeOutput) streamers() []beep.Streamer {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]beep.Streamer(nil), o.played...)
}

// drain reads s to the end under the speaker lock, like the mixer would.
func (o *fakeOutput) drain(s beep.Streamer) [][2]float64 {
	o.Lock()
	defer o.Unlock()
	return drain(s)
}

func drain(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok || n == 0 {
			return out
		}
	}
}

type fakeTicker struct {
	interval time.Duration
	c        chan time.Time
	stopped  atomic.Bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.c }
func (t *fakeTicker) Stop()               { t.stopped.Store(true) }

// fire blocks until the scheduler loop takes the tick.
func (t *fakeTicker) fire(tb testing.TB) {
	tb.Helper()
	select {
	case t.c <- time.Now():
	case <-time.After(time.Second):
		tb.Fatalf("ticker (%v) is not being read", t.interval)
	}
}

type fakeClock struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func (c *fakeClock) NewTicker(d time.Duration) Ticker {
	t := &fakeTicker{interval: d, c: make(chan time.Time)}
	c.mu.Lock()
	c.tickers = append(c.tickers, t)
	c.mu.Unlock()
	return t
}

func (c *fakeClock) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

func (c *fakeClock) last(tb testing.TB) *fakeTicker {
	tb.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.tickers) == 0 {
		tb.Fatal("no ticker was created")
	}
	return c.tickers[len(c.tickers)-1]
}

type fakeRenderer struct {
	mu    sync.Mutex
	beats []int
}

func (r *fakeRenderer) Render(beat int) {
	r.mu.Lock()
	r.beats = append(r.beats, beat)
	r.mu.Unlock()
}

func (r *fakeRenderer) rendered() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.beats...)
}

type fakeVocal struct {
	fakeRenderer
	loaded   atomic.Bool
	silenced atomic.Int32
}

func (v *fakeVocal) Loaded() bool { return v.loaded.Load() }
func (v *fakeVocal) SilenceAll()  { v.silenced.Add(1) }

type schedulerFixture struct {
	sched *Scheduler
	clock *fakeClock
	click *fakeRenderer
	vocal *fakeVocal
}

func newSchedulerFixture(t *testing.T, cfg TempoConfig) *schedulerFixture {
	t.Helper()
	f := &schedulerFixture{
		clock: &fakeClock{},
		click: &fakeRenderer{},
		vocal: &fakeVocal{},
	}
	sched, err := NewScheduler(cfg, f.click, f.vocal, testLogger())
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	sched.newTicker = f.clock.NewTicker
	f.sched = sched
	runScheduler(t, sched)
	return f
}

func runScheduler(t *testing.T, s *Scheduler) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-s.done
	})
}

// clipLoader serves constant-valued clips of n frames keyed by path. Paths in
// gates are held back until their channel is closed.
type clipLoader struct {
	sr     beep.SampleRate
	frames int
	gates  map[string]chan struct{}
	fail   map[string]error
}

func (l *clipLoader) Load(path string) (beep.StreamSeekCloser, beep.Format, error) {
	if gate, ok := l.gates[path]; ok {
		<-gate
	}
	if err, ok := l.fail[path]; ok {
		return nil, beep.Format{}, err
	}
	format := beep.Format{SampleRate: l.sr, NumChannels: 2, Precision: 2}
	buffer := beep.NewBuffer(format)
	buffer.Append(beep.Take(l.frames, constant(0.5)))
	return nopCloser{buffer.Streamer(0, buffer.Len())}, format, nil
}

type nopCloser struct{ beep.StreamSeeker }

func (nopCloser) Close() error { return nil }

func constant(v float64) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{v, v}
		}
		return len(samples), true
	})
}

func clipPaths() []string {
	paths := make([]string, vocalSlots)
	for i := range paths {
		paths[i] = fmt.Sprintf("%d.wav", i+1)
	}
	return paths
}

func waitFor(tb testing.TB, what string, cond func() bool) {
	tb.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			tb.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func waitLoaded(tb testing.TB, ap *AudioPlayer) {
	tb.Helper()
	select {
	case <-ap.Done():
	case <-time.After(2 * time.Second):
		tb.Fatalf("clips did not load: %v", ap.Err())
	}
}
