package main

import (
	"sync"
	"sync/atomic"

	"github.com/faiface/beep"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Loader opens and decodes one clip. Read is the one used outside tests.
type Loader func(path string) (beep.StreamSeekCloser, beep.Format, error)

type slot struct {
	path   string
	buffer *beep.Buffer
	ready  atomic.Bool

	// ctrl wraps the playback currently in flight, if any. Guarded by the
	// output lock once handed to the speaker.
	ctrl *beep.Ctrl
}

// AudioPlayer plays the spoken count. Every beat index has its own slot
// holding a decoded clip; clips load in the background and a slot is never
// played before its clip is ready.
type AudioPlayer struct {
	out   Output
	load  Loader
	slots []*slot
	log   *logrus.Entry

	preload sync.Once
	pending atomic.Int32
	loaded  chan struct{}

	errMu sync.Mutex
	err   error
}

func NewAudioPlayer(out Output, paths []string, load Loader, log *logrus.Entry) *AudioPlayer {
	slots := make([]*slot, len(paths))
	for i, path := range paths {
		slots[i] = &slot{path: path}
	}

	ap := &AudioPlayer{
		out:    out,
		load:   load,
		slots:  slots,
		log:    log,
		loaded: make(chan struct{}),
	}
	ap.pending.Store(int32(len(slots)))
	if len(slots) == 0 {
		close(ap.loaded)
	}
	return ap
}

// Preload starts decoding every clip. It returns immediately; Done is closed
// once all of them are ready.
func (ap *AudioPlayer) Preload() {
	ap.preload.Do(func() {
		for i, s := range ap.slots {
			go ap.loadSlot(i, s)
		}
	})
}

func (ap *AudioPlayer) loadSlot(index int, s *slot) {
	log := ap.log.WithFields(logrus.Fields{"slot": index, "path": s.path})

	buffer, err := ap.decode(s.path)
	if err != nil {
		err = errors.Wrapf(ErrAssetLoad, "%s: %v", s.path, err)
		log.WithError(err).Error("vocal clip failed to load")
		ap.errMu.Lock()
		if ap.err == nil {
			ap.err = err
		}
		ap.errMu.Unlock()
		return
	}

	s.buffer = buffer
	s.ready.Store(true)
	log.WithField("samples", buffer.Len()).Debug("vocal clip loaded")

	if ap.pending.Add(-1) == 0 {
		log.Info("all vocal clips loaded")
		close(ap.loaded)
	}
}

func (ap *AudioPlayer) decode(path string) (*beep.Buffer, error) {
	streamer, format, err := ap.load(path)
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	sr := ap.out.SampleRate()
	bufferFormat := format
	bufferFormat.SampleRate = sr

	var src beep.Streamer = streamer
	if format.SampleRate != sr {
		src = beep.Resample(4, format.SampleRate, sr, streamer)
	}

	buffer := beep.NewBuffer(bufferFormat)
	buffer.Append(src)
	if err := streamer.Err(); err != nil {
		return nil, errors.Wrap(err, "error while decoding audio")
	}
	return buffer, nil
}

// Loaded reports whether every clip is ready.
func (ap *AudioPlayer) Loaded() bool {
	select {
	case <-ap.loaded:
		return true
	default:
		return false
	}
}

// Done is closed when every clip is ready. It stays open forever if a clip
// fails to load.
func (ap *AudioPlayer) Done() <-chan struct{} { return ap.loaded }

// Err returns the first load failure.
func (ap *AudioPlayer) Err() error {
	ap.errMu.Lock()
	defer ap.errMu.Unlock()
	return ap.err
}

func (ap *AudioPlayer) SlotReady(index int) bool {
	if index < 0 || index >= len(ap.slots) {
		return false
	}
	return ap.slots[index].ready.Load()
}

func (ap *AudioPlayer) Render(beat int) { ap.PlaySample(beat) }

// PlaySample restarts the clip for beat from its first sample. Beats without
// a ready clip are skipped.
func (ap *AudioPlayer) PlaySample(beat int) {
	if !ap.SlotReady(beat) {
		ap.log.WithField("slot", beat).Debug("playback skipped, clip not ready")
		return
	}
	s := ap.slots[beat]

	ap.out.Lock()
	if s.ctrl != nil {
		s.ctrl.Streamer = nil
	}
	s.ctrl = &beep.Ctrl{Streamer: s.buffer.Streamer(0, s.buffer.Len())}
	ap.out.Unlock()

	ap.out.Play(s.ctrl)
}

// SilenceAll cuts every clip in flight. The next PlaySample starts from the
// top, so this is both pause and rewind.
func (ap *AudioPlayer) SilenceAll() {
	ap.out.Lock()
	defer ap.out.Unlock()
	for _, s := range ap.slots {
		if s.ctrl != nil {
			s.ctrl.Streamer = nil
			s.ctrl = nil
		}
	}
}
