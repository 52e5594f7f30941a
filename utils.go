package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
)

// Read decodes a .wav or .mp3 clip, picked by extension.
func Read(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, errors.Wrap(err, "reading audio file failed")
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	default:
		streamer, format, err = wav.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, errors.Wrap(err, "error while decoding audio")
	}

	return streamer, format, nil
}

func ValidTempo(input float64) bool {
	return input >= MIN_TEMPO && input <= MAX_TEMPO
}

func ClampTempo(input float64) float64 {
	if input < MIN_TEMPO {
		return MIN_TEMPO
	}
	if input > MAX_TEMPO {
		return MAX_TEMPO
	}
	return input
}

func ValidTimeSig(input string) (TimeSignature, error) {
	parts := strings.Split(input, "/")
	if len(parts) != 2 {
		return TimeSignature{}, errors.New("invalid time signature format")
	}

	beats, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	noteValue, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return TimeSignature{}, errors.New("invalid number in time signature")
	}

	for _, ts := range TIME_SIGNATURES {
		if ts.Beats == beats && ts.NoteValue == noteValue {
			return ts, nil
		}
	}

	return TimeSignature{}, errors.New("time signature not found")
}

// TimeSigForBeats finds the supported signature with the given beat count.
func TimeSigForBeats(beats int) (TimeSignature, bool) {
	for _, ts := range TIME_SIGNATURES {
		if ts.Beats == beats {
			return ts, true
		}
	}
	return TimeSignature{}, false
}

func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}
