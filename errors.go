package main

import "github.com/pkg/errors"

var (
	// ErrInvalidConfig is returned for a non-positive tempo or beats per measure.
	ErrInvalidConfig = errors.New("invalid metronome config")

	// ErrAssetLoad marks a vocal clip that could not be decoded.
	ErrAssetLoad = errors.New("vocal clip failed to load")

	// ErrAudioNotLoaded refuses a vocal start while clips are still loading.
	ErrAudioNotLoaded = errors.New("vocal clips are not loaded yet")

	ErrAlreadyRunning  = errors.New("metronome is already running")
	ErrSchedulerClosed = errors.New("scheduler is not running")
)
