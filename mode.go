package main

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mode selects how a beat is rendered.
type Mode int

const (
	// Tick renders a synthesized click.
	Tick Mode = iota
	// Vocal plays the spoken count clip for the beat.
	Vocal
)

func (m Mode) String() string {
	switch m {
	case Tick:
		return "tick"
	case Vocal:
		return "vocal"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tick":
		return Tick, nil
	case "vocal":
		return Vocal, nil
	}
	return Tick, fmt.Errorf("unknown mode %q, expected tick or vocal", s)
}

// UnmarshalYAML lets presets spell the mode as a word.
func (m *Mode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
