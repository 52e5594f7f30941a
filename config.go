package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is one named preset in the preset file.
type Config struct {
	Key     string  `yaml:"key"`
	Tempo   float64 `yaml:"tempo"`
	Timesig string  `yaml:"timesig"`
	Mode    *Mode   `yaml:"mode,omitempty"`
}

// ConfigManager reads presets. Presets are edited by hand, the metronome
// never writes them back.
type ConfigManager struct {
	Config     []Config
	ConfigPath string
}

func NewConfigManager(path string) *ConfigManager {
	if path == "" {
		path = filepath.Join(UserHomeDir(), ".clack.yaml")
	}
	return &ConfigManager{ConfigPath: path, Config: []Config{}}
}

// LoadConfig treats a missing or empty file as no presets.
func (cm *ConfigManager) LoadConfig() error {
	data, err := os.ReadFile(cm.ConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "reading presets %s", cm.ConfigPath)
	}
	if len(data) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(data, &cm.Config); err != nil {
		return errors.Wrapf(err, "parsing presets %s", cm.ConfigPath)
	}
	return nil
}

func (cm *ConfigManager) GetConfigByKey(key string) *Config {
	for i := range cm.Config {
		if cm.Config[i].Key == key {
			return &cm.Config[i]
		}
	}
	return nil
}

// Settings is everything main needs to start, after defaults, the selected
// preset and flags are layered.
type Settings struct {
	Tempo     float64
	TimeSig   TimeSignature
	Mode      Mode
	AssetDir  string
	AutoStart bool
	LogLevel  string
}

func DefaultSettings() Settings {
	return Settings{
		Tempo:    120,
		TimeSig:  TimeSignature{4, 4},
		Mode:     Tick,
		AssetDir: "./static",
	}
}

// ApplyPreset overlays the fields a preset sets.
func (s *Settings) ApplyPreset(p *Config) error {
	if p.Tempo != 0 {
		if !ValidTempo(p.Tempo) {
			return fmt.Errorf("preset %q: tempo is not valid make sure its between %v and %v", p.Key, MIN_TEMPO, MAX_TEMPO)
		}
		s.Tempo = p.Tempo
	}
	if p.Timesig != "" {
		ts, err := ValidTimeSig(p.Timesig)
		if err != nil {
			return errors.Wrapf(err, "preset %q", p.Key)
		}
		s.TimeSig = ts
	}
	if p.Mode != nil {
		s.Mode = *p.Mode
	}
	return nil
}

func (s Settings) TempoConfig() TempoConfig {
	return TempoConfig{
		BPM:             s.Tempo,
		Mode:            s.Mode,
		BeatsPerMeasure: s.TimeSig.Beats,
	}
}

// ClipPaths lists the spoken count clips 1..4 in asset dir. Each number may
// be a .wav or an .mp3; .wav wins when both exist.
func (s Settings) ClipPaths() []string {
	paths := make([]string, vocalSlots)
	for i := range paths {
		base := filepath.Join(s.AssetDir, fmt.Sprintf("%d", i+1))
		paths[i] = base + ".mp3"
		if _, err := os.Stat(base + ".wav"); err == nil {
			paths[i] = base + ".wav"
		}
	}
	return paths
}

// ResolveSettings parses args into fs and layers defaults, the selected
// preset and the flags that were actually given, in that order.
func ResolveSettings(fs *flag.FlagSet, args []string) (Settings, error) {
	settings := DefaultSettings()

	var (
		tempo    = fs.Float64("tempo", settings.Tempo, "the speed at which a passage of this metronome should be played")
		timesig  = fs.String("timesig", settings.TimeSig.String(), "indicate how many beats are in each measure (2/4, 3/4 or 4/4)")
		mode     = fs.String("mode", settings.Mode.String(), "tick for a synthesized click, vocal for a spoken count")
		assets   = fs.String("assets", settings.AssetDir, "directory holding the spoken count clips 1..4 (.wav or .mp3)")
		config   = fs.String("config", "", "preset file (default ~/.clack.yaml)")
		preset   = fs.String("preset", "", "name of the preset to load from the preset file")
		logLevel = fs.String("log-level", "", "log level (default warn when interactive, info otherwise)")
		start    = fs.Bool("start", false, "start playing as soon as the sound is ready")
	)
	if err := fs.Parse(args); err != nil {
		return settings, err
	}

	if *preset != "" {
		cm := NewConfigManager(*config)
		if err := cm.LoadConfig(); err != nil {
			return settings, err
		}
		p := cm.GetConfigByKey(*preset)
		if p == nil {
			return settings, fmt.Errorf("`%v` preset not found in %s", *preset, cm.ConfigPath)
		}
		if err := settings.ApplyPreset(p); err != nil {
			return settings, err
		}
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "tempo":
			if !ValidTempo(*tempo) {
				err = fmt.Errorf("tempo is not valid make sure its between %v and %v", MIN_TEMPO, MAX_TEMPO)
				return
			}
			settings.Tempo = *tempo
		case "timesig":
			settings.TimeSig, err = ValidTimeSig(*timesig)
		case "mode":
			settings.Mode, err = ParseMode(*mode)
		case "assets":
			settings.AssetDir = *assets
		}
	})
	if err != nil {
		return settings, err
	}

	settings.AutoStart = *start
	settings.LogLevel = *logLevel
	return settings, nil
}
