package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/telematixsw/uhjstream/internal/uhj"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Optional YAML configuration for the encoder CLI and the
 *		device backend: speaker-map overrides and device-name
 *		preferences that can't be expressed on the command line
 *		alone (spec Non-goal "no session management" still leaves
 *		room for a one-shot, load-at-startup settings file).
 *
 *----------------------------------------------------------------*/

// Config is the top-level shape of encoder.yaml / backend.yaml.
type Config struct {
	// Layout forces every input file to the named speaker layout instead
	// of auto-detecting it, mirroring the encoder CLI's -layout flag;
	// empty means auto-detect.
	Layout string `yaml:"layout"`

	// PreferredSink and PreferredSource override the backend's default
	// device selection with an exact device name match, taking priority
	// over the server's own reported default.
	PreferredSink   string `yaml:"preferred_sink"`
	PreferredSource string `yaml:"preferred_source"`

	// StatsIntervalSeconds configures periodic stream-stats logging;
	// 0 (or absent) keeps the backend's default interval, and a negative
	// value disables it.
	StatsIntervalSeconds int `yaml:"stats_interval_seconds"`
}

// Load reads and parses a YAML config file at path. A missing file is not
// an error; Load returns the zero Config so callers can treat "no config"
// and "default config" identically.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, errors.Wrap(err, "config: read")
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "config: parse")
	}
	return cfg, nil
}

// ResolveLayout parses Config.Layout into a uhj.Layout, returning ok=false
// if Layout is empty (meaning: don't override auto-detection) or names an
// unrecognized layout.
func (c Config) ResolveLayout() (layout uhj.Layout, ok bool) {
	if c.Layout == "" {
		return 0, false
	}
	for _, l := range uhj.AllLayouts {
		if l.String() == c.Layout {
			return l, true
		}
	}
	return 0, false
}
