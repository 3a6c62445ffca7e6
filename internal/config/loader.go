package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional YAML file, and env
// vars. Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML): the path argument, or NFLMETRICS_CONFIG if path is empty
//  3. env: prefix NFLMETRICS_, lowercased with the prefix stripped. A
//     double underscore separates nesting levels, e.g.
//     NFLMETRICS_ANALYSIS__ALPHA overrides analysis.alpha.
func Load(path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv("NFLMETRICS_CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	envProvider := env.Provider("NFLMETRICS_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "NFLMETRICS_"))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Features.Temporal.ReactionWindow < 1 {
		return errors.New("features.temporal.reaction_window must be >= 1")
	}
	if cfg.Features.Spatial.FieldWidth <= 0 {
		return errors.New("features.spatial.field_width must be positive")
	}
	if cfg.Separation.TightRadius > cfg.Separation.LooseRadius {
		return errors.New("separation.tight_radius must not exceed loose_radius")
	}
	if cfg.Analysis.Alpha <= 0 || cfg.Analysis.Alpha >= 1 {
		return errors.New("analysis.alpha must be in (0,1)")
	}
	if len(cfg.Separation.EligiblePositions) == 0 {
		return errors.New("separation.eligible_positions must not be empty")
	}
	return nil
}
