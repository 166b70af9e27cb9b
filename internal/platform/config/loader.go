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

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SIGNALVIZ_CONFIG is set
//  3. env (prefix SIGNALVIZ_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("SIGNALVIZ_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: SIGNALVIZ_ADDR, SIGNALVIZ_MONGO_URI, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("SIGNALVIZ_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "signalviz_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.MongoURI == "" && cfg.DataFile == "" {
		return nil, errors.New("either mongo_uri or data_file must be set")
	}
	return &cfg, nil
}
