package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment key, e.g. JOBMATCH_ADDR.
	EnvPrefix = "JOBMATCH_"
	// EnvConfigFile names an optional YAML file.
	EnvConfigFile = "JOBMATCH_CONFIG"
)

// Load builds a Config by layering, low to high precedence:
//  1. defaults (New)
//  2. the YAML file named by JOBMATCH_CONFIG, if set
//  3. JOBMATCH_* environment variables
//
// List values such as skill_vocabulary may be given in env as comma
// separated strings.
func Load(_ context.Context) (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// JOBMATCH_QUEUE_SIZE -> queue_size; keys stay flat.
	envProvider := env.ProviderWithValue(EnvPrefix, ".", envValue)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}
	// The file location itself is not a config key.
	k.Delete("config")

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// listKeys are the keys whose env values are comma separated lists.
var listKeys = map[string]bool{ //nolint:gochecknoglobals // read-only lookup
	"skill_vocabulary": true,
}

// envValue maps JOBMATCH_FOO_BAR to foo_bar and splits list values.
func envValue(name, value string) (string, any) {
	key := strings.TrimPrefix(strings.ToLower(name), strings.ToLower(EnvPrefix))
	if !listKeys[key] {
		return key, value
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return key, out
}
