// Package config loads the server configuration.
// It follows a settings pattern similar to app/settings/service.go:
// start from hardcoded defaults, overlay whatever keys are present in an
// on-disk YAML file, then overlay environment variables. Omitted keys never
// zero out a default because the overlay unmarshals into a generic map and
// only touches keys that are actually present.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ResultCache holds the ResultCache knobs.
type ResultCache struct {
	TTLMs int `yaml:"ttlMs"`
	MaxEntries int `yaml:"maxEntries"`
	SweepMs int `yaml:"sweepMs"`
}

// Query holds the QueryPlanner knobs.
type Query struct {
	DeadlineMs int `yaml:"deadlineMs"`
	MaxResultsBestPerHotel int `yaml:"maxResultsBestPerHotel"`
	MaxResultsPerHotel int `yaml:"maxResultsPerHotel"`
}

// Ingest holds the Ingestor knobs.
type Ingest struct {
	ChunkBytes int `yaml:"chunkBytes"`
	Workers int `yaml:"workers"`
	SkipErrors bool `yaml:"skipErrors"`
}

// Paths holds the two source file locations.
type Paths struct {
	Hotels string `yaml:"hotels"`
	Offers string `yaml:"offers"`
}

// Config is the full, resolved server configuration.
type Config struct {
	MaxOffers int `yaml:"maxOffers"`
	MaxHotels int `yaml:"maxHotels"`
	ResultCache ResultCache `yaml:"resultCache"`
	Query Query `yaml:"query"`
	Ingest Ingest `yaml:"ingest"`
	Paths Paths `yaml:"paths"`

	// ListenAddr is not part of the domain configuration itself but the
	// surface adapter still needs somewhere to bind.
	ListenAddr string `yaml:"listenAddr"`
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		MaxOffers: 100_000_000,
		MaxHotels: 300_000,
		ResultCache: ResultCache{
			TTLMs: 300_000,
			MaxEntries: 10_000,
			SweepMs: 60_000,
		},
		Query: Query{
			DeadlineMs: 5_000,
			MaxResultsBestPerHotel: 100,
			MaxResultsPerHotel: 1_000,
		},
		Ingest: Ingest{
			ChunkBytes: 4 << 20,
			Workers: 4,
			SkipErrors: true,
		},
		ListenAddr: ":8080",
	}
}

// Load overlays path (if non-empty and present) and then the environment on
// top of Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := overlayFile(&cfg, path); err != nil {
			return cfg, err
		}
	}
	overlayEnv(&cfg)
	return cfg, nil
}

func overlayFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "reading config file %s", path)
	}

	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return errors.Wrapf(err, "parsing config file %s", path)
	}

	if v, ok := intIn(m, "maxOffers"); ok {
		cfg.MaxOffers = v
	}
	if v, ok := intIn(m, "maxHotels"); ok {
		cfg.MaxHotels = v
	}
	if sub, ok := mapIn(m, "resultCache"); ok {
		if v, ok := intIn(sub, "ttlMs"); ok {
			cfg.ResultCache.TTLMs = v
		}
		if v, ok := intIn(sub, "maxEntries"); ok {
			cfg.ResultCache.MaxEntries = v
		}
		if v, ok := intIn(sub, "sweepMs"); ok {
			cfg.ResultCache.SweepMs = v
		}
	}
	if sub, ok := mapIn(m, "query"); ok {
		if v, ok := intIn(sub, "deadlineMs"); ok {
			cfg.Query.DeadlineMs = v
		}
		if v, ok := intIn(sub, "maxResultsBestPerHotel"); ok {
			cfg.Query.MaxResultsBestPerHotel = v
		}
		if v, ok := intIn(sub, "maxResultsPerHotel"); ok {
			cfg.Query.MaxResultsPerHotel = v
		}
	}
	if sub, ok := mapIn(m, "ingest"); ok {
		if v, ok := intIn(sub, "chunkBytes"); ok {
			cfg.Ingest.ChunkBytes = v
		}
		if v, ok := intIn(sub, "workers"); ok {
			cfg.Ingest.Workers = v
		}
		if v, ok := boolIn(sub, "skipErrors"); ok {
			cfg.Ingest.SkipErrors = v
		}
	}
	if sub, ok := mapIn(m, "paths"); ok {
		if v, ok := strIn(sub, "hotels"); ok {
			cfg.Paths.Hotels = v
		}
		if v, ok := strIn(sub, "offers"); ok {
			cfg.Paths.Offers = v
		}
	}
	if v, ok := strIn(m, "listenAddr"); ok {
		cfg.ListenAddr = v
	}
	return nil
}

// overlayEnv applies HF_-prefixed environment overrides, the deployment
// mechanism a headless service uses in place of a desktop app's settings
// dialog writing back to the same YAML file it read.
func overlayEnv(cfg *Config) {
	if v, ok := envInt("HF_MAX_OFFERS"); ok {
		cfg.MaxOffers = v
	}
	if v, ok := envInt("HF_MAX_HOTELS"); ok {
		cfg.MaxHotels = v
	}
	if v, ok := envInt("HF_RESULT_CACHE_TTL_MS"); ok {
		cfg.ResultCache.TTLMs = v
	}
	if v, ok := envInt("HF_RESULT_CACHE_MAX_ENTRIES"); ok {
		cfg.ResultCache.MaxEntries = v
	}
	if v, ok := envInt("HF_QUERY_DEADLINE_MS"); ok {
		cfg.Query.DeadlineMs = v
	}
	if v, ok := envInt("HF_INGEST_WORKERS"); ok {
		cfg.Ingest.Workers = v
	}
	if v := os.Getenv("HF_PATHS_HOTELS"); v != "" {
		cfg.Paths.Hotels = v
	}
	if v := os.Getenv("HF_PATHS_OFFERS"); v != "" {
		cfg.Paths.Offers = v
	}
	if v := os.Getenv("HF_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
}

func envInt(name string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func mapIn(m map[string]any, key string) (map[string]any, bool) {
	v, ok := m[key]
	if !ok {
		return nil, false
	}
	sub, ok := v.(map[string]any)
	return sub, ok
}

func intIn(m map[string]any, key string) (int, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}

func boolIn(m map[string]any, key string) (bool, bool) {
	v, ok := m[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

func strIn(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
