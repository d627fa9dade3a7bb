// Package config loads arena settings from the environment, optionally
// seeded from .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/discochess/arena/internal/provider"
)

// Store backends.
const (
	StoreDisk   = "disk"
	StoreMemory = "memory"
	StoreS3     = "s3"
	StoreGCS    = "gcs"
)

// DefaultDataDir is where game records go when nothing else is configured.
const DefaultDataDir = "./data/games"

// Config holds process-wide settings.
type Config struct {
	Port int

	// Store selects the persistence backend.
	Store   string
	DataDir string

	// Bucket and Prefix locate records for s3 and gcs.
	Bucket      string
	Prefix      string
	S3Region    string
	S3Endpoint  string
	GCSEndpoint string

	// Codec compresses records: none, gzip or zstd.
	Codec string

	// CacheSize is the number of finished records kept in memory; 0 disables the cache.
	CacheSize int

	Metrics   bool
	StaticDir string

	// Providers holds credentials, endpoints and models per provider kind.
	Providers map[string]provider.Defaults
}

// Load reads .env files (missing files are ignored) and then the process
// environment. Variables already set in the environment take precedence.
// With no files given, ./.env is tried.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from a variable lookup function.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := &Config{
		Store:       strings.ToLower(get("ARENA_STORE", StoreDisk)),
		DataDir:     get("ARENA_DATA_DIR", DefaultDataDir),
		Bucket:      get("ARENA_BUCKET", ""),
		Prefix:      get("ARENA_PREFIX", ""),
		S3Region:    get("ARENA_S3_REGION", ""),
		S3Endpoint:  get("ARENA_S3_ENDPOINT", ""),
		GCSEndpoint: get("ARENA_GCS_ENDPOINT", ""),
		Codec:       strings.ToLower(get("ARENA_CODEC", "none")),
		StaticDir:   get("ARENA_STATIC_DIR", ""),
		Providers:   provider.Builtin(),
	}

	var err error
	if cfg.Port, err = strconv.Atoi(get("PORT", "3000")); err != nil {
		return nil, fmt.Errorf("parsing PORT: %w", err)
	}
	if cfg.CacheSize, err = strconv.Atoi(get("ARENA_CACHE_SIZE", "128")); err != nil {
		return nil, fmt.Errorf("parsing ARENA_CACHE_SIZE: %w", err)
	}
	if cfg.Metrics, err = strconv.ParseBool(get("ARENA_METRICS", "true")); err != nil {
		return nil, fmt.Errorf("parsing ARENA_METRICS: %w", err)
	}

	for kind, prefix := range map[string]string{
		provider.KindOpenAI:    "OPENAI",
		provider.KindAnthropic: "ANTHROPIC",
		provider.KindGemini:    "GEMINI",
	} {
		d := cfg.Providers[kind]
		d.APIKey = get(prefix+"_API_KEY", d.APIKey)
		d.BaseURL = get(prefix+"_BASE_URL", d.BaseURL)
		d.Model = get(prefix+"_MODEL", d.Model)
		cfg.Providers[kind] = d
	}

	return cfg, cfg.Validate()
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreDisk:
		if c.DataDir == "" {
			return errors.New("config: disk store needs ARENA_DATA_DIR")
		}
	case StoreMemory:
	case StoreS3, StoreGCS:
		if c.Bucket == "" {
			return fmt.Errorf("config: %s store needs ARENA_BUCKET", c.Store)
		}
	default:
		return fmt.Errorf("config: unknown store %q", c.Store)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Port)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("config: negative cache size %d", c.CacheSize)
	}
	return nil
}
