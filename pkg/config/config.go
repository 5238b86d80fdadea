// Package config loads partboard configuration from TOML files.
//
// Configuration covers the HTTP server, the document store backend, the
// artifact cache, and render defaults. Everything has a working default,
// so a missing config file is not an error: the CLI and server run with
// an in-memory store and caching disabled.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/partboard/partboard/pkg/errors"
)

// Store backend names accepted by [StoreConfig.Backend].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config is the root configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
	Cache  CacheConfig  `toml:"cache"`
	Render RenderConfig `toml:"render"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  duration `toml:"read_timeout"`
	WriteTimeout duration `toml:"write_timeout"`
}

// StoreConfig selects and configures the document store backend.
type StoreConfig struct {
	Backend string `toml:"backend"`

	// File backend
	Dir string `toml:"dir"`

	// Redis backend
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	// Mongo backend
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// CacheConfig configures the render artifact cache.
type CacheConfig struct {
	Enabled bool     `toml:"enabled"`
	Dir     string   `toml:"dir"`
	TTL     duration `toml:"ttl"`
}

// RenderConfig sets render defaults.
type RenderConfig struct {
	Template string `toml:"template"`
	Detailed bool   `toml:"detailed"`
}

// duration wraps time.Duration for TOML string values like "30s".
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

// Duration returns the wrapped time.Duration.
func (d duration) Duration() time.Duration { return time.Duration(d) }

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  duration(10 * time.Second),
			WriteTimeout: duration(30 * time.Second),
		},
		Store: StoreConfig{
			Backend:         BackendMemory,
			RedisAddr:       "localhost:6379",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   "partboard",
			MongoCollection: "documents",
		},
		Cache: CacheConfig{
			TTL: duration(24 * time.Hour),
		},
		Render: RenderConfig{
			Template: "card",
		},
	}
}

// Load reads a TOML config file, layered over [Default]. An empty path or
// a missing file returns the defaults. Unknown keys are an error, so
// typos fail loudly instead of being silently ignored. The
// PARTBOARD_REDIS_PASSWORD and PARTBOARD_MONGO_URI environment variables
// override their file counterparts.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		cfg.applyEnv()
		return cfg, nil
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		cfg.applyEnv()
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig,
			"unknown config key %q in %s", undecoded[0].String(), path)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides connection secrets from the environment, so they
// never need to live in a config file on disk.
func (c *Config) applyEnv() {
	if v := os.Getenv("PARTBOARD_REDIS_PASSWORD"); v != "" {
		c.Store.RedisPassword = v
	}
	if v := os.Getenv("PARTBOARD_MONGO_URI"); v != "" {
		c.Store.MongoURI = v
	}
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"unknown store backend %q", c.Store.Backend)
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server addr must not be empty")
	}
	return nil
}
