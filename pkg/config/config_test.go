package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/partboard/partboard/pkg/errors"
	"github.com/partboard/partboard/pkg/store"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "partboard.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Store.Backend != BackendMemory {
		t.Errorf("backend = %q", cfg.Store.Backend)
	}
	if cfg.Render.Template != "card" {
		t.Errorf("template = %q", cfg.Render.Template)
	}

	// Missing files also fall back to defaults.
	cfg, err = Load("/no/such/partboard.toml")
	if err != nil {
		t.Fatalf("Load(missing): %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":9000"
read_timeout = "5s"

[store]
backend = "redis"
redis_addr = "redis.internal:6379"

[cache]
enabled = true
ttl = "1h"

[render]
template = "badge"
detailed = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout.Duration() != 5*time.Second {
		t.Errorf("read_timeout = %v", cfg.Server.ReadTimeout.Duration())
	}
	// Unset fields keep their defaults.
	if cfg.Server.WriteTimeout.Duration() != 30*time.Second {
		t.Errorf("write_timeout = %v", cfg.Server.WriteTimeout.Duration())
	}
	if cfg.Store.Backend != BackendRedis || cfg.Store.RedisAddr != "redis.internal:6379" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL.Duration() != time.Hour {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Render.Template != "badge" || !cfg.Render.Detailed {
		t.Errorf("render = %+v", cfg.Render)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
[server]
adress = ":9000"
`)
	_, err := Load(path)
	if errors.GetCode(err) != errors.ErrCodeInvalidConfig {
		t.Errorf("error = %v, want invalid config code", err)
	}
}

func TestLoadRejectsBadBackend(t *testing.T) {
	path := writeConfig(t, `
[store]
backend = "cassandra"
`)
	_, err := Load(path)
	if errors.GetCode(err) != errors.ErrCodeInvalidConfig {
		t.Errorf("error = %v, want invalid config code", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PARTBOARD_REDIS_PASSWORD", "hunter2")
	t.Setenv("PARTBOARD_MONGO_URI", "mongodb://db.internal:27017")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store.RedisPassword != "hunter2" {
		t.Errorf("redis password = %q", cfg.Store.RedisPassword)
	}
	if cfg.Store.MongoURI != "mongodb://db.internal:27017" {
		t.Errorf("mongo uri = %q", cfg.Store.MongoURI)
	}

	path := writeConfig(t, `
[store]
backend = "redis"
redis_password = "from-file"
`)
	cfg, err = Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store.RedisPassword != "hunter2" {
		t.Errorf("env did not win over file: %q", cfg.Store.RedisPassword)
	}
}

func TestOpenStoreLocalBackends(t *testing.T) {
	ctx := context.Background()

	mem, err := StoreConfig{Backend: BackendMemory}.OpenStore(ctx)
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	defer mem.Close(ctx)
	if _, ok := mem.(*store.MemoryStore); !ok {
		t.Errorf("memory backend = %T", mem)
	}

	fs, err := StoreConfig{Backend: BackendFile, Dir: t.TempDir()}.OpenStore(ctx)
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	defer fs.Close(ctx)
	if _, ok := fs.(*store.FileStore); !ok {
		t.Errorf("file backend = %T", fs)
	}
}

func TestOpenCache(t *testing.T) {
	c, err := CacheConfig{}.OpenCache()
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if _, _, err := c.Get(context.Background(), "k"); err != nil {
		t.Errorf("null cache Get: %v", err)
	}

	fc, err := CacheConfig{Enabled: true, Dir: t.TempDir()}.OpenCache()
	if err != nil {
		t.Fatal(err)
	}
	defer fc.Close()
}
