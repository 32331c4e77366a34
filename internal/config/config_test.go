package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/tilewindow/pkg/cache"
	"github.com/matzehuels/tilewindow/pkg/errors"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("TILEWINDOW_CONFIG", "")
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	d := Default()
	if c.Engine != d.Engine {
		t.Errorf("engine = %+v, want %+v", c.Engine, d.Engine)
	}
	if c.Cache.Backend != BackendFile {
		t.Errorf("backend = %q, want file", c.Cache.Backend)
	}
	if want := filepath.Join(dir, "cache", appName); c.Cache.Dir != want {
		t.Errorf("cache dir = %q, want %q", c.Cache.Dir, want)
	}
	if c.Server.Addr != ":8080" {
		t.Errorf("server addr = %q", c.Server.Addr)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	content := `
[engine]
max_pool_size = 4
tolerance = 1.5

[cache]
backend = "none"
ttl = "2h"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TILEWINDOW_CONFIG", path)
	t.Setenv("TILEWINDOW_ENGINE_MAX_POOL_SIZE", "32")
	t.Setenv("TILEWINDOW_SERVER_ADDR", ":9090")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Engine.MaxPoolSize != 32 {
		t.Errorf("max_pool_size = %d, want env override 32", c.Engine.MaxPoolSize)
	}
	if c.Engine.Tolerance != 1.5 {
		t.Errorf("tolerance = %v, want 1.5 from file", c.Engine.Tolerance)
	}
	if c.Engine.Estimate != Default().Engine.Estimate {
		t.Errorf("estimate = %v, want default", c.Engine.Estimate)
	}
	if c.Cache.Backend != BackendNone {
		t.Errorf("backend = %q, want none", c.Cache.Backend)
	}
	if ttl, _ := c.Cache.TTLDuration(); ttl != 2*time.Hour {
		t.Errorf("ttl = %v, want 2h", ttl)
	}
	if c.Server.Addr != ":9090" {
		t.Errorf("server addr = %q, want :9090", c.Server.Addr)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"bad backend", "[cache]\nbackend = 'memcached'", errors.ErrCodeInvalidConfig},
		{"bad ttl", "[cache]\nttl = 'soon'", errors.ErrCodeInvalidConfig},
		{"negative pool", "[engine]\nmax_pool_size = -1", errors.ErrCodeInvalidConfig},
		{"zero estimate", "[engine]\nestimate = 0.0", errors.ErrCodeInvalidConfig},
		{"bad toml", "[engine", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			t.Setenv("TILEWINDOW_CONFIG", path)
			if _, err := Load(); !errors.Is(err, tt.code) {
				t.Errorf("Load() = %v, want %v", err, tt.code)
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	t.Setenv("TILEWINDOW_CONFIG", filepath.Join(dir, "nope.toml"))
	if _, err := Load(); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() = %v, want FILE_NOT_FOUND", err)
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	dir := isolate(t)
	path := Path()
	if want := filepath.Join(dir, "config", appName, "config.toml"); path != want {
		t.Fatalf("Path() = %q, want %q", path, want)
	}

	if err := WriteDefault(path, false); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	if err := WriteDefault(path, false); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("second WriteDefault = %v, want refusal", err)
	}
	if err := WriteDefault(path, true); err != nil {
		t.Errorf("forced WriteDefault: %v", err)
	}

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c != Default() {
		t.Errorf("round trip = %+v, want defaults", c)
	}
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, Default()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"[engine]", "max_pool_size = 16", "[cache.redis]", "[server]"} {
		if !strings.Contains(out, want) {
			t.Errorf("encoded config missing %q:\n%s", want, out)
		}
	}
}

func TestOpenCache(t *testing.T) {
	isolate(t)
	ctx := context.Background()

	c, err := CacheConfig{Backend: BackendNone}.Open(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("none backend = %T, want *cache.NullCache", c)
	}

	dir := t.TempDir()
	c, err = CacheConfig{Backend: BackendFile, Dir: dir}.Open(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if fc, ok := c.(*cache.FileCache); !ok || fc.Dir() != dir {
		t.Errorf("file backend = %T", c)
	}

	c, _ = CacheConfig{Backend: BackendFile, Dir: dir}.Open(ctx, true)
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("noCache = %T, want *cache.NullCache", c)
	}
}
