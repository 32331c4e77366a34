// Package config loads tilewindow settings from a TOML file and the
// environment.
//
// The file lives at $TILEWINDOW_CONFIG, or config.toml under the XDG config
// directory. Every key can be overridden by an environment variable with
// the TILEWINDOW_ prefix and dots replaced by underscores, e.g.
// TILEWINDOW_CACHE_BACKEND=redis.
package config

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/matzehuels/tilewindow/pkg/cache"
	"github.com/matzehuels/tilewindow/pkg/errors"
	"github.com/matzehuels/tilewindow/pkg/layoutcache"
	"github.com/matzehuels/tilewindow/pkg/panel"
	"github.com/matzehuels/tilewindow/pkg/realize"
)

const appName = "tilewindow"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config holds application configuration.
type Config struct {
	Engine EngineConfig `mapstructure:"engine" toml:"engine"`
	Cache  CacheConfig  `mapstructure:"cache" toml:"cache"`
	Server ServerConfig `mapstructure:"server" toml:"server"`
}

// EngineConfig holds the layout engine tuning knobs.
type EngineConfig struct {
	// MaxPoolSize is the idle containers kept per kind; 0 disables recycling.
	MaxPoolSize int     `mapstructure:"max_pool_size" toml:"max_pool_size"`
	Tolerance   float64 `mapstructure:"tolerance" toml:"tolerance"`
	Estimate    float64 `mapstructure:"estimate" toml:"estimate"`
}

// CacheConfig selects and configures the snapshot cache.
type CacheConfig struct {
	Backend string      `mapstructure:"backend" toml:"backend"`
	TTL     string      `mapstructure:"ttl" toml:"ttl"`
	Dir     string      `mapstructure:"dir" toml:"dir"`
	Redis   RedisConfig `mapstructure:"redis" toml:"redis"`
	Mongo   MongoConfig `mapstructure:"mongo" toml:"mongo"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" toml:"addr"`
	Password string `mapstructure:"password" toml:"password"`
	DB       int    `mapstructure:"db" toml:"db"`
	Prefix   string `mapstructure:"prefix" toml:"prefix"`
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI        string `mapstructure:"uri" toml:"uri"`
	Database   string `mapstructure:"database" toml:"database"`
	Collection string `mapstructure:"collection" toml:"collection"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr" toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			MaxPoolSize: realize.DefaultMaxPoolSize,
			Tolerance:   panel.DefaultTolerance,
			Estimate:    layoutcache.DefaultEstimate,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     cache.TTLSnapshot.String(),
			Dir:     CacheDir(),
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: appName + ":"},
			Mongo: MongoConfig{
				URI:        "mongodb://localhost:27017",
				Database:   appName,
				Collection: "snapshots",
			},
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load reads configuration from file and env. Env var overrides use prefix TILEWINDOW_.
// A missing default config file is not an error; a missing file named by
// TILEWINDOW_CONFIG is.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	explicit := os.Getenv("TILEWINDOW_CONFIG")
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.AddConfigPath(ConfigDir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TILEWINDOW")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case explicit == "" && stderrors.As(err, &notFound):
		case explicit != "" && stderrors.Is(err, fs.ErrNotExist):
			return Config{}, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", explicit)
		default:
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "unmarshal config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("engine.max_pool_size", d.Engine.MaxPoolSize)
	v.SetDefault("engine.tolerance", d.Engine.Tolerance)
	v.SetDefault("engine.estimate", d.Engine.Estimate)
	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.redis.addr", d.Cache.Redis.Addr)
	v.SetDefault("cache.redis.password", d.Cache.Redis.Password)
	v.SetDefault("cache.redis.db", d.Cache.Redis.DB)
	v.SetDefault("cache.redis.prefix", d.Cache.Redis.Prefix)
	v.SetDefault("cache.mongo.uri", d.Cache.Mongo.URI)
	v.SetDefault("cache.mongo.database", d.Cache.Mongo.Database)
	v.SetDefault("cache.mongo.collection", d.Cache.Mongo.Collection)
	v.SetDefault("server.addr", d.Server.Addr)
}

// Validate checks value ranges and the backend name.
func (c Config) Validate() error {
	if c.Engine.MaxPoolSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "engine.max_pool_size cannot be negative")
	}
	if c.Engine.Tolerance < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "engine.tolerance cannot be negative")
	}
	if c.Engine.Estimate <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "engine.estimate must be positive")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendMongo, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache.backend %q (want file, redis, mongo or none)", c.Cache.Backend)
	}
	if _, err := c.Cache.TTLDuration(); err != nil {
		return err
	}
	return nil
}

// TTLDuration parses the cache TTL. An empty TTL means no expiry.
func (c CacheConfig) TTLDuration() (time.Duration, error) {
	if c.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil || d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "invalid cache.ttl %q", c.TTL)
	}
	return d, nil
}

// Open connects the configured backend. noCache forces a NullCache.
func (c CacheConfig) Open(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			Prefix:   c.Redis.Prefix,
		})
	case BackendMongo:
		return cache.NewMongoCache(ctx, cache.MongoOptions{
			URI:        c.Mongo.URI,
			Database:   c.Mongo.Database,
			Collection: c.Mongo.Collection,
		})
	default:
		dir := c.Dir
		if dir == "" {
			dir = CacheDir()
		}
		return cache.NewFileCache(dir)
	}
}

// Encode writes c as TOML.
func Encode(w io.Writer, c Config) error {
	return toml.NewEncoder(w).Encode(c)
}

// WriteDefault writes the default configuration to path. An existing file
// is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	if err := Encode(f, Default()); err != nil {
		f.Close()
		return fmt.Errorf("write config: %w", err)
	}
	return f.Close()
}

// Path returns the config file location.
func Path() string {
	if p := os.Getenv("TILEWINDOW_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(ConfigDir(), "config.toml")
}

// ConfigDir returns the config directory using the XDG standard (~/.config/tilewindow/).
func ConfigDir() string {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// CacheDir returns the cache directory using the XDG standard (~/.cache/tilewindow/).
func CacheDir() string {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", appName)
}
