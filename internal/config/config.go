// Package config loads the service configuration from a TOML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/youruser/mockupapp/internal/compositor"
	"github.com/youruser/mockupapp/internal/errs"
)

// DefaultFile is read when no path is given and it exists.
const DefaultFile = "mockup.toml"

// Output sink kinds.
const (
	SinkFile  = "file"
	SinkRedis = "redis"
)

type Config struct {
	Server ServerConfig          `toml:"server"`
	Log    LogConfig             `toml:"log"`
	Render RenderConfig          `toml:"render"`
	Images ImagesConfig          `toml:"images"`
	Output OutputConfig          `toml:"output"`
	Fonts  []compositor.FontFile `toml:"font"`
}

type ServerConfig struct {
	Port string `toml:"port"`
	// Mode is the gin mode: debug, release or test.
	Mode string `toml:"mode"`
	// MaxBodyBytes limits request bodies.
	MaxBodyBytes int64 `toml:"max_body_bytes"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type RenderConfig struct {
	Width         int     `toml:"width"`
	Multiplier    float64 `toml:"multiplier"`
	Workers       int     `toml:"workers"`
	MaxPixels     int64   `toml:"max_pixels"`
	Interpolation string  `toml:"interpolation"`
	Recompress    bool    `toml:"recompress"`
}

type ImagesConfig struct {
	UploadDir    string        `toml:"upload_dir"`
	LocalRoot    string        `toml:"local_root"`
	AssetBaseURL string        `toml:"asset_base_url"`
	ScratchDir   string        `toml:"scratch_dir"`
	Timeout      time.Duration `toml:"timeout"`
	MinBytes     int           `toml:"min_bytes"`
	MaxBytes     int64         `toml:"max_bytes"`
}

type OutputConfig struct {
	Kind        string        `toml:"kind"`
	Dir         string        `toml:"dir"`
	RedisAddr   string        `toml:"redis_addr"`
	RedisPrefix string        `toml:"redis_prefix"`
	RedisTTL    time.Duration `toml:"redis_ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{Port: "8080", Mode: "release", MaxBodyBytes: 10 << 20},
		Log:    LogConfig{Level: "info"},
		Render: RenderConfig{
			Multiplier:    compositor.DefaultMultiplier,
			Workers:       compositor.DefaultWorkers,
			MaxPixels:     compositor.DefaultMaxPixels,
			Interpolation: "catmullrom",
		},
		Images: ImagesConfig{
			UploadDir: "uploads",
			Timeout:   10 * time.Second,
			MinBytes:  4,
			MaxBytes:  50 << 20,
		},
		Output: OutputConfig{Kind: SinkFile, Dir: "outputs", RedisPrefix: "mockup:"},
	}
}

// Load reads path over the defaults and applies environment overrides. An
// empty path falls back to $MOCKUP_CONFIG, then to DefaultFile if present.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("MOCKUP_CONFIG")
	}
	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, errs.Wrap(errs.CodeInvalidInput, err, "config file %s", path)
		}
		if err != nil {
			return cfg, errs.Wrap(errs.CodeInvalidInput, err, "parse config %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, errs.New(errs.CodeInvalidInput, "config %s: unknown keys %v", path, undecoded)
		}
	}
	cfg.applyEnv(os.Getenv)
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := getenv("MOCKUP_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Output.RedisAddr = v
		c.Output.Kind = SinkRedis
	}
}

// Validate checks values that would otherwise fail deep inside a render.
func (c Config) Validate() error {
	switch c.Output.Kind {
	case SinkFile:
		if c.Output.Dir == "" {
			return errs.New(errs.CodeInvalidInput, "output.dir is required for the file sink")
		}
	case SinkRedis:
		if c.Output.RedisAddr == "" {
			return errs.New(errs.CodeInvalidInput, "output.redis_addr is required for the redis sink")
		}
	default:
		return errs.New(errs.CodeInvalidInput, "unknown output.kind %q", c.Output.Kind)
	}
	if c.Render.Width < 0 || c.Render.Multiplier < 0 {
		return errs.New(errs.CodeInvalidInput, "render width and multiplier must not be negative")
	}
	for _, f := range c.Fonts {
		if f.Family == "" || f.Path == "" {
			return errs.New(errs.CodeInvalidInput, "font entries need a family and a path")
		}
	}
	return nil
}

// String is a short summary for startup logs.
func (c Config) String() string {
	return fmt.Sprintf("port=%s output=%s width=%d multiplier=%g", c.Server.Port, c.Output.Kind, c.Render.Width, c.Render.Multiplier)
}
