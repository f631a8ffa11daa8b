// Package config reads the server settings from an optional TOML file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrMissingPort is returned when PORT is not set.
var ErrMissingPort = errors.New("PORT environment variable is not set")

// Config holds everything the server needs at startup.
type Config struct {
	Port       string
	StaticDir  string
	LogLevel   slog.Level
	RateLimit  RateLimit
	// TrustProxy takes the client IP from X-Forwarded-For and friends.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy bool
}

// RateLimit bounds how many writes a client may issue per window.
// Requests of 0 disables limiting.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

type file struct {
	StaticDir  string `toml:"static_dir"`
	LogLevel   string `toml:"log_level"`
	TrustProxy *bool  `toml:"trust_proxy"`
	RateLimit  struct {
		Requests *int   `toml:"requests"`
		Window   string `toml:"window"`
	} `toml:"rate_limit"`
}

// Default returns the settings used when neither file nor environment say
// otherwise. Port has no fallback and write limiting is off.
func Default() Config {
	return Config{
		StaticDir: "static",
		LogLevel:  slog.LevelInfo,
		RateLimit: RateLimit{
			Requests: 0,
			Window:   time.Minute,
		},
	}
}

// Load decodes the TOML file at path, if it exists, and then applies
// environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		var f file
		_, err := toml.DecodeFile(path, &f)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("failed to decode configuration file: %w", err)
		default:
			if err := cfg.applyFile(f); err != nil {
				return Config{}, err
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if cfg.Port == "" {
		return Config{}, ErrMissingPort
	}

	return cfg, nil
}

func (c *Config) applyFile(f file) error {
	if f.StaticDir != "" {
		c.StaticDir = f.StaticDir
	}
	if f.LogLevel != "" {
		if err := c.LogLevel.UnmarshalText([]byte(f.LogLevel)); err != nil {
			return fmt.Errorf("invalid log_level %q: %w", f.LogLevel, err)
		}
	}
	if f.TrustProxy != nil {
		c.TrustProxy = *f.TrustProxy
	}
	if f.RateLimit.Requests != nil {
		c.RateLimit.Requests = *f.RateLimit.Requests
	}
	if f.RateLimit.Window != "" {
		d, err := time.ParseDuration(f.RateLimit.Window)
		if err != nil {
			return fmt.Errorf("invalid rate_limit.window %q: %w", f.RateLimit.Window, err)
		}
		c.RateLimit.Window = d
	}

	return nil
}

func (c *Config) applyEnv() error {
	c.Port = os.Getenv("PORT")

	if dir := os.Getenv("STATIC_DIR"); dir != "" {
		c.StaticDir = dir
	}

	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if err := c.LogLevel.UnmarshalText([]byte(lvl)); err != nil {
			return fmt.Errorf("invalid LOG_LEVEL %q: %w", lvl, err)
		}
	}

	if trust := os.Getenv("TRUST_PROXY"); trust != "" {
		b, err := strconv.ParseBool(trust)
		if err != nil {
			return fmt.Errorf("invalid TRUST_PROXY %q: %w", trust, err)
		}
		c.TrustProxy = b
	}

	if req := os.Getenv("RATE_LIMIT_REQUESTS"); req != "" {
		n, err := strconv.Atoi(req)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid RATE_LIMIT_REQUESTS %q", req)
		}
		c.RateLimit.Requests = n
	}

	if win := os.Getenv("RATE_LIMIT_WINDOW"); win != "" {
		d, err := time.ParseDuration(win)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_WINDOW %q: %w", win, err)
		}
		c.RateLimit.Window = d
	}

	if c.RateLimit.Requests > 0 && c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit window must be positive, got %s", c.RateLimit.Window)
	}

	return nil
}
