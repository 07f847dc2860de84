// Package config handles the XDG configuration directory, the optional
// config.toml inside it, and the settings derived from both.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	// AppName is the application directory name.
	AppName = "tasklists"

	// ConfigFile is the optional settings file in the config directory.
	ConfigFile = "config.toml"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// DefaultStateKey is the storage key the state lives under.
	DefaultStateKey = "todo_lists"

	// DefaultListen is the default HTTP bind address for serve.
	DefaultListen = "127.0.0.1:8765"

	defaultBackend     = "sqlite"
	defaultSaveTimeout = 5 * time.Second
	defaultTimeLayout  = "2006-01-02 15:04:05"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Backend selects the storage medium: sqlite, file or memory.
	Backend string

	// DataPath is the sqlite database file or the file backend directory.
	DataPath string

	// StateKey is the storage key of the persisted state.
	StateKey string

	// SaveTimeout bounds a single save.
	SaveTimeout time.Duration

	// TimestampFormat is the Go time layout for task creation times.
	TimestampFormat string

	// Listen is the HTTP bind address for serve.
	Listen string

	// Logger receives diagnostics. Nil discards them; use Log.
	Logger *slog.Logger
}

type fileConfig struct {
	Backend         string `toml:"backend"`
	DataPath        string `toml:"data_path"`
	StateKey        string `toml:"state_key"`
	SaveTimeout     string `toml:"save_timeout"`
	TimestampFormat string `toml:"timestamp_format"`
	Listen          string `toml:"listen"`
}

// New creates a Config with the default or specified config directory and
// applies config.toml from it when present.
// If configDir is empty, uses XDG_CONFIG_HOME/tasklists or $HOME/.config/tasklists.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	if err := cfg.load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) load() error {
	var raw fileConfig

	file, err := os.Open(c.ConfigPath())
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}

	c.Backend = strings.ToLower(strings.TrimSpace(raw.Backend))
	if c.Backend == "" {
		c.Backend = defaultBackend
	}
	switch c.Backend {
	case "sqlite", "file", "memory":
	default:
		return fmt.Errorf("parse config: unknown backend %q", c.Backend)
	}

	c.DataPath = strings.TrimSpace(raw.DataPath)
	if c.DataPath == "" {
		c.DataPath = c.defaultDataPath()
	} else {
		c.DataPath = expandPath(c.DataPath)
	}

	c.StateKey = strings.TrimSpace(raw.StateKey)
	if c.StateKey == "" {
		c.StateKey = DefaultStateKey
	}

	c.SaveTimeout = defaultSaveTimeout
	if s := strings.TrimSpace(raw.SaveTimeout); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return fmt.Errorf("parse config: invalid save_timeout %q", s)
		}
		c.SaveTimeout = d
	}

	c.TimestampFormat = raw.TimestampFormat
	if strings.TrimSpace(c.TimestampFormat) == "" {
		c.TimestampFormat = defaultTimeLayout
	}

	c.Listen = strings.TrimSpace(raw.Listen)
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	return nil
}

func (c *Config) defaultDataPath() string {
	if c.Backend == "file" {
		return filepath.Join(c.Dir, "state")
	}
	return filepath.Join(c.Dir, AppName+".db")
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// Log returns the configured logger or one that discards everything.
func (c *Config) Log() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// NewLogger builds the stderr logger: debug level when debug is set,
// warnings only otherwise.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ConfigPath returns the path of config.toml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
