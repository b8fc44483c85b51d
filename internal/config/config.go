// Package config loads arbor settings from defaults, a TOML file, the
// environment and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Default values.
const (
	DefaultAddr           = "127.0.0.1:8080"
	DefaultLogLevel       = "info"
	DefaultCreateDebounce = 300 * time.Millisecond
	DefaultServerURL      = "http://127.0.0.1:8080"
)

// Config holds the full configuration for arbor.
type Config struct {
	Store          string        `toml:"store"`
	DBPath         string        `toml:"db"`
	Addr           string        `toml:"addr"`
	AllowedOrigins []string      `toml:"allowed_origins"`
	LogLevel       string        `toml:"log_level"`
	LogFormat      string        `toml:"log_format"`
	CreateDebounce time.Duration `toml:"-"`
	ServerURL      string        `toml:"server"`

	// CreateDebounceMs is the file form of CreateDebounce.
	CreateDebounceMs int `toml:"create_debounce_ms"`
}

// Default returns a Config with every field set to its default.
func Default() *Config {
	dbPath := "arbor.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".arbor", "arbor.db")
	}
	return &Config{
		Store:          StoreSQLite,
		DBPath:         dbPath,
		Addr:           DefaultAddr,
		LogLevel:       DefaultLogLevel,
		LogFormat:      LogFormatText,
		CreateDebounce: DefaultCreateDebounce,
		ServerURL:      DefaultServerURL,
	}
}

// FilePath returns $ARBOR_CONFIG or ~/.arbor/arbor.toml.
func FilePath() string {
	if v := os.Getenv("ARBOR_CONFIG"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arbor", "arbor.toml")
}

// Load applies defaults, then the config file at path (skipped when empty or
// missing), then environment variables. Flags are applied afterwards through
// Flags.Apply.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}
	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if md.IsDefined("create_debounce_ms") {
		cfg.CreateDebounce = time.Duration(cfg.CreateDebounceMs) * time.Millisecond
	}
	return nil
}

// loadFromEnv overrides config from ARBOR_* environment variables.
func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("ARBOR_STORE"); v != "" {
		cfg.Store = v
	}
	if v := os.Getenv("ARBOR_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("ARBOR_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("ARBOR_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("ARBOR_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("ARBOR_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("ARBOR_CREATE_DEBOUNCE_MS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ARBOR_CREATE_DEBOUNCE_MS: %w", err)
		}
		cfg.CreateDebounce = time.Duration(n) * time.Millisecond
	}
	if v := os.Getenv("ARBOR_SERVER"); v != "" {
		cfg.ServerURL = v
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Store {
	case StoreSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("db path is required for the sqlite store"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown store %q (expected %s|%s)", c.Store, StoreSQLite, StoreMemory))
	}
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q (expected %s|%s)", c.LogFormat, LogFormatText, LogFormatJSON))
	}
	if c.CreateDebounce <= 0 {
		errs = append(errs, fmt.Errorf("create debounce must be positive, got %s", c.CreateDebounce))
	}
	return errors.Join(errs...)
}

// Flags holds the flag-bound overrides. Only flags the user actually set are
// applied, so file and environment values survive untouched flags.
type Flags struct {
	fs *pflag.FlagSet

	store          string
	dbPath         string
	addr           string
	allowedOrigins []string
	logLevel       string
	logFormat      string
	createDebounce time.Duration
	serverURL      string
}

// BindFlags registers the global config flags on fs.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.store, "store", StoreSQLite, "storage backend (sqlite|memory)")
	fs.StringVar(&f.dbPath, "db", "", "SQLite database path")
	fs.StringVar(&f.addr, "addr", DefaultAddr, "HTTP listen address")
	fs.StringSliceVar(&f.allowedOrigins, "allowed-origin", nil, "CORS origin allowed to call the API (repeatable)")
	fs.StringVar(&f.logLevel, "log-level", DefaultLogLevel, "log level (debug|info|warn|error)")
	fs.StringVar(&f.logFormat, "log-format", LogFormatText, "log format (text|json)")
	fs.DurationVar(&f.createDebounce, "create-debounce", DefaultCreateDebounce, "quiet period before resyncing after item creations")
	fs.StringVar(&f.serverURL, "server", DefaultServerURL, "arbor server URL for the tui")
	return f
}

// Apply copies every changed flag onto cfg.
func (f *Flags) Apply(cfg *Config) {
	if f == nil || f.fs == nil {
		return
	}
	changed := f.fs.Changed
	if changed("store") {
		cfg.Store = f.store
	}
	if changed("db") {
		cfg.DBPath = f.dbPath
	}
	if changed("addr") {
		cfg.Addr = f.addr
	}
	if changed("allowed-origin") {
		cfg.AllowedOrigins = f.allowedOrigins
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
	if changed("create-debounce") {
		cfg.CreateDebounce = f.createDebounce
	}
	if changed("server") {
		cfg.ServerURL = f.serverURL
	}
}
