package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"deskprefs/internal/common"

	"gopkg.in/yaml.v3"
)

const (
	appName        = "DeskPrefs"
	configFileName = "config.yaml"
	databaseName   = "preferences.sqlite3"

	defaultUpdateURL = "https://api.github.com/repos/deskprefs/deskprefs/releases/latest"
)

// Config holds application configuration
type Config struct {
	AppName        string        `yaml:"-"`
	AppVersion     string        `yaml:"-"`
	AppDataDir     string        `yaml:"data_dir"`
	DatabasePath   string        `yaml:"database_path"`
	UpdateURL      string        `yaml:"update_url"`
	UpdateInterval time.Duration `yaml:"update_interval"`
	UpdateTimeout  time.Duration `yaml:"update_timeout"`
	Logger         *slog.Logger  `yaml:"-"`
}

// New creates a new configuration instance rooted at the platform config
// directory. A config.yaml found there and DESKPREFS_* environment variables
// override the defaults.
func New(version string) *Config {
	return NewWithDataDir(version, "")
}

// NewWithDataDir is New with an explicit data directory; an empty dataDir
// selects the platform default.
func NewWithDataDir(version, dataDir string) *Config {
	cfg := &Config{
		AppName:        appName,
		AppVersion:     version,
		UpdateURL:      defaultUpdateURL,
		UpdateInterval: common.DefaultUpdateInterval,
		UpdateTimeout:  common.DefaultUpdateTimeout,
		Logger:         slog.Default(),
	}

	cfg.AppDataDir = dataDir
	if cfg.AppDataDir == "" {
		cfg.AppDataDir = getAppDataDir()
	}

	if err := cfg.loadFile(cfg.FilePath()); err != nil {
		cfg.Logger.Warn("Could not load config file, using defaults", "error", err)
	}
	cfg.applyEnvOverrides()
	cfg.setupDirectories()

	return cfg
}

func (c *Config) setupDirectories() {
	// Set up app data directory (database, settings)
	if err := os.MkdirAll(c.AppDataDir, common.DefaultDirPermissions); err != nil {
		c.Logger.Error("Failed to create app data directory", "path", c.AppDataDir, "error", err)
	}

	// Database path
	if c.DatabasePath == "" {
		c.DatabasePath = filepath.Join(c.AppDataDir, databaseName)
	}
}

// loadFile overlays values from a YAML file. A missing file is not an error.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// FilePath is the location of config.yaml inside the data directory.
func (c *Config) FilePath() string {
	return filepath.Join(c.AppDataDir, configFileName)
}

// Save writes the file-backed part of the configuration to the data directory.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(c.AppDataDir, common.DefaultDirPermissions); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := c.FilePath()
	if err := os.WriteFile(path, data, common.DefaultFilePermissions); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DESKPREFS_DATABASE_PATH"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("DESKPREFS_UPDATE_URL"); v != "" {
		c.UpdateURL = v
	}
	if v := os.Getenv("DESKPREFS_UPDATE_INTERVAL"); v != "" {
		if d, err := parseDuration(v); err == nil {
			c.UpdateInterval = d
		} else {
			c.Logger.Warn("Could not parse update interval, using default", "value", v, "error", err)
		}
	}
}

// parseDuration accepts Go duration syntax or a bare number of seconds.
func parseDuration(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func getAppDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		homeDir, _ := os.UserHomeDir()
		dir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(dir, appName)
}
