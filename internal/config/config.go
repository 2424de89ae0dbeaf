// Package config handles the XDG configuration directory, file paths and
// user settings.
package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// AppName is the application directory name.
	AppName = "mywork"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// SettingsFile is the optional settings filename.
	SettingsFile = "config.yaml"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Settings are the values loaded from SettingsFile and the environment.
	Settings Settings

	// Logger is the command's logger. Never nil after dispatch.
	Logger *slog.Logger
}

// ErrCredentials marks a failure to read or parse the stored OAuth client
// or token. Match it with errors.Is.
var ErrCredentials = errors.New("credentials unavailable")

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/mywork or $HOME/.config/mywork.
// Settings start at their defaults; call LoadSettings to read overrides.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:      dir,
		Settings: DefaultSettings(),
		Logger:   slog.Default(),
	}, nil
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

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// SettingsPath returns the path to the settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
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

// LoadSettings reads SettingsFile (if present) and MYWORK_* environment
// variables into c.Settings.
func (c *Config) LoadSettings() error {
	s, err := LoadSettings(c.Dir)
	if err != nil {
		return err
	}
	c.Settings = *s
	return nil
}
