package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for settings read from the environment,
// e.g. MYWORK_POLL_INTERVAL=30s.
const EnvPrefix = "MYWORK"

// Settings are the tunable values of the application.
type Settings struct {
	// LogLevel is the minimum level written to stderr.
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// PollInterval is how often watch and board request a refresh.
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"gte=5s"`

	// APITimeout bounds each call to the remote service.
	APITimeout time.Duration `mapstructure:"api_timeout" validate:"gt=0s"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		LogLevel:     "warn",
		PollInterval: time.Minute,
		APITimeout:   10 * time.Second,
	}
}

// LoadSettings loads settings from dir/config.yaml and the environment.
// Environment variables take precedence over the file. A missing file is
// not an error.
func LoadSettings(dir string) (*Settings, error) {
	v := viper.New()

	defaults := DefaultSettings()
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("poll_interval", defaults.PollInterval)
	v.SetDefault("api_timeout", defaults.APITimeout)

	v.SetConfigName(strings.TrimSuffix(SettingsFile, ".yaml"))
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read %s: %w", SettingsFile, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	s.LogLevel = strings.ToLower(strings.TrimSpace(s.LogLevel))

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the settings against their constraints.
func (s Settings) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (got %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid settings: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}
