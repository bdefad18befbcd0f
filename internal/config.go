package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/yeargoals/internal/calendar"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeJWT      = "jwt"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	SQLite   SQLiteConfig      `yaml:"sqlite"`
	Auth     AuthConfig        `yaml:"auth"`
	Clock    ClockConfig       `yaml:"clock"`
	Calendar CalendarConfig    `yaml:"calendar"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Clock.Validate(); err != nil {
		return err
	}
	return c.Calendar.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	// LogFile, when set, receives a rotated copy of the log stream.
	LogFile string     `yaml:"log_file"`
	HTTP    HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how requests are attributed to users:
//   - "jwt" (default): HS256 session tokens signed with Secret.
//   - "disabled": single-user local mode; every request acts as DevUserID.
type AuthConfig struct {
	Mode      string        `yaml:"mode"`
	Secret    string        `yaml:"secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
	DevUserID string        `yaml:"dev_user_id"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeJWT
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = 7 * 24 * time.Hour
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeJWT)),
		validation.Field(&c.TokenTTL, validation.Min(time.Minute)),
	); err != nil {
		return err
	}
	switch {
	case c.Mode == AuthModeJWT && c.Secret == "":
		return fmt.Errorf("auth: mode is %q but secret is empty", AuthModeJWT)
	case c.Mode == AuthModeDisabled && c.DevUserID == "":
		return fmt.Errorf("auth: mode is %q but dev_user_id is empty", AuthModeDisabled)
	}
	return nil
}

// AuthEnabled returns true when tokens are required.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeJWT
}

// ClockConfig selects the zone that decides where one day ends.
type ClockConfig struct {
	Timezone string `yaml:"timezone"`
}

// Validate validates the clock configuration.
func (c *ClockConfig) Validate() error {
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("clock: unknown timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// CalendarConfig holds the day editing policy.
type CalendarConfig struct {
	Policy string `yaml:"policy"`
}

// Validate validates the calendar configuration.
func (c *CalendarConfig) Validate() error {
	if c.Policy == "" {
		c.Policy = string(calendar.PolicyLocked)
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Policy, validation.In(string(calendar.PolicyLocked), string(calendar.PolicyOpen))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		SQLite: SQLiteConfig{
			Path: "./yeargoals.db",
		},
		Auth: AuthConfig{
			Mode:     AuthModeJWT,
			TokenTTL: 7 * 24 * time.Hour,
		},
		Clock: ClockConfig{
			Timezone: "UTC",
		},
		Calendar: CalendarConfig{
			Policy: string(calendar.PolicyLocked),
		},
	}
}
