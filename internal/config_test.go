package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pkgconfig "github.com/starford/yeargoals/pkg/config"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", DevUserID: "local"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_DisabledModeNeedsUser(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("disabled mode without dev_user_id should fail")
	}
	if !strings.Contains(err.Error(), "dev_user_id is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_EmptyModeDefaultsJWT(t *testing.T) {
	cfg := AuthConfig{Secret: "s"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to jwt: %v", err)
	}
	if cfg.Mode != AuthModeJWT {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeJWT)
	}
	if cfg.TokenTTL != 7*24*time.Hour {
		t.Errorf("token ttl = %v", cfg.TokenTTL)
	}
}

func TestAuthConfig_JWTModeEmptySecret(t *testing.T) {
	cfg := AuthConfig{Mode: "jwt"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("jwt mode with empty secret should fail")
	}
	if !strings.Contains(err.Error(), "secret is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Secret: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestAuthConfig_TTLTooShort(t *testing.T) {
	cfg := AuthConfig{Mode: "jwt", Secret: "x", TokenTTL: time.Second}
	if err := cfg.Validate(); err == nil {
		t.Fatal("sub-minute ttl should fail validation")
	}
}

func TestClockConfig(t *testing.T) {
	cfg := ClockConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty timezone should default to UTC: %v", err)
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("timezone = %q", cfg.Timezone)
	}
	bad := ClockConfig{Timezone: "Mars/Olympus"}
	if err := bad.Validate(); err == nil {
		t.Fatal("unknown timezone should fail")
	}
}

func TestCalendarConfig(t *testing.T) {
	cfg := CalendarConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty policy should default: %v", err)
	}
	if cfg.Policy != "locked" {
		t.Errorf("policy = %q", cfg.Policy)
	}
	bad := CalendarConfig{Policy: "anything-goes"}
	if err := bad.Validate(); err == nil {
		t.Fatal("unknown policy should fail")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Secret = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("YEARGOALS_TEST_SECRET", "from-env")
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
app:
  log_level: debug
  http:
    port: 9090
sqlite:
  path: /tmp/yg.db
auth:
  mode: jwt
  secret: ${YEARGOALS_TEST_SECRET}
  token_ttl: 24h
clock:
  timezone: Europe/Berlin
calendar:
  policy: open
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.LogLevel != slog.LevelDebug {
		t.Errorf("log level = %v", cfg.App.LogLevel)
	}
	if cfg.App.HTTP.Address() != ":9090" {
		t.Errorf("address = %q", cfg.App.HTTP.Address())
	}
	if cfg.Auth.Secret != "from-env" {
		t.Errorf("secret = %q, want env expansion", cfg.Auth.Secret)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("ttl = %v", cfg.Auth.TokenTTL)
	}
	if cfg.Clock.Timezone != "Europe/Berlin" || cfg.Calendar.Policy != "open" {
		t.Errorf("clock/calendar = %+v %+v", cfg.Clock, cfg.Calendar)
	}
}
