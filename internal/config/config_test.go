package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validYAML = `
server:
  host: "0.0.0.0"
  port: 8080
database:
  host: localhost
  port: 5432
  name: corevia
  user: corevia
  password: secret
auth:
  api_key: test-key
tailscale:
  enabled: false
save:
  timeout_seconds: 5
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// TestLoadValid verifies a complete config file parses with all
// sections populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "corevia" {
		t.Errorf("database.name = %q, want corevia", cfg.Database.Name)
	}
	if cfg.Auth.APIKey != "test-key" {
		t.Errorf("auth.api_key = %q, want test-key", cfg.Auth.APIKey)
	}
	if cfg.Save.Timeout() != 5*time.Second {
		t.Errorf("save timeout = %v, want 5s", cfg.Save.Timeout())
	}
}

// TestEnvOverride verifies COREVIA_* environment variables take
// precedence over file values.
func TestEnvOverride(t *testing.T) {
	t.Setenv("COREVIA_DB_HOST", "db.internal")
	t.Setenv("COREVIA_DB_PORT", "5433")
	t.Setenv("COREVIA_AUTH_API_KEY", "env-key")
	t.Setenv("COREVIA_SAVE_TIMEOUT_SECONDS", "30")

	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Database.Host != "db.internal" || cfg.Database.Port != 5433 {
		t.Errorf("database = %s:%d, want db.internal:5433", cfg.Database.Host, cfg.Database.Port)
	}
	if cfg.Auth.APIKey != "env-key" {
		t.Errorf("auth.api_key = %q, want env-key", cfg.Auth.APIKey)
	}
	if cfg.Save.Timeout() != 30*time.Second {
		t.Errorf("save timeout = %v, want 30s", cfg.Save.Timeout())
	}
}

// TestValidation verifies the required-field checks.
func TestValidation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{"missing port", func(c string) string { return strings.Replace(c, "port: 8080", "port: 0", 1) }, "server.port"},
		{"missing db host", func(c string) string { return strings.Replace(c, "host: localhost", `host: ""`, 1) }, "database.host"},
		{"missing api key", func(c string) string { return strings.Replace(c, "api_key: test-key", `api_key: ""`, 1) }, "auth.api_key"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.mutate(validYAML)))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %v, want mention of %s", err, tc.wantErr)
			}
		})
	}
}

// TestTailscaleValidation verifies the hostname requirement and that an
// enabled tailnet listener makes server.port optional.
func TestTailscaleValidation(t *testing.T) {
	noPort := strings.Replace(validYAML, "port: 8080", "port: 0", 1)

	enabled := strings.Replace(noPort, "enabled: false", "enabled: true\n  hostname: corevia", 1)
	if _, err := Load(writeConfig(t, enabled)); err != nil {
		t.Errorf("tailscale with hostname: %v", err)
	}

	noHostname := strings.Replace(noPort, "enabled: false", "enabled: true", 1)
	if _, err := Load(writeConfig(t, noHostname)); err == nil {
		t.Error("expected error for tailscale without hostname")
	}
}

// TestSaveTimeoutDefault verifies the fallback when the section is
// absent or zero.
func TestSaveTimeoutDefault(t *testing.T) {
	var s SaveConfig
	if s.Timeout() != 10*time.Second {
		t.Errorf("default timeout = %v, want 10s", s.Timeout())
	}
}

// TestLoadMissingFile verifies a readable error for a bad path.
func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

// TestDSN verifies the connection string format and the sslmode
// default.
func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "localhost", Port: 5432, Name: "corevia", User: "app", Password: "pw"}
	want := "postgres://app:pw@localhost:5432/corevia?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}

	d.SSLMode = "require"
	if got := d.DSN(); !strings.HasSuffix(got, "sslmode=require") {
		t.Errorf("DSN = %q, want sslmode=require suffix", got)
	}
}
