package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Fatalf("default config should validate, got %v", errors.Join(errs...))
	}
	if cfg.Auth.SessionTTL != 720*time.Hour {
		t.Errorf("session ttl = %s, want 720h", cfg.Auth.SessionTTL)
	}
	if cfg.Feed.MaxItems != 200 {
		t.Errorf("feed max items = %d, want 200", cfg.Feed.MaxItems)
	}
}

func TestLoadYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gateway.yaml")
	yaml := `
server:
  listen_addr: ":9090"
database:
  driver: rqlite
  dsn: http://localhost:4001
feed:
  max_items: 50
auth:
  session_ttl: 1h
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.ListenAddr != ":9090" || cfg.Database.Driver != "rqlite" || cfg.Feed.MaxItems != 50 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Auth.SessionTTL != time.Hour {
		t.Fatalf("session ttl = %s", cfg.Auth.SessionTTL)
	}
	// untouched sections keep defaults
	if cfg.Auth.NonceTTL != 5*time.Minute {
		t.Fatalf("nonce ttl = %s", cfg.Auth.NonceTTL)
	}

	env := map[string]string{
		EnvListenAddr: ":7070",
		EnvLogLevel:   "debug",
		EnvDBDSN:      "  ",
	}
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if cfg.Server.ListenAddr != ":7070" || cfg.Logging.Level != "debug" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.Database.DSN != "http://localhost:4001" {
		t.Fatalf("blank env value should not override: %q", cfg.Database.DSN)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server:\n  listen_adr: \":1\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantPath string
	}{
		{"bad driver", func(c *Config) { c.Database.Driver = "postgres" }, "database.driver"},
		{"rqlite needs url", func(c *Config) { c.Database.Driver = "rqlite"; c.Database.DSN = "./x.db" }, "database.dsn"},
		{"bad listen addr", func(c *Config) { c.Server.ListenAddr = "8080" }, "server.listen_addr"},
		{"zero feed", func(c *Config) { c.Feed.MaxItems = 0 }, "feed.max_items"},
		{"missing key file", func(c *Config) { c.Auth.SigningKeyPath = "/nonexistent/key.pem" }, "auth.signing_key_path"},
		{"media without bucket", func(c *Config) {
			c.Media.Enabled = true
			c.Media.PublicBaseURL = "https://cdn.example.com"
		}, "media.bucket"},
		{"media half credentials", func(c *Config) {
			c.Media.Enabled = true
			c.Media.Bucket = "b"
			c.Media.PublicBaseURL = "https://cdn.example.com"
			c.Media.AccessKey = "AKIA"
		}, "media.access_key"},
		{"https without domain", func(c *Config) { c.Server.HTTPS.Enabled = true }, "server.https.domain"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			errs := cfg.Validate()
			if len(errs) == 0 {
				t.Fatal("expected validation errors")
			}
			found := false
			for _, err := range errs {
				var ve ValidationError
				if errors.As(err, &ve) && ve.Path == tt.wantPath {
					found = true
				}
			}
			if !found {
				t.Fatalf("no error for %s in %v", tt.wantPath, errors.Join(errs...))
			}
		})
	}
}

func TestValidationErrorFormat(t *testing.T) {
	err := ValidationError{Path: "a.b", Message: "bad", Hint: "fix it"}
	if !strings.Contains(err.Error(), "a.b: bad; fix it") {
		t.Fatalf("unexpected format %q", err.Error())
	}
}
