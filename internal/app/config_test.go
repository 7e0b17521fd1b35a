package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workbook.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_SIGNING_KEY", "0123456789abcdef")
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.HTTPAddr != ":8000" || cfg.Session.Store != SessionStoreMemory || cfg.Session.TTL != time.Hour {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigEnvWinsOverFile(t *testing.T) {
	path := writeConfig(t, `
http_addr: ":7000"
request_timeout: 5s
db:
  driver: sqlite
  sqlite_path: /tmp/wb.db
session:
  store: memory
  signing_key: from-file-signing-key
  ttl: 2h
`)
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("SESSION_TTL", "45m")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.HTTPAddr != ":9000" {
		t.Fatalf("http addr: want=:9000 got=%s", cfg.HTTPAddr)
	}
	if cfg.Session.TTL != 45*time.Minute {
		t.Fatalf("ttl: want=45m got=%s", cfg.Session.TTL)
	}
	if cfg.RequestTimeout != 5*time.Second || cfg.DB.Driver != "sqlite" || cfg.DB.SQLitePath != "/tmp/wb.db" {
		t.Fatalf("file values lost: %+v", cfg)
	}
	if cfg.Session.SigningKey != "from-file-signing-key" {
		t.Fatalf("signing key: %q", cfg.Session.SigningKey)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	cases := map[string]struct {
		env  map[string]string
		want string
	}{
		"short key":     {env: map[string]string{"SESSION_SIGNING_KEY": "short"}, want: "SESSION_SIGNING_KEY"},
		"redis no addr": {env: map[string]string{"SESSION_SIGNING_KEY": "0123456789abcdef", "SESSION_STORE": "redis"}, want: "REDIS_ADDR"},
		"unknown store": {env: map[string]string{"SESSION_SIGNING_KEY": "0123456789abcdef", "SESSION_STORE": "disk"}, want: "SESSION_STORE"},
		"unknown db":    {env: map[string]string{"SESSION_SIGNING_KEY": "0123456789abcdef", "DB_DRIVER": "mysql"}, want: "DB_DRIVER"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig("")
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("want error mentioning %s, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadConfigLogging(t *testing.T) {
	t.Setenv("SESSION_SIGNING_KEY", "0123456789abcdef")
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if lc := cfg.loggerConfig(); lc.DisableRedaction {
		t.Fatalf("redaction should default on: %+v", lc)
	}

	t.Setenv("LOG_REDACTION_ENABLED", "false")
	t.Setenv("LOG_HASH_SALT", "pepper")
	cfg, err = LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if lc := cfg.loggerConfig(); !lc.DisableRedaction || lc.HashSalt != "pepper" {
		t.Fatalf("env overrides lost: %+v", lc)
	}
}
