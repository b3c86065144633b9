package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %q", cfg.Server.Addr)
	}
	if cfg.DB.Path != "inventory.sqlite3" {
		t.Errorf("expected default db path, got %q", cfg.DB.Path)
	}
	if cfg.Auth.RateLimitPerMin != 30 {
		t.Errorf("expected default rate limit 30, got %d", cfg.Auth.RateLimitPerMin)
	}
	if cfg.Client.Timeout != 15*time.Second {
		t.Errorf("expected default timeout 15s, got %s", cfg.Client.Timeout)
	}
}

func TestFileEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := "server:\n  addr: \":9000\"\ndb:\n  path: from-file.sqlite3\nclient:\n  server: http://example.test/\n"
	if err := os.WriteFile(filepath.Join(dir, "inventory.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("INVENTORY_DB_PATH", "from-env.sqlite3")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("log-level", "info", "")
	if err := fs.Parse([]string{"--log-level", "debug"}); err != nil {
		t.Fatal(err)
	}

	l := NewLoader()
	if err := l.BindFlag("log.level", fs.Lookup("log-level")); err != nil {
		t.Fatalf("BindFlag: %v", err)
	}

	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != ":9000" {
		t.Errorf("expected addr from file, got %q", cfg.Server.Addr)
	}
	if cfg.DB.Path != "from-env.sqlite3" {
		t.Errorf("expected env to override file, got %q", cfg.DB.Path)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected flag value, got %q", cfg.Log.Level)
	}
	if cfg.Client.Server != "http://example.test" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.Client.Server)
	}
}

func TestBindMissingFlag(t *testing.T) {
	if err := NewLoader().BindFlag("x", nil); err == nil {
		t.Error("expected error binding a nil flag")
	}
}

func TestTrustedProxies(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Server.TrustedProxies) != 0 {
		t.Errorf("expected no trusted proxies by default, got %v", cfg.Server.TrustedProxies)
	}

	yaml := "server:\n  trusted_proxies:\n    - 10.0.0.0/8\n    - 192.0.2.1\n"
	if err := os.WriteFile(filepath.Join(dir, "inventory.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = NewLoader().Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.Server.TrustedProxies; len(got) != 2 || got[0] != "10.0.0.0/8" || got[1] != "192.0.2.1" {
		t.Errorf("unexpected proxies from file: %v", got)
	}

	t.Setenv("INVENTORY_SERVER_TRUSTED_PROXIES", "172.16.0.0/12, 127.0.0.1")
	cfg, err = NewLoader().Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.Server.TrustedProxies; len(got) != 2 || got[0] != "172.16.0.0/12" || got[1] != "127.0.0.1" {
		t.Errorf("unexpected proxies from env: %v", got)
	}
}
