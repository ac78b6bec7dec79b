package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/totegamma/familyone/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  postgresDsn: "host=db user=postgres"
  redisAddr: "redis:6379"
backup:
  appVersion: "2.3.0"
`)

	config, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if config.Server.Listen != DefaultListen || config.Server.LogLevel != DefaultLogLevel {
		t.Fatalf("unexpected server defaults %+v", config.Server)
	}
	if config.Server.RedisAddr != "redis:6379" {
		t.Fatalf("expected redis addr got %s", config.Server.RedisAddr)
	}
	if config.Backup.AppVersion != "2.3.0" || config.Backup.MaxEdge != domain.DefaultMaxEdge {
		t.Fatalf("unexpected backup config %+v", config.Backup)
	}
}

func TestLoadRequiresDsn(t *testing.T) {
	if _, err := Load(writeConfig(t, "server:\n  listen: \":9000\"\n")); err == nil {
		t.Fatalf("expected error without postgresDsn")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
