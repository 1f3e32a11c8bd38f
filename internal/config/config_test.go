package config

import (
	"os"
	"path/filepath"
	"testing"
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
database:
  driver: mysql
  host: localhost
  port: 3306
  user: app
  password: secret
  name: pretest
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.OpenAI.Model != "gpt-4o" || cfg.OpenAI.TranscribeModel != "whisper-1" {
		t.Fatalf("model defaults not applied: %+v", cfg.OpenAI)
	}
	if cfg.Media.WorkerLimit != 8 || cfg.Media.MaxPayloadMB != 15 {
		t.Fatalf("media defaults not applied: %+v", cfg.Media)
	}
}

func TestLoadReadsAPIKeyFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	cfg, err := Load(writeConfig(t, "server:\n  port: 9000\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OpenAI.APIKey != "sk-from-env" {
		t.Fatalf("api key = %q, want env fallback", cfg.OpenAI.APIKey)
	}
	if cfg.Server.Port != 9000 {
		t.Fatalf("port = %d, want 9000", cfg.Server.Port)
	}
}

func TestDSNBuilders(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Host = "db"
	cfg.Database.Port = 5432
	cfg.Database.User = "app"
	cfg.Database.Password = "pw"
	cfg.Database.Name = "pretest"

	if got := cfg.PostgresDSN(); got != "host=db port=5432 user=app password=pw dbname=pretest sslmode=disable" {
		t.Fatalf("postgres dsn = %q", got)
	}
	mysql := cfg.MySQLDSN()
	if mysql != "app:pw@tcp(db:5432)/pretest?parseTime=true&charset=utf8mb4&loc=UTC" {
		t.Fatalf("mysql dsn = %q", mysql)
	}
}
