package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadConfigDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	config, err := loadConfig(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr: %q", config.Server.Addr)
	}
	if config.AI.Timeout != 30*time.Second {
		t.Fatalf("unexpected ai timeout: %s", config.AI.Timeout)
	}
	if config.AI.Gemini.Model != "gemini-2.0-flash" {
		t.Fatalf("unexpected model: %q", config.AI.Gemini.Model)
	}
	if config.Matching.Concurrency != 4 || config.Matching.BatchSize != 1 {
		t.Fatalf("unexpected matching config: %+v", config.Matching)
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")

	raw := `
server:
  addr: ":9090"
  read-timeout: 5s
database:
  dsn: postgres://localhost/jobboard
  max-conns: 3
ai:
  language: english
  gemini:
    model: gemini-1.5-pro
    temperature: 0
matching:
  batch-size: 5
  hide-applied: true
  exclude-companies:
    - Acme
`
	if err := v.ReadConfig(strings.NewReader(raw)); err != nil {
		t.Fatalf("read config: %v", err)
	}

	config, err := loadConfig(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.Server.Addr != ":9090" || config.Server.ReadTimeout != 5*time.Second {
		t.Fatalf("unexpected server config: %+v", config.Server)
	}
	if config.Database.MaxConns != 3 || config.Database.DSN != "postgres://localhost/jobboard" {
		t.Fatalf("unexpected database config: %+v", config.Database)
	}
	if config.AI.Language != "english" || config.AI.Gemini.Model != "gemini-1.5-pro" {
		t.Fatalf("unexpected ai config: %+v", config.AI)
	}
	if config.AI.Gemini.Temperature == nil || *config.AI.Gemini.Temperature != 0 {
		t.Fatalf("expected explicit zero temperature to survive, got %v", config.AI.Gemini.Temperature)
	}
	if config.AI.Gemini.TopP != nil {
		t.Fatalf("expected unset top-p to stay nil, got %v", *config.AI.Gemini.TopP)
	}
	if !config.Matching.HideApplied || config.Matching.BatchSize != 5 || len(config.Matching.ExcludeCompanies) != 1 {
		t.Fatalf("unexpected matching config: %+v", config.Matching)
	}
}

func TestRedactedConfigHidesSecrets(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("database.dsn", "postgres://user:secret@db/jobboard")
	v.Set("ai.gemini.api-key", "AIza-secret")

	config, err := loadConfig(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := redactedConfig(config)
	if strings.Contains(out, "secret") {
		t.Fatalf("secrets leaked into debug output: %s", out)
	}
	if config.Database.DSN == "***" {
		t.Fatal("redaction must not modify the original config")
	}
}
