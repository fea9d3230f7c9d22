package config

import (
	"os"
	"path/filepath"
	"testing"
)

const baseYAML = `environment: development
market_data:
  provider: fake
ai:
  api_key: ""
pipeline:
  prompt_version: v1
  symbols:
    - BTC-USD
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadRequiresAPIKey(t *testing.T) {
	_, err := Load(writeConfig(t, baseYAML))
	if err == nil {
		t.Fatalf("expected validation error for empty api key")
	}
}

func TestLoadWithEnvAPIKeyOverrideBeforeValidation(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test-key")

	c, err := LoadWithEnv(writeConfig(t, baseYAML))
	if err != nil {
		t.Fatalf("load with env: %v", err)
	}
	if c.AI.APIKey != "sk-test-key" {
		t.Fatalf("unexpected api key %q", c.AI.APIKey)
	}
}

func TestLoadWithEnvStillValidates(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test-key")
	t.Setenv("MARKET_DATA_PROVIDER", "bloomberg")

	if _, err := LoadWithEnv(writeConfig(t, baseYAML)); err == nil {
		t.Fatalf("expected validation error for unknown provider")
	}
}

func TestLoadWithEnvSymbolsSplit(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test-key")
	t.Setenv("SYMBOLS", "BTC-USD,ETH-USD,SOL-USD")

	c, err := LoadWithEnv(writeConfig(t, baseYAML))
	if err != nil {
		t.Fatalf("load with env: %v", err)
	}
	if len(c.Pipeline.Symbols) != 3 || c.Pipeline.Symbols[2] != "SOL-USD" {
		t.Fatalf("unexpected symbols %v", c.Pipeline.Symbols)
	}
}
