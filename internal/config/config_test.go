package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestConfig(t *testing.T, raw string) string {
	t.Helper()
	tmp := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(tmp, []byte(raw), 0644); err != nil {
		t.Fatalf("write tmp config: %v", err)
	}
	return tmp
}

func TestLoadConfig_Valid(t *testing.T) {
	ResetConfigForTest()
	tmp := writeTestConfig(t, `{
		"server": {
			"host": "localhost",
			"port": 8080,
			"subpath": "/askwiki"
		},
		"search": {
			"api_key": "search-key",
			"engine_id": "engine-id"
		},
		"openai": {
			"api_key": "openai-key"
		},
		"pipeline": {
			"paragraphs": 3,
			"strict_selection": true
		}
	}`)

	cfg, err := LoadConfig(tmp)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Pipeline.Paragraphs != 3 || !cfg.Pipeline.StrictSelection {
		t.Errorf("unexpected pipeline config: %+v", cfg.Pipeline)
	}
	// defaults
	if cfg.Search.TimeoutSeconds != 100 {
		t.Errorf("expected default search timeout 100, got %d", cfg.Search.TimeoutSeconds)
	}
	if cfg.OpenAI.Model != "text-davinci-003" {
		t.Errorf("expected default model, got %q", cfg.OpenAI.Model)
	}
	if cfg.OpenAI.MaxTokens != 600 || cfg.OpenAI.BestOf != 3 {
		t.Errorf("unexpected openai defaults: %+v", cfg.OpenAI)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	ResetConfigForTest()
	_, err := LoadConfig("no_such_config.json")
	if err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	ResetConfigForTest()
	tmp := writeTestConfig(t, `{this is not json}`)
	_, err := LoadConfig(tmp)
	if err == nil {
		t.Errorf("expected error for malformed JSON")
	}
}

func TestLoadConfig_MissingSecrets(t *testing.T) {
	ResetConfigForTest()
	tmp := writeTestConfig(t, `{
		"search": {"api_key": "k"},
		"openai": {"api_key": "k"}
	}`)
	_, err := LoadConfig(tmp)
	if err == nil {
		t.Errorf("expected error for missing engine_id")
	}
}
