package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("MODEL", "")
	t.Setenv("BACKEND", "")
	t.Setenv("BACKEND_URL", "")
	t.Setenv("OUTPUT_DIR", "")
	t.Setenv("MAX_TOKENS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Model != "anthropic/claude-3.5-sonnet" {
		t.Errorf("default model = %q", cfg.Model)
	}
	if cfg.Backend != "openrouter" {
		t.Errorf("default backend = %q", cfg.Backend)
	}
	if cfg.OutputDir != "output" {
		t.Errorf("default output dir = %q", cfg.OutputDir)
	}
	if cfg.MaxTokens != 8000 {
		t.Errorf("default max tokens = %d", cfg.MaxTokens)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-or-test")
	t.Setenv("MODEL", "qwen2.5-vl")
	t.Setenv("BACKEND", "ollama")
	t.Setenv("BACKEND_URL", "http://localhost:11434")
	t.Setenv("OUTPUT_DIR", "annotated")
	t.Setenv("MAX_TOKENS", "4096")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.APIKey != "sk-or-test" {
		t.Errorf("api key = %q", cfg.APIKey)
	}
	if cfg.Model != "qwen2.5-vl" {
		t.Errorf("model = %q", cfg.Model)
	}
	if cfg.Backend != "ollama" {
		t.Errorf("backend = %q", cfg.Backend)
	}
	if cfg.URL != "http://localhost:11434" {
		t.Errorf("url = %q", cfg.URL)
	}
	if cfg.OutputDir != "annotated" {
		t.Errorf("output dir = %q", cfg.OutputDir)
	}
	if cfg.MaxTokens != 4096 {
		t.Errorf("max tokens = %d", cfg.MaxTokens)
	}
}

func TestLoadInvalidMaxTokens(t *testing.T) {
	t.Setenv("MAX_TOKENS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MaxTokens != 8000 {
		t.Errorf("invalid MAX_TOKENS should keep the default, got %d", cfg.MaxTokens)
	}
}
