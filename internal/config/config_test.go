package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.LLMProviders) == 0 {
		t.Error("expected default LLM providers")
	}
	openai, ok := cfg.GetLLMProvider("openai")
	if !ok {
		t.Fatal("expected openai provider")
	}
	if openai.APIKey != "${OPENAI_API_KEY}" {
		t.Error("expected openai API key placeholder")
	}
	if !openai.Enabled {
		t.Error("expected openai enabled by default")
	}
	if cfg.Policy.DedupWindow != 5*time.Minute {
		t.Errorf("DedupWindow = %v, want 5m", cfg.Policy.DedupWindow)
	}
	if cfg.Policy.LLMTimeout != 120*time.Second {
		t.Errorf("LLMTimeout = %v, want 120s", cfg.Policy.LLMTimeout)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		os.Setenv("TEST_API_KEY", "secret123")
		defer os.Unsetenv("TEST_API_KEY")

		result := ResolveEnvVars("${TEST_API_KEY}")
		if result != "secret123" {
			t.Errorf("expected secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestProviderOrder(t *testing.T) {
	cfg := &Config{
		LLMProviders: map[string]LLMProviderCfg{
			"openai": {Type: "openai", Enabled: true},
			"gemini": {Type: "gemini", Enabled: true},
			"off":    {Type: "mock", Enabled: false},
		},
		Defaults: DefaultsCfg{
			LLMProvider:   "openai",
			FallbackOrder: []string{"gemini", "off", "openai", "unknown"},
		},
	}

	order := cfg.ProviderOrder()
	if len(order) != 2 {
		t.Fatalf("ProviderOrder() = %v, want 2 entries", order)
	}
	if order[0] != "openai" || order[1] != "gemini" {
		t.Errorf("ProviderOrder() = %v, want [openai gemini]", order)
	}
}

func TestToProviderRegistryConfig(t *testing.T) {
	os.Setenv("TEST_OPENAI_KEY", "sk-test-123")
	defer os.Unsetenv("TEST_OPENAI_KEY")

	cfg := &Config{
		LLMProviders: map[string]LLMProviderCfg{
			"openai": {
				Type:    "openai",
				Model:   "gpt-4o",
				APIKey:  "${TEST_OPENAI_KEY}",
				Enabled: true,
			},
		},
		Defaults: DefaultsCfg{LLMProvider: "openai"},
	}

	rc := cfg.ToProviderRegistryConfig()
	p, ok := rc.LLMProviders["openai"]
	if !ok {
		t.Fatal("expected openai in registry config")
	}
	if p.APIKey != "sk-test-123" {
		t.Errorf("APIKey = %s, want resolved env value", p.APIKey)
	}
	if len(rc.Order) != 1 || rc.Order[0] != "openai" {
		t.Errorf("Order = %v, want [openai]", rc.Order)
	}
}

func TestNewManager(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
llm_providers:
  custom:
    type: openai
    model: gpt-4o-mini
    enabled: true
policy:
  dedup_window: 2m
`
	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	cfg := mgr.Get()
	custom, ok := cfg.GetLLMProvider("custom")
	if !ok {
		t.Fatal("expected custom provider from file")
	}
	if custom.Model != "gpt-4o-mini" {
		t.Errorf("Model = %s, want gpt-4o-mini", custom.Model)
	}
	if cfg.Policy.DedupWindow != 2*time.Minute {
		t.Errorf("DedupWindow = %v, want 2m", cfg.Policy.DedupWindow)
	}
}

func TestWriteDefault(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written config: %v", err)
	}
	if len(data) == 0 {
		t.Error("written config is empty")
	}
}
