package providers

import (
	"testing"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	mock := NewMockClient()

	r.RegisterLLM("mock", mock)

	if !r.HasLLM("mock") {
		t.Error("HasLLM(mock) = false after register")
	}

	client, err := r.GetLLM("mock")
	if err != nil {
		t.Fatalf("GetLLM() error = %v", err)
	}
	if client.Name() != MockClientName {
		t.Errorf("Name() = %s, want %s", client.Name(), MockClientName)
	}

	if _, err := r.GetLLM("missing"); err == nil {
		t.Error("GetLLM(missing) should return error")
	}
}

func TestRegistry_Unregister(t *testing.T) {
	r := NewRegistry()
	r.RegisterLLM("mock", NewMockClient())
	r.UnregisterLLM("mock")

	if r.HasLLM("mock") {
		t.Error("HasLLM(mock) = true after unregister")
	}
}

func TestNewRegistryFromConfig(t *testing.T) {
	cfg := RegistryConfig{
		LLMProviders: map[string]LLMProviderConfig{
			"primary":  {Type: "mock", Enabled: true},
			"disabled": {Type: "mock", Enabled: false},
			"no-key":   {Type: "openai", Enabled: true}, // no API key, skipped
		},
		Order: []string{"primary"},
	}

	r := NewRegistryFromConfig(cfg)

	if !r.HasLLM("primary") {
		t.Error("expected primary to be registered")
	}
	if r.HasLLM("disabled") {
		t.Error("disabled provider should not be registered")
	}
	if r.HasLLM("no-key") {
		t.Error("provider without API key should not be registered")
	}
}

func TestRegistry_Reload(t *testing.T) {
	r := NewRegistryFromConfig(RegistryConfig{
		LLMProviders: map[string]LLMProviderConfig{
			"a": {Type: "mock", Enabled: true},
			"b": {Type: "mock", Enabled: true},
		},
		Order: []string{"a", "b"},
	})

	// b removed, c added
	r.Reload(RegistryConfig{
		LLMProviders: map[string]LLMProviderConfig{
			"a": {Type: "mock", Enabled: true},
			"c": {Type: "mock", Enabled: true},
		},
		Order: []string{"c", "a"},
	})

	if !r.HasLLM("a") {
		t.Error("expected a to survive reload")
	}
	if r.HasLLM("b") {
		t.Error("b should be unregistered after reload")
	}
	if !r.HasLLM("c") {
		t.Error("expected c after reload")
	}

	order := r.Order()
	if len(order) != 2 {
		t.Fatalf("Order() returned %d clients, want 2", len(order))
	}
}

func TestRegistry_OrderSkipsUnregistered(t *testing.T) {
	r := NewRegistryFromConfig(RegistryConfig{
		LLMProviders: map[string]LLMProviderConfig{
			"a": {Type: "mock", Enabled: true},
		},
		Order: []string{"missing", "a"},
	})

	order := r.Order()
	if len(order) != 1 {
		t.Fatalf("Order() returned %d clients, want 1", len(order))
	}
}
