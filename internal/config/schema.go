package config

import "time"

// Config holds lectern configuration.
// Stored at: ~/.lectern/config.yaml
type Config struct {
	LLMProviders map[string]LLMProviderCfg `mapstructure:"llm_providers" yaml:"llm_providers"`
	Defaults     DefaultsCfg               `mapstructure:"defaults" yaml:"defaults"`
	Policy       PolicyCfg                 `mapstructure:"policy" yaml:"policy"`
	Store        StoreCfg                  `mapstructure:"store" yaml:"store"`
}

// LLMProviderCfg configures an LLM provider.
type LLMProviderCfg struct {
	Type        string  `mapstructure:"type" yaml:"type"`               // "openai", "gemini", "mock"
	Model       string  `mapstructure:"model" yaml:"model"`             // Model name
	APIKey      string  `mapstructure:"api_key" yaml:"api_key"`         // API key (supports ${ENV_VAR} syntax)
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"` // Sampling temperature
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens"`   // Completion token cap
	Enabled     bool    `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies default provider selections.
type DefaultsCfg struct {
	LLMProvider   string   `mapstructure:"llm_provider" yaml:"llm_provider"`     // Primary LLM provider
	FallbackOrder []string `mapstructure:"fallback_order" yaml:"fallback_order"` // Providers tried after the primary
}

// PolicyCfg holds generation policy settings.
type PolicyCfg struct {
	// DedupWindow is how recently an identical generation request must have
	// been persisted to be reused instead of regenerated.
	DedupWindow time.Duration `mapstructure:"dedup_window" yaml:"dedup_window"`
	// LLMTimeout bounds a single model call.
	LLMTimeout time.Duration `mapstructure:"llm_timeout" yaml:"llm_timeout"`
	// MaxUploadBytes caps resource file uploads.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`
}

// StoreCfg holds document store container configuration.
type StoreCfg struct {
	// ContainerName is the Docker container name (default: lectern-store)
	ContainerName string `mapstructure:"container_name" yaml:"container_name"`
	// Image is the Docker image to use (default: sourcenetwork/defradb:latest)
	Image string `mapstructure:"image" yaml:"image"`
	// Port is the host port to bind (default: 9181)
	Port string `mapstructure:"port" yaml:"port"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LLMProviders: map[string]LLMProviderCfg{
			"openai": {
				Type:        "openai",
				Model:       "gpt-4o",
				APIKey:      "${OPENAI_API_KEY}",
				Temperature: 0.7,
				MaxTokens:   8192,
				Enabled:     true,
			},
			"gemini": {
				Type:        "gemini",
				Model:       "gemini-2.0-flash",
				APIKey:      "${GEMINI_API_KEY}",
				Temperature: 0.7,
				MaxTokens:   8192,
				Enabled:     false,
			},
		},
		Defaults: DefaultsCfg{
			LLMProvider:   "openai",
			FallbackOrder: []string{"gemini"},
		},
		Policy: PolicyCfg{
			DedupWindow:    5 * time.Minute,
			LLMTimeout:     120 * time.Second,
			MaxUploadBytes: 50 << 20,
		},
		Store: StoreCfg{
			ContainerName: "lectern-store",
			Image:         "sourcenetwork/defradb:latest",
			Port:          "9181",
		},
	}
}

// GetLLMProvider returns an LLM provider config by name.
func (c *Config) GetLLMProvider(name string) (LLMProviderCfg, bool) {
	cfg, ok := c.LLMProviders[name]
	return cfg, ok
}

// EnabledLLMProviders returns all enabled LLM providers.
func (c *Config) EnabledLLMProviders() map[string]LLMProviderCfg {
	result := make(map[string]LLMProviderCfg)
	for name, cfg := range c.LLMProviders {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}

// ProviderOrder returns the primary provider followed by the fallback
// order, with unknown and disabled names dropped.
func (c *Config) ProviderOrder() []string {
	seen := make(map[string]bool)
	var order []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		if cfg, ok := c.LLMProviders[name]; !ok || !cfg.Enabled {
			return
		}
		seen[name] = true
		order = append(order, name)
	}
	add(c.Defaults.LLMProvider)
	for _, name := range c.Defaults.FallbackOrder {
		add(name)
	}
	return order
}
