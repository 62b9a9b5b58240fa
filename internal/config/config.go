// Package config loads lectern configuration from a YAML file with
// environment overrides and hot reload on file change.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/lecternhq/lectern/internal/providers"
)

var envRefPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Manager loads configuration and republishes it to subscribers when
// the file changes.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager reads configuration from cfgFile (or the default search
// path when empty) and returns a manager holding the parsed result.
// A missing config file is fine; defaults apply.
func NewManager(cfgFile string) (*Manager, error) {
	defaults := DefaultConfig()
	viper.SetDefault("llm_providers", defaults.LLMProviders)
	viper.SetDefault("defaults", defaults.Defaults)
	viper.SetDefault("policy", defaults.Policy)
	viper.SetDefault("store", defaults.Store)

	viper.SetEnvPrefix("LECTERN")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.lectern")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cm := &Manager{}
	cfg, err := parse()
	if err != nil {
		return nil, err
	}
	cm.config = cfg
	return cm, nil
}

func parse() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration snapshot.
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers fn to run after every successful reload.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig starts watching the config file. On change the file is
// re-parsed; a parse failure keeps the previous configuration.
func (cm *Manager) WatchConfig() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := parse()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		subs := make([]func(*Config), len(cm.callbacks))
		copy(subs, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range subs {
			fn(cfg)
		}
	})
	viper.WatchConfig()
}

// ResolveEnvVars expands ${ENV_VAR} references in value. Unset
// variables expand to the empty string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envRefPattern.ReplaceAllStringFunc(value, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// ToProviderRegistryConfig maps the config's provider section to the
// registry's shape, resolving ${ENV_VAR} references in API keys.
func (c *Config) ToProviderRegistryConfig() providers.RegistryConfig {
	cfg := providers.RegistryConfig{
		LLMProviders: make(map[string]providers.LLMProviderConfig, len(c.LLMProviders)),
		Order:        c.ProviderOrder(),
	}

	for name, llm := range c.LLMProviders {
		cfg.LLMProviders[name] = providers.LLMProviderConfig{
			Type:        llm.Type,
			Model:       llm.Model,
			APIKey:      ResolveEnvVars(llm.APIKey),
			Temperature: llm.Temperature,
			MaxTokens:   llm.MaxTokens,
			Enabled:     llm.Enabled,
		}
	}

	return cfg
}

// WriteDefault writes a commented default config file to path.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Lectern configuration
# API keys use ${ENV_VAR} syntax to reference environment variables
# Set these in your shell: export OPENAI_API_KEY=xxx GEMINI_API_KEY=xxx

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
