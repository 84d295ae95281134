// Package config loads and hot-reloads copyforge configuration via
// viper: defaults, then config.yaml, then COPYFORGE_ environment
// variables.
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
)

// Config is the full copyforge configuration.
type Config struct {
	// CatalogPath points at the content catalog YAML. Empty means the
	// embedded seed catalog.
	CatalogPath string `mapstructure:"catalog_path" yaml:"catalog_path"`

	// TemplatesDir holds user asset templates overlaying the built-ins.
	TemplatesDir string `mapstructure:"templates_dir" yaml:"templates_dir"`

	// WatchCatalog enables hot reload of the catalog file.
	WatchCatalog bool `mapstructure:"watch_catalog" yaml:"watch_catalog"`

	// Variables are default substitution values (price, product, ...)
	// merged under per-request variables. Values may reference
	// environment variables with ${ENV_VAR} syntax.
	Variables map[string]string `mapstructure:"variables" yaml:"variables"`

	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string) error {
	defaults := DefaultConfig()
	viper.SetDefault("catalog_path", defaults.CatalogPath)
	viper.SetDefault("templates_dir", defaults.TemplatesDir)
	viper.SetDefault("watch_catalog", defaults.WatchCatalog)
	viper.SetDefault("variables", defaults.Variables)
	viper.SetDefault("server", defaults.Server)
	viper.SetDefault("log_level", defaults.LogLevel)

	// Environment variables with COPYFORGE_ prefix
	viper.SetEnvPrefix("COPYFORGE")
	viper.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.copyforge")
	}

	// Try to read config file (not required)
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	viper.WatchConfig()
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	pattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// ResolvedVariables returns the default variables with ${ENV_VAR}
// references expanded.
func (c *Config) ResolvedVariables() map[string]string {
	if len(c.Variables) == 0 {
		return nil
	}
	out := make(map[string]string, len(c.Variables))
	for k, v := range c.Variables {
		out[k] = ResolveEnvVars(v)
	}
	return out
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# copyforge configuration
# Variable values may use ${ENV_VAR} syntax to reference environment variables.

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
