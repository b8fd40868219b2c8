package config

import (
	"fmt"
	"sync"
)

var (
	// globalConfig holds the singleton configuration instance.
	globalConfig *Config

	// configMutex protects globalConfig and configPath.
	configMutex sync.RWMutex

	// configPath is the path Initialize loaded from, used by ReloadConfig.
	configPath string
)

// Initialize loads configuration from path with LoadOrDefault and stores it
// as the global configuration. On error the previous configuration is kept.
func Initialize(path string) error {
	cfg, err := LoadOrDefault(path)
	if err != nil {
		return err
	}

	configMutex.Lock()
	globalConfig = cfg
	configPath = path
	configMutex.Unlock()
	return nil
}

// GetConfig returns the global configuration instance, or nil if Initialize
// has not been called successfully.
func GetConfig() *Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// ReloadConfig reads the file Initialize loaded again. Watch mode calls it
// when that file changes. The global configuration is replaced only if
// loading and validation succeed.
func ReloadConfig() error {
	path := Path()
	cfg, err := LoadOrDefault(path)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}

	configMutex.Lock()
	globalConfig = cfg
	configMutex.Unlock()
	return nil
}

// Path returns the path the global configuration was loaded from.
func Path() string {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return configPath
}

// MustGetConfig returns the global configuration instance and panics if
// Initialize has not succeeded.
func MustGetConfig() *Config {
	cfg := GetConfig()
	if cfg == nil {
		panic("configuration not initialized: call Initialize first")
	}
	return cfg
}
