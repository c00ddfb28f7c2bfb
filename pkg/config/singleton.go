package config

import (
	"fmt"
	"sync"
)

var (
	mu     sync.RWMutex
	global *Config
)

// Initialize loads the configuration from path (with environment overrides)
// and stores it as the process-wide configuration.
func Initialize(path string) error {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return err
	}

	mu.Lock()
	global = cfg
	mu.Unlock()

	return nil
}

// Get returns the process-wide configuration. It panics when Initialize has
// not been called, which indicates a programming error in command wiring.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()

	if global == nil {
		panic(fmt.Errorf("config.Get called before config.Initialize"))
	}
	return global
}

// Reset clears the process-wide configuration. Primarily for tests.
func Reset() {
	mu.Lock()
	global = nil
	mu.Unlock()
}
