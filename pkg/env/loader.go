// Package env reads environment variables and .env files and
// selects the target test environment.
package env

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Loader defines the interface for environment variable management.
type Loader interface {
	// Load reads environment variables from a .env file.
	Load(filepath string) error
	// Get retrieves an environment variable value.
	Get(key string) string
	// GetRequired retrieves a required environment variable or returns error.
	GetRequired(key string) (string, error)
	// GetWithDefault retrieves an environment variable with a default fallback.
	GetWithDefault(key, defaultValue string) string
	// Set sets an environment variable.
	Set(key, value string) error
	// All returns all loaded environment variables.
	All() map[string]string
}

// DefaultLoader implements Loader with .env file support. The
// process environment takes precedence over file values unless
// the loader is isolated.
type DefaultLoader struct {
	mu       sync.RWMutex
	vars     map[string]string
	loaded   bool
	isolated bool
}

// NewLoader creates a DefaultLoader backed by the process
// environment.
func NewLoader() *DefaultLoader {
	return &DefaultLoader{vars: make(map[string]string)}
}

// NewIsolatedLoader creates a loader that only sees vars and
// never reads or writes the process environment.
func NewIsolatedLoader(vars map[string]string) *DefaultLoader {
	l := &DefaultLoader{
		vars:     make(map[string]string, len(vars)),
		isolated: true,
	}
	for k, v := range vars {
		l.vars[k] = v
	}
	return l
}

func (l *DefaultLoader) Load(filepath string) error {
	file, err := os.Open(filepath)
	if err != nil {
		return fmt.Errorf("open env file %s: %w", filepath, err)
	}
	defer file.Close()

	l.mu.Lock()
	defer l.mu.Unlock()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		// Remove surrounding quotes
		value = strings.Trim(value, `"'`)
		l.vars[key] = value
	}

	l.loaded = true
	return scanner.Err()
}

func (l *DefaultLoader) Get(key string) string {
	if !l.isolated {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.vars[key]
}

func (l *DefaultLoader) GetRequired(key string) (string, error) {
	v := l.Get(key)
	if v == "" {
		return "", fmt.Errorf("required environment variable %s is not set", key)
	}
	return v, nil
}

func (l *DefaultLoader) GetWithDefault(key, defaultValue string) string {
	if v := l.Get(key); v != "" {
		return v
	}
	return defaultValue
}

func (l *DefaultLoader) Set(key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.vars[key] = value
	if l.isolated {
		return nil
	}
	return os.Setenv(key, value)
}

func (l *DefaultLoader) All() map[string]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	result := make(map[string]string, len(l.vars))
	for k, v := range l.vars {
		result[k] = v
	}
	return result
}
