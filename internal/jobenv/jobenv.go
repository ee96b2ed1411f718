// Package jobenv abstracts the job-scoped environment that bridges a
// start-mode invocation to a later report-mode invocation. The writer and the
// reader are different processes coordinated only through the host job's
// environment inheritance, so both sides go through this interface and tests
// can substitute an in-memory map.
package jobenv

import (
	"fmt"
	"os"
	"sync"
)

// Env is the external key-value environment shared across invocations of the
// same job.
type Env interface {
	// Lookup reads a variable, reporting whether it was present.
	Lookup(key string) (string, bool)
	// Export publishes a variable for later invocations in the same job.
	Export(key, value string) error
}

// OS reads from the process environment and exports by appending KEY=value
// lines to the host job's env file (the GitHub Actions convention). When no
// file path is configured the export degrades to the process's own
// environment, which still covers same-process round trips.
type OS struct {
	// FilePath is the env file exports are appended to; empty means none.
	FilePath string
}

func (e *OS) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

func (e *OS) Export(key, value string) error {
	if e.FilePath == "" {
		return os.Setenv(key, value)
	}
	f, err := os.OpenFile(e.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("jobenv: open env file: %w", err)
	}
	defer func() { _ = f.Close() }()
	if _, err := fmt.Fprintf(f, "%s=%s\n", key, value); err != nil {
		return fmt.Errorf("jobenv: write env file: %w", err)
	}
	// make the value visible to the current process as well
	return os.Setenv(key, value)
}

// Map is an in-memory Env for tests.
type Map struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMap() *Map {
	return &Map{m: map[string]string{}}
}

func (e *Map) Lookup(key string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.m[key]
	return v, ok
}

func (e *Map) Export(key, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.m[key] = value
	return nil
}
