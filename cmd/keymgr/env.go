package main

import (
	"os"
	"path/filepath"
)

// env returns the value of an environment variable if provided (even if empty)
// or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

// homeDir returns the default data directory. KEYMGR_HOME takes precedence
// over ~/.keymgr.
func homeDir() string {
	return env("KEYMGR_HOME", filepath.Join(os.Getenv("HOME"), ".keymgr"))
}
