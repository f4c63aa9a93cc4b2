package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigDir returns the path to the gateway config directory (~/.social).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".social"), nil
}

// DefaultPath resolves the config file to use when none is given on the
// command line. It returns "" when no file exists, meaning defaults + env.
func DefaultPath(component string) (string, error) {
	if filepath.IsAbs(component) {
		return component, nil
	}
	if _, err := os.Stat(component); err == nil {
		return component, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, component)
	if _, err := os.Stat(p); err == nil {
		return p, nil
	}
	return "", nil
}
