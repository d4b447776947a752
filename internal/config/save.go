package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveTo writes the config as YAML to path, creating parent directories.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// WriteIfRequested saves the merged config to the -write-config path.
// It returns the path written, or "" when the flag was not given.
func (c *Config) WriteIfRequested() (string, error) {
	path := WriteConfigPath()
	if path == "" {
		return "", nil
	}
	if err := c.SaveTo(path); err != nil {
		return "", err
	}
	return path, nil
}
