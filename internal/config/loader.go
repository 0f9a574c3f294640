package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/collapse.yaml
var defaultCollapseYAML []byte

// Config file names probed in each search directory, in order.
var configNames = []string{"collapse.yaml", "collapse.yml", "collapse.toml"}

// LoadCollapse loads Collapse configuration.
// Search order: customPath -> ~/.collapse/configs/collapse.{yaml,toml} ->
// ./configs/collapse.{yaml,toml} -> embedded default.
// Fields missing from a file keep their default values.
func LoadCollapse(customPath string) (CollapseConfig, error) {
	return loadFrom(customPath, searchDirs())
}

func loadFrom(customPath string, dirs []string) (CollapseConfig, error) {
	// Try custom path first
	if customPath != "" {
		cfg := DefaultCollapseConfig()
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := decode(customPath, data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Unreadable or malformed files in search directories are skipped.
	for _, dir := range dirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			cfg := DefaultCollapseConfig()
			if err := decode(path, data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	// Use embedded default YAML
	cfg := DefaultCollapseConfig()
	if err := yaml.Unmarshal(defaultCollapseYAML, &cfg); err != nil {
		return DefaultCollapseConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// decode picks the format from the file extension; anything that is not
// .toml is read as YAML.
func decode(path string, data []byte, cfg *CollapseConfig) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err := toml.Decode(string(data), cfg)
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// searchDirs returns the user and working-directory config locations.
func searchDirs() []string {
	var dirs []string
	if dir := userConfigDir(); dir != "" {
		dirs = append(dirs, dir)
	}
	return append(dirs, "configs")
}

// userConfigDir returns ~/.collapse/configs, or empty if home is unavailable.
func userConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".collapse", "configs")
}
