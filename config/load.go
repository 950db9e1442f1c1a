package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// FileName is the settings file looked for in the working directory.
const FileName = "sagepp.yaml"

// EnvVar names an alternative settings file.
const EnvVar = "SAGEPP_CONFIG"

var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// Load reads settings with ${VAR} interpolation. If configPath is empty it
// tries $SAGEPP_CONFIG, then ./sagepp.yaml, then
// ~/.config/sagepp/sagepp.yaml; when none exists the defaults are returned.
func Load(configPath string, getenv func(string) string) (*Config, error) {
	path, err := resolveConfigPath(configPath, getenv)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Defaults(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	data = interpolateEnv(data, getenv)

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// resolveConfigPath finds the settings file to use. It returns "" when no
// file was asked for and none of the default locations exist.
func resolveConfigPath(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	if envPath := getenv(EnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%s file not found: %s", EnvVar, envPath)
		}
		return envPath, nil
	}

	candidates := []string{FileName}
	if home := getenv("HOME"); home != "" {
		candidates = append(candidates, filepath.Join(home, ".config", "sagepp", FileName))
	}
	for _, c := range candidates {
		_, err := os.Stat(c)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("checking %s: %w", c, err)
		}
	}
	return "", nil
}

// interpolateEnv replaces ${VAR} and ${VAR:-default} patterns with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		value := getenv(string(parts[1]))
		if value == "" && len(parts[2]) > 0 {
			value = string(parts[2])
		}
		return []byte(value)
	})
}
