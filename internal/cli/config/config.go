package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "kafgov", "config.yaml")
}

// EnsureConfigDir ensures the config directory exists
func EnsureConfigDir() error {
	dir := filepath.Dir(GetConfigPath())
	return os.MkdirAll(dir, 0755)
}

// SaveToken writes the API key into the config file, preserving any other
// settings already stored there. The file is written with mode 0600 since
// the token is a credential.
func SaveToken(token string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	values, err := readConfigValues()
	if err != nil {
		return err
	}
	values["token"] = token

	return writeConfigValues(values)
}

// ClearToken removes the stored API key from the config file. Clearing a
// token that was never saved is not an error.
func ClearToken() error {
	values, err := readConfigValues()
	if err != nil {
		return err
	}
	if _, ok := values["token"]; !ok {
		return nil
	}
	delete(values, "token")

	return writeConfigValues(values)
}

func readConfigValues() (map[string]interface{}, error) {
	values := map[string]interface{}{}
	data, err := os.ReadFile(GetConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return values, nil
}

func writeConfigValues(values map[string]interface{}) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(GetConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
