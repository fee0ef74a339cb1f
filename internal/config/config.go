package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

const (
	configDir      = ".foodgram"
	configFileName = "config.json"

	// DefaultAPIURL is used when neither the config file nor FOODGRAM_API_URL set one
	DefaultAPIURL = "http://localhost:8080/api"
)

type Config struct {
	APIURL string `json:"api_url"`
	// Email of the account the stored token belongs to
	Email string `json:"email,omitempty"`
}

// GetConfigPath returns the path to the config file (~/.foodgram/config.json).
// FOODGRAM_HOME overrides the home directory.
func GetConfigPath() (string, error) {
	home := os.Getenv("FOODGRAM_HOME")
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(home, configDir, configFileName), nil
}

// LoadConfig reads the config file. A missing file yields an empty config.
func LoadConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func SaveConfig(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ResolveAPIURL picks FOODGRAM_API_URL, then the config file, then DefaultAPIURL.
func (c *Config) ResolveAPIURL() string {
	if env := os.Getenv("FOODGRAM_API_URL"); env != "" {
		return strings.TrimRight(env, "/")
	}
	if c != nil && c.APIURL != "" {
		return strings.TrimRight(c.APIURL, "/")
	}
	return DefaultAPIURL
}
