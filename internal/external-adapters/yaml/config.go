// Package yaml provides YAML-based tool configuration parsing.
package yaml

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional tool configuration file (.decant.yml). Values
// from flags and environment variables take precedence over it.
type Config struct {
	Provider string        `yaml:"provider"`
	Bintray  BintrayConfig `yaml:"bintray"`
	Npm      NpmConfig     `yaml:"npm"`
	Sign     SignConfig    `yaml:"sign"`
}

// BintrayConfig holds the artifact registry provider section
type BintrayConfig struct {
	User       string `yaml:"user"`
	Key        string `yaml:"key"`
	File       string `yaml:"file"`
	Passphrase string `yaml:"passphrase"`
	URL        string `yaml:"url"`
}

// NpmConfig holds the npm provider section
type NpmConfig struct {
	APIKey     string `yaml:"api_key"`
	Email      string `yaml:"email"`
	Access     string `yaml:"access"`
	Tag        string `yaml:"tag"`
	Registry   string `yaml:"registry"`
	PackageDir string `yaml:"package_dir"`
}

// SignConfig holds the optional local signing section
type SignConfig struct {
	KeyFile    string `yaml:"key_file"`
	Passphrase string `yaml:"passphrase"`
}

// LoadConfig reads and parses a configuration file
func LoadConfig(filePath string) (*Config, error) {
	//nolint:gosec // G304: filePath is the configuration path from the CLI
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", filePath, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML bytes into a Config
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
