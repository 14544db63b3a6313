package config

import (
	"fmt"
	"os"

	"github.com/openkraft/bhce2gw/internal/domain"
	"gopkg.in/yaml.v3"
)

// YAMLLoader implements domain.ConfigLoader for YAML files.
type YAMLLoader struct{}

// NewYAML creates a YAMLLoader.
func NewYAML() *YAMLLoader { return &YAMLLoader{} }

// Load reads path on top of domain.DefaultConfig.
func (l *YAMLLoader) Load(path string) (domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Config{}, err
	}

	cfg := domain.DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}
