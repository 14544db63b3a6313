// Package config loads domain.Config from INI or YAML files.
package config

import (
	"path/filepath"
	"strings"

	"github.com/openkraft/bhce2gw/internal/domain"
)

// DefaultPath is the configuration file read when none is given.
const DefaultPath = "config.ini"

// Loader picks the YAML or INI loader from the file extension.
type Loader struct {
	yaml *YAMLLoader
	ini  *INILoader
}

// New creates a Loader.
func New() *Loader {
	return &Loader{yaml: NewYAML(), ini: NewINI()}
}

// Load parses path as YAML when it ends in .yaml or .yml, as INI otherwise.
func (l *Loader) Load(path string) (domain.Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return l.yaml.Load(path)
	default:
		return l.ini.Load(path)
	}
}
