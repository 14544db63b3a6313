package domain

import (
	"strings"
	"time"
)

const (
	DefaultTimeout = 30 * time.Second
	DefaultWorkers = 1
)

// Config holds the connection settings for both platforms.
type Config struct {
	BloodHound  BloodHoundConfig  `yaml:"bloodhound"  json:"bloodhound"`
	Ghostwriter GhostwriterConfig `yaml:"ghostwriter" json:"ghostwriter"`
}

type BloodHoundConfig struct {
	URL      string        `yaml:"bh_url"   json:"bh_url"`
	Username string        `yaml:"username" json:"username"`
	Secret   string        `yaml:"secret"   json:"-"`
	Timeout  time.Duration `yaml:"timeout"  json:"timeout"`
	Workers  int           `yaml:"workers"  json:"workers"`
}

type GhostwriterConfig struct {
	URL       string        `yaml:"gw_url"          json:"gw_url"`
	ReportID  int64         `yaml:"report_id"       json:"report_id"`
	APIToken  string        `yaml:"api_token"       json:"-"`
	FieldName string        `yaml:"bhce_field_name" json:"bhce_field_name"`
	Timeout   time.Duration `yaml:"timeout"         json:"timeout"`
}

// DefaultConfig returns a Config with only the optional settings filled in.
func DefaultConfig() Config {
	return Config{
		BloodHound: BloodHoundConfig{
			Timeout: DefaultTimeout,
			Workers: DefaultWorkers,
		},
		Ghostwriter: GhostwriterConfig{
			Timeout: DefaultTimeout,
		},
	}
}

// APIBase is the BloodHound v2 API root, always ending in a slash.
func (c BloodHoundConfig) APIBase() string {
	return strings.TrimRight(c.URL, "/") + "/api/v2/"
}

// GraphQLEndpoint is the Ghostwriter Hasura endpoint.
func (c GhostwriterConfig) GraphQLEndpoint() string {
	return strings.TrimRight(c.URL, "/") + "/v1/graphql"
}

// EffectiveWorkers clamps the worker count to at least one.
func (c BloodHoundConfig) EffectiveWorkers() int {
	if c.Workers < 1 {
		return 1
	}
	return c.Workers
}
