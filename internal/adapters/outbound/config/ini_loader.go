package config

import (
	"fmt"

	"github.com/go-ini/ini"

	"github.com/openkraft/bhce2gw/internal/domain"
)

const (
	sectionBloodHound  = "bloodhound"
	sectionGhostwriter = "ghostwriter"
)

// INILoader implements domain.ConfigLoader for config.ini style files with
// [bloodhound] and [ghostwriter] sections.
type INILoader struct{}

// NewINI creates an INILoader.
func NewINI() *INILoader { return &INILoader{} }

// Load reads path on top of domain.DefaultConfig. Inline comments are not
// stripped, so secrets may contain ';' and '#'.
func (l *INILoader) Load(path string) (domain.Config, error) {
	f, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, path)
	if err != nil {
		return domain.Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg := domain.DefaultConfig()

	bh := f.Section(sectionBloodHound)
	cfg.BloodHound.URL = bh.Key("bh_url").String()
	cfg.BloodHound.Username = bh.Key("username").String()
	cfg.BloodHound.Secret = bh.Key("secret").String()
	if bh.HasKey("timeout") {
		if cfg.BloodHound.Timeout, err = bh.Key("timeout").Duration(); err != nil {
			return domain.Config{}, keyError(path, sectionBloodHound, "timeout", err)
		}
	}
	if bh.HasKey("workers") {
		if cfg.BloodHound.Workers, err = bh.Key("workers").Int(); err != nil {
			return domain.Config{}, keyError(path, sectionBloodHound, "workers", err)
		}
	}

	gw := f.Section(sectionGhostwriter)
	cfg.Ghostwriter.URL = gw.Key("gw_url").String()
	cfg.Ghostwriter.APIToken = gw.Key("api_token").String()
	cfg.Ghostwriter.FieldName = gw.Key("bhce_field_name").String()
	if gw.HasKey("report_id") {
		if cfg.Ghostwriter.ReportID, err = gw.Key("report_id").Int64(); err != nil {
			return domain.Config{}, keyError(path, sectionGhostwriter, "report_id", err)
		}
	}
	if gw.HasKey("timeout") {
		if cfg.Ghostwriter.Timeout, err = gw.Key("timeout").Duration(); err != nil {
			return domain.Config{}, keyError(path, sectionGhostwriter, "timeout", err)
		}
	}

	return cfg, nil
}

func keyError(path, section, key string, err error) error {
	return fmt.Errorf("parsing %s: [%s] %s: %w", path, section, key, err)
}
