package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openkraft/bhce2gw/internal/domain"
)

// DefaultPath is where the aggregate is written when no path is given.
const DefaultPath = "output.json"

// Store is a file-based implementation of domain.ReportStore.
type Store struct{}

// New creates a new file-based report store.
func New() *Store {
	return &Store{}
}

// Save writes report as indented JSON, replacing whatever was at path. The
// write is not atomic.
func (s *Store) Save(path string, report *domain.AggregateReport) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

// Load reads an aggregate written by Save.
func (s *Store) Load(path string) (*domain.AggregateReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var report domain.AggregateReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if report.Domains == nil {
		report.Domains = []domain.Domain{}
	}
	if report.Computers.OperatingSystems == nil {
		report.Computers.OperatingSystems = domain.OSHistogram{}
	}
	return &report, nil
}
