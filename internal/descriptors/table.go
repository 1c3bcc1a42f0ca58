package descriptors

import (
	"context"
	"fmt"
	"os"

	"github.com/lingnexus/lingnexus/internal/models"
	"gopkg.in/yaml.v3"
)

// TableProvider serves precomputed descriptors. Identifiers missing from
// the table, or mapped to null, are invalid.
//
// The table file is YAML (JSON is accepted as a subset):
//
//	CC(=O)Oc1ccccc1C(=O)O:
//	  molecular_weight: 180.16
//	  logp: 1.31
//	  ...
//	C1CC: null
type TableProvider struct {
	name    string
	records map[models.CandidateIdentifier]*models.DescriptorRecord
}

// NewTableProvider creates a [TableProvider] from in-memory records.
func NewTableProvider(name string, records map[models.CandidateIdentifier]*models.DescriptorRecord) *TableProvider {
	if records == nil {
		records = map[models.CandidateIdentifier]*models.DescriptorRecord{}
	}
	return &TableProvider{name: name, records: records}
}

// LoadTable reads a descriptor table file.
func LoadTable(path string) (*TableProvider, error) {
	if path == "" {
		return nil, fmt.Errorf("table descriptor engine requires a 'table' path")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor table: %w", err)
	}

	var records map[models.CandidateIdentifier]*models.DescriptorRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing descriptor table %s: %w", path, err)
	}

	return NewTableProvider(path, records), nil
}

func (t *TableProvider) ID() string { return "table:" + t.name }

// Len returns the number of rows in the table.
func (t *TableProvider) Len() int { return len(t.records) }

func (t *TableProvider) Compute(_ context.Context, id models.CandidateIdentifier) (models.DescriptorResult, error) {
	rec, ok := t.records[id]
	if !ok {
		return models.InvalidDescriptors("not in descriptor table"), nil
	}
	if rec == nil {
		return models.InvalidDescriptors("marked invalid in descriptor table"), nil
	}
	return models.ValidDescriptors(*rec), nil
}
