package store

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Psopho/twfynz/pkg/bill"
	"github.com/Psopho/twfynz/pkg/organisation"
)

// BillRecord is a bill as it appears in a dataset, together with the
// listing annotations consumed when it is validated.
type BillRecord struct {
	bill.Bill  `yaml:",inline"`
	bill.Notes `yaml:",inline"`
}

// Dataset is the YAML form of a record set.
type Dataset struct {
	Committees    []*bill.Committee            `yaml:"committees,omitempty"`
	Members       []*bill.Member               `yaml:"members,omitempty"`
	Bills         []*BillRecord                `yaml:"bills,omitempty"`
	Debates       []*bill.Debate               `yaml:"debates,omitempty"`
	Organisations []*organisation.Organisation `yaml:"organisations,omitempty"`
}

// LoadDataset reads a dataset file.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return ParseDataset(data)
}

// ParseDataset decodes a YAML dataset.
func ParseDataset(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	return &ds, nil
}

// Load adds every record in ds. Committees and members are stored first so
// bills can reference them, and bills are saved in ID order so parents
// precede the bills divided from them. Records that fail validation are
// skipped and reported; the rest are stored. No cache invalidations are
// emitted.
func (r *Records) Load(ds *Dataset) []error {
	var errs []error
	for _, c := range ds.Committees {
		if err := r.AddCommittee(c); err != nil {
			errs = append(errs, err)
		}
	}
	for _, m := range ds.Members {
		if err := r.AddMember(m); err != nil {
			errs = append(errs, err)
		}
	}

	records := append([]*BillRecord(nil), ds.Bills...)
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].ID, records[j].ID
		if a == 0 || b == 0 {
			return a != 0 && b == 0
		}
		return a < b
	})
	for _, rec := range records {
		b := rec.Bill
		if err := r.save(&b, rec.Notes); err != nil {
			errs = append(errs, err)
		}
	}

	for _, d := range ds.Debates {
		if err := r.AddDebate(d); err != nil {
			errs = append(errs, err)
		}
	}
	for _, o := range ds.Organisations {
		if err := r.saveOrganisation(o); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
