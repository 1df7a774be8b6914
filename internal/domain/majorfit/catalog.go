package majorfit

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateMajor = errors.New("duplicate major")
	ErrEmptyMajorName = errors.New("empty major name")
)

type MajorEntry struct {
	Name         string
	Requirements []Requirement
	// Weights overrides keyword resolution when set.
	Weights WeightRecord
}

// Catalog is an ordered, read-only set of majors together with the weight
// table resolved for them. Order matters: it breaks completion ties.
type Catalog struct {
	entries []MajorEntry
	weights WeightTable
}

func NewCatalog(entries []MajorEntry, rules []KeywordRule) (Catalog, error) {
	seen := make(map[string]struct{}, len(entries))
	records := make(map[string]WeightRecord, len(entries))
	out := make([]MajorEntry, 0, len(entries))

	for _, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			return Catalog{}, ErrEmptyMajorName
		}
		if _, ok := seen[e.Name]; ok {
			return Catalog{}, fmt.Errorf("%w: %s", ErrDuplicateMajor, e.Name)
		}
		seen[e.Name] = struct{}{}

		if len(e.Weights) > 0 {
			if err := e.Weights.Validate(); err != nil {
				return Catalog{}, fmt.Errorf("major %s: %w", e.Name, err)
			}
			records[e.Name] = e.Weights
		} else {
			records[e.Name] = ResolveWeights(e.Name, rules)
		}

		reqs := make([]Requirement, len(e.Requirements))
		copy(reqs, e.Requirements)
		out = append(out, MajorEntry{Name: e.Name, Requirements: reqs, Weights: records[e.Name]})
	}

	return Catalog{entries: out, weights: NewWeightTable(records)}, nil
}

func (c Catalog) Len() int {
	return len(c.entries)
}

func (c Catalog) Entries() []MajorEntry {
	out := make([]MajorEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c Catalog) Weights() WeightTable {
	return c.weights
}

type CareerInfo struct {
	Jobs      []string
	Employers []string
}

// ReferenceData carries per-major salary estimates and career information.
type ReferenceData struct {
	Incomes map[string]int
	Careers map[string]CareerInfo
}

func (r ReferenceData) EstimatedIncome(major string) (int, bool) {
	v, ok := r.Incomes[major]
	return v, ok
}

func (r ReferenceData) Career(major string) CareerInfo {
	ci, ok := r.Careers[major]
	if !ok {
		return CareerInfo{Jobs: []string{}, Employers: []string{}}
	}
	if ci.Jobs == nil {
		ci.Jobs = []string{}
	}
	if ci.Employers == nil {
		ci.Employers = []string{}
	}
	return ci
}
