// Package dataset holds the reference data the scorer runs over: the ordered
// major catalog, salary estimates and career information.
package dataset

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"majormatch/internal/domain/majorfit"

	"github.com/xeipuuv/gojsonschema"
)

var (
	//go:embed default_dataset.json
	defaultDatasetJSON []byte

	//go:embed schema.json
	schemaJSON []byte
)

var ErrInvalidDataset = errors.New("invalid dataset")

type Dataset struct {
	Majors []Major `json:"majors"`
}

type Major struct {
	Name            string             `json:"name"`
	Requirements    []string           `json:"requirements"`
	EstimatedIncome *int               `json:"estimated_income,omitempty"`
	InterestWeights map[string]float64 `json:"interest_weights,omitempty"`
	Careers         Careers            `json:"careers"`
}

type Careers struct {
	Jobs      []string `json:"jobs"`
	Employers []string `json:"employers"`
}

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

// Default returns the dataset bundled with the binary.
func Default() (Dataset, error) {
	return Parse(defaultDatasetJSON)
}

func Load(path string) (Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return Parse(b)
}

// Parse validates b against the dataset schema, decodes it and checks the
// catalog can be built from it.
func Parse(b []byte) (Dataset, error) {
	schema, err := compiledSchema()
	if err != nil {
		return Dataset{}, fmt.Errorf("compile dataset schema: %w", err)
	}

	res, err := schema.Validate(gojsonschema.NewBytesLoader(b))
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return Dataset{}, fmt.Errorf("%w: %s", ErrInvalidDataset, strings.Join(msgs, "; "))
	}

	var ds Dataset
	if err := json.Unmarshal(b, &ds); err != nil {
		return Dataset{}, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	if err := ds.Validate(); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

func (d Dataset) Validate() error {
	if _, err := d.Catalog(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}
	return nil
}

func (d Dataset) Names() []string {
	out := make([]string, 0, len(d.Majors))
	for _, m := range d.Majors {
		out = append(out, m.Name)
	}
	return out
}

// Catalog parses every requirement pattern and resolves interest weights once,
// keeping the dataset's major order.
func (d Dataset) Catalog() (majorfit.Catalog, error) {
	entries := make([]majorfit.MajorEntry, 0, len(d.Majors))
	for _, m := range d.Majors {
		var weights majorfit.WeightRecord
		if len(m.InterestWeights) > 0 {
			weights = make(majorfit.WeightRecord, len(m.InterestWeights))
			for k, v := range m.InterestWeights {
				dim, err := majorfit.ParseDimension(k)
				if err != nil {
					return majorfit.Catalog{}, fmt.Errorf("major %s: %w", m.Name, err)
				}
				weights[dim] = v
			}
		}
		entries = append(entries, majorfit.MajorEntry{
			Name:         m.Name,
			Requirements: majorfit.ParseRequirements(m.Requirements),
			Weights:      weights,
		})
	}
	return majorfit.NewCatalog(entries, majorfit.DefaultKeywordRules())
}

func (d Dataset) Reference() majorfit.ReferenceData {
	ref := majorfit.ReferenceData{
		Incomes: make(map[string]int, len(d.Majors)),
		Careers: make(map[string]majorfit.CareerInfo, len(d.Majors)),
	}
	for _, m := range d.Majors {
		if m.EstimatedIncome != nil {
			ref.Incomes[m.Name] = *m.EstimatedIncome
		}
		ref.Careers[m.Name] = majorfit.CareerInfo{
			Jobs:      append([]string(nil), m.Careers.Jobs...),
			Employers: append([]string(nil), m.Careers.Employers...),
		}
	}
	return ref
}
