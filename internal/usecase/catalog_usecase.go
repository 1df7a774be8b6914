package usecase

import (
	"context"
	"errors"
	"fmt"

	"majormatch/internal/domain/majorfit"
	"majormatch/internal/pkg/logger"
)

type MajorSummary struct {
	Name            string
	Requirements    []string
	EstimatedIncome *int
	InterestWeights map[string]float64
	Jobs            []string
	Employers       []string
}

type CatalogUsecase interface {
	ListMajors(ctx context.Context) ([]MajorSummary, error)
}

type Catalog struct {
	source DatasetSource
	log    logger.Logger
}

func NewCatalogUsecase(source DatasetSource, log logger.Logger) *Catalog {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Catalog{source: source, log: log}
}

// ListMajors returns the catalog in ranking order with the interest weights
// the scorer will actually apply.
func (u *Catalog) ListMajors(ctx context.Context) ([]MajorSummary, error) {
	ds, err := u.source.LoadDataset(ctx)
	if err != nil {
		u.log.Error("load dataset failed", map[string]interface{}{"error": err})
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
	}
	catalog, err := ds.Catalog()
	if err != nil {
		u.log.Error("build catalog failed", map[string]interface{}{"error": err})
		return nil, ErrInternal
	}
	ref := ds.Reference()
	weights := catalog.Weights()

	out := make([]MajorSummary, 0, catalog.Len())
	for _, e := range catalog.Entries() {
		career := ref.Career(e.Name)
		reqs := make([]string, 0, len(e.Requirements))
		for _, r := range e.Requirements {
			reqs = append(reqs, r.Raw)
		}
		w := weights.Lookup(e.Name)
		wm := make(map[string]float64, len(w))
		for _, d := range majorfit.Dimensions() {
			wm[string(d)] = w[d]
		}
		s := MajorSummary{
			Name:            e.Name,
			Requirements:    reqs,
			InterestWeights: wm,
			Jobs:            career.Jobs,
			Employers:       career.Employers,
		}
		if income, ok := ref.EstimatedIncome(e.Name); ok {
			s.EstimatedIncome = &income
		}
		out = append(out, s)
	}
	return out, nil
}
