package repository

import (
	"context"
	"errors"
	"fmt"

	"majormatch/internal/database"
	"majormatch/internal/dataset"

	"github.com/google/uuid"
)

var ErrEmptyCatalog = errors.New("major catalog is empty")

// DatasetRepository loads the reference dataset the recommender scores against.
type DatasetRepository interface {
	LoadDataset(ctx context.Context) (dataset.Dataset, error)
}

// StaticDatasetRepository serves a dataset that was loaded once at startup,
// either the embedded default or a file.
type StaticDatasetRepository struct {
	ds dataset.Dataset
}

func NewStaticDatasetRepository(ds dataset.Dataset) *StaticDatasetRepository {
	return &StaticDatasetRepository{ds: ds}
}

func (r *StaticDatasetRepository) LoadDataset(context.Context) (dataset.Dataset, error) {
	return r.ds, nil
}

type PostgresDatasetRepository struct {
	db database.DB
}

func NewPostgresDatasetRepository(db database.DB) *PostgresDatasetRepository {
	return &PostgresDatasetRepository{db: db}
}

func (r *PostgresDatasetRepository) LoadDataset(ctx context.Context) (dataset.Dataset, error) {
	if r == nil || r.db == nil {
		return dataset.Dataset{}, database.ErrNilDB
	}

	majors, index, err := r.majors(ctx)
	if err != nil {
		return dataset.Dataset{}, err
	}
	if len(majors) == 0 {
		return dataset.Dataset{}, ErrEmptyCatalog
	}

	if err := r.requirements(ctx, majors, index); err != nil {
		return dataset.Dataset{}, err
	}
	if err := r.careers(ctx, majors, index); err != nil {
		return dataset.Dataset{}, err
	}
	if err := r.weights(ctx, majors, index); err != nil {
		return dataset.Dataset{}, err
	}

	ds := dataset.Dataset{Majors: majors}
	if err := ds.Validate(); err != nil {
		return dataset.Dataset{}, err
	}
	return ds, nil
}

func (r *PostgresDatasetRepository) majors(ctx context.Context) ([]dataset.Major, map[uuid.UUID]int, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, estimated_income FROM majors ORDER BY position ASC`)
	if err != nil {
		return nil, nil, fmt.Errorf("query majors: %w", err)
	}
	defer rows.Close()

	out := make([]dataset.Major, 0)
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var (
			id     uuid.UUID
			m      dataset.Major
			income *int
		)
		if err := rows.Scan(&id, &m.Name, &income); err != nil {
			return nil, nil, err
		}
		m.EstimatedIncome = income
		m.Requirements = []string{}
		m.Careers = dataset.Careers{Jobs: []string{}, Employers: []string{}}
		index[id] = len(out)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return out, index, nil
}

func (r *PostgresDatasetRepository) requirements(ctx context.Context, majors []dataset.Major, index map[uuid.UUID]int) error {
	rows, err := r.db.Query(ctx, `SELECT major_id, pattern FROM major_requirements ORDER BY major_id, position ASC`)
	if err != nil {
		return fmt.Errorf("query requirements: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id      uuid.UUID
			pattern string
		)
		if err := rows.Scan(&id, &pattern); err != nil {
			return err
		}
		if i, ok := index[id]; ok {
			majors[i].Requirements = append(majors[i].Requirements, pattern)
		}
	}
	return rows.Err()
}

func (r *PostgresDatasetRepository) careers(ctx context.Context, majors []dataset.Major, index map[uuid.UUID]int) error {
	rows, err := r.db.Query(ctx, `SELECT major_id, kind, title FROM major_careers ORDER BY major_id, kind, position ASC`)
	if err != nil {
		return fmt.Errorf("query careers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id          uuid.UUID
			kind, title string
		)
		if err := rows.Scan(&id, &kind, &title); err != nil {
			return err
		}
		i, ok := index[id]
		if !ok {
			continue
		}
		switch kind {
		case "job":
			majors[i].Careers.Jobs = append(majors[i].Careers.Jobs, title)
		case "employer":
			majors[i].Careers.Employers = append(majors[i].Careers.Employers, title)
		}
	}
	return rows.Err()
}

func (r *PostgresDatasetRepository) weights(ctx context.Context, majors []dataset.Major, index map[uuid.UUID]int) error {
	rows, err := r.db.Query(ctx, `SELECT major_id, dimension, weight FROM major_interest_weights`)
	if err != nil {
		return fmt.Errorf("query interest weights: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id        uuid.UUID
			dimension string
			weight    float64
		)
		if err := rows.Scan(&id, &dimension, &weight); err != nil {
			return err
		}
		i, ok := index[id]
		if !ok {
			continue
		}
		if majors[i].InterestWeights == nil {
			majors[i].InterestWeights = map[string]float64{}
		}
		majors[i].InterestWeights[dimension] = weight
	}
	return rows.Err()
}
