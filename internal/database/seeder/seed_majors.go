package seeder

import (
	"context"
	"fmt"

	"majormatch/internal/database"
	"majormatch/internal/dataset"
	"majormatch/internal/domain/majorfit"

	"github.com/google/uuid"
)

// MajorsSeeder replaces the stored catalog with Dataset in one transaction.
// Catalog order is kept in the position columns.
type MajorsSeeder struct {
	Dataset dataset.Dataset
}

func (MajorsSeeder) Name() string { return "majors" }

func (s MajorsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := s.Dataset.Validate(); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "majors", "id", "position", "name", "estimated_income"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "major_requirements", "major_id", "position", "pattern"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "major_careers", "major_id", "kind", "position", "title"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "major_interest_weights", "major_id", "dimension", "weight"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM majors`); err != nil {
		return fmt.Errorf("clear majors: %w", err)
	}

	for pos, m := range s.Dataset.Majors {
		id := uuid.New()
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO majors (id, position, name, estimated_income) VALUES ($1, $2, $3, $4)`,
			id, pos, m.Name, m.EstimatedIncome,
		); err != nil {
			return fmt.Errorf("insert major %s: %w", m.Name, err)
		}

		for i, req := range m.Requirements {
			if _, err := tx.Exec(
				ctx,
				`INSERT INTO major_requirements (major_id, position, pattern) VALUES ($1, $2, $3)`,
				id, i, req,
			); err != nil {
				return fmt.Errorf("insert requirement %s/%s: %w", m.Name, req, err)
			}
		}

		if err := insertCareers(ctx, tx, id, "job", m.Careers.Jobs); err != nil {
			return err
		}
		if err := insertCareers(ctx, tx, id, "employer", m.Careers.Employers); err != nil {
			return err
		}

		for _, d := range majorfit.Dimensions() {
			w, ok := m.InterestWeights[string(d)]
			if !ok {
				continue
			}
			if _, err := tx.Exec(
				ctx,
				`INSERT INTO major_interest_weights (major_id, dimension, weight) VALUES ($1, $2, $3)`,
				id, string(d), w,
			); err != nil {
				return fmt.Errorf("insert weight %s/%s: %w", m.Name, d, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertCareers(ctx context.Context, tx database.Tx, majorID uuid.UUID, kind string, titles []string) error {
	for i, title := range titles {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO major_careers (major_id, kind, position, title) VALUES ($1, $2, $3, $4)`,
			majorID, kind, i, title,
		); err != nil {
			return fmt.Errorf("insert %s %s: %w", kind, title, err)
		}
	}
	return nil
}
