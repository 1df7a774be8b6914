package seeder

import (
	"context"
	"fmt"

	"majormatch/internal/database"
	"majormatch/internal/pkg/logger"
)

type Runner struct {
	Seeders []Seeder
	Log     logger.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return database.ErrNilDB
	}
	log := r.Log
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		log.Info("seeder finished", map[string]interface{}{"seeder": s.Name()})
	}
	return nil
}
