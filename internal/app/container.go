package app

import (
	"context"
	"fmt"
	"time"

	"majormatch/internal/config"
	"majormatch/internal/database"
	dbpostgres "majormatch/internal/database/postgres"
	"majormatch/internal/dataset"
	"majormatch/internal/infrastructure/cache"
	"majormatch/internal/pkg/logger"
	"majormatch/internal/repository"
	"majormatch/internal/usecase"
)

// Container owns the long-lived dependencies shared by the HTTP server and the
// CLI. DB and Cache are nil when the configuration does not call for them.
type Container struct {
	Config config.Config
	Log    logger.Logger

	DB    database.DB
	Cache *cache.Redis

	Datasets    *usecase.CachedDatasetSource
	Recommender *usecase.Recommender
	Catalog     *usecase.Catalog
}

func NewContainer(ctx context.Context, cfg config.Config, log logger.Logger) (*Container, error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	c := &Container{Config: cfg, Log: log}

	repo, err := c.datasetRepository(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	var dc usecase.DatasetCache
	if cfg.Redis.Enabled {
		if cfg.UsesDatabase() {
			c.Cache = cache.NewRedis(ctx, cfg.Redis, log)
			if c.Cache.Available() {
				dc = c.Cache
			}
		} else {
			log.Info("redis cache skipped for in-process dataset", map[string]interface{}{"dataset_source": cfg.Dataset.Source})
		}
	}

	c.Datasets = usecase.NewCachedDatasetSource(repo, dc, cfg.Redis.TTL, log)
	c.Recommender = usecase.NewRecommender(c.Datasets, log)
	c.Catalog = usecase.NewCatalogUsecase(c.Datasets, log)
	return c, nil
}

func (c *Container) datasetRepository(ctx context.Context) (repository.DatasetRepository, error) {
	switch c.Config.Dataset.Source {
	case config.DatasetSourceFile:
		ds, err := dataset.Load(c.Config.Dataset.Path)
		if err != nil {
			return nil, err
		}
		c.Log.Info("dataset loaded", map[string]interface{}{"source": "file", "path": c.Config.Dataset.Path, "majors": len(ds.Majors)})
		return repository.NewStaticDatasetRepository(ds), nil

	case config.DatasetSourcePostgres:
		db, err := c.ConnectDB(ctx)
		if err != nil {
			return nil, err
		}
		return repository.NewPostgresDatasetRepository(db), nil

	default:
		ds, err := dataset.Default()
		if err != nil {
			return nil, err
		}
		c.Log.Info("dataset loaded", map[string]interface{}{"source": "embedded", "majors": len(ds.Majors)})
		return repository.NewStaticDatasetRepository(ds), nil
	}
}

// ConnectDB opens the Postgres pool on first use.
func (c *Container) ConnectDB(ctx context.Context) (database.DB, error) {
	if c.DB != nil {
		return c.DB, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, c.Config.Database)
	if err != nil {
		return nil, fmt.Errorf("connect postgres %s/%s: %w", c.Config.Database.Host, c.Config.Database.Name, err)
	}
	c.DB = db
	return db, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
