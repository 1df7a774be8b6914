package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"majormatch/internal/app"
	"majormatch/internal/config"
	"majormatch/internal/database/migration"
	"majormatch/internal/database/seeder"
	"majormatch/internal/dataset"
	"majormatch/internal/delivery/http/dto"
	"majormatch/internal/domain/majorfit"
	"majormatch/internal/infrastructure/cache"
	"majormatch/internal/pkg/logger"
	"majormatch/internal/render"
	"majormatch/internal/usecase"

	"github.com/urfave/cli/v2"
)

const (
	formatMarkdown = "markdown"
	formatJSON     = "json"
	formatText     = "text"
)

func loadRuntime(c *cli.Context) (config.Config, logger.Logger, error) {
	var paths []string
	if dir := strings.TrimSpace(c.String("config")); dir != "" {
		paths = append(paths, dir)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		return config.Config{}, nil, err
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.App.LogLevel = lvl
	}
	log, err := logger.NewStructured(cfg.App.LogLevel, cfg.App.LogFormat)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, log, nil
}

// withDatasetOverride points the container at a dataset file given on the
// command line instead of the configured source.
func withDatasetOverride(c *cli.Context, cfg config.Config) config.Config {
	if path := strings.TrimSpace(c.String("dataset")); path != "" {
		cfg.Dataset = config.DatasetConfig{Source: config.DatasetSourceFile, Path: path}
	}
	return cfg
}

func recommendCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "transcript",
			Aliases: []string{"t"},
			Usage:   "Transcript file (.csv or .xlsx) with a Course column",
		},
		&cli.IntFlag{
			Name:  "income",
			Value: usecase.DefaultDesiredIncome,
			Usage: fmt.Sprintf("Desired income, %d to %d", usecase.MinDesiredIncome, usecase.MaxDesiredIncome),
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Value:   formatMarkdown,
			Usage:   "Output format (markdown, json)",
		},
		&cli.StringFlag{
			Name:  "dataset",
			Usage: "Dataset JSON file to score against instead of the configured source",
		},
	}
	for _, d := range majorfit.Dimensions() {
		flags = append(flags, &cli.IntFlag{
			Name:  string(d),
			Value: majorfit.DefaultInterest,
			Usage: fmt.Sprintf("Interest in %s, %d to %d", d, majorfit.MinInterest, majorfit.MaxInterest),
		})
	}

	return &cli.Command{
		Name:  "recommend",
		Usage: "Rank the best-fit majors for a transcript",
		Flags: flags,
		Action: func(c *cli.Context) error {
			cfg, log, err := loadRuntime(c)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			interests := map[string]int{}
			for _, d := range majorfit.Dimensions() {
				interests[string(d)] = c.Int(string(d))
			}
			income := c.Int("income")
			survey, err := usecase.NewSurvey(interests, &income)
			if err != nil {
				return err
			}

			ctr, err := app.NewContainer(c.Context, withDatasetOverride(c, cfg), log)
			if err != nil {
				return err
			}
			defer func() { _ = ctr.Close() }()

			upload := usecase.TranscriptUpload{}
			if path := c.String("transcript"); path != "" {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("open transcript: %w", err)
				}
				defer func() { _ = f.Close() }()
				upload = usecase.TranscriptUpload{Filename: path, Body: f}
			}

			res, err := ctr.Recommender.RecommendFromTranscript(c.Context, upload, survey)
			if err != nil {
				return err
			}

			switch c.String("format") {
			case formatJSON:
				return writeJSON(c, dto.NewRecommendationResultResponse(res, render.WaitingMessage))
			case formatMarkdown:
				return render.Markdown(c.App.Writer, res)
			default:
				return fmt.Errorf("unknown format %q", c.String("format"))
			}
		},
	}
}

func majorsCommand() *cli.Command {
	return &cli.Command{
		Name:  "majors",
		Usage: "List the major catalog in ranking order",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   formatText,
				Usage:   "Output format (text, json)",
			},
			&cli.StringFlag{
				Name:  "dataset",
				Usage: "Dataset JSON file to list instead of the configured source",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, log, err := loadRuntime(c)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctr, err := app.NewContainer(c.Context, withDatasetOverride(c, cfg), log)
			if err != nil {
				return err
			}
			defer func() { _ = ctr.Close() }()

			majors, err := ctr.Catalog.ListMajors(c.Context)
			if err != nil {
				return err
			}

			switch c.String("format") {
			case formatJSON:
				return writeJSON(c, dto.NewMajorListResponse(majors))
			case formatText:
				tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "MAJOR\tSALARY\tREQUIREMENTS")
				for _, m := range majors {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Name, render.Salary(m.EstimatedIncome), strings.Join(m.Requirements, ", "))
				}
				return tw.Flush()
			default:
				return fmt.Errorf("unknown format %q", c.String("format"))
			}
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending database migrations",
		Action: func(c *cli.Context) error {
			cfg, log, err := loadRuntime(c)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctr := &app.Container{Config: cfg, Log: log}
			defer func() { _ = ctr.Close() }()
			db, err := ctr.ConnectDB(c.Context)
			if err != nil {
				return err
			}

			applied, err := migration.Runner{Dir: cfg.Migrations.Dir, Log: log}.Run(c.Context, db.SQLDB())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "applied %d migration(s)\n", len(applied))
			return nil
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Replace the stored major catalog with a dataset",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dataset",
				Usage: "Dataset JSON file to seed; the embedded default when empty",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, log, err := loadRuntime(c)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ds, err := datasetForSeed(c.String("dataset"))
			if err != nil {
				return err
			}

			ctr := &app.Container{Config: cfg, Log: log}
			defer func() { _ = ctr.Close() }()
			db, err := ctr.ConnectDB(c.Context)
			if err != nil {
				return err
			}

			runner := seeder.Runner{Seeders: []seeder.Seeder{seeder.MajorsSeeder{Dataset: ds}}, Log: log}
			if err := runner.Run(c.Context, db); err != nil {
				return err
			}

			invalidateDatasetCache(c.Context, cfg, log)
			fmt.Fprintf(c.App.Writer, "seeded %d major(s)\n", len(ds.Majors))
			return nil
		},
	}
}

func datasetForSeed(path string) (dataset.Dataset, error) {
	if strings.TrimSpace(path) == "" {
		return dataset.Default()
	}
	return dataset.Load(path)
}

func invalidateDatasetCache(ctx context.Context, cfg config.Config, log logger.Logger) {
	if !cfg.Redis.Enabled {
		return
	}
	r := cache.NewRedis(ctx, cfg.Redis, log)
	defer func() { _ = r.Close() }()
	if err := r.Delete(ctx, usecase.DatasetCacheKey); err != nil {
		log.Warn("dataset cache not invalidated", map[string]interface{}{"error": err})
	}
}

func writeJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
