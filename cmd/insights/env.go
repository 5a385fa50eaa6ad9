package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/smartgestion/backend-go/internal/config"
	"github.com/andresuchdata/smartgestion/backend-go/internal/insights"
	"github.com/andresuchdata/smartgestion/backend-go/internal/repository"
	"github.com/andresuchdata/smartgestion/backend-go/internal/repository/csvsource"
	"github.com/andresuchdata/smartgestion/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/smartgestion/backend-go/internal/service"
	"github.com/andresuchdata/smartgestion/backend-go/internal/storage"
	"github.com/andresuchdata/smartgestion/backend-go/pkg/logger"
)

// cliEnv holds the resources opened for one command run
type cliEnv struct {
	db       *postgres.DB
	csv      *csvsource.Provider
	store    storage.ObjectStorage
	provider repository.SnapshotProvider
	engine   *insights.Engine
	service  *service.InsightService
	now      time.Time
}

func (e *cliEnv) init(c *cli.Context) error {
	logger.ConfigureOutput(os.Stderr, "console", c.String("log-level"))

	now, err := parseNow(c.String("now"))
	if err != nil {
		return err
	}
	e.now = now

	if bucket := c.String("bucket"); bucket != "" {
		if c.String("data-dir") == "" {
			return fmt.Errorf("--bucket requires --data-dir")
		}
		storageCfg := config.Load().Storage
		storageCfg.Bucket = bucket
		if e.store, err = storage.NewMinioClient(storageCfg); err != nil {
			return err
		}
		if _, err := storage.FetchFiles(c.Context, e.store, c.String("prefix"), c.String("data-dir"), csvsource.Files); err != nil {
			return err
		}
	}

	if dbURL := c.String("db-url"); dbURL != "" {
		if e.db, err = postgres.Open("pgx", dbURL, 0); err != nil {
			return err
		}
	}

	switch {
	case c.String("data-dir") != "":
		e.csv = csvsource.NewProvider(c.String("data-dir"))
		e.provider = e.csv
	case e.db != nil:
		e.provider = postgres.NewSnapshotRepository(e.db)
	}

	e.engine = insights.NewEngine(insights.DefaultThresholds(), randomSource(c.Int64("seed")))
	if e.provider != nil {
		e.service = service.NewInsightService(e.provider, nil, e.engine, nil, nil).
			WithClock(func() time.Time { return e.now })
	}
	return nil
}

func (e *cliEnv) close(c *cli.Context) error {
	if e.db != nil {
		return e.db.Close()
	}
	return nil
}

func (e *cliEnv) requireService() error {
	if e.service == nil {
		return fmt.Errorf("a snapshot source is required: set --data-dir or --db-url")
	}
	return nil
}

func (e *cliEnv) runReport(c *cli.Context) error {
	if err := e.requireService(); err != nil {
		return err
	}

	report, err := e.service.Report(c.Context)
	if err != nil {
		return err
	}

	if c.Bool("upload") {
		if e.store == nil {
			return fmt.Errorf("--upload requires --bucket")
		}
		payload, err := json.Marshal(report)
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		if err := e.store.UploadObject(c.Context, c.String("prefix")+"/report.json", payload); err != nil {
			return err
		}
	}

	return printJSON(c, report)
}

func (e *cliEnv) runAlerts(c *cli.Context) error {
	if err := e.requireService(); err != nil {
		return err
	}

	snapshot, err := e.service.LoadSnapshot(c.Context)
	if err != nil {
		return err
	}

	return printJSON(c, e.engine.AlertGenerator().Generate(snapshot, e.now))
}

func (e *cliEnv) runForecast(c *cli.Context) error {
	if err := e.requireService(); err != nil {
		return err
	}

	report, err := e.service.Report(c.Context)
	if err != nil {
		return err
	}

	switch c.String("kind") {
	case "demand":
		return printJSON(c, report.Demand)
	case "revenue":
		return printJSON(c, report.Revenue)
	}
	return fmt.Errorf("unknown forecast kind %q", c.String("kind"))
}

func (e *cliEnv) runSeed(c *cli.Context) error {
	if e.db == nil || e.csv == nil {
		return fmt.Errorf("seed requires both --db-url and --data-dir")
	}

	ctx := c.Context
	snapshot, err := e.service.LoadSnapshot(ctx)
	if err != nil {
		return err
	}
	if err := e.db.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := postgres.WriteSnapshot(ctx, e.db, snapshot); err != nil {
		return err
	}

	_, err = fmt.Fprintf(c.App.Writer, "seeded %d products, %d sales, %d clients\n",
		len(snapshot.Products), len(snapshot.Sales), len(snapshot.Clients))
	return err
}

func printJSON(c *cli.Context, v interface{}) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseNow(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --now %q", raw)
}

func randomSource(seed int64) insights.RandomSource {
	if seed == 0 {
		return insights.NewTimeSeededSource()
	}
	return rand.New(rand.NewSource(seed))
}
