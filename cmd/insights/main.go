// backend-go/cmd/insights/main.go
package main

import (
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not load .env file: %v", err)
	}

	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	env := &cliEnv{}

	return &cli.App{
		Name:   "insights",
		Usage:  "Compute business insights, alerts and forecasts from a data snapshot",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db-url",
				Usage:   "Database connection string",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "Directory containing products.csv, sales.csv and clients.csv",
				EnvVars: []string{"INSIGHTS_DATA_DIR"},
			},
			&cli.StringFlag{
				Name:    "bucket",
				Usage:   "Fetch the snapshot files from this bucket into --data-dir first",
				EnvVars: []string{"STORAGE_BUCKET"},
			},
			&cli.StringFlag{
				Name:    "prefix",
				Usage:   "Object prefix of the snapshot files in the bucket",
				Value:   "snapshots/latest",
				EnvVars: []string{"STORAGE_PREFIX"},
			},
			&cli.StringFlag{
				Name:  "now",
				Usage: "Reference time (2006-01-02 or RFC3339), defaults to the current time",
			},
			&cli.Int64Flag{
				Name:    "seed",
				Usage:   "Random seed for reproducible forecasts (0 = time based)",
				EnvVars: []string{"ANALYTICS_RANDOM_SEED"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: env.init,
		After:  env.close,
		Commands: []*cli.Command{
			{
				Name:  "report",
				Usage: "Print the full report: insights, alerts and both forecasts",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "upload",
						Usage: "Also store the report as report.json under --prefix in --bucket",
					},
				},
				Action: env.runReport,
			},
			{
				Name:   "alerts",
				Usage:  "Print the smart alerts",
				Action: env.runAlerts,
			},
			{
				Name:  "forecast",
				Usage: "Print a forecast series",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "kind",
						Usage: "demand or revenue",
						Value: "demand",
					},
				},
				Action: env.runForecast,
			},
			{
				Name:   "seed",
				Usage:  "Load the --data-dir snapshot into the --db-url database",
				Action: env.runSeed,
			},
		},
	}
}
