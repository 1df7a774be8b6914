// majormatch recommends majors from a transcript and manages the catalog store.
//
// Usage:
//
//	majormatch recommend --transcript transcript.csv --tech 8 --income 70000
//	majormatch majors
//	majormatch migrate
//	majormatch seed [--dataset majors.json]
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "majormatch",
		Usage:   "Recommend academic majors from completed courses and interests",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Directory holding config.yaml",
				EnvVars: []string{"MAJORMATCH_CONFIG_DIR"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error); overrides app.log_level",
				EnvVars: []string{"MAJORMATCH_LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			recommendCommand(),
			majorsCommand(),
			migrateCommand(),
			seedCommand(),
		},
	}
}
