package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/stopmatch/pkg/dataimporter"
	"github.com/travigo/stopmatch/pkg/reconciler"
	"github.com/travigo/stopmatch/pkg/stats"
	"github.com/urfave/cli/v2"
)

func main() {
	if os.Getenv("STOPMATCH_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("STOPMATCH_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "stopmatch",
		Description: "Reconciles the ATLAS stop registry with OpenStreetMap and ranks the remaining discrepancies",

		Commands: []*cli.Command{
			reconciler.RegisterCLI(),
			dataimporter.RegisterCLI(),
			stats.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
