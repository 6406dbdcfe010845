package dataimporter

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/travigo/stopmatch/pkg/config"
	"github.com/travigo/stopmatch/pkg/database"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "data-importer",
		Usage: "Parse the ATLAS, OSM, route token and manual match inputs",
		Subcommands: []*cli.Command{
			{
				Name:  "check",
				Usage: "Load every configured input and report row counts without matching",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Usage: "YAML configuration file",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}
					if err := cfg.Validate(); err != nil {
						return fmt.Errorf("invalid configuration: %w", err)
					}

					if cfg.ManualMatchesFromMongoDB {
						if err := database.Connect(); err != nil {
							return err
						}
					}

					dataset, err := Load(c.Context, cfg)
					if err != nil {
						return err
					}

					for _, stats := range dataset.Stats {
						log.Info().
							Str("file", stats.File).
							Int("rows", stats.Rows).
							Int("kept", stats.Kept).
							Int("malformed", stats.Malformed).
							Int("filtered", stats.Filtered).
							Msg("Input")
					}

					duplicates := dataset.DuplicateSloids()
					log.Info().Int("duplicate_sloids", len(duplicates)).Msg("ATLAS duplicates")

					return nil
				},
			},
		},
	}
}
