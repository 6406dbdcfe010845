package reconciler

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/travigo/stopmatch/pkg/config"
	"github.com/urfave/cli/v2"
)

var inputFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "config",
		Usage: "YAML configuration file",
	},
	&cli.StringFlag{
		Name:  "atlas",
		Usage: "ATLAS traffic point CSV",
	},
	&cli.StringFlag{
		Name:  "osm",
		Usage: "OSM XML extract",
	},
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("atlas") {
		cfg.Inputs.Atlas = c.String("atlas")
	}
	if c.IsSet("osm") {
		cfg.Inputs.Osm = c.String("osm")
	}
	if c.IsSet("output") {
		cfg.Export.OutputDirectory = c.String("output")
	}
	if c.IsSet("mongodb") {
		cfg.Export.MongoDB = c.Bool("mongodb")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "match",
		Usage: "Reconcile ATLAS stops with OpenStreetMap",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Match the datasets, detect problems and export the results",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "output",
						Usage: "Directory the CSV results are written to",
					},
					&cli.BoolFlag{
						Name:  "mongodb",
						Usage: "Export the results to MongoDB",
					},
				}, inputFlags...),
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}

					ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
					defer stop()

					outcome, err := Run(ctx, cfg)
					if err != nil {
						return err
					}

					for _, stage := range outcome.Result.Stages {
						log.Info().Str("stage", stage.Stage).Int("matches", stage.Matches).Msg("Stage summary")
					}

					return nil
				},
			},
			{
				Name:  "inspect",
				Usage: "Run the matching without exporting and dump everything about one stop",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "sloid",
						Usage: "ATLAS sloid to inspect",
					},
					&cli.StringFlag{
						Name:  "node",
						Usage: "OSM node id to inspect",
					},
				}, inputFlags...),
				Action: func(c *cli.Context) error {
					if c.String("sloid") == "" && c.String("node") == "" {
						return errors.New("one of --sloid or --node is required")
					}

					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					cfg.Export.OutputDirectory = ""
					cfg.Export.MongoDB = false

					outcome, err := Run(c.Context, cfg)
					if err != nil {
						return err
					}

					pretty.Println(outcome.Inspect(c.String("sloid"), c.String("node")))

					return nil
				},
			},
		},
	}
}
