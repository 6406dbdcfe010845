package stats

import (
	"github.com/kr/pretty"
	"github.com/travigo/stopmatch/pkg/database"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Summarise the last run exported to MongoDB",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "print stop, match type and problem counts",
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}

					summary, err := FromMongo(c.Context)
					if err != nil {
						return err
					}

					pretty.Println(summary)

					return nil
				},
			},
		},
	}
}
