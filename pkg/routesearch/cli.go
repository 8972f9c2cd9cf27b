package routesearch

import (
	"github.com/rs/zerolog/log"
	"github.com/travigo/pkrail/pkg/config"
	"github.com/travigo/pkrail/pkg/pakrail"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "route-search",
		Usage: "Search the trains running between matched station pairs",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "search every unique route in the input file",
				Flags: config.Flags(),
				Action: func(c *cli.Context) error {
					jobConfig, err := config.FromCLI(c)
					if err != nil {
						return err
					}

					logger := log.With().Str("job", "route-search").Logger()

					job := &Job{
						Config:   jobConfig,
						Searcher: pakrail.NewClient(jobConfig, logger),
						Logger:   logger,
					}

					_, err = job.Run(c.Context)
					return err
				},
			},
		},
	}
}
