package routedistances

import (
	"errors"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/travigo/pkrail/pkg/config"
	"github.com/travigo/pkrail/pkg/pakrail"
	"github.com/travigo/pkrail/pkg/raildata"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "route-distances",
		Usage: "Fetch stop timetables and distances for searched routes",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "fetch the timetable of every train found by a route search",
				Flags: append(config.Flags(),
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "also export one CSV row per route, train and stop",
					},
				),
				Action: func(c *cli.Context) error {
					jobConfig, err := config.FromCLI(c)
					if err != nil {
						return err
					}

					logger := log.With().Str("job", "route-distances").Logger()

					job := &Job{
						Config:    jobConfig,
						Fetcher:   pakrail.NewClient(jobConfig, logger),
						Logger:    logger,
						ExportCSV: c.Bool("csv"),
					}

					_, err = job.Run(c.Context)
					return err
				},
			},
			{
				Name:  "timetable",
				Usage: "fetch and print the extracted timetable of a single train run",
				Flags: append(config.Flags(),
					&cli.Int64Flag{
						Name:     "id",
						Usage:    "trainDirDayId of the train run",
						Required: true,
					},
				),
				Action: func(c *cli.Context) error {
					jobConfig, err := config.FromCLI(c)
					if err != nil {
						return err
					}

					id := raildata.TrainRunID(c.Int64("id"))
					if id == 0 {
						return errors.New("id must be a non-zero trainDirDayId")
					}

					client := pakrail.NewClient(jobConfig, log.Logger)
					timetable, err := FetchTimetable(c.Context, client, id)
					if err != nil {
						return err
					}

					pretty.Println(timetable.StationTrainCode, timetable.Distances)

					return nil
				},
			},
		},
	}
}
