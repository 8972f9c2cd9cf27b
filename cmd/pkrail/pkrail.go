package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/pkrail/pkg/routedistances"
	"github.com/travigo/pkrail/pkg/routesearch"
	"github.com/travigo/pkrail/pkg/util"
	"github.com/urfave/cli/v2"
)

func main() {
	if os.Getenv("PKRAIL_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if util.EnvironmentFlag("PKRAIL_DEBUG") {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "pkrail",
		Description: "Batch fetcher for Pakistan Railways routes, timetables and distances",

		Commands: []*cli.Command{
			routesearch.RegisterCLI(),
			routedistances.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
