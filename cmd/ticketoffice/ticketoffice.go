package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/ticketoffice/pkg/api"
	"github.com/travigo/ticketoffice/pkg/dataimporter"
	"github.com/travigo/ticketoffice/pkg/events"
	"github.com/travigo/ticketoffice/pkg/journeygraph"
	"github.com/travigo/ticketoffice/pkg/notify"
	"github.com/travigo/ticketoffice/pkg/snapshot"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("TICKETOFFICE_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("TICKETOFFICE_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "ticketoffice",
		Description: "Train ticket office: timetable search, purchases and passenger history",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			dataimporter.RegisterCLI(),
			snapshot.RegisterCLI(),
			events.RegisterCLI(),
			notify.RegisterCLI(),
			journeygraph.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
