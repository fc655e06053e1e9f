package dataimporter

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/ticketoffice/pkg/database"
	"github.com/travigo/ticketoffice/pkg/dataimporter/formats"
	"github.com/travigo/ticketoffice/pkg/dataimporter/formats/timetable"
	"github.com/travigo/ticketoffice/pkg/snapshot"
	"github.com/travigo/ticketoffice/pkg/ticketoffice"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "data-importer",
		Usage: "Import timetable files",
		Subcommands: []*cli.Command{
			{
				Name:  "file",
				Usage: "Import a timetable file and store it as a snapshot",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "path",
						Usage:    "Path to a pipe separated timetable file, repeat to import several files as one",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "snapshot",
						Usage: "Write the resulting snapshot to this file",
					},
					&cli.BoolFlag{
						Name:  "mongo",
						Usage: "Store the resulting snapshot in MongoDB",
					},
				},
				Action: func(c *cli.Context) error {
					startTime := time.Now()

					office := ticketoffice.New(nil, ticketoffice.Options{})
					if err := ImportFiles(office, c.StringSlice("path")...); err != nil {
						return err
					}

					var stores []snapshot.Store
					if c.String("snapshot") != "" {
						stores = append(stores, &snapshot.FileStore{Path: c.String("snapshot")})
					}
					if c.Bool("mongo") {
						if err := database.Connect(); err != nil {
							return err
						}
						stores = append(stores, &snapshot.MongoStore{Collection: database.GetCollection(database.SnapshotsCollection)})
					}

					s := office.Snapshot()
					for _, store := range stores {
						if err := store.Save(context.Background(), s); err != nil {
							return err
						}
					}

					log.Info().
						Strs("path", c.StringSlice("path")).
						Int("passengers", len(s.Passengers)).
						Int("services", len(s.Services)).
						Str("duration", time.Since(startTime).String()).
						Msg("Import complete")

					return nil
				},
			},
			{
				Name:  "export",
				Usage: "Export the segments of a timetable file as CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "path",
						Usage:    "Path to the pipe separated timetable file",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "output",
						Usage:    "CSV file to write",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					file, err := os.Open(c.String("path"))
					if err != nil {
						return err
					}
					defer file.Close()

					parsed := &timetable.Timetable{}
					if err := parsed.ParseFile(file); err != nil {
						return err
					}

					n, err := parsed.BuildNetwork()
					if err != nil {
						return err
					}

					output, err := os.Create(c.String("output"))
					if err != nil {
						return err
					}
					defer output.Close()

					return timetable.ExportSegments(n, output)
				},
			},
		},
	}
}

// ImportFiles parses the timetable files as one timetable, in order, and loads the
// result into the office
func ImportFiles(office *ticketoffice.Office, paths ...string) error {
	var format formats.Format = &timetable.Timetable{}

	for _, path := range paths {
		if err := parseFile(format, path); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	return format.Import(office)
}

func parseFile(format formats.Format, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return format.ParseFile(file)
}
