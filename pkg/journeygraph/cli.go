package journeygraph

import (
	"context"
	"errors"

	"github.com/travigo/ticketoffice/pkg/dataimporter"
	"github.com/travigo/ticketoffice/pkg/network"
	"github.com/travigo/ticketoffice/pkg/snapshot"
	"github.com/travigo/ticketoffice/pkg/ticketoffice"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "journeygraph",
		Usage: "Export the timetable into Neo4j",
		Subcommands: []*cli.Command{
			{
				Name:  "export",
				Usage: "Replace the Neo4j graph with the timetable",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "path",
						Usage: "Timetable file to export, repeat for several files",
					},
					&cli.StringFlag{
						Name:  "snapshot",
						Usage: "Snapshot file to export",
					},
				},
				Action: func(c *cli.Context) error {
					ctx := context.Background()

					n, err := loadNetwork(ctx, c.StringSlice("path"), c.String("snapshot"))
					if err != nil {
						return err
					}

					driver, database, err := Connect(ctx)
					if err != nil {
						return err
					}
					defer driver.Close(ctx)

					return Export(ctx, driver, database, Build(n))
				},
			},
		},
	}
}

func loadNetwork(ctx context.Context, paths []string, snapshotPath string) (*network.Network, error) {
	switch {
	case snapshotPath != "":
		s, err := (&snapshot.FileStore{Path: snapshotPath}).Load(ctx)
		if err != nil {
			return nil, err
		}
		return s.BuildNetwork()
	case len(paths) > 0:
		office := ticketoffice.New(nil, ticketoffice.Options{})
		if err := dataimporter.ImportFiles(office, paths...); err != nil {
			return nil, err
		}
		return office.Network(), nil
	default:
		return nil, errors.New("either --path or --snapshot is required")
	}
}
