package snapshot

import (
	"context"
	"errors"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/travigo/ticketoffice/pkg/database"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "Inspect and move ticket office snapshots",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print a snapshot",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "file",
						Usage: "Snapshot file, the latest MongoDB snapshot is used when empty",
					},
				},
				Action: func(c *cli.Context) error {
					store, err := storeFor(c.String("file"))
					if err != nil {
						return err
					}

					s, err := store.Load(context.Background())
					if err != nil {
						return err
					}

					pretty.Println(s)

					return nil
				},
			},
			{
				Name:  "save",
				Usage: "Copy a snapshot file into MongoDB",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Snapshot file",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					s, err := (&FileStore{Path: c.String("file")}).Load(context.Background())
					if err != nil {
						return err
					}

					if _, err := s.BuildNetwork(); err != nil {
						return err
					}

					mongoStore, err := storeFor("")
					if err != nil {
						return err
					}

					if err := mongoStore.Save(context.Background(), s); err != nil {
						return err
					}

					log.Info().Str("file", c.String("file")).Time("created", s.CreatedAt).Msg("Saved snapshot to MongoDB")

					return nil
				},
			},
		},
	}
}

func storeFor(path string) (Store, error) {
	if path != "" {
		return &FileStore{Path: path}, nil
	}

	if err := database.Connect(); err != nil {
		return nil, errors.Join(errors.New("no snapshot file given and MongoDB is unavailable"), err)
	}

	return &MongoStore{Collection: database.GetCollection(database.SnapshotsCollection)}, nil
}
