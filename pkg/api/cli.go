package api

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/ticketoffice/pkg/config"
	"github.com/travigo/ticketoffice/pkg/ticketoffice/global"
	"github.com/travigo/ticketoffice/pkg/util"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the ticket office web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Usage: "listen target for the web server, overrides the config",
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "YAML config file",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}
					if c.IsSet("listen") {
						cfg.Listen = c.String("listen")
					}

					if err := global.Setup(cfg); err != nil {
						return err
					}

					options := Options{
						SaveSnapshot: global.SaveSnapshot,
					}

					env := util.GetEnvironmentVariables()
					if env["TICKETOFFICE_AUTH0_DOMAIN"] != "" {
						options.AdminAuth, err = EnsureValidToken(env["TICKETOFFICE_AUTH0_DOMAIN"], env["TICKETOFFICE_AUTH0_AUDIENCE"])
						if err != nil {
							return err
						}
					} else {
						log.Warn().Msg("TICKETOFFICE_AUTH0_DOMAIN not set, admin routes are disabled")
					}

					webApp := NewApp(global.Office, options)

					go func() {
						signals := make(chan os.Signal, 1)
						signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
						<-signals

						log.Info().Msg("Shutting down web api")
						if err := webApp.ShutdownWithTimeout(10 * time.Second); err != nil {
							log.Error().Err(err).Msg("Failed to shut down cleanly")
						}
					}()

					log.Info().Str("listen", cfg.Listen).Msg("Starting web api")
					if err := webApp.Listen(cfg.Listen); err != nil {
						return err
					}

					return global.SaveSnapshot(context.Background())
				},
			},
		},
	}
}
