package events

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/ticketoffice/pkg/consumer"
	"github.com/travigo/ticketoffice/pkg/elastic_client"
	"github.com/travigo/ticketoffice/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "Provides the purchase events runner",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run purchase events consumer",
				Action: func(c *cli.Context) error {
					if err := redis_client.Connect(); err != nil {
						return err
					}
					if err := elastic_client.Connect(false); err != nil {
						return err
					}

					redisConsumer := consumer.RedisConsumer{
						QueueName:       PurchaseQueue,
						NumberConsumers: 5,
						BatchSize:       20,
						Timeout:         2 * time.Second,
						Consumer:        NewBatchConsumer(elastic_client.IndexRequest),
					}
					redisConsumer.Setup()

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT)
					defer signal.Stop(signals)

					<-signals // wait for signal
					go func() {
						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					<-redis_client.QueueConnection.StopAllConsuming() // wait for all Consume() calls to finish
					elastic_client.WaitUntilQueueEmpty()

					return nil
				},
			},
			{
				Name:  "test-event",
				Usage: "publish a test purchase event",
				Action: func(c *cli.Context) error {
					if err := redis_client.Connect(); err != nil {
						return err
					}

					publisher, err := NewQueuePublisher(redis_client.QueueConnection, PurchaseQueue)
					if err != nil {
						log.Fatal().Err(err).Msg("Failed to open purchase queue")
					}

					now := time.Now()

					return publisher.Publish(PurchaseEvent{
						PassengerID:      0,
						PassengerName:    "Test Passenger",
						Sequence:         1,
						Date:             now.Format("2006-01-02"),
						Origin:           "Lisboa",
						Destination:      "Porto",
						Departure:        now,
						Arrival:          now.Add(3 * time.Hour),
						Legs:             []string{"1/Lisboa/Porto"},
						RawCost:          10,
						AppliedCost:      10,
						Category:         "NORMAL",
						CreationDateTime: now,
					})
				},
			},
		},
	}
}
