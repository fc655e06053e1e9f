package global

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/travigo/ticketoffice/pkg/config"
	"github.com/travigo/ticketoffice/pkg/database"
	"github.com/travigo/ticketoffice/pkg/dataimporter"
	"github.com/travigo/ticketoffice/pkg/events"
	"github.com/travigo/ticketoffice/pkg/notify"
	"github.com/travigo/ticketoffice/pkg/planner/cachedresults"
	"github.com/travigo/ticketoffice/pkg/redis_client"
	"github.com/travigo/ticketoffice/pkg/snapshot"
	"github.com/travigo/ticketoffice/pkg/ticketoffice"
)

var Office *ticketoffice.Office
var Stores []snapshot.Store

// Setup connects the configured backends and loads the office, from the newest
// snapshot when one exists and from the timetable files otherwise
func Setup(cfg *config.Config) error {
	options := ticketoffice.Options{
		MaxTransfers: cfg.MaxTransfers,
		Concurrency:  cfg.PlannerConcurrency,
	}

	if cfg.SearchCache || cfg.PublishEvents || cfg.NotifyPurchases {
		if err := redis_client.Connect(); err != nil {
			return err
		}
	}

	if cfg.SearchCache {
		options.Cache = cachedresults.New(redis_client.Client, cfg.SearchCacheTTL)
	}

	var publishers events.MultiPublisher

	if cfg.PublishEvents {
		publisher, err := events.NewQueuePublisher(redis_client.QueueConnection, events.PurchaseQueue)
		if err != nil {
			return err
		}
		publishers = append(publishers, publisher)
	}

	if cfg.NotifyPurchases {
		publisher, err := events.NewQueuePublisher(redis_client.QueueConnection, notify.NotificationQueue)
		if err != nil {
			return err
		}
		publishers = append(publishers, publisher)
	}

	if events.StompConfigured() {
		publisher, err := events.ConnectStomp()
		if err != nil {
			return err
		}
		publishers = append(publishers, publisher)
	}

	if len(publishers) > 0 {
		options.Publisher = publishers
	}

	stores, err := openStores(cfg)
	if err != nil {
		return err
	}

	office := ticketoffice.New(nil, options)

	loaded, err := loadSnapshot(office, stores)
	if err != nil {
		return err
	}

	if !loaded && len(cfg.TimetableFiles) > 0 {
		if err := dataimporter.ImportFiles(office, cfg.TimetableFiles...); err != nil {
			return err
		}
	}

	Office = office
	Stores = stores

	return nil
}

func openStores(cfg *config.Config) ([]snapshot.Store, error) {
	var stores []snapshot.Store

	if cfg.SnapshotFile != "" {
		stores = append(stores, &snapshot.FileStore{Path: cfg.SnapshotFile})
	}

	if cfg.SnapshotMongo {
		if err := database.Connect(); err != nil {
			return nil, err
		}
		stores = append(stores, &snapshot.MongoStore{Collection: database.GetCollection(database.SnapshotsCollection)})
	}

	return stores, nil
}

// loadSnapshot restores the first store holding a snapshot
func loadSnapshot(office *ticketoffice.Office, stores []snapshot.Store) (bool, error) {
	for _, store := range stores {
		s, err := store.Load(context.Background())
		if errors.Is(err, snapshot.ErrNoSnapshot) {
			continue
		} else if err != nil {
			return false, err
		}

		if err := office.Restore(s); err != nil {
			return false, err
		}

		log.Info().Time("created", s.CreatedAt).Int("passengers", len(s.Passengers)).Msg("Restored snapshot")

		return true, nil
	}

	return false, nil
}

// SaveSnapshot writes the office state to every configured store
func SaveSnapshot(ctx context.Context) error {
	if Office == nil {
		return nil
	}

	s := Office.Snapshot()

	var errs []error
	for _, store := range Stores {
		if err := store.Save(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) == 0 && len(Stores) > 0 {
		log.Info().Int("stores", len(Stores)).Msg("Saved snapshot")
	}

	return errors.Join(errs...)
}
