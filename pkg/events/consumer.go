package events

import (
	"encoding/json"
	"io"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
)

type IndexFunc func(indexName string, document io.ReadSeeker)

type BatchConsumer struct {
	Index IndexFunc
}

func NewBatchConsumer(index IndexFunc) *BatchConsumer {
	return &BatchConsumer{Index: index}
}

func (consumer *BatchConsumer) Consume(batch rmq.Deliveries) {
	for _, delivery := range batch {
		event, err := DecodePurchase(delivery.Payload())
		if err != nil {
			log.Error().Err(err).Msg("Failed to decode purchase event")

			if err := delivery.Reject(); err != nil {
				log.Error().Err(err).Msg("Failed to reject purchase event")
			}
			continue
		}

		log.Info().
			Int("passenger", event.PassengerID).
			Int("sequence", event.Sequence).
			Str("origin", event.Origin).
			Str("destination", event.Destination).
			Float64("applied", event.AppliedCost).
			Str("category", event.Category).
			Msg("Purchase")

		if consumer.Index != nil {
			document, err := event.Document()
			if err != nil {
				log.Error().Err(err).Int("passenger", event.PassengerID).Msg("Failed to encode purchase event for indexing")
			} else {
				consumer.Index(event.IndexName(), document)
			}
		}

		if err := delivery.Ack(); err != nil {
			log.Error().Err(err).Msg("Failed to ack purchase event")
		}
	}
}

func DecodePurchase(payload string) (*PurchaseEvent, error) {
	var event PurchaseEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return nil, err
	}

	return &event, nil
}
