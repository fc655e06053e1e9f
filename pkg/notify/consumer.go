package notify

import (
	"context"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/travigo/ticketoffice/pkg/events"
)

type NotifyBatchConsumer struct {
	PushManager *PushManager
}

func NewNotifyBatchConsumer(pushManager *PushManager) *NotifyBatchConsumer {
	return &NotifyBatchConsumer{PushManager: pushManager}
}

// Consume acks delivered receipts and rejects payloads that are not purchase events
// or could not be sent
func (c *NotifyBatchConsumer) Consume(batch rmq.Deliveries) {
	for _, delivery := range batch {
		event, err := events.DecodePurchase(delivery.Payload())
		if err == nil {
			err = c.PushManager.SendReceipt(context.Background(), event)
		}

		if err != nil {
			log.Error().Err(err).Msg("Failed to send purchase receipt")

			if err := delivery.Reject(); err != nil {
				log.Error().Err(err).Msg("Failed to reject purchase receipt")
			}
			continue
		}

		if err := delivery.Ack(); err != nil {
			log.Error().Err(err).Msg("Failed to ack purchase receipt")
		}
	}
}
