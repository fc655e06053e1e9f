package notify

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog/log"
	"github.com/travigo/ticketoffice/pkg/events"
	"github.com/travigo/ticketoffice/pkg/util"
	"google.golang.org/api/option"
)

const NotificationQueue = "purchase-notifications"

type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// PushManager sends purchase receipts to the passenger's Firebase topic
type PushManager struct {
	Sender Sender
}

func (m *PushManager) Setup() error {
	fireBaseAuthKey := util.GetEnvironmentVariables()["TICKETOFFICE_FIREBASE_SERVICE_ACCOUNT"]
	if fireBaseAuthKey == "" {
		return errors.New("TICKETOFFICE_FIREBASE_SERVICE_ACCOUNT is not set")
	}

	decodedKey, err := base64.StdEncoding.DecodeString(fireBaseAuthKey)
	if err != nil {
		return err
	}

	opts := []option.ClientOption{option.WithCredentialsJSON(decodedKey)}

	app, err := firebase.NewApp(context.Background(), nil, opts...)
	if err != nil {
		return err
	}

	fcmClient, err := app.Messaging(context.Background())
	if err != nil {
		return err
	}

	m.Sender = fcmClient

	return nil
}

func PassengerTopic(passengerID int) string {
	return fmt.Sprintf("passenger-%d", passengerID)
}

func ReceiptMessage(event *events.PurchaseEvent) *messaging.Message {
	return &messaging.Message{
		Notification: &messaging.Notification{
			Title: fmt.Sprintf("Ticket %s to %s", event.Origin, event.Destination),
			Body: fmt.Sprintf("%s departing %s, paid %.2f",
				event.Date, event.Departure.Format(util.ClockFormat), event.AppliedCost),
		},
		Data: map[string]string{
			"passenger": fmt.Sprint(event.PassengerID),
			"sequence":  fmt.Sprint(event.Sequence),
			"category":  event.Category,
		},
		Topic: PassengerTopic(event.PassengerID),
	}
}

func (m *PushManager) SendReceipt(ctx context.Context, event *events.PurchaseEvent) error {
	if _, err := m.Sender.Send(ctx, ReceiptMessage(event)); err != nil {
		return err
	}

	log.Info().Int("passenger", event.PassengerID).Int("sequence", event.Sequence).Msg("Sent purchase receipt")

	return nil
}
