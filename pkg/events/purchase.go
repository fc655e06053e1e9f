package events

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/adjust/rmq/v5"
)

const PurchaseQueue = "purchase-events"

// PurchaseEvent is emitted after an itinerary is committed to a passenger
type PurchaseEvent struct {
	PassengerID   int
	PassengerName string
	Sequence      int

	Date        string
	Origin      string
	Destination string
	Departure   time.Time
	Arrival     time.Time
	Legs        []string

	RawCost     float64
	AppliedCost float64
	Category    string

	CreationDateTime time.Time
}

// IndexName is the monthly Elasticsearch index the event belongs in
func (e PurchaseEvent) IndexName() string {
	return fmt.Sprintf("ticketoffice-purchases-%d-%02d", e.CreationDateTime.Year(), e.CreationDateTime.Month())
}

// Document encodes the event for indexing
func (e PurchaseEvent) Document() (io.ReadSeeker, error) {
	document, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(document), nil
}

type Publisher interface {
	Publish(event PurchaseEvent) error
}

// QueuePublisher pushes events onto an rmq queue as JSON
type QueuePublisher struct {
	Queue rmq.Queue
}

func NewQueuePublisher(connection rmq.Connection, queueName string) (*QueuePublisher, error) {
	queue, err := connection.OpenQueue(queueName)
	if err != nil {
		return nil, err
	}

	return &QueuePublisher{Queue: queue}, nil
}

func (p *QueuePublisher) Publish(event PurchaseEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.Queue.PublishBytes(eventBytes)
}
