package events

import (
	"encoding/json"
	"errors"

	"github.com/go-stomp/stomp/v3"
	"github.com/travigo/ticketoffice/pkg/util"
)

const DefaultStompDestination = "/topic/ticketoffice.purchases"

// StompPublisher sends events as JSON frames to a STOMP broker destination
type StompPublisher struct {
	Conn        *stomp.Conn
	Destination string
}

// StompConfigured reports whether a STOMP broker address was given
func StompConfigured() bool {
	return util.GetEnvironmentVariables()["TICKETOFFICE_STOMP_ADDRESS"] != ""
}

func ConnectStomp() (*StompPublisher, error) {
	env := util.GetEnvironmentVariables()

	if env["TICKETOFFICE_STOMP_ADDRESS"] == "" {
		return nil, errors.New("TICKETOFFICE_STOMP_ADDRESS is not set")
	}

	var stompOptions []func(*stomp.Conn) error
	if env["TICKETOFFICE_STOMP_USERNAME"] != "" {
		stompOptions = append(stompOptions, stomp.ConnOpt.Login(env["TICKETOFFICE_STOMP_USERNAME"], env["TICKETOFFICE_STOMP_PASSWORD"]))
	}

	conn, err := stomp.Dial("tcp", env["TICKETOFFICE_STOMP_ADDRESS"], stompOptions...)
	if err != nil {
		return nil, err
	}

	destination := DefaultStompDestination
	if env["TICKETOFFICE_STOMP_DESTINATION"] != "" {
		destination = env["TICKETOFFICE_STOMP_DESTINATION"]
	}

	return &StompPublisher{Conn: conn, Destination: destination}, nil
}

func (p *StompPublisher) Publish(event PurchaseEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.Conn.Send(p.Destination, "application/json", eventBytes)
}

// MultiPublisher hands each event to every publisher and joins their errors
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(event PurchaseEvent) error {
	var errs []error
	for _, publisher := range m {
		if err := publisher.Publish(event); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
