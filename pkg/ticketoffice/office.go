package ticketoffice

import (
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/travigo/ticketoffice/pkg/events"
	"github.com/travigo/ticketoffice/pkg/itinerary"
	"github.com/travigo/ticketoffice/pkg/network"
	"github.com/travigo/ticketoffice/pkg/planner"
)

// SearchCache remembers search results for a timetable, identified by its fingerprint
type SearchCache interface {
	Get(fingerprint string, q planner.Query) ([][]itinerary.LegSpec, bool)
	Set(fingerprint string, q planner.Query, results [][]itinerary.LegSpec)
}

type Options struct {
	MaxTransfers int
	Concurrency  int

	Cache     SearchCache
	Publisher events.Publisher
}

// Office owns the timetable and every passenger. Searches share a read lock, anything
// that changes a passenger or the timetable takes the write lock.
type Office struct {
	mutex sync.RWMutex

	network     *network.Network
	fingerprint string

	passengers      map[int]*Passenger
	nextPassengerID int

	pendingMutex sync.Mutex
	pending      map[int][]*itinerary.Itinerary

	options Options
}

func New(n *network.Network, options Options) *Office {
	if n == nil {
		n = network.New()
	}

	return &Office{
		network:     n,
		fingerprint: n.Fingerprint(),
		passengers:  map[int]*Passenger{},
		pending:     map[int][]*itinerary.Itinerary{},
		options:     options,
	}
}

// Network returns the current timetable. It must be treated as read-only.
func (o *Office) Network() *network.Network {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	return o.network
}

func (o *Office) ReplaceNetwork(n *network.Network) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.network = n
	o.fingerprint = n.Fingerprint()
	o.clearPending()

	log.Info().
		Int("stations", len(n.Stations())).
		Int("services", len(n.Services())).
		Msg("Loaded network")
}

func (o *Office) RegisterPassenger(name string) (*Passenger, error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if err := o.validateName(name, -1); err != nil {
		return nil, err
	}

	passenger := newPassenger(o.nextPassengerID, name)
	o.passengers[passenger.ID] = passenger
	o.nextPassengerID++

	log.Info().Int("id", passenger.ID).Str("name", name).Msg("Registered passenger")

	return passenger.clone(), nil
}

func (o *Office) RenamePassenger(id int, name string) error {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	passenger, exists := o.passengers[id]
	if !exists {
		return &NoSuchPassengerIdError{ID: id}
	}

	if err := o.validateName(name, id); err != nil {
		return err
	}

	passenger.Name = name

	return nil
}

// validateName rejects empty names and names held by anyone other than the passenger
func (o *Office) validateName(name string, id int) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidPassengerName
	}

	for _, passenger := range o.passengers {
		if passenger.Name == name && passenger.ID != id {
			return &NonUniquePassengerNameError{Name: name}
		}
	}

	return nil
}

func (o *Office) Passenger(id int) (*Passenger, error) {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	passenger, exists := o.passengers[id]
	if !exists {
		return nil, &NoSuchPassengerIdError{ID: id}
	}

	return passenger.clone(), nil
}

// Passengers returns every passenger ordered by id
func (o *Office) Passengers() []*Passenger {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	ids := o.passengerIDs()

	passengers := make([]*Passenger, len(ids))
	for i, id := range ids {
		passengers[i] = o.passengers[id].clone()
	}

	return passengers
}

// PassengerHistory returns the passenger's committed itineraries in purchase order
func (o *Office) PassengerHistory(id int) ([]*itinerary.Itinerary, error) {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	passenger, exists := o.passengers[id]
	if !exists {
		return nil, &NoSuchPassengerIdError{ID: id}
	}

	return append([]*itinerary.Itinerary(nil), passenger.Itineraries...), nil
}

// Reset forgets every passenger and pending search. The timetable and the passenger
// id sequence are kept.
func (o *Office) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.passengers = map[int]*Passenger{}
	o.clearPending()

	log.Info().Msg("Reset passengers")
}

func (o *Office) clearPending() {
	o.pendingMutex.Lock()
	defer o.pendingMutex.Unlock()

	o.pending = map[int][]*itinerary.Itinerary{}
}
