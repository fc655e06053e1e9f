package snapshot

import (
	"errors"
	"fmt"
	"time"

	"github.com/travigo/ticketoffice/pkg/itinerary"
	"github.com/travigo/ticketoffice/pkg/network"
	"github.com/travigo/ticketoffice/pkg/util"
)

const CurrentVersion = 1

var ErrNoSnapshot = errors.New("no snapshot stored")

// Snapshot is the persisted state of a ticket office. It refers to stations by name
// and services by id so it does not depend on in-memory stop ids.
type Snapshot struct {
	Version   int
	CreatedAt time.Time

	Stations   []string
	Services   []Service
	Passengers []Passenger

	NextPassengerID int
}

type Service struct {
	ID       int
	Cost     float64
	Segments []Segment
}

type Segment struct {
	StartStation string
	StartTime    string
	EndStation   string
	EndTime      string
}

type Passenger struct {
	ID   int
	Name string

	Category        string
	RecentPurchases []float64
	TotalSpent      float64

	Itineraries []Itinerary
}

type Itinerary struct {
	Sequence int
	Date     string
	Legs     []itinerary.LegSpec
}

// FromNetwork records every station and service of the network
func FromNetwork(n *network.Network) ([]string, []Service) {
	var services []Service

	for _, service := range n.Services() {
		record := Service{
			ID:   service.ID,
			Cost: service.Cost,
		}

		for i := range service.Segments {
			start := n.Stop(service.Departures[i])
			end := n.Stop(service.Arrivals[i])

			record.Segments = append(record.Segments, Segment{
				StartStation: start.Station,
				StartTime:    start.Clock(),
				EndStation:   end.Station,
				EndTime:      end.Clock(),
			})
		}

		services = append(services, record)
	}

	return n.Stations(), services
}

// BuildNetwork replays the snapshot's timetable into a new network
func (s *Snapshot) BuildNetwork() (*network.Network, error) {
	if s.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", s.Version)
	}

	n := network.New()

	for _, station := range s.Stations {
		n.AddStation(station)
	}

	for _, service := range s.Services {
		if _, err := n.AddService(service.ID, service.Cost); err != nil {
			return nil, err
		}

		for _, segment := range service.Segments {
			start, err := network.ParseStopSpec(segment.StartStation, segment.StartTime)
			if err != nil {
				return nil, err
			}
			end, err := network.ParseStopSpec(segment.EndStation, segment.EndTime)
			if err != nil {
				return nil, err
			}

			if err := n.AddSegment(service.ID, start, end); err != nil {
				return nil, err
			}
		}
	}

	return n, nil
}

func FromItinerary(it *itinerary.Itinerary) Itinerary {
	return Itinerary{
		Sequence: it.Sequence,
		Date:     it.DepartureDate().Format(util.DateFormat),
		Legs:     it.LegSpecs(),
	}
}

func (i Itinerary) Build(n *network.Network) (*itinerary.Itinerary, error) {
	date, err := util.ParseDate(i.Date)
	if err != nil {
		return nil, err
	}

	it, err := itinerary.FromLegs(n, date, i.Legs)
	if err != nil {
		return nil, err
	}

	return it.WithSequence(i.Sequence), nil
}
