package itinerary

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/travigo/ticketoffice/pkg/network"
	"github.com/travigo/ticketoffice/pkg/util"
)

var ErrTooFewStops = errors.New("an itinerary needs at least two stops")
var ErrOutOfOrder = errors.New("itinerary stops must not go back in time")

// Leg is one maximal run of stops on the same service
type Leg struct {
	ServiceID int
	Stops     []network.TrainStop

	UsedDuration time.Duration
	Cost         float64
}

func (l Leg) Board() network.TrainStop {
	return l.Stops[0]
}

func (l Leg) Alight() network.TrainStop {
	return l.Stops[len(l.Stops)-1]
}

// Itinerary is a passenger's concrete path through the timetable on a given date.
// Cost and duration are derived once at construction.
type Itinerary struct {
	Sequence int

	date  time.Time
	stops []network.TrainStop
	legs  []Leg

	cost            float64
	duration        time.Duration
	serviceDuration time.Duration
}

func New(n *network.Network, date time.Time, stopIDs []network.StopID) (*Itinerary, error) {
	if len(stopIDs) < 2 {
		return nil, ErrTooFewStops
	}

	it := &Itinerary{
		date:  time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()),
		stops: make([]network.TrainStop, len(stopIDs)),
	}

	for i, id := range stopIDs {
		it.stops[i] = n.Stop(id)

		if i > 0 && it.stops[i].Time.Before(it.stops[i-1].Time) {
			return nil, fmt.Errorf("%s %s after %s %s: %w",
				it.stops[i].Station, it.stops[i].Clock(), it.stops[i-1].Station, it.stops[i-1].Clock(), ErrOutOfOrder)
		}
	}

	for _, run := range splitRuns(it.stops) {
		service, err := n.Service(run[0].ServiceID)
		if err != nil {
			return nil, err
		}

		used := run[len(run)-1].Time.Sub(run[0].Time)

		it.legs = append(it.legs, Leg{
			ServiceID:    service.ID,
			Stops:        run,
			UsedDuration: used,
			Cost:         fractionCost(service, used),
		})

		it.cost += it.legs[len(it.legs)-1].Cost
		it.serviceDuration += used
	}

	it.duration = it.stops[len(it.stops)-1].Time.Sub(it.stops[0].Time)

	return it, nil
}

func splitRuns(stops []network.TrainStop) [][]network.TrainStop {
	var runs [][]network.TrainStop

	start := 0
	for i := 1; i <= len(stops); i++ {
		if i == len(stops) || stops[i].ServiceID != stops[start].ServiceID {
			runs = append(runs, stops[start:i])
			start = i
		}
	}

	return runs
}

// A service with no scheduled duration is charged in full for any use
func fractionCost(service *network.Service, used time.Duration) float64 {
	total := service.TotalDuration()
	if total <= 0 {
		return service.Cost
	}

	return service.Cost * float64(used) / float64(total)
}

func (it *Itinerary) Cost() float64 {
	return it.cost
}

// Duration is the elapsed time from the first departure to the final arrival
func (it *Itinerary) Duration() time.Duration {
	return it.duration
}

// ServiceDuration is the time spent on board, excluding waits between legs
func (it *Itinerary) ServiceDuration() time.Duration {
	return it.serviceDuration
}

func (it *Itinerary) DepartureDate() time.Time {
	return it.date
}

func (it *Itinerary) DepartureTime() time.Time {
	return it.stops[0].Time
}

func (it *Itinerary) ArrivalTime() time.Time {
	return it.stops[len(it.stops)-1].Time
}

func (it *Itinerary) DepartureDateTime() time.Time {
	return util.AddTimeToDate(it.date, it.DepartureTime())
}

func (it *Itinerary) ArrivalDateTime() time.Time {
	return util.AddTimeToDate(it.date, it.ArrivalTime())
}

func (it *Itinerary) Origin() string {
	return it.stops[0].Station
}

func (it *Itinerary) Destination() string {
	return it.stops[len(it.stops)-1].Station
}

func (it *Itinerary) Stops() []network.TrainStop {
	return append([]network.TrainStop(nil), it.stops...)
}

func (it *Itinerary) StopIDs() []network.StopID {
	ids := make([]network.StopID, len(it.stops))
	for i, stop := range it.stops {
		ids[i] = stop.ID
	}

	return ids
}

func (it *Itinerary) Legs() []Leg {
	return append([]Leg(nil), it.legs...)
}

func (it *Itinerary) ServiceIDs() []int {
	ids := make([]int, len(it.legs))
	for i, leg := range it.legs {
		ids[i] = leg.ServiceID
	}

	return ids
}

// WithSequence returns a copy numbered for a passenger's history
func (it *Itinerary) WithSequence(sequence int) *Itinerary {
	numbered := *it
	numbered.Sequence = sequence

	return &numbered
}

// Describe renders the itinerary the way it is shown at the ticket office
func (it *Itinerary) Describe() string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "Itinerary %d for %s @ %.2f", it.Sequence, it.date.Format(util.DateFormat), it.cost)

	for _, leg := range it.legs {
		fmt.Fprintf(&builder, "\nService #%d @ %.2f", leg.ServiceID, leg.Cost)
		for _, stop := range leg.Stops {
			fmt.Fprintf(&builder, "\n%s %s", stop.Clock(), stop.Station)
		}
	}

	return builder.String()
}
