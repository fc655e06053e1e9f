package routes

import (
	"time"

	iso8601 "github.com/senseyeio/duration"
	"github.com/travigo/ticketoffice/pkg/itinerary"
	"github.com/travigo/ticketoffice/pkg/network"
	"github.com/travigo/ticketoffice/pkg/ticketoffice"
	"github.com/travigo/ticketoffice/pkg/util"
)

type SegmentView struct {
	StartStation string  `json:"start_station" groups:"detailed"`
	StartTime    string  `json:"start_time" groups:"detailed"`
	EndStation   string  `json:"end_station" groups:"detailed"`
	EndTime      string  `json:"end_time" groups:"detailed"`
	Duration     string  `json:"duration" groups:"detailed"`
	Cost         float64 `json:"cost" groups:"detailed"`
}

type ServiceView struct {
	ID          int     `json:"id" groups:"basic"`
	Cost        float64 `json:"cost" groups:"basic"`
	Origin      string  `json:"origin" groups:"basic"`
	Departure   string  `json:"departure" groups:"basic"`
	Destination string  `json:"destination" groups:"basic"`
	Arrival     string  `json:"arrival" groups:"basic"`
	Duration    string  `json:"duration" groups:"basic"`

	Segments    []SegmentView `json:"segments" groups:"detailed"`
	Description string        `json:"description" groups:"detailed"`
}

type CallView struct {
	ServiceID int    `json:"service_id" groups:"basic"`
	Time      string `json:"time" groups:"basic"`
	Departs   bool   `json:"departs" groups:"basic"`
}

type LegView struct {
	ServiceID   int     `json:"service_id" groups:"basic"`
	Origin      string  `json:"origin" groups:"basic"`
	Departure   string  `json:"departure" groups:"basic"`
	Destination string  `json:"destination" groups:"basic"`
	Arrival     string  `json:"arrival" groups:"basic"`
	Cost        float64 `json:"cost" groups:"detailed"`
	Stops       int     `json:"stops" groups:"detailed"`
}

type ItineraryView struct {
	Choice   int `json:"choice" groups:"basic"`
	Sequence int `json:"sequence" groups:"basic"`

	Date        string  `json:"date" groups:"basic"`
	Origin      string  `json:"origin" groups:"basic"`
	Departure   string  `json:"departure" groups:"basic"`
	Destination string  `json:"destination" groups:"basic"`
	Arrival     string  `json:"arrival" groups:"basic"`
	Cost        float64 `json:"cost" groups:"basic"`
	Duration    string  `json:"duration" groups:"basic"`

	ServiceDuration string    `json:"service_duration" groups:"detailed"`
	Legs            []LegView `json:"legs" groups:"basic"`
	Description     string    `json:"description" groups:"detailed"`
}

type PassengerView struct {
	ID          int     `json:"id" groups:"basic"`
	Name        string  `json:"name" groups:"basic"`
	Category    string  `json:"category" groups:"basic"`
	Itineraries int     `json:"itineraries" groups:"basic"`
	TotalSpent  float64 `json:"total_spent" groups:"basic"`
	TravelTime  string  `json:"travel_time" groups:"basic"`

	RecentPurchases []float64 `json:"recent_purchases" groups:"detailed"`
	Summary         string    `json:"summary" groups:"detailed"`
}

func isoDuration(d time.Duration) string {
	minutes := int(d.Minutes())

	return iso8601.Duration{TH: minutes / 60, TM: minutes % 60}.String()
}

func newServiceView(n *network.Network, service *network.Service) ServiceView {
	view := ServiceView{
		ID:       service.ID,
		Cost:     service.Cost,
		Duration: isoDuration(service.TotalDuration()),
	}

	if len(service.Segments) > 0 {
		first := n.Stop(service.FirstStop())
		last := n.Stop(service.LastStop())

		view.Origin = first.Station
		view.Departure = first.Clock()
		view.Destination = last.Station
		view.Arrival = last.Clock()
	}

	for i, segment := range service.Segments {
		start := n.Stop(service.Departures[i])
		end := n.Stop(service.Arrivals[i])

		view.Segments = append(view.Segments, SegmentView{
			StartStation: start.Station,
			StartTime:    start.Clock(),
			EndStation:   end.Station,
			EndTime:      end.Clock(),
			Duration:     isoDuration(segment.Duration),
			Cost:         segment.Cost,
		})
	}

	view.Description, _ = n.DescribeService(service.ID)

	return view
}

func newItineraryView(it *itinerary.Itinerary, choice int) ItineraryView {
	view := ItineraryView{
		Choice:          choice,
		Sequence:        it.Sequence,
		Date:            it.DepartureDate().Format(util.DateFormat),
		Origin:          it.Origin(),
		Departure:       util.FormatClock(it.DepartureTime()),
		Destination:     it.Destination(),
		Arrival:         util.FormatClock(it.ArrivalTime()),
		Cost:            it.Cost(),
		Duration:        isoDuration(it.Duration()),
		ServiceDuration: isoDuration(it.ServiceDuration()),
		Description:     it.Describe(),
	}

	for _, leg := range it.Legs() {
		view.Legs = append(view.Legs, LegView{
			ServiceID:   leg.ServiceID,
			Origin:      leg.Board().Station,
			Departure:   leg.Board().Clock(),
			Destination: leg.Alight().Station,
			Arrival:     leg.Alight().Clock(),
			Cost:        leg.Cost,
			Stops:       len(leg.Stops),
		})
	}

	return view
}

func newPassengerView(passenger *ticketoffice.Passenger) PassengerView {
	return PassengerView{
		ID:              passenger.ID,
		Name:            passenger.Name,
		Category:        passenger.Ledger.Category.Name,
		Itineraries:     len(passenger.Itineraries),
		TotalSpent:      passenger.Ledger.TotalSpent,
		TravelTime:      isoDuration(passenger.TravelTime()),
		RecentPurchases: passenger.Ledger.Recent,
		Summary:         passenger.Describe(),
	}
}
