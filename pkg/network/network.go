package network

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/exp/slices"
)

var ErrSegmentOrder = errors.New("segment must arrive after it departs")
var ErrSegmentGap = errors.New("segment must not depart before the previous segment arrives")

// Network holds the timetable. It is built once through AddStation, AddService and
// AddSegment and is read-only afterwards.
type Network struct {
	stations     map[string]*Station
	stationOrder []string

	services map[int]*Service

	stops     []TrainStop
	stationOf map[string][]StopID
}

func New() *Network {
	return &Network{
		stations:  map[string]*Station{},
		services:  map[int]*Service{},
		stationOf: map[string][]StopID{},
	}
}

func (n *Network) AddStation(name string) *Station {
	if station, exists := n.stations[name]; exists {
		return station
	}

	station := &Station{Name: name}
	n.stations[name] = station
	n.stationOrder = append(n.stationOrder, name)

	return station
}

func (n *Network) AddService(id int, cost float64) (*Service, error) {
	if _, exists := n.services[id]; exists {
		return nil, fmt.Errorf("service %d already exists", id)
	}

	service := &Service{
		ID:   id,
		Cost: cost,
	}
	n.services[id] = service

	return service, nil
}

// AddSegment appends a hop to a service. A start matching the previous segment's end
// reuses that stop so the service forms one chain.
func (n *Network) AddSegment(serviceID int, start StopSpec, end StopSpec) error {
	service, exists := n.services[serviceID]
	if !exists {
		return &NoSuchServiceError{ID: serviceID}
	}

	if !end.Time.After(start.Time) {
		return fmt.Errorf("service %d %s -> %s: %w", serviceID, start.Station, end.Station, ErrSegmentOrder)
	}

	segmentIndex := len(service.Segments)

	var startID StopID
	if segmentIndex > 0 {
		previousEnd := n.stops[service.LastStop()]

		if start.Time.Before(previousEnd.Time) {
			return fmt.Errorf("service %d at %s: %w", serviceID, start.Station, ErrSegmentGap)
		}

		if start.matches(previousEnd) {
			startID = previousEnd.ID
		} else {
			startID = n.addStop(start, serviceID, segmentIndex)
			n.stops[previousEnd.ID].Next = startID
		}
	} else {
		startID = n.addStop(start, serviceID, segmentIndex)
	}

	endID := n.addStop(end, serviceID, segmentIndex)
	n.stops[startID].Next = endID

	service.Departures = append(service.Departures, startID)
	service.Arrivals = append(service.Arrivals, endID)
	service.Segments = append(service.Segments, Segment{
		Start:    startID,
		End:      endID,
		Duration: end.Time.Sub(start.Time),
	})
	service.allocateSegmentCosts()

	return nil
}

func (n *Network) addStop(spec StopSpec, serviceID int, segment int) StopID {
	n.AddStation(spec.Station)

	id := StopID(len(n.stops))
	n.stops = append(n.stops, TrainStop{
		ID:        id,
		Station:   spec.Station,
		Time:      spec.Time,
		ServiceID: serviceID,
		Segment:   segment,
		Next:      NoStop,
	})
	n.stationOf[spec.Station] = append(n.stationOf[spec.Station], id)

	return id
}

func (n *Network) Station(name string) (*Station, error) {
	station, exists := n.stations[name]
	if !exists {
		return nil, &NoSuchStationError{Name: name}
	}

	return station, nil
}

func (n *Network) HasStation(name string) bool {
	_, exists := n.stations[name]
	return exists
}

// Stations returns station names in the order they were first referenced
func (n *Network) Stations() []string {
	return slices.Clone(n.stationOrder)
}

func (n *Network) Service(id int) (*Service, error) {
	service, exists := n.services[id]
	if !exists {
		return nil, &NoSuchServiceError{ID: id}
	}

	return service, nil
}

// Services returns every service ordered by id
func (n *Network) Services() []*Service {
	services := make([]*Service, 0, len(n.services))
	for _, service := range n.services {
		services = append(services, service)
	}

	slices.SortFunc(services, func(a, b *Service) int {
		return a.ID - b.ID
	})

	return services
}

func (n *Network) Stop(id StopID) TrainStop {
	return n.stops[id]
}

// StopsAt returns every stop made at the station, in load order
func (n *Network) StopsAt(station string) []StopID {
	return n.stationOf[station]
}

func (n *Network) StopsOfService(id int) ([]StopPair, error) {
	service, err := n.Service(id)
	if err != nil {
		return nil, err
	}

	pairs := make([]StopPair, len(service.Segments))
	for i := range service.Segments {
		pairs[i] = StopPair{
			Start: n.stops[service.Departures[i]],
			End:   n.stops[service.Arrivals[i]],
		}
	}

	return pairs, nil
}

// ServicesTouching returns every service with a stop at the station, ordered by the
// time of that stop
func (n *Network) ServicesTouching(station string) ([]StationCall, error) {
	if !n.HasStation(station) {
		return nil, &NoSuchStationError{Name: station}
	}

	var calls []StationCall
	for _, stopID := range n.stationOf[station] {
		stop := n.stops[stopID]
		calls = append(calls, StationCall{
			ServiceID: stop.ServiceID,
			Stop:      stop,
		})
	}

	slices.SortStableFunc(calls, func(a, b StationCall) int {
		if c := a.Stop.Time.Compare(b.Stop.Time); c != 0 {
			return c
		}
		return a.ServiceID - b.ServiceID
	})

	return calls, nil
}

// ServicesDepartingFrom returns the services that start at the station ordered by
// departure time
func (n *Network) ServicesDepartingFrom(station string) ([]*Service, error) {
	if !n.HasStation(station) {
		return nil, &NoSuchStationError{Name: station}
	}

	var services []*Service
	for _, service := range n.Services() {
		if len(service.Segments) > 0 && n.stops[service.FirstStop()].Station == station {
			services = append(services, service)
		}
	}

	slices.SortStableFunc(services, func(a, b *Service) int {
		return n.stops[a.FirstStop()].Time.Compare(n.stops[b.FirstStop()].Time)
	})

	return services, nil
}

// ServicesArrivingAt returns the services that terminate at the station ordered by
// arrival time
func (n *Network) ServicesArrivingAt(station string) ([]*Service, error) {
	if !n.HasStation(station) {
		return nil, &NoSuchStationError{Name: station}
	}

	var services []*Service
	for _, service := range n.Services() {
		if len(service.Segments) > 0 && n.stops[service.LastStop()].Station == station {
			services = append(services, service)
		}
	}

	slices.SortStableFunc(services, func(a, b *Service) int {
		return n.stops[a.LastStop()].Time.Compare(n.stops[b.LastStop()].Time)
	})

	return services, nil
}

// Fingerprint identifies the timetable contents independently of load order
func (n *Network) Fingerprint() string {
	hash := sha256.New()

	for _, service := range n.Services() {
		hash.Write([]byte(strconv.Itoa(service.ID) + "|"))
		hash.Write([]byte(strconv.FormatFloat(service.Cost, 'f', -1, 64) + "|"))

		for _, stopID := range service.Stops() {
			stop := n.stops[stopID]
			hash.Write([]byte(stop.Station + "|" + stop.Clock() + "|"))
		}
	}

	return fmt.Sprintf("%x", hash.Sum(nil))
}

// AddServiceStops adds a service whose consecutive stops form its segments. The stops
// are validated before anything is added.
func (n *Network) AddServiceStops(id int, cost float64, stops ...StopSpec) error {
	if len(stops) < 2 {
		return fmt.Errorf("service %d needs at least two stops", id)
	}

	for i := 0; i+1 < len(stops); i++ {
		if !stops[i+1].Time.After(stops[i].Time) {
			return fmt.Errorf("service %d %s -> %s: %w", id, stops[i].Station, stops[i+1].Station, ErrSegmentOrder)
		}
	}

	if _, err := n.AddService(id, cost); err != nil {
		return err
	}

	for i := 0; i+1 < len(stops); i++ {
		if err := n.AddSegment(id, stops[i], stops[i+1]); err != nil {
			return err
		}
	}

	return nil
}

// DescribeService renders a service the way it is shown at the ticket office
func (n *Network) DescribeService(id int) (string, error) {
	service, err := n.Service(id)
	if err != nil {
		return "", err
	}

	description := fmt.Sprintf("Service #%d @ %.2f", service.ID, service.Cost)
	for _, stopID := range service.Stops() {
		stop := n.stops[stopID]
		description += fmt.Sprintf("\n%s %s", stop.Clock(), stop.Station)
	}

	return description, nil
}
