package timetable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/ticketoffice/pkg/itinerary"
	"github.com/travigo/ticketoffice/pkg/network"
	"github.com/travigo/ticketoffice/pkg/util"
)

const (
	RecordPassenger = "PASSENGER"
	RecordService   = "SERVICE"
	RecordItinerary = "ITINERARY"
)

type Service struct {
	Line  int
	ID    int
	Cost  float64
	Stops []network.StopSpec
}

type Itinerary struct {
	Line        int
	PassengerID int
	Date        time.Time
	Legs        []itinerary.LegSpec
}

// Timetable is the pipe separated import format. Passengers are numbered from 0 in
// the order they appear.
type Timetable struct {
	Passengers  []string
	Services    []Service
	Itineraries []Itinerary
}

func (t *Timetable) ParseFile(reader io.Reader) error {
	csvReader := csv.NewReader(reader)
	csvReader.Comma = '|'
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	for {
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return &ImportFileError{Line: parseErr.Line, Err: parseErr.Err}
			}
			return err
		}

		line, _ := csvReader.FieldPos(0)

		if err := t.parseRecord(record, line); err != nil {
			return &ImportFileError{Line: line, Err: err}
		}
	}

	log.Info().
		Int("passengers", len(t.Passengers)).
		Int("services", len(t.Services)).
		Int("itineraries", len(t.Itineraries)).
		Msg("Parsed timetable file")

	return nil
}

func (t *Timetable) parseRecord(record []string, line int) error {
	switch record[0] {
	case RecordPassenger:
		if len(record) != 2 {
			return fmt.Errorf("passenger record has %d fields, expected 2", len(record))
		}
		t.Passengers = append(t.Passengers, record[1])
	case RecordService:
		service, err := parseService(record)
		if err != nil {
			return err
		}
		service.Line = line
		t.Services = append(t.Services, service)
	case RecordItinerary:
		it, err := parseItinerary(record)
		if err != nil {
			return err
		}
		it.Line = line
		t.Itineraries = append(t.Itineraries, it)
	default:
		return fmt.Errorf("unknown record type %q", record[0])
	}

	return nil
}

// SERVICE|id|cost|time|station|time|station|...
func parseService(record []string) (Service, error) {
	if len(record) < 7 || (len(record)-3)%2 != 0 {
		return Service{}, fmt.Errorf("service record needs an id, a cost and at least two time|station pairs")
	}

	id, err := strconv.Atoi(record[1])
	if err != nil {
		return Service{}, fmt.Errorf("service id %q: %w", record[1], err)
	}

	cost, err := strconv.ParseFloat(record[2], 64)
	if err != nil {
		return Service{}, fmt.Errorf("service cost %q: %w", record[2], err)
	}

	service := Service{ID: id, Cost: cost}

	for i := 3; i+1 < len(record); i += 2 {
		stop, err := network.ParseStopSpec(record[i+1], record[i])
		if err != nil {
			return Service{}, fmt.Errorf("service %d time %q: %w", id, record[i], err)
		}

		service.Stops = append(service.Stops, stop)
	}

	return service, nil
}

// ITINERARY|passengerId|date|serviceId/startStation/endStation|...
func parseItinerary(record []string) (Itinerary, error) {
	if len(record) < 4 {
		return Itinerary{}, fmt.Errorf("itinerary record has %d fields, expected at least 4", len(record))
	}

	passengerID, err := strconv.Atoi(record[1])
	if err != nil {
		return Itinerary{}, fmt.Errorf("passenger id %q: %w", record[1], err)
	}

	date, err := util.ParseDate(record[2])
	if err != nil {
		return Itinerary{}, fmt.Errorf("date %q: %w", record[2], err)
	}

	it := Itinerary{PassengerID: passengerID, Date: date}

	for _, field := range record[3:] {
		parts := strings.Split(field, "/")
		if len(parts) != 3 {
			return Itinerary{}, fmt.Errorf("leg %q is not serviceId/start/end", field)
		}

		serviceID, err := strconv.Atoi(parts[0])
		if err != nil {
			return Itinerary{}, fmt.Errorf("leg %q service id: %w", field, err)
		}

		it.Legs = append(it.Legs, itinerary.LegSpec{
			ServiceID:    serviceID,
			StartStation: parts[1],
			EndStation:   parts[2],
		})
	}

	return it, nil
}

// BuildNetwork loads every service in file order
func (t *Timetable) BuildNetwork() (*network.Network, error) {
	n := network.New()

	for _, service := range t.Services {
		if err := n.AddServiceStops(service.ID, service.Cost, service.Stops...); err != nil {
			return nil, &ImportFileError{Line: service.Line, Err: err}
		}
	}

	return n, nil
}
