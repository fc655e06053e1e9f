package timetable

import (
	"fmt"
	"strings"
	"time"

	"github.com/travigo/ticketoffice/pkg/itinerary"
	"github.com/travigo/ticketoffice/pkg/ledger"
	"github.com/travigo/ticketoffice/pkg/snapshot"
	"github.com/travigo/ticketoffice/pkg/ticketoffice"
)

// Snapshot converts the file into office state. Every imported itinerary is charged
// through the passenger's ledger in file order, so categories and discounts match
// what live purchases would have produced.
func (t *Timetable) Snapshot() (*snapshot.Snapshot, error) {
	n, err := t.BuildNetwork()
	if err != nil {
		return nil, err
	}

	stations, services := snapshot.FromNetwork(n)

	s := &snapshot.Snapshot{
		Version:         snapshot.CurrentVersion,
		CreatedAt:       time.Now(),
		Stations:        stations,
		Services:        services,
		NextPassengerID: len(t.Passengers),
	}

	ledgers := make([]*ledger.Ledger, len(t.Passengers))
	names := map[string]bool{}

	for id, name := range t.Passengers {
		if strings.TrimSpace(name) == "" {
			return nil, ticketoffice.ErrInvalidPassengerName
		}
		if names[name] {
			return nil, &ticketoffice.NonUniquePassengerNameError{Name: name}
		}
		names[name] = true

		ledgers[id] = ledger.New()
		s.Passengers = append(s.Passengers, snapshot.Passenger{ID: id, Name: name})
	}

	for _, record := range t.Itineraries {
		if record.PassengerID < 0 || record.PassengerID >= len(t.Passengers) {
			return nil, &ImportFileError{Line: record.Line, Err: &ticketoffice.NoSuchPassengerIdError{ID: record.PassengerID}}
		}

		it, err := itinerary.FromLegs(n, record.Date, record.Legs)
		if err != nil {
			return nil, &ImportFileError{Line: record.Line, Err: err}
		}

		passenger := &s.Passengers[record.PassengerID]
		ledgers[record.PassengerID].RecordPurchase(it.Cost())

		passenger.Itineraries = append(passenger.Itineraries,
			snapshot.FromItinerary(it.WithSequence(len(passenger.Itineraries)+1)))
	}

	for id, passengerLedger := range ledgers {
		s.Passengers[id].Category = passengerLedger.Category.Name
		s.Passengers[id].RecentPurchases = passengerLedger.Recent
		s.Passengers[id].TotalSpent = passengerLedger.TotalSpent
	}

	return s, nil
}

// Import replaces the office timetable and passengers with the file contents
func (t *Timetable) Import(office *ticketoffice.Office) error {
	s, err := t.Snapshot()
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	return office.Restore(s)
}
