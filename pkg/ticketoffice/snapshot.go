package ticketoffice

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/ticketoffice/pkg/ledger"
	"github.com/travigo/ticketoffice/pkg/snapshot"
	"golang.org/x/exp/slices"
)

// Snapshot captures the timetable and every passenger
func (o *Office) Snapshot() *snapshot.Snapshot {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	stations, services := snapshot.FromNetwork(o.network)

	s := &snapshot.Snapshot{
		Version:         snapshot.CurrentVersion,
		CreatedAt:       time.Now(),
		Stations:        stations,
		Services:        services,
		NextPassengerID: o.nextPassengerID,
	}

	for _, id := range o.passengerIDs() {
		passenger := o.passengers[id]
		passengerLedger := passenger.Ledger.Clone()

		record := snapshot.Passenger{
			ID:              passenger.ID,
			Name:            passenger.Name,
			Category:        passengerLedger.Category.Name,
			RecentPurchases: passengerLedger.Recent,
			TotalSpent:      passengerLedger.TotalSpent,
		}

		for _, it := range passenger.Itineraries {
			record.Itineraries = append(record.Itineraries, snapshot.FromItinerary(it))
		}

		s.Passengers = append(s.Passengers, record)
	}

	return s
}

// Restore replaces the office state with the snapshot. Nothing changes if the
// snapshot cannot be applied in full.
func (o *Office) Restore(s *snapshot.Snapshot) error {
	n, err := s.BuildNetwork()
	if err != nil {
		return err
	}

	passengers := map[int]*Passenger{}
	names := map[string]bool{}
	nextPassengerID := s.NextPassengerID

	for _, record := range s.Passengers {
		if _, exists := passengers[record.ID]; exists {
			return fmt.Errorf("snapshot holds passenger %d twice", record.ID)
		}
		if names[record.Name] {
			return &NonUniquePassengerNameError{Name: record.Name}
		}

		passengerLedger, err := ledger.Restore(record.Category, record.RecentPurchases, record.TotalSpent)
		if err != nil {
			return fmt.Errorf("passenger %d: %w", record.ID, err)
		}

		passenger := &Passenger{
			ID:     record.ID,
			Name:   record.Name,
			Ledger: passengerLedger,
		}

		for _, itineraryRecord := range record.Itineraries {
			it, err := itineraryRecord.Build(n)
			if err != nil {
				return fmt.Errorf("passenger %d itinerary %d: %w", record.ID, itineraryRecord.Sequence, err)
			}

			passenger.Itineraries = append(passenger.Itineraries, it)
		}

		passengers[record.ID] = passenger
		names[record.Name] = true

		if record.ID >= nextPassengerID {
			nextPassengerID = record.ID + 1
		}
	}

	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.network = n
	o.fingerprint = n.Fingerprint()
	o.passengers = passengers
	o.nextPassengerID = nextPassengerID
	o.clearPending()

	log.Info().
		Int("services", len(s.Services)).
		Int("passengers", len(passengers)).
		Time("created", s.CreatedAt).
		Msg("Restored snapshot")

	return nil
}

func (o *Office) passengerIDs() []int {
	ids := make([]int, 0, len(o.passengers))
	for id := range o.passengers {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids
}
