package ticketoffice

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/ticketoffice/pkg/categories"
	"github.com/travigo/ticketoffice/pkg/events"
	"github.com/travigo/ticketoffice/pkg/itinerary"
	"github.com/travigo/ticketoffice/pkg/planner"
	"github.com/travigo/ticketoffice/pkg/util"
	"golang.org/x/exp/slices"
)

// Search returns the itineraries a passenger can choose from, best ranked first. The
// result is kept as the passenger's pending choices for CommitChoice.
func (o *Office) Search(passengerID int, origin string, destination string, date string, minTime string) ([]*itinerary.Itinerary, error) {
	q, err := planner.ParseQuery(origin, destination, date, minTime)
	if err != nil {
		return nil, err
	}

	o.mutex.RLock()
	defer o.mutex.RUnlock()

	if _, exists := o.passengers[passengerID]; !exists {
		return nil, &NoSuchPassengerIdError{ID: passengerID}
	}

	results, err := o.build(q)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(results, func(a, b *itinerary.Itinerary) int {
		return a.Compare(b)
	})

	o.pendingMutex.Lock()
	o.pending[passengerID] = results
	o.pendingMutex.Unlock()

	return append([]*itinerary.Itinerary(nil), results...), nil
}

func (o *Office) build(q planner.Query) ([]*itinerary.Itinerary, error) {
	cache := o.options.Cache

	if cache != nil {
		if cached, hit := cache.Get(o.fingerprint, q); hit {
			results, err := o.rebuild(q, cached)
			if err == nil {
				return results, nil
			}

			log.Warn().Err(err).Str("query", q.String()).Msg("Discarding cached search results")
		}
	}

	builder := &planner.Builder{
		Network:      o.network,
		MaxTransfers: o.options.MaxTransfers,
		Concurrency:  o.options.Concurrency,
	}

	results, err := builder.Build(q)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		legs := make([][]itinerary.LegSpec, len(results))
		for i, it := range results {
			legs[i] = it.LegSpecs()
		}

		cache.Set(o.fingerprint, q, legs)
	}

	return results, nil
}

func (o *Office) rebuild(q planner.Query, cached [][]itinerary.LegSpec) ([]*itinerary.Itinerary, error) {
	results := make([]*itinerary.Itinerary, 0, len(cached))

	for _, legs := range cached {
		it, err := itinerary.FromLegs(o.network, q.Date, legs)
		if err != nil {
			return nil, err
		}

		results = append(results, it)
	}

	return results, nil
}

// Receipt describes one committed purchase
type Receipt struct {
	// Itinerary is the committed copy, numbered in the passenger's history
	Itinerary   *itinerary.Itinerary
	AppliedCost float64
	// Category is the passenger's category once the purchase is recorded
	Category categories.Category
}

// Commit charges the passenger for the itinerary and appends it to their history
func (o *Office) Commit(passengerID int, it *itinerary.Itinerary) (*Receipt, error) {
	o.mutex.Lock()

	passenger, exists := o.passengers[passengerID]
	if !exists {
		o.mutex.Unlock()
		return nil, &NoSuchPassengerIdError{ID: passengerID}
	}

	category := passenger.Ledger.Category
	applied := passenger.Ledger.RecordPurchase(it.Cost())

	committed := it.WithSequence(len(passenger.Itineraries) + 1)
	passenger.Itineraries = append(passenger.Itineraries, committed)

	receipt := &Receipt{
		Itinerary:   committed,
		AppliedCost: applied,
		Category:    passenger.Ledger.Category,
	}
	event := purchaseEvent(passenger, committed, applied, category.Name)

	o.mutex.Unlock()

	log.Info().
		Int("passenger", passengerID).
		Int("sequence", committed.Sequence).
		Float64("cost", it.Cost()).
		Float64("applied", applied).
		Str("category", category.Name).
		Msg("Committed itinerary")

	if o.options.Publisher != nil {
		if err := o.options.Publisher.Publish(event); err != nil {
			log.Error().Err(err).Int("passenger", passengerID).Msg("Failed to publish purchase event")
		}
	}

	return receipt, nil
}

// CommitChoice commits the 1-based choice from the passenger's last search
func (o *Office) CommitChoice(passengerID int, choice int) (*Receipt, error) {
	if _, err := o.Passenger(passengerID); err != nil {
		return nil, err
	}

	o.pendingMutex.Lock()
	pending := o.pending[passengerID]
	o.pendingMutex.Unlock()

	if choice < 1 || choice > len(pending) {
		return nil, &NoSuchItineraryChoiceError{PassengerID: passengerID, Choice: choice}
	}

	return o.Commit(passengerID, pending[choice-1])
}

func purchaseEvent(passenger *Passenger, it *itinerary.Itinerary, applied float64, category string) events.PurchaseEvent {
	legs := it.LegSpecs()
	legNames := make([]string, len(legs))
	for i, leg := range legs {
		legNames[i] = leg.String()
	}

	return events.PurchaseEvent{
		PassengerID:      passenger.ID,
		PassengerName:    passenger.Name,
		Sequence:         it.Sequence,
		Date:             it.DepartureDate().Format(util.DateFormat),
		Origin:           it.Origin(),
		Destination:      it.Destination(),
		Departure:        it.DepartureDateTime(),
		Arrival:          it.ArrivalDateTime(),
		Legs:             legNames,
		RawCost:          it.Cost(),
		AppliedCost:      applied,
		Category:         category,
		CreationDateTime: time.Now(),
	}
}
