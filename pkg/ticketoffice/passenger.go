package ticketoffice

import (
	"fmt"
	"time"

	"github.com/travigo/ticketoffice/pkg/itinerary"
	"github.com/travigo/ticketoffice/pkg/ledger"
)

type Passenger struct {
	ID   int
	Name string

	Ledger      *ledger.Ledger
	Itineraries []*itinerary.Itinerary
}

func newPassenger(id int, name string) *Passenger {
	return &Passenger{
		ID:     id,
		Name:   name,
		Ledger: ledger.New(),
	}
}

func (p *Passenger) clone() *Passenger {
	return &Passenger{
		ID:          p.ID,
		Name:        p.Name,
		Ledger:      p.Ledger.Clone(),
		Itineraries: append([]*itinerary.Itinerary(nil), p.Itineraries...),
	}
}

// TravelTime is the elapsed time of every committed itinerary
func (p *Passenger) TravelTime() time.Duration {
	var total time.Duration
	for _, it := range p.Itineraries {
		total += it.Duration()
	}

	return total
}

// Describe renders id|name|category|itineraries|spent|HH:MM
func (p *Passenger) Describe() string {
	travelTime := p.TravelTime()

	return fmt.Sprintf("%d|%s|%s|%d|%.2f|%02d:%02d",
		p.ID,
		p.Name,
		p.Ledger.Category.Name,
		len(p.Itineraries),
		p.Ledger.TotalSpent,
		int(travelTime.Hours()),
		int(travelTime.Minutes())%60,
	)
}
