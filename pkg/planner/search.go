package planner

import (
	"github.com/travigo/ticketoffice/pkg/itinerary"
	"github.com/travigo/ticketoffice/pkg/network"
)

// path is an immutable walk through the stop graph. Extending a path copies it so
// sibling branches never share state.
type path struct {
	stops       []network.StopID
	transfers   int
	transferred bool
}

func newPath(start network.StopID) path {
	return path{stops: []network.StopID{start}}
}

func (p path) last() network.StopID {
	return p.stops[len(p.stops)-1]
}

func (p path) extend(stop network.StopID, transfer bool) path {
	stops := make([]network.StopID, len(p.stops), len(p.stops)+1)
	copy(stops, p.stops)

	next := path{
		stops:       append(stops, stop),
		transfers:   p.transfers,
		transferred: transfer,
	}
	if transfer {
		next.transfers++
	}

	return next
}

func (p path) visitedStation(n *network.Network, station string) bool {
	for _, stopID := range p.stops {
		if n.Stop(stopID).Station == station {
			return true
		}
	}

	return false
}

func (p path) usedService(n *network.Network, serviceID int) bool {
	for _, stopID := range p.stops {
		if n.Stop(stopID).ServiceID == serviceID {
			return true
		}
	}

	return false
}

// search explores every composed path from one starting stop and keeps the best
type search struct {
	network      *network.Network
	query        Query
	maxTransfers int

	best *itinerary.Itinerary
	err  error
}

func (s *search) explore(p path) {
	if s.err != nil {
		return
	}

	current := s.network.Stop(p.last())

	if current.Next != network.NoStop {
		next := s.network.Stop(current.Next)

		if next.Station == current.Station || !p.visitedStation(s.network, next.Station) {
			ridden := p.extend(next.ID, false)

			if next.Station == s.query.Destination {
				if ridden.transfers > 0 {
					s.accept(ridden)
				}
			} else {
				s.explore(ridden)
			}
		}
	}

	// Changing service needs a ride first and never follows another change
	if len(p.stops) < 2 || p.transferred {
		return
	}
	if s.maxTransfers > 0 && p.transfers >= s.maxTransfers {
		return
	}

	for _, stopID := range s.network.StopsAt(current.Station) {
		other := s.network.Stop(stopID)

		if other.ServiceID == current.ServiceID || other.Next == network.NoStop {
			continue
		}
		if other.Time.Before(current.Time) {
			continue
		}
		if p.usedService(s.network, other.ServiceID) {
			continue
		}

		s.explore(p.extend(other.ID, true))
	}
}

func (s *search) accept(p path) {
	candidate, err := itinerary.New(s.network, s.query.Date, p.stops)
	if err != nil {
		s.err = err
		return
	}

	if s.best == nil || candidate.Compare(s.best) < 0 {
		s.best = candidate
	}
}
