package itinerary

import (
	"fmt"
	"time"

	"github.com/travigo/ticketoffice/pkg/network"
)

// LegSpec names a ride on a service between two of its stations. StartTime and
// EndTime are HH:MM clocks pinning the exact calls; left empty the leg boards at the
// service's first call at StartStation.
type LegSpec struct {
	ServiceID    int
	StartStation string
	EndStation   string

	StartTime string
	EndTime   string
}

func (l LegSpec) String() string {
	return fmt.Sprintf("%d/%s/%s", l.ServiceID, l.StartStation, l.EndStation)
}

// FromLegs rebuilds an itinerary from service legs, as recorded in import files and
// snapshots
func FromLegs(n *network.Network, date time.Time, legs []LegSpec) (*Itinerary, error) {
	if len(legs) == 0 {
		return nil, ErrTooFewStops
	}

	var stopIDs []network.StopID

	for _, leg := range legs {
		service, err := n.Service(leg.ServiceID)
		if err != nil {
			return nil, err
		}

		for _, station := range []string{leg.StartStation, leg.EndStation} {
			if !n.HasStation(station) {
				return nil, &network.NoSuchStationError{Name: station}
			}
		}

		chain := service.Stops()

		start := -1
		for i, id := range chain {
			if calls(n.Stop(id), leg.StartStation, leg.StartTime) {
				start = i
				break
			}
		}

		// Board at the departure of a dwell, not the arrival
		if leg.StartTime == "" {
			for start >= 0 && start+1 < len(chain) && n.Stop(chain[start+1]).Station == leg.StartStation {
				start++
			}
		}

		end := -1
		if start >= 0 {
			for i := start + 1; i < len(chain); i++ {
				if calls(n.Stop(chain[i]), leg.EndStation, leg.EndTime) {
					end = i
					break
				}
			}
		}

		if start < 0 || end < 0 {
			return nil, fmt.Errorf("service %d does not run from %s to %s", leg.ServiceID, leg.StartStation, leg.EndStation)
		}

		stopIDs = append(stopIDs, chain[start:end+1]...)
	}

	return New(n, date, stopIDs)
}

func calls(stop network.TrainStop, station string, clock string) bool {
	return stop.Station == station && (clock == "" || stop.Clock() == clock)
}

// LegSpecs describes the itinerary as service legs, pinned to their clocks
func (it *Itinerary) LegSpecs() []LegSpec {
	specs := make([]LegSpec, len(it.legs))
	for i, leg := range it.legs {
		specs[i] = LegSpec{
			ServiceID:    leg.ServiceID,
			StartStation: leg.Board().Station,
			EndStation:   leg.Alight().Station,
			StartTime:    leg.Board().Clock(),
			EndTime:      leg.Alight().Clock(),
		}
	}

	return specs
}
