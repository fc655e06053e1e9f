package network

import (
	"time"
)

type Station struct {
	Name string
}

type Segment struct {
	Start StopID
	End   StopID

	Duration time.Duration
	Cost     float64
}

// Service is a single scheduled train run. Departures[i] and Arrivals[i] are the
// stops bounding Segments[i].
type Service struct {
	ID   int
	Cost float64

	Departures []StopID
	Arrivals   []StopID
	Segments   []Segment
}

func (s *Service) TotalDuration() time.Duration {
	var total time.Duration

	for _, segment := range s.Segments {
		total += segment.Duration
	}

	return total
}

// Stops returns the ordered stops of the service, with a stop shared by two
// consecutive segments listed once
func (s *Service) Stops() []StopID {
	var stops []StopID

	for i := range s.Segments {
		start := s.Departures[i]
		if len(stops) == 0 || stops[len(stops)-1] != start {
			stops = append(stops, start)
		}

		stops = append(stops, s.Arrivals[i])
	}

	return stops
}

func (s *Service) FirstStop() StopID {
	if len(s.Departures) == 0 {
		return NoStop
	}
	return s.Departures[0]
}

func (s *Service) LastStop() StopID {
	if len(s.Arrivals) == 0 {
		return NoStop
	}
	return s.Arrivals[len(s.Arrivals)-1]
}

func (s *Service) allocateSegmentCosts() {
	total := s.TotalDuration()

	for i := range s.Segments {
		if total > 0 {
			s.Segments[i].Cost = s.Cost * float64(s.Segments[i].Duration) / float64(total)
		} else {
			s.Segments[i].Cost = s.Cost / float64(len(s.Segments))
		}
	}
}
