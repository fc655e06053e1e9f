package itinerary

// Compare orders itineraries from best to worst by departure date, departure time,
// arrival time, duration and finally cost
func (it *Itinerary) Compare(other *Itinerary) int {
	if c := it.date.Compare(other.date); c != 0 {
		return c
	}

	if c := it.DepartureTime().Compare(other.DepartureTime()); c != 0 {
		return c
	}

	if c := it.ArrivalTime().Compare(other.ArrivalTime()); c != 0 {
		return c
	}

	if it.duration != other.duration {
		if it.duration < other.duration {
			return -1
		}
		return 1
	}

	switch {
	case it.cost < other.cost:
		return -1
	case it.cost > other.cost:
		return 1
	}

	return 0
}

// Best returns the best ranked itinerary, keeping the earliest on ties
func Best(candidates []*Itinerary) *Itinerary {
	var best *Itinerary

	for _, candidate := range candidates {
		if best == nil || candidate.Compare(best) < 0 {
			best = candidate
		}
	}

	return best
}
