package planner

import (
	"runtime"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/ticketoffice/pkg/itinerary"
	"github.com/travigo/ticketoffice/pkg/network"
	"golang.org/x/exp/slices"
)

// Builder answers searches against a loaded network. The network must not be
// modified while a build is running.
type Builder struct {
	Network *network.Network

	// MaxTransfers bounds the number of service changes in a composed itinerary, 0 is unbounded
	MaxTransfers int
	// Concurrency bounds the number of starting candidates explored at once
	Concurrency int
}

type candidate struct {
	index int
	chain []network.StopID
	start int
}

type candidateResult struct {
	index int
	best  *itinerary.Itinerary
	err   error
}

// Build returns every direct service between the stations, ordered by service id,
// followed by the best composed itinerary if one exists
func (b *Builder) Build(q Query) ([]*itinerary.Itinerary, error) {
	for _, station := range []string{q.Origin, q.Destination} {
		if _, err := b.Network.Station(station); err != nil {
			return nil, err
		}
	}

	candidates := b.startingCandidates(q)

	var results []*itinerary.Itinerary

	for _, c := range candidates {
		direct, err := b.direct(q, c)
		if err != nil {
			return nil, err
		}
		if direct != nil {
			results = append(results, direct)
		}
	}

	composed, err := b.bestComposed(q, candidates)
	if err != nil {
		return nil, err
	}
	if composed != nil {
		results = append(results, composed)
	}

	log.Debug().
		Str("query", q.String()).
		Int("candidates", len(candidates)).
		Int("results", len(results)).
		Msg("Built itineraries")

	return results, nil
}

// A service is a starting candidate from its first stop at the origin no earlier than
// the minimum time. A dwell at the origin boards at its departure.
func (b *Builder) startingCandidates(q Query) []candidate {
	var candidates []candidate

	for _, service := range b.Network.Services() {
		chain := service.Stops()

		start := -1
		for i, stopID := range chain {
			stop := b.Network.Stop(stopID)
			if stop.Station == q.Origin && !stop.Time.Before(q.MinTime) {
				start = i
				break
			}
		}
		if start < 0 {
			continue
		}

		for start+1 < len(chain) && b.Network.Stop(chain[start+1]).Station == q.Origin {
			start++
		}

		candidates = append(candidates, candidate{
			index: len(candidates),
			chain: chain,
			start: start,
		})
	}

	return candidates
}

func (b *Builder) direct(q Query, c candidate) (*itinerary.Itinerary, error) {
	for i := c.start + 1; i < len(c.chain); i++ {
		if b.Network.Stop(c.chain[i]).Station == q.Destination {
			return itinerary.New(b.Network, q.Date, c.chain[c.start:i+1])
		}
	}

	return nil, nil
}

func (b *Builder) bestComposed(q Query, candidates []candidate) (*itinerary.Itinerary, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	p := pool.NewWithResults[candidateResult]()
	p.WithMaxGoroutines(concurrency)

	for _, c := range candidates {
		c := c
		p.Go(func() candidateResult {
			s := &search{
				network:      b.Network,
				query:        q,
				maxTransfers: b.MaxTransfers,
			}
			s.explore(newPath(c.chain[c.start]))

			return candidateResult{
				index: c.index,
				best:  s.best,
				err:   s.err,
			}
		})
	}

	results := p.Wait()

	slices.SortFunc(results, func(x, y candidateResult) int {
		return x.index - y.index
	})

	var best *itinerary.Itinerary
	for _, result := range results {
		if result.err != nil {
			return nil, result.err
		}

		if result.best != nil && (best == nil || result.best.Compare(best) < 0) {
			best = result.best
		}
	}

	return best, nil
}
