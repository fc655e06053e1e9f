package cachedresults

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/ticketoffice/pkg/itinerary"
	"github.com/travigo/ticketoffice/pkg/planner"
	"github.com/travigo/ticketoffice/pkg/util"
)

const DefaultExpiration = 10 * time.Minute

type entry struct {
	Itineraries [][]itinerary.LegSpec
}

// ResultsCache keeps search results in Redis, keyed by timetable fingerprint and query
type ResultsCache struct {
	Cache *cache.Cache[string]
}

func New(client *redis.Client, expiration time.Duration) *ResultsCache {
	if expiration <= 0 {
		expiration = DefaultExpiration
	}

	redisStore := redisstore.NewRedis(client, store.WithExpiration(expiration))

	return &ResultsCache{
		Cache: cache.New[string](redisStore),
	}
}

func key(fingerprint string, q planner.Query) string {
	return fmt.Sprintf("ticketoffice:search:%s:%s:%s:%s:%s",
		fingerprint, q.Origin, q.Destination, q.Date.Format(util.DateFormat), util.FormatClock(q.MinTime))
}

func (r *ResultsCache) Get(fingerprint string, q planner.Query) ([][]itinerary.LegSpec, bool) {
	value, err := r.Cache.Get(context.Background(), key(fingerprint, q))
	if err != nil {
		return nil, false
	}

	var cached entry
	if err := json.Unmarshal([]byte(value), &cached); err != nil {
		log.Error().Err(err).Msg("Failed to decode cached search results")
		return nil, false
	}

	return cached.Itineraries, true
}

func (r *ResultsCache) Set(fingerprint string, q planner.Query, results [][]itinerary.LegSpec) {
	entryJSON, err := json.Marshal(entry{Itineraries: results})
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode search results")
		return
	}

	if err := r.Cache.Set(context.Background(), key(fingerprint, q), string(entryJSON)); err != nil {
		log.Error().Err(err).Msg("Failed to cache search results")
	}
}
