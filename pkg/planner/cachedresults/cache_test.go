package cachedresults

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/travigo/ticketoffice/pkg/itinerary"
	"github.com/travigo/ticketoffice/pkg/planner"
)

func testCache(t *testing.T, expiration time.Duration) (*ResultsCache, *miniredis.Miniredis) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	return New(client, expiration), server
}

func TestResultsCache(t *testing.T) {
	assert := assert.New(t)

	resultsCache, _ := testCache(t, time.Minute)

	q, err := planner.ParseQuery("X", "Z", "2024-05-01", "07:00")
	assert.Nil(err)

	_, hit := resultsCache.Get("abc", q)
	assert.False(hit)

	results := [][]itinerary.LegSpec{
		{{ServiceID: 1, StartStation: "X", EndStation: "Z"}},
		{{ServiceID: 2, StartStation: "X", EndStation: "Y"}, {ServiceID: 3, StartStation: "Y", EndStation: "Z"}},
	}
	resultsCache.Set("abc", q, results)

	cached, hit := resultsCache.Get("abc", q)
	assert.True(hit)
	assert.Equal(results, cached)

	_, hit = resultsCache.Get("def", q)
	assert.False(hit)

	later, _ := planner.ParseQuery("X", "Z", "2024-05-01", "09:00")
	_, hit = resultsCache.Get("abc", later)
	assert.False(hit)
}

func TestResultsCacheExpires(t *testing.T) {
	assert := assert.New(t)

	resultsCache, server := testCache(t, time.Minute)

	q, _ := planner.ParseQuery("X", "Z", "2024-05-01", "07:00")
	resultsCache.Set("abc", q, [][]itinerary.LegSpec{})

	_, hit := resultsCache.Get("abc", q)
	assert.True(hit)

	server.FastForward(2 * time.Minute)

	_, hit = resultsCache.Get("abc", q)
	assert.False(hit)
}
