package ticketoffice

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/travigo/ticketoffice/pkg/categories"
	"github.com/travigo/ticketoffice/pkg/events"
	"github.com/travigo/ticketoffice/pkg/itinerary"
	"github.com/travigo/ticketoffice/pkg/network"
	"github.com/travigo/ticketoffice/pkg/planner"
	"github.com/travigo/ticketoffice/pkg/snapshot"
	"golang.org/x/exp/slices"
)

func stopAt(t *testing.T, station string, clock string) network.StopSpec {
	t.Helper()

	spec, err := network.ParseStopSpec(station, clock)
	if err != nil {
		t.Fatal(err)
	}

	return spec
}

// Service 1: X 08:00 -> Y 09:00 -> Z 10:00 @ 10
// Service 2: X 08:00 -> Y 08:30 @ 6
// Service 3: Y 08:45 -> Z 09:15 @ 4
// Service 4: X 07:00 -> Z 08:00 @ 249.99
func testNetwork(t *testing.T) *network.Network {
	n := network.New()

	for _, err := range []error{
		n.AddServiceStops(1, 10, stopAt(t, "X", "08:00"), stopAt(t, "Y", "09:00"), stopAt(t, "Z", "10:00")),
		n.AddServiceStops(2, 6, stopAt(t, "X", "08:00"), stopAt(t, "Y", "08:30")),
		n.AddServiceStops(3, 4, stopAt(t, "Y", "08:45"), stopAt(t, "Z", "09:15")),
		n.AddServiceStops(4, 249.99, stopAt(t, "X", "07:00"), stopAt(t, "Z", "08:00")),
	} {
		if err != nil {
			t.Fatal(err)
		}
	}

	return n
}

type recordingPublisher struct {
	mutex  sync.Mutex
	events []events.PurchaseEvent
}

func (p *recordingPublisher) Publish(event events.PurchaseEvent) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.events = append(p.events, event)
	return nil
}

type mapCache struct {
	entries map[string][][]itinerary.LegSpec
	hits    int
}

func (c *mapCache) Get(fingerprint string, q planner.Query) ([][]itinerary.LegSpec, bool) {
	legs, exists := c.entries[fingerprint+q.String()]
	if exists {
		c.hits++
	}
	return legs, exists
}

func (c *mapCache) Set(fingerprint string, q planner.Query, results [][]itinerary.LegSpec) {
	c.entries[fingerprint+q.String()] = results
}

func TestRegisterAndRenamePassengers(t *testing.T) {
	assert := assert.New(t)

	office := New(testNetwork(t), Options{})

	ana, err := office.RegisterPassenger("Ana")
	assert.Nil(err)
	assert.Equal(0, ana.ID)
	assert.Equal(categories.Normal, ana.Ledger.Category)

	bruno, err := office.RegisterPassenger("Bruno")
	assert.Nil(err)
	assert.Equal(1, bruno.ID)

	_, err = office.RegisterPassenger("Ana")
	var nonUnique *NonUniquePassengerNameError
	assert.True(errors.As(err, &nonUnique))

	_, err = office.RegisterPassenger("  ")
	assert.True(errors.Is(err, ErrInvalidPassengerName))

	assert.True(errors.As(office.RenamePassenger(1, "Ana"), &nonUnique))
	assert.Nil(office.RenamePassenger(0, "Ana"))
	assert.Nil(office.RenamePassenger(1, "Carla"))

	var noPassenger *NoSuchPassengerIdError
	assert.True(errors.As(office.RenamePassenger(7, "Dora"), &noPassenger))
	assert.Equal(7, noPassenger.ID)

	passengers := office.Passengers()
	assert.Len(passengers, 2)
	assert.Equal("Ana", passengers[0].Name)
	assert.Equal("Carla", passengers[1].Name)
	assert.Equal("0|Ana|NORMAL|0|0.00|00:00", passengers[0].Describe())
}

func TestSearchAndCommitChoice(t *testing.T) {
	assert := assert.New(t)

	publisher := &recordingPublisher{}
	office := New(testNetwork(t), Options{Publisher: publisher})
	ana, _ := office.RegisterPassenger("Ana")

	results, err := office.Search(ana.ID, "X", "Z", "2024-05-01", "07:30")
	assert.Nil(err)
	assert.Len(results, 2)
	// The composed option arrives first so it ranks first
	assert.Equal([]int{2, 3}, results[0].ServiceIDs())
	assert.Equal([]int{1}, results[1].ServiceIDs())

	receipt, err := office.CommitChoice(ana.ID, 2)
	assert.Nil(err)
	assert.InDelta(10.0, receipt.AppliedCost, 1e-9)
	assert.Equal(1, receipt.Itinerary.Sequence)
	assert.Equal(categories.Normal, receipt.Category)

	_, err = office.CommitChoice(ana.ID, 3)
	var noChoice *NoSuchItineraryChoiceError
	assert.True(errors.As(err, &noChoice))
	assert.Equal(3, noChoice.Choice)

	_, err = office.CommitChoice(ana.ID, 0)
	assert.True(errors.As(err, &noChoice))

	history, err := office.PassengerHistory(ana.ID)
	assert.Nil(err)
	assert.Len(history, 1)
	assert.Equal(1, history[0].Sequence)
	assert.Equal([]int{1}, history[0].ServiceIDs())

	assert.Len(publisher.events, 1)
	assert.Equal("Ana", publisher.events[0].PassengerName)
	assert.Equal([]string{"1/X/Z"}, publisher.events[0].Legs)
	assert.Equal(time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC), publisher.events[0].Departure)

	passenger, _ := office.Passenger(ana.ID)
	assert.Equal("0|Ana|NORMAL|1|10.00|02:00", passenger.Describe())
}

func TestSearchFailuresLeaveStateUnchanged(t *testing.T) {
	assert := assert.New(t)

	office := New(testNetwork(t), Options{})
	ana, _ := office.RegisterPassenger("Ana")
	fingerprint := office.Network().Fingerprint()

	_, err := office.Search(ana.ID, "X", "Z", "2024-13-40", "07:00")
	var badDate *planner.BadDateFormatError
	assert.True(errors.As(err, &badDate))

	_, err = office.Search(ana.ID, "X", "Z", "2024-05-01", "7h")
	var badTime *planner.BadTimeFormatError
	assert.True(errors.As(err, &badTime))

	_, err = office.Search(ana.ID, "X", "Nowhere", "2024-05-01", "07:00")
	var noStation *network.NoSuchStationError
	assert.True(errors.As(err, &noStation))

	_, err = office.Search(42, "X", "Z", "2024-05-01", "07:00")
	var noPassenger *NoSuchPassengerIdError
	assert.True(errors.As(err, &noPassenger))

	passenger, _ := office.Passenger(ana.ID)
	assert.Empty(passenger.Itineraries)
	assert.Empty(passenger.Ledger.Recent)
	assert.Equal(fingerprint, office.Network().Fingerprint())

	_, err = office.CommitChoice(ana.ID, 1)
	var noChoice *NoSuchItineraryChoiceError
	assert.True(errors.As(err, &noChoice))

	results, err := office.Search(ana.ID, "Z", "X", "2024-05-01", "07:00")
	assert.Nil(err)
	assert.Empty(results)
}

func TestDiscountAppliesFromTheNextPurchase(t *testing.T) {
	assert := assert.New(t)

	office := New(testNetwork(t), Options{})
	ana, _ := office.RegisterPassenger("Ana")

	expensive, err := office.Search(ana.ID, "X", "Z", "2024-05-01", "06:00")
	assert.Nil(err)
	assert.Equal([]int{4}, expensive[0].ServiceIDs())

	receipt, err := office.CommitChoice(ana.ID, 1)
	assert.Nil(err)
	assert.InDelta(249.99, receipt.AppliedCost, 1e-9)

	passenger, _ := office.Passenger(ana.ID)
	assert.Equal(categories.Normal, passenger.Ledger.Category)

	direct, err := office.Search(ana.ID, "X", "Z", "2024-05-01", "07:30")
	assert.Nil(err)
	full := direct[len(direct)-1]
	assert.InDelta(10.0, full.Cost(), 1e-9)

	// 249.99 + 10 crosses into Frequent, but this purchase is still charged in full
	receipt, err = office.Commit(ana.ID, full)
	assert.Nil(err)
	assert.InDelta(10.0, receipt.AppliedCost, 1e-9)
	assert.Equal(categories.Frequent, receipt.Category)

	passenger, _ = office.Passenger(ana.ID)
	assert.Equal(categories.Frequent, passenger.Ledger.Category)

	receipt, err = office.Commit(ana.ID, full)
	assert.Nil(err)
	assert.InDelta(8.5, receipt.AppliedCost, 1e-9)
	assert.Equal(3, receipt.Itinerary.Sequence)

	history, _ := office.PassengerHistory(ana.ID)
	assert.Equal([]int{1, 2, 3}, []int{history[0].Sequence, history[1].Sequence, history[2].Sequence})
}

func TestCommitUnknownPassenger(t *testing.T) {
	assert := assert.New(t)

	office := New(testNetwork(t), Options{})
	ana, _ := office.RegisterPassenger("Ana")
	results, _ := office.Search(ana.ID, "X", "Z", "2024-05-01", "07:30")

	_, err := office.Commit(5, results[0])
	var noPassenger *NoSuchPassengerIdError
	assert.True(errors.As(err, &noPassenger))

	_, err = office.PassengerHistory(5)
	assert.True(errors.As(err, &noPassenger))

	_, err = office.CommitChoice(5, 1)
	assert.True(errors.As(err, &noPassenger))
}

func TestConcurrentCommitsAreSerialised(t *testing.T) {
	assert := assert.New(t)

	office := New(testNetwork(t), Options{})
	ana, _ := office.RegisterPassenger("Ana")
	results, _ := office.Search(ana.ID, "X", "Z", "2024-05-01", "07:30")

	var wg sync.WaitGroup
	sequences := make([]int, 40)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			receipt, err := office.Commit(ana.ID, results[0])
			if assert.Nil(err) {
				sequences[i] = receipt.Itinerary.Sequence
			}
		}(i)
	}
	wg.Wait()

	// Every commit is told its own place in the history
	slices.Sort(sequences)
	for i, sequence := range sequences {
		assert.Equal(i+1, sequence)
	}

	history, _ := office.PassengerHistory(ana.ID)
	assert.Len(history, 40)
	for i, it := range history {
		assert.Equal(i+1, it.Sequence)
	}

	passenger, _ := office.Passenger(ana.ID)
	assert.Len(passenger.Ledger.Recent, 10)
}

func TestSearchUsesCache(t *testing.T) {
	assert := assert.New(t)

	cache := &mapCache{entries: map[string][][]itinerary.LegSpec{}}
	office := New(testNetwork(t), Options{Cache: cache})
	ana, _ := office.RegisterPassenger("Ana")

	first, err := office.Search(ana.ID, "X", "Z", "2024-05-01", "07:30")
	assert.Nil(err)
	assert.Equal(0, cache.hits)

	second, err := office.Search(ana.ID, "X", "Z", "2024-05-01", "07:30")
	assert.Nil(err)
	assert.Equal(1, cache.hits)

	assert.Len(second, len(first))
	for i := range first {
		assert.Equal(first[i].StopIDs(), second[i].StopIDs())
		assert.InDelta(first[i].Cost(), second[i].Cost(), 1e-9)
	}
}

// Service 1 calls at X twice: X 08:00 -> Y 09:00 -> X 10:00 -> Z 11:00 @ 30
func loopingNetwork(t *testing.T) *network.Network {
	n := network.New()

	err := n.AddServiceStops(1, 30, stopAt(t, "X", "08:00"), stopAt(t, "Y", "09:00"), stopAt(t, "X", "10:00"), stopAt(t, "Z", "11:00"))
	if err != nil {
		t.Fatal(err)
	}

	return n
}

func TestCachedSearchBoardsAtTheSameCall(t *testing.T) {
	assert := assert.New(t)

	cache := &mapCache{entries: map[string][][]itinerary.LegSpec{}}
	office := New(loopingNetwork(t), Options{Cache: cache})
	ana, _ := office.RegisterPassenger("Ana")

	for i := 0; i < 2; i++ {
		results, err := office.Search(ana.ID, "X", "Z", "2024-05-01", "09:30")
		assert.Nil(err)
		assert.Len(results, 1)
		assert.Equal("10:00", results[0].Stops()[0].Clock())
		assert.Equal(time.Hour, results[0].Duration())
		assert.InDelta(10.0, results[0].Cost(), 1e-9)
	}

	assert.Equal(1, cache.hits)
}

func TestSnapshotRoundTripOnALoopingService(t *testing.T) {
	assert := assert.New(t)

	office := New(loopingNetwork(t), Options{})
	ana, _ := office.RegisterPassenger("Ana")

	_, err := office.Search(ana.ID, "X", "Z", "2024-05-01", "09:30")
	assert.Nil(err)
	_, err = office.CommitChoice(ana.ID, 1)
	assert.Nil(err)

	restored := New(nil, Options{})
	assert.Nil(restored.Restore(office.Snapshot()))

	original, _ := office.PassengerHistory(ana.ID)
	copied, err := restored.PassengerHistory(ana.ID)
	assert.Nil(err)
	assert.Len(copied, 1)
	assert.Equal(original[0].StopIDs(), copied[0].StopIDs())
	assert.InDelta(10.0, copied[0].Cost(), 1e-9)
	assert.Equal(time.Hour, copied[0].Duration())
	assert.Equal(original[0].Describe(), copied[0].Describe())
}

func TestResetKeepsNetworkAndIDs(t *testing.T) {
	assert := assert.New(t)

	office := New(testNetwork(t), Options{})
	office.RegisterPassenger("Ana")
	office.RegisterPassenger("Bruno")

	office.Reset()
	assert.Empty(office.Passengers())
	assert.Len(office.Network().Services(), 4)

	carla, err := office.RegisterPassenger("Ana")
	assert.Nil(err)
	assert.Equal(2, carla.ID)
}

func TestSnapshotRoundTrip(t *testing.T) {
	assert := assert.New(t)

	office := New(testNetwork(t), Options{})
	ana, _ := office.RegisterPassenger("Ana")
	office.RegisterPassenger("Bruno")

	office.Search(ana.ID, "X", "Z", "2024-05-01", "07:30")
	office.CommitChoice(ana.ID, 1)
	office.CommitChoice(ana.ID, 2)

	s := office.Snapshot()
	assert.Equal(snapshot.CurrentVersion, s.Version)
	assert.Equal(2, s.NextPassengerID)
	assert.Len(s.Passengers, 2)

	restored := New(nil, Options{})
	assert.Nil(restored.Restore(s))

	assert.Equal(office.Network().Fingerprint(), restored.Network().Fingerprint())

	original, _ := office.Passenger(ana.ID)
	copied, err := restored.Passenger(ana.ID)
	assert.Nil(err)
	assert.Equal(original.Ledger, copied.Ledger)
	assert.Len(copied.Itineraries, 2)
	for i := range original.Itineraries {
		assert.Equal(original.Itineraries[i].Describe(), copied.Itineraries[i].Describe())
	}

	dora, _ := restored.RegisterPassenger("Dora")
	assert.Equal(2, dora.ID)
}

func TestRestoreRejectsBadSnapshots(t *testing.T) {
	assert := assert.New(t)

	office := New(testNetwork(t), Options{})
	office.RegisterPassenger("Ana")

	s := office.Snapshot()
	s.Passengers = append(s.Passengers, snapshot.Passenger{ID: 9, Name: "Ana", Category: "NORMAL"})
	var nonUnique *NonUniquePassengerNameError
	assert.True(errors.As(office.Restore(s), &nonUnique))

	s = office.Snapshot()
	s.Version = 99
	assert.NotNil(office.Restore(s))

	s = office.Snapshot()
	s.Passengers[0].Itineraries = []snapshot.Itinerary{{
		Sequence: 1,
		Date:     "2024-05-01",
		Legs:     []itinerary.LegSpec{{ServiceID: 77, StartStation: "X", EndStation: "Z"}},
	}}
	assert.NotNil(office.Restore(s))

	assert.Len(office.Passengers(), 1)
}
