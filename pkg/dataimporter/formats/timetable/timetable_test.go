package timetable

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/travigo/ticketoffice/pkg/categories"
	"github.com/travigo/ticketoffice/pkg/network"
	"github.com/travigo/ticketoffice/pkg/ticketoffice"
)

const testFile = `PASSENGER|Ana
PASSENGER|Bruno
SERVICE|1|10|08:00|X|09:00|Y|10:00|Z
SERVICE|2|6|08:00|X|08:30|Y
SERVICE|3|4|08:45|Y|09:15|Z
SERVICE|4|300|06:00|X|07:00|Z
ITINERARY|0|2024-05-01|4/X/Z
ITINERARY|0|2024-05-02|2/X/Y|3/Y/Z
ITINERARY|1|2024-05-03|1/Y/Z
`

func parse(t *testing.T, contents string) (*Timetable, error) {
	t.Helper()

	timetable := &Timetable{}
	err := timetable.ParseFile(strings.NewReader(contents))

	return timetable, err
}

func TestParseFile(t *testing.T) {
	assert := assert.New(t)

	timetable, err := parse(t, testFile)
	assert.Nil(err)

	assert.Equal([]string{"Ana", "Bruno"}, timetable.Passengers)
	assert.Len(timetable.Services, 4)
	assert.Equal(1, timetable.Services[0].ID)
	assert.Len(timetable.Services[0].Stops, 3)
	assert.Equal("Z", timetable.Services[0].Stops[2].Station)

	assert.Len(timetable.Itineraries, 3)
	assert.Equal(7, timetable.Itineraries[0].Line)
	assert.Equal(time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC), timetable.Itineraries[1].Date)
	assert.Len(timetable.Itineraries[1].Legs, 2)
	assert.Equal("3/Y/Z", timetable.Itineraries[1].Legs[1].String())
}

func TestParseFileReportsLines(t *testing.T) {
	assert := assert.New(t)

	cases := []string{
		"PASSENGER|Ana\nCOACH|1|2\n",
		"PASSENGER|Ana\nSERVICE|x|10|08:00|X|09:00|Y\n",
		"PASSENGER|Ana\nSERVICE|1|10|08:00|X|09:00\n",
		"PASSENGER|Ana\nSERVICE|1|10|8h|X|09:00|Y\n",
		"PASSENGER|Ana\nITINERARY|0|2024-13-40|1/X/Y\n",
		"PASSENGER|Ana\nITINERARY|0|2024-05-01|1-X-Y\n",
		"PASSENGER|Ana\nPASSENGER|Bruno|Extra\n",
	}

	for _, contents := range cases {
		_, err := parse(t, contents)

		var importErr *ImportFileError
		if assert.True(errors.As(err, &importErr), contents) {
			assert.Equal(2, importErr.Line, contents)
		}
	}
}

func TestImportChargesItinerariesThroughLedger(t *testing.T) {
	assert := assert.New(t)

	timetable, err := parse(t, testFile)
	assert.Nil(err)

	office := ticketoffice.New(nil, ticketoffice.Options{})
	assert.Nil(timetable.Import(office))

	assert.Len(office.Network().Services(), 4)

	ana, err := office.Passenger(0)
	assert.Nil(err)
	assert.Equal("Ana", ana.Name)
	assert.Len(ana.Itineraries, 2)
	assert.Equal(2, ana.Itineraries[1].Sequence)

	// 300 at Normal moves Ana to Frequent, so the 10 journey costs 8.50
	assert.Equal(categories.Frequent, ana.Ledger.Category)
	assert.InDelta(308.5, ana.Ledger.TotalSpent, 1e-9)

	bruno, _ := office.Passenger(1)
	assert.Len(bruno.Itineraries, 1)
	assert.InDelta(5.0, bruno.Ledger.TotalSpent, 1e-9)

	carla, err := office.RegisterPassenger("Carla")
	assert.Nil(err)
	assert.Equal(2, carla.ID)
}

func TestImportRejectsBadReferences(t *testing.T) {
	assert := assert.New(t)

	office := ticketoffice.New(nil, ticketoffice.Options{})

	timetable, _ := parse(t, "PASSENGER|Ana\nSERVICE|1|10|08:00|X|09:00|Y\nITINERARY|3|2024-05-01|1/X/Y\n")
	err := timetable.Import(office)
	var noPassenger *ticketoffice.NoSuchPassengerIdError
	assert.True(errors.As(err, &noPassenger))
	var importErr *ImportFileError
	assert.True(errors.As(err, &importErr))
	assert.Equal(3, importErr.Line)

	timetable, _ = parse(t, "PASSENGER|Ana\nSERVICE|1|10|08:00|X|09:00|Y\nITINERARY|0|2024-05-01|2/X/Y\n")
	var noService *network.NoSuchServiceError
	assert.True(errors.As(timetable.Import(office), &noService))

	timetable, _ = parse(t, "PASSENGER|Ana\nPASSENGER|Ana\n")
	var nonUnique *ticketoffice.NonUniquePassengerNameError
	assert.True(errors.As(timetable.Import(office), &nonUnique))

	timetable, _ = parse(t, "SERVICE|1|10|09:00|X|08:00|Y\n")
	assert.True(errors.Is(timetable.Import(office), network.ErrSegmentOrder))

	assert.Empty(office.Passengers())
	assert.Empty(office.Network().Services())
}

func TestExportSegments(t *testing.T) {
	assert := assert.New(t)

	timetable, _ := parse(t, "SERVICE|7|30|10:00|A|10:20|B|11:00|C\n")
	n, err := timetable.BuildNetwork()
	assert.Nil(err)

	var buffer bytes.Buffer
	assert.Nil(ExportSegments(n, &buffer))

	var rows []*SegmentRow
	assert.Nil(gocsv.Unmarshal(&buffer, &rows))
	assert.Len(rows, 2)
	assert.Equal("A", rows[0].StartStation)
	assert.Equal(20, rows[0].Minutes)
	assert.InDelta(10.0, rows[0].SegmentCost, 1e-9)
	assert.Equal("11:00", rows[1].EndTime)
	assert.InDelta(20.0, rows[1].SegmentCost, 1e-9)
}
