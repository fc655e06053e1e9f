package planner

import (
	"fmt"
	"time"

	"github.com/travigo/ticketoffice/pkg/util"
)

type BadDateFormatError struct {
	Value string
}

func (e *BadDateFormatError) Error() string {
	return fmt.Sprintf("date %q is not in YYYY-MM-DD format", e.Value)
}

type BadTimeFormatError struct {
	Value string
}

func (e *BadTimeFormatError) Error() string {
	return fmt.Sprintf("time %q is not in HH:MM format", e.Value)
}

type Query struct {
	Origin      string
	Destination string

	Date    time.Time
	MinTime time.Time
}

func (q Query) String() string {
	return fmt.Sprintf("%s -> %s on %s after %s", q.Origin, q.Destination, q.Date.Format(util.DateFormat), util.FormatClock(q.MinTime))
}

// ParseQuery validates the textual date and time of a search. Station names are
// checked against the network when the query is built.
func ParseQuery(origin string, destination string, date string, minTime string) (Query, error) {
	parsedDate, err := util.ParseDate(date)
	if err != nil {
		return Query{}, &BadDateFormatError{Value: date}
	}

	parsedTime, err := util.ParseClock(minTime)
	if err != nil {
		return Query{}, &BadTimeFormatError{Value: minTime}
	}

	return Query{
		Origin:      origin,
		Destination: destination,
		Date:        parsedDate,
		MinTime:     parsedTime,
	}, nil
}
