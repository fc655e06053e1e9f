package network

import (
	"time"

	"github.com/travigo/ticketoffice/pkg/util"
)

type StopID int

const NoStop StopID = -1

// TrainStop is one scheduled (station, time) event of a service
type TrainStop struct {
	ID      StopID
	Station string
	Time    time.Time

	ServiceID int
	Segment   int

	Next StopID
}

func (s TrainStop) Clock() string {
	return util.FormatClock(s.Time)
}

// StopSpec describes a stop before it is placed in the network
type StopSpec struct {
	Station string
	Time    time.Time
}

func (s StopSpec) matches(stop TrainStop) bool {
	return s.Station == stop.Station && s.Time.Equal(stop.Time)
}

type StopPair struct {
	Start TrainStop
	End   TrainStop
}

type StationCall struct {
	ServiceID int
	Stop      TrainStop
}

func ParseStopSpec(station string, clock string) (StopSpec, error) {
	t, err := util.ParseClock(clock)
	if err != nil {
		return StopSpec{}, err
	}

	return StopSpec{Station: station, Time: t}, nil
}
