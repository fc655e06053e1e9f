package timetable

import (
	"io"

	"github.com/gocarina/gocsv"
	"github.com/travigo/ticketoffice/pkg/network"
)

type SegmentRow struct {
	ServiceID    int     `csv:"service_id"`
	ServiceCost  float64 `csv:"service_cost"`
	Segment      int     `csv:"segment"`
	StartStation string  `csv:"start_station"`
	StartTime    string  `csv:"start_time"`
	EndStation   string  `csv:"end_station"`
	EndTime      string  `csv:"end_time"`
	Minutes      int     `csv:"minutes"`
	SegmentCost  float64 `csv:"segment_cost"`
}

func SegmentRows(n *network.Network) []*SegmentRow {
	var rows []*SegmentRow

	for _, service := range n.Services() {
		for i, segment := range service.Segments {
			start := n.Stop(segment.Start)
			end := n.Stop(segment.End)

			rows = append(rows, &SegmentRow{
				ServiceID:    service.ID,
				ServiceCost:  service.Cost,
				Segment:      i + 1,
				StartStation: start.Station,
				StartTime:    start.Clock(),
				EndStation:   end.Station,
				EndTime:      end.Clock(),
				Minutes:      int(segment.Duration.Minutes()),
				SegmentCost:  segment.Cost,
			})
		}
	}

	return rows
}

// ExportSegments writes one CSV row per service segment with its allocated cost
func ExportSegments(n *network.Network, writer io.Writer) error {
	return gocsv.Marshal(SegmentRows(n), writer)
}
