package journeygraph

import (
	"fmt"

	"github.com/travigo/ticketoffice/pkg/network"
)

// Graph is the timetable laid out as Neo4j nodes and relationships: stations and
// services are nodes, every service segment is a SEGMENT relationship between two
// stations
type Graph struct {
	Stations []any
	Services []any
	Segments []any
}

func Build(n *network.Network) Graph {
	var graph Graph

	for _, station := range n.Stations() {
		graph.Stations = append(graph.Stations, map[string]any{
			"name": station,
		})
	}

	for _, service := range n.Services() {
		graph.Services = append(graph.Services, map[string]any{
			"id":   int64(service.ID),
			"cost": service.Cost,
		})

		for i, segment := range service.Segments {
			start := n.Stop(service.Departures[i])
			end := n.Stop(service.Arrivals[i])

			graph.Segments = append(graph.Segments, map[string]any{
				"id":          fmt.Sprintf("%d:%d", service.ID, i),
				"service":     int64(service.ID),
				"origin":      start.Station,
				"departure":   start.Clock(),
				"destination": end.Station,
				"arrival":     end.Clock(),
				"minutes":     int64(segment.Duration.Minutes()),
				"cost":        segment.Cost,
			})
		}
	}

	return graph
}
