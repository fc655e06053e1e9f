package journeygraph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
	"github.com/travigo/ticketoffice/pkg/util"
)

const defaultURI = "neo4j://localhost"
const defaultDatabase = "neo4j"

func Connect(ctx context.Context) (neo4j.DriverWithContext, string, error) {
	uri := defaultURI
	database := defaultDatabase

	env := util.GetEnvironmentVariables()

	if env["TICKETOFFICE_NEO4J_URI"] != "" {
		uri = env["TICKETOFFICE_NEO4J_URI"]
	}
	if env["TICKETOFFICE_NEO4J_DATABASE"] != "" {
		database = env["TICKETOFFICE_NEO4J_DATABASE"]
	}

	driver, err := neo4j.NewDriverWithContext(
		uri,
		neo4j.BasicAuth(env["TICKETOFFICE_NEO4J_USERNAME"], env["TICKETOFFICE_NEO4J_PASSWORD"], ""))
	if err != nil {
		return nil, "", err
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, "", err
	}

	return driver, database, nil
}

// Export replaces the graph stored in the database with the given one in a single
// write transaction
func Export(ctx context.Context, driver neo4j.DriverWithContext, database string, graph Graph) error {
	session := driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx,
		func(tx neo4j.ManagedTransaction) (any, error) {
			if _, err := tx.Run(ctx, "MATCH (a) DETACH DELETE a", map[string]any{}); err != nil {
				return nil, err
			}

			if _, err := tx.Run(ctx,
				"UNWIND $stations AS station CREATE (:Station {name: station.name})",
				map[string]any{"stations": graph.Stations}); err != nil {
				return nil, err
			}

			if _, err := tx.Run(ctx,
				"UNWIND $services AS service CREATE (:Service {id: service.id, cost: service.cost})",
				map[string]any{"services": graph.Services}); err != nil {
				return nil, err
			}

			_, err := tx.Run(ctx, `
				UNWIND $segments AS segment
				MATCH (o:Station {name: segment.origin})
				MATCH (d:Station {name: segment.destination})
				MATCH (s:Service {id: segment.service})
				CREATE (o)-[:SEGMENT {
					id: segment.id,
					service: segment.service,
					departure: segment.departure,
					arrival: segment.arrival,
					minutes: segment.minutes,
					cost: segment.cost
				}]->(d)
				CREATE (s)-[:CALLS_AT {time: segment.departure}]->(o)
				`,
				map[string]any{"segments": graph.Segments})

			return nil, err
		})
	if err != nil {
		return err
	}

	log.Info().
		Int("stations", len(graph.Stations)).
		Int("services", len(graph.Services)).
		Int("segments", len(graph.Segments)).
		Msg("Exported journey graph")

	return nil
}
