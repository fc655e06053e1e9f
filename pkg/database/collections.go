package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const SnapshotsCollection = "snapshots"

func createIndexes() {
	createSnapshotsIndexes()
}

func createSnapshotsIndexes() {
	snapshotsCollection := GetCollection(SnapshotsCollection)

	_, err := snapshotsCollection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "createdat", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "version", Value: 1}},
		},
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}
