package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store interface {
	Save(ctx context.Context, s *Snapshot) error
	Load(ctx context.Context) (*Snapshot, error)
}

// FileStore keeps a single snapshot as a JSON document on disk
type FileStore struct {
	Path string
}

func (f *FileStore) Save(_ context.Context, s *Snapshot) error {
	snapshotBytes, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	// Replace atomically
	temporaryPath := f.Path + ".tmp"
	if err := os.WriteFile(temporaryPath, snapshotBytes, 0o644); err != nil {
		return err
	}

	return os.Rename(temporaryPath, f.Path)
}

func (f *FileStore) Load(_ context.Context) (*Snapshot, error) {
	snapshotBytes, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSnapshot
	} else if err != nil {
		return nil, err
	}

	var s Snapshot
	if err := json.Unmarshal(snapshotBytes, &s); err != nil {
		return nil, err
	}

	return &s, nil
}

// MongoStore appends snapshots to a collection and loads the newest one
type MongoStore struct {
	Collection *mongo.Collection
}

func (m *MongoStore) Save(ctx context.Context, s *Snapshot) error {
	_, err := m.Collection.InsertOne(ctx, s)

	return err
}

func (m *MongoStore) Load(ctx context.Context) (*Snapshot, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdat", Value: -1}})

	var s Snapshot
	err := m.Collection.FindOne(ctx, bson.M{}, opts).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoSnapshot
	} else if err != nil {
		return nil, err
	}

	return &s, nil
}
