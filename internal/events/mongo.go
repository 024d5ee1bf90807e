// Package events stores and reads the transaction event feed in a
// DocumentDB-compatible MongoDB collection.
package events

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/finmart-data/finmart/internal/metrics"
	"github.com/finmart-data/finmart/internal/seed"
	"github.com/finmart-data/finmart/internal/warehouse"
	"github.com/finmart-data/finmart/pkg/types"
)

// Compile-time interface satisfaction check.
var _ warehouse.EventSource = (*MongoStore)(nil)

// MongoStore is the transaction event collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to the cluster and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if database == "" || collection == "" {
		return nil, fmt.Errorf("mongo database and collection required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Close disconnects from the cluster.
func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Seed inserts one generated event document per transaction id in [from, to].
func (m *MongoStore) Seed(ctx context.Context, gen *seed.Generator, from, to int64) (int, error) {
	docs := make([]any, 0, to-from+1)
	for id := from; id <= to; id++ {
		docs = append(docs, gen.Event(id))
	}
	out, err := m.coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("inserting events: %w", err)
	}
	return len(out.InsertedIDs), nil
}

// Events reads and validates every event document. A document that does not
// match the declared event schema fails the whole read.
func (m *MongoStore) Events(ctx context.Context) ([]types.TransactionEvent, error) {
	cursor, err := m.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var events []types.TransactionEvent
	for cursor.Next(ctx) {
		var raw warehouse.RawEvent
		if err := cursor.Decode(&raw); err != nil {
			metrics.EventSchemaViolations.Add(1)
			return nil, fmt.Errorf("%w: %v", warehouse.ErrSchemaViolation, err)
		}
		ev, err := raw.Validate()
		if err != nil {
			metrics.EventSchemaViolations.Add(1)
			return nil, err
		}
		events = append(events, ev)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("reading events: %w", err)
	}
	return events, nil
}
