package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mhuels/dagview/pkg/observability"
)

// MongoConfig configures a MongoDB-backed store.
type MongoConfig struct {
	// URI is the MongoDB connection string.
	URI string

	// Database is the database name. Defaults to "dagview".
	Database string

	// Collection is the collection name. Defaults to "layouts".
	Collection string
}

// MongoStore persists records in a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "dagview"
	}
	if cfg.Collection == "" {
		cfg.Collection = "layouts"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Save persists a record and returns its generated ID.
func (s *MongoStore) Save(ctx context.Context, rec *Record) (string, error) {
	stored := *rec
	if stored.ID == "" {
		stored.ID = NewID()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	start := time.Now()
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": stored.ID}, &stored, opts)
	if err != nil {
		observability.Store().OnStoreError(ctx, "save", s.collection.Name(), err)
		return "", err
	}
	observability.Store().OnStoreOp(ctx, "save", s.collection.Name(), time.Since(start))
	return stored.ID, nil
}

// Get retrieves a record by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	start := time.Now()
	var rec Record
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		observability.Store().OnStoreError(ctx, "get", s.collection.Name(), err)
		return nil, err
	}
	observability.Store().OnStoreOp(ctx, "get", s.collection.Name(), time.Since(start))
	return &rec, nil
}

// List returns the most recent records, newest first.
func (s *MongoStore) List(ctx context.Context, limit int) ([]*Record, error) {
	start := time.Now()
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		observability.Store().OnStoreError(ctx, "list", s.collection.Name(), err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*Record
	if err := cursor.All(ctx, &out); err != nil {
		observability.Store().OnStoreError(ctx, "list", s.collection.Name(), err)
		return nil, err
	}
	observability.Store().OnStoreOp(ctx, "list", s.collection.Name(), time.Since(start))
	return out, nil
}

// Delete removes a record.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	start := time.Now()
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		observability.Store().OnStoreError(ctx, "delete", s.collection.Name(), err)
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	observability.Store().OnStoreOp(ctx, "delete", s.collection.Name(), time.Since(start))
	return nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
