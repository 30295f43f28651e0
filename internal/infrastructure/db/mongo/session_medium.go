package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const storageCollection = "console_storage"

type storageDoc struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// SessionMedium keeps persisted console state in a MongoDB collection, one
// document per key.
type SessionMedium struct {
	db *mongo.Database
}

func NewSessionMedium(db *mongo.Database) *SessionMedium {
	return &SessionMedium{db: db}
}

func (m *SessionMedium) Get(ctx context.Context, key string) (string, bool, error) {
	var doc storageDoc
	err := m.db.Collection(storageCollection).FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("mongo find %s: %w", key, err)
	}
	return doc.Value, true, nil
}

func (m *SessionMedium) Set(ctx context.Context, key, value string) error {
	doc := storageDoc{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	_, err := m.db.Collection(storageCollection).ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo upsert %s: %w", key, err)
	}
	return nil
}

func (m *SessionMedium) Remove(ctx context.Context, key string) error {
	if _, err := m.db.Collection(storageCollection).DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("mongo delete %s: %w", key, err)
	}
	return nil
}
