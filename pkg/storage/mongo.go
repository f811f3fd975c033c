package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Mongo is a Store keeping one document per key in a collection.
type Mongo struct {
	coll *mongo.Collection
}

type mongoDocument struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongo creates a mongo-backed store over the provided collection.
func NewMongo(coll *mongo.Collection) (*Mongo, error) {
	if coll == nil {
		return nil, ErrNilClient
	}
	return &Mongo{coll: coll}, nil
}

func (m *Mongo) Load(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	var doc mongoDocument
	if err := m.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to load key %q from mongo: %w", key, err)
	}
	return doc.Data, nil
}

func (m *Mongo) Save(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	doc := mongoDocument{Key: key, Data: data, UpdatedAt: time.Now()}
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save key %q to mongo: %w", key, err)
	}
	return nil
}
