package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const mongoCollection = "blobs"

type mongoBlob struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type mongoBlobs struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func OpenMongo(ctx context.Context, uri, database string) (Blobs, error) {
	if database == "" {
		database = "qform"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &mongoBlobs{
		client: client,
		coll:   client.Database(database).Collection(mongoCollection),
	}, nil
}

func (m *mongoBlobs) Get(ctx context.Context, key string) ([]byte, error) {
	var b mongoBlob
	err := m.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b.Value, nil
}

func (m *mongoBlobs) Put(ctx context.Context, key string, value []byte) error {
	_, err := m.coll.ReplaceOne(ctx,
		bson.M{"_id": key},
		mongoBlob{Key: key, Value: value, UpdatedAt: time.Now()},
		options.Replace().SetUpsert(true),
	)
	return err
}

func (m *mongoBlobs) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
