package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	bolt "go.etcd.io/bbolt"
)

const boltBucket = "blobs"

type boltBlobs struct {
	db *bolt.DB
}

func OpenBolt(path string) (Blobs, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt open %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &boltBlobs{db}, nil
}

func (b *boltBlobs) Get(_ context.Context, key string) (value []byte, err error) {
	err = b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(boltBucket)).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		// v is only valid for the life of the transaction
		value = slices.Clone(v)
		return nil
	})
	return
}

func (b *boltBlobs) Put(_ context.Context, key string, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Put([]byte(key), value)
	})
}

func (b *boltBlobs) Close() error {
	return b.db.Close()
}
