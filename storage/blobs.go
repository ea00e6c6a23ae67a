// Package storage provides the durable key/value backends the form store
// persists its collections into. Each collection is one opaque blob.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrNotFound          = errors.New("blob not found")
	ErrUnsupportedScheme = errors.New("unsupported storage scheme")
)

// Blobs stores whole values under string keys. Put replaces any previous value.
type Blobs interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

type Options struct {
	// MongoDatabase names the database holding the blobs collection.
	MongoDatabase string
	// RedisPrefix namespaces the keys written to redis.
	RedisPrefix string
}

// Open picks a backend from the URL scheme:
//
//	sqlite://path/to/file.sqlite
//	bolt://path/to/file.db
//	redis://[:password@]host:port/db
//	mongodb://host:port  (or mongodb+srv://)
//	memory://
//
// A bare path without scheme is treated as a SQLite file.
func Open(ctx context.Context, rawURL string, opts Options) (Blobs, error) {
	if !strings.Contains(rawURL, "://") {
		return OpenSQLite(rawURL)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("storage url: %w", err)
	}

	switch u.Scheme {
	case "sqlite", "sqlite3":
		return OpenSQLite(filePath(u))
	case "bolt", "bbolt":
		return OpenBolt(filePath(u))
	case "redis", "rediss":
		return OpenRedis(ctx, rawURL, opts.RedisPrefix)
	case "mongodb", "mongodb+srv":
		return OpenMongo(ctx, rawURL, opts.MongoDatabase)
	case "memory", "mem":
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
}

// filePath accepts both sqlite://relative/file and sqlite:///absolute/file
func filePath(u *url.URL) string {
	return u.Host + u.Path
}
