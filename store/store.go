// Package store provides the key value backends used to persist a portfolio.
//
// Every backend maps a key to a string value. Writes overwrite, there is no
// append and no partial write detection.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// Backend is a key value store.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Close() error
}

// Kinds of backends known by Open.
const (
	KindDir    = "dir"
	KindSQLite = "sqlite"
	KindRedis  = "redis"
	KindMemory = "memory"
)

// Open returns the backend of the given kind. The meaning of dsn depends on
// the kind: a folder for "dir", a database file for "sqlite", a redis URL for
// "redis". It is ignored for "memory".
func Open(kind, dsn string) (Backend, error) {
	switch kind {
	case KindDir, "":
		return NewDir(dsn)
	case KindSQLite:
		return NewSQLite(dsn)
	case KindRedis:
		return NewRedis(dsn)
	case KindMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store kind %q (want %s, %s, %s or %s)", kind, KindDir, KindSQLite, KindRedis, KindMemory)
	}
}
