// Package db defines the storage facade used by repositories.
package db

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for storage operations.
var ErrKeyNotFound = errors.New("db: key not found")

// Op constants map to Redis command names for error context.
const (
	OpGet      = "GET"
	OpSet      = "SET"
	OpDel      = "DEL"
	OpRPush    = "RPUSH"
	OpLRange   = "LRANGE"
	OpSAdd     = "SADD"
	OpSMembers = "SMEMBERS"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// Store is the storage facade backing the chat repository.
type Store interface {
	KVStore
	ListStore
	SetStore
	Pinger
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks storage connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations. Get returns ErrKeyNotFound
// for a missing key.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

// ListStore provides append-only list operations. LRange(key, 0, -1) returns
// the whole list; a missing key yields an empty list, not an error.
type ListStore interface {
	RPush(ctx context.Context, key string, values ...[]byte) error
	LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error)
}

// SetStore tracks membership sets, used for session enumeration.
type SetStore interface {
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}
