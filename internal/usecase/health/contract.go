package health

import "context"

// DBPinger checks chat store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexPinger checks vector index availability.
type IndexPinger interface {
	Ping(ctx context.Context) error
}
