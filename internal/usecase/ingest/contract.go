package ingest

import (
	"context"

	"github.com/kailas-cloud/librarian/internal/domain"
)

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.Vector, error)
}

// Upserter writes points into the vector index with overwrite-by-id semantics.
type Upserter interface {
	UpsertPoints(ctx context.Context, collection string, points []domain.Point) error
}
