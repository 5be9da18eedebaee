// Package ingest loads corpus records into the vector index: embed each
// record's text, batch the resulting points, upsert batch by batch.
package ingest

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/librarian/internal/corpus"
	"github.com/kailas-cloud/librarian/internal/domain"
)

// Config holds ingestion settings.
type Config struct {
	ChunkSize int // records per upsert batch
	Workers   int // concurrent batches; 1 = sequential
	Logger    *zap.Logger
}

// Report summarizes one ingestion run. A record is either processed (embedded
// and handed to a batch), or skipped (its embedding failed). FailedBatches
// counts upserts that the index rejected; their records stay in Processed
// because embedding succeeded.
type Report struct {
	Total         int
	Processed     int
	Skipped       int
	FailedBatches int
}

// Service runs ingestion with best-effort semantics: one bad record or one
// failed batch never aborts the run.
type Service struct {
	embed     Embedder
	upsert    Upserter
	chunkSize int
	workers   int
	logger    *zap.Logger
}

// New creates an ingestion service.
func New(embed Embedder, upsert Upserter, cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 10
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Service{
		embed:     embed,
		upsert:    upsert,
		chunkSize: chunkSize,
		workers:   workers,
		logger:    logger,
	}
}

// Run ingests records into the named collection. Records are processed in
// chunks: each record is embedded individually (failures skip the record and
// continue), then the chunk's surviving points are upserted in one call
// (failures are counted and the run continues with the next chunk).
func (s *Service) Run(ctx context.Context, collection string, records []corpus.Record) (Report, error) {
	report := Report{Total: len(records)}
	if len(records) == 0 {
		s.logger.Info("nothing to ingest", zap.String("collection", collection))
		return report, nil
	}

	chunks := chunk(records, s.chunkSize)
	s.logger.Info("ingestion started",
		zap.String("collection", collection),
		zap.Int("records", len(records)),
		zap.Int("batches", len(chunks)),
		zap.Int("workers", s.workers),
	)

	if s.workers == 1 {
		for i, batch := range chunks {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			r := s.runBatch(ctx, collection, i, batch)
			report.Processed += r.Processed
			report.Skipped += r.Skipped
			report.FailedBatches += r.FailedBatches
		}
	} else {
		var (
			mu  sync.Mutex
			wg  sync.WaitGroup
			sem = make(chan struct{}, s.workers)
		)
		for i, batch := range chunks {
			wg.Add(1)
			go func(i int, batch []corpus.Record) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()

				r := s.runBatch(ctx, collection, i, batch)

				mu.Lock()
				report.Processed += r.Processed
				report.Skipped += r.Skipped
				report.FailedBatches += r.FailedBatches
				mu.Unlock()
			}(i, batch)
		}
		wg.Wait()
		if err := ctx.Err(); err != nil {
			return report, err
		}
	}

	s.logger.Info("ingestion finished",
		zap.String("collection", collection),
		zap.Int("total", report.Total),
		zap.Int("processed", report.Processed),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed_batches", report.FailedBatches),
	)
	return report, nil
}

// runBatch embeds one chunk and upserts its surviving points.
func (s *Service) runBatch(ctx context.Context, collection string, index int, batch []corpus.Record) Report {
	var r Report

	points := make([]domain.Point, 0, len(batch))
	for _, rec := range batch {
		vector, err := s.embed.Embed(ctx, rec.EmbeddingText())
		if err != nil {
			r.Skipped++
			s.logger.Warn("record skipped: embedding failed",
				zap.Any("id", rec.PointID()),
				zap.Error(err),
			)
			continue
		}
		points = append(points, domain.Point{
			ID:      rec.PointID(),
			Vector:  vector,
			Payload: rec.Payload(rec.EmbeddingText()),
		})
		r.Processed++
	}

	if len(points) == 0 {
		return r
	}

	if err := s.upsert.UpsertPoints(ctx, collection, points); err != nil {
		r.FailedBatches++
		s.logger.Error("batch upsert failed",
			zap.Int("batch", index),
			zap.Int("points", len(points)),
			zap.Error(err),
		)
		return r
	}

	s.logger.Info("batch ingested",
		zap.Int("batch", index),
		zap.Int("points", len(points)),
	)
	return r
}

// chunk splits records into slices of at most size elements, preserving order.
func chunk(records []corpus.Record, size int) [][]corpus.Record {
	chunks := make([][]corpus.Record, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		chunks = append(chunks, records[start:end])
	}
	return chunks
}
