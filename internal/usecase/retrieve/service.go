// Package retrieve applies hard filters in the store and cosine similarity in process.
package retrieve

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lighthouse-careers/agentsearch/internal/domain"
	"github.com/lighthouse-careers/agentsearch/internal/domain/candidate"
	"github.com/lighthouse-careers/agentsearch/internal/domain/query"
	"github.com/lighthouse-careers/agentsearch/internal/domain/vector"
	"github.com/lighthouse-careers/agentsearch/internal/logger"
	"github.com/lighthouse-careers/agentsearch/internal/metrics"
)

// Defaults for the retrieval stage.
const (
	DefaultSimilarityFloor = 0.30
	DefaultFetchMultiplier = 3
)

// Result is the output of one retrieval.
type Result struct {
	// Candidates passed every hard filter and the similarity floor. Order is the store's.
	Candidates []candidate.Retrieved
	// Matched counts rows that passed the hard filters, before scoring.
	Matched int
}

// Service runs the retrieval stage.
type Service struct {
	store           CandidateStore
	similarityFloor float64
	fetchMultiplier int
}

// New creates a retriever with default floor and fetch multiplier.
func New(store CandidateStore) *Service {
	return &Service{
		store:           store,
		similarityFloor: DefaultSimilarityFloor,
		fetchMultiplier: DefaultFetchMultiplier,
	}
}

// WithSimilarityFloor overrides the minimum cosine similarity.
func (s *Service) WithSimilarityFloor(floor float64) *Service {
	s.similarityFloor = floor
	return s
}

// WithFetchMultiplier overrides how many rows are fetched per requested result.
// Values below 1 are ignored.
func (s *Service) WithFetchMultiplier(m int) *Service {
	if m >= 1 {
		s.fetchMultiplier = m
	}
	return s
}

// Retrieve fetches up to fetchMultiplier*maxResults rows satisfying the hard
// filters and keeps those whose similarity to queryEmbedding reaches the floor.
// Rows with an undecodable or zero-magnitude embedding are skipped.
func (s *Service) Retrieve(
	ctx context.Context, parsed query.Parsed, queryEmbedding []float32, maxResults int,
) (Result, error) {
	if m := vector.Magnitude(queryEmbedding); !(m > 0) {
		return Result{}, fmt.Errorf("%w: query embedding has zero magnitude", domain.ErrRetrievalFailed)
	}

	expr, err := BuildFilter(parsed.HardFilters)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", domain.ErrRetrievalFailed, err)
	}

	rows, err := s.store.FindEligible(ctx, expr, s.fetchMultiplier*maxResults)
	if err != nil {
		return Result{}, fmt.Errorf("%w: find candidates: %w", domain.ErrRetrievalFailed, err)
	}

	log := logger.FromContext(ctx)
	out := make([]candidate.Retrieved, 0, len(rows))
	var belowFloor, mismatched int

	for _, rec := range rows {
		emb, err := vector.Decode(rec.Embedding)
		if err != nil {
			metrics.RowsSkippedTotal.WithLabelValues("undecodable").Inc()
			log.Debug("Skipping candidate with undecodable embedding",
				zap.String("candidate_id", rec.ID), zap.Error(err))
			continue
		}
		sim, ok := vector.Cosine(queryEmbedding, emb)
		if !ok {
			metrics.RowsSkippedTotal.WithLabelValues("zero_magnitude").Inc()
			log.Debug("Skipping candidate with zero-magnitude embedding",
				zap.String("candidate_id", rec.ID))
			continue
		}
		if len(emb) != len(queryEmbedding) {
			mismatched++
		}
		if sim < s.similarityFloor {
			belowFloor++
			continue
		}
		out = append(out, candidate.Retrieved{Record: rec, Similarity: sim})
	}

	if mismatched > 0 {
		metrics.RowsSkippedTotal.WithLabelValues("dimension_mismatch").Add(float64(mismatched))
		log.Warn("Candidate embeddings with mismatched dimensions scored as zero",
			zap.Int("count", mismatched), zap.Int("query_dimensions", len(queryEmbedding)))
	}
	log.Debug("Retrieval complete",
		zap.Int("matched", len(rows)),
		zap.Int("below_floor", belowFloor),
		zap.Int("kept", len(out)),
	)

	return Result{Candidates: out, Matched: len(rows)}, nil
}
