package retrieve

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lighthouse-careers/agentsearch/internal/domain"
	"github.com/lighthouse-careers/agentsearch/internal/domain/candidate"
	"github.com/lighthouse-careers/agentsearch/internal/domain/query"
	"github.com/lighthouse-careers/agentsearch/internal/metrics"
)

func rec(id, embedding string) candidate.Record {
	return candidate.Record{ID: id, Embedding: embedding}
}

func TestRetrieve_FetchLimitIsMultiple(t *testing.T) {
	store := &memStore{}
	_, err := New(store).Retrieve(context.Background(), query.Degraded("q"), []float32{1, 0}, 30)
	require.NoError(t, err)
	assert.Equal(t, 90, store.lastLimit)

	_, err = New(store).WithFetchMultiplier(5).Retrieve(context.Background(), query.Degraded("q"), []float32{1, 0}, 4)
	require.NoError(t, err)
	assert.Equal(t, 20, store.lastLimit)
}

func TestRetrieve_SimilarityFloor(t *testing.T) {
	store := &memStore{records: []candidate.Record{
		rec("same", "[1,0]"),
		rec("close", "[0.8,0.6]"),
		rec("far", "[0.2,0.98]"),
		rec("opposite", "[-1,0]"),
	}}
	res, err := New(store).Retrieve(context.Background(), query.Degraded("q"), []float32{1, 0}, 10)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Matched)
	got := map[string]float64{}
	for _, c := range res.Candidates {
		got[c.ID] = c.Similarity
	}
	assert.Contains(t, got, "same")
	assert.Contains(t, got, "close")
	assert.NotContains(t, got, "far")
	assert.NotContains(t, got, "opposite")
	assert.InDelta(t, 1.0, got["same"], 1e-9)
	assert.InDelta(t, 0.8, got["close"], 1e-6)
	for _, c := range res.Candidates {
		assert.GreaterOrEqual(t, c.Similarity, DefaultSimilarityFloor)
	}
}

func TestRetrieve_CustomFloor(t *testing.T) {
	store := &memStore{records: []candidate.Record{rec("a", "[0.8,0.6]"), rec("b", "[0.6,0.8]")}}
	res, err := New(store).WithSimilarityFloor(0.7).Retrieve(context.Background(), query.Degraded("q"), []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "a", res.Candidates[0].ID)
}

func TestRetrieve_ZeroFloorKeepsWeakMatches(t *testing.T) {
	store := &memStore{records: []candidate.Record{rec("close", "[0.8,0.6]"), rec("far", "[0.2,0.98]")}}
	res, err := New(store).WithSimilarityFloor(0).Retrieve(context.Background(), query.Degraded("q"), []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, res.Candidates, 2)
}

func TestRetrieve_SkipsBadRows(t *testing.T) {
	undecodable := testutil.ToFloat64(metrics.RowsSkippedTotal.WithLabelValues("undecodable"))
	zero := testutil.ToFloat64(metrics.RowsSkippedTotal.WithLabelValues("zero_magnitude"))

	store := &memStore{records: []candidate.Record{
		rec("garbage", "not-a-vector"),
		rec("empty-array", "[]"),
		rec("zero", "[0,0]"),
		rec("short", "[1]"),
		rec("good", "[1,0.1]"),
	}}
	res, err := New(store).Retrieve(context.Background(), query.Degraded("q"), []float32{1, 0}, 10)
	require.NoError(t, err)

	assert.Equal(t, 5, res.Matched)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "good", res.Candidates[0].ID)
	assert.InDelta(t, undecodable+2, testutil.ToFloat64(metrics.RowsSkippedTotal.WithLabelValues("undecodable")), 0)
	assert.InDelta(t, zero+1, testutil.ToFloat64(metrics.RowsSkippedTotal.WithLabelValues("zero_magnitude")), 0)
}

func TestRetrieve_StoreErrorIsFatal(t *testing.T) {
	store := &memStore{err: errors.New("database is locked")}
	_, err := New(store).Retrieve(context.Background(), query.Degraded("q"), []float32{1, 0}, 10)
	require.ErrorIs(t, err, domain.ErrRetrievalFailed)
}

func TestRetrieve_ZeroQueryVector(t *testing.T) {
	_, err := New(&memStore{}).Retrieve(context.Background(), query.Degraded("q"), []float32{0, 0}, 10)
	require.ErrorIs(t, err, domain.ErrRetrievalFailed)
}

func TestRetrieve_FilterSoundness(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	var records []candidate.Record
	for i := range 200 {
		r := candidate.Record{
			ID:          fmt.Sprintf("c%03d", i),
			HasSTCW:     rng.IntN(2) == 0,
			HasENG1:     rng.IntN(2) == 0,
			HasB1B2:     rng.IntN(2) == 0,
			HasSchengen: rng.IntN(2) == 0,
			Embedding:   fmt.Sprintf("[1,%g]", rng.Float64()),
		}
		if rng.IntN(5) > 0 {
			r.YearsExperience = intPtr(rng.IntN(15))
		}
		records = append(records, r)
	}
	store := &memStore{records: records}

	filters := []query.HardFilters{
		{RequiresSTCW: boolPtr(true)},
		{RequiresENG1: boolPtr(true), MinExperience: intPtr(5)},
		{RequiresB1B2: boolPtr(true), RequiresSchengen: boolPtr(true), MaxExperience: intPtr(3)},
		{MinExperience: intPtr(2), MaxExperience: intPtr(6)},
	}
	for i, hf := range filters {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			parsed := query.Degraded("q")
			parsed.HardFilters = hf
			res, err := New(store).Retrieve(context.Background(), parsed, []float32{1, 0}, 100)
			require.NoError(t, err)
			require.NotEmpty(t, res.Candidates)

			for _, c := range res.Candidates {
				if hf.RequiresSTCW != nil && *hf.RequiresSTCW {
					assert.True(t, c.HasSTCW, c.ID)
				}
				if hf.RequiresENG1 != nil && *hf.RequiresENG1 {
					assert.True(t, c.HasENG1, c.ID)
				}
				if hf.RequiresB1B2 != nil && *hf.RequiresB1B2 {
					assert.True(t, c.HasB1B2, c.ID)
				}
				if hf.RequiresSchengen != nil && *hf.RequiresSchengen {
					assert.True(t, c.HasSchengen, c.ID)
				}
				if hf.MinExperience != nil {
					require.NotNil(t, c.YearsExperience, c.ID)
					assert.GreaterOrEqual(t, *c.YearsExperience, *hf.MinExperience, c.ID)
				}
				if hf.MaxExperience != nil {
					require.NotNil(t, c.YearsExperience, c.ID)
					assert.LessOrEqual(t, *c.YearsExperience, *hf.MaxExperience, c.ID)
				}
			}
		})
	}
}
