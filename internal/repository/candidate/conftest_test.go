package candidate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lighthouse-careers/agentsearch/internal/db/sqlite"
	domcand "github.com/lighthouse-careers/agentsearch/internal/domain/candidate"
	"github.com/lighthouse-careers/agentsearch/internal/domain/search/filter"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	d, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, d.RunMigrations(context.Background()))
	t.Cleanup(func() { d.Close() })

	repo := New(d)
	repo.now = func() time.Time { return baseTime }
	return repo
}

func intPtr(i int) *int { return &i }

// seed inserts records; each one is updated a minute after the previous.
func seed(t *testing.T, repo *Repo, recs ...domcand.Record) {
	t.Helper()
	for i := range recs {
		rec := recs[i]
		if rec.UpdatedAt.IsZero() {
			rec.UpdatedAt = baseTime.Add(time.Duration(i) * time.Minute)
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = rec.UpdatedAt
		}
		require.NoError(t, repo.Upsert(context.Background(), &rec))
	}
}

func expr(t *testing.T, must ...filter.Condition) filter.Expression {
	t.Helper()
	e, err := filter.NewExpression(must, nil)
	require.NoError(t, err)
	return e
}

func flag(t *testing.T, key string) filter.Condition {
	t.Helper()
	c, err := filter.NewFlag(key, true)
	require.NoError(t, err)
	return c
}

func atLeast(t *testing.T, key string, v float64) filter.Condition {
	t.Helper()
	r, err := filter.NewRangeFilter(nil, &v, nil, nil)
	require.NoError(t, err)
	c, err := filter.NewRange(key, r)
	require.NoError(t, err)
	return c
}

func ids(recs []domcand.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}
