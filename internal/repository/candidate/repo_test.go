package candidate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lighthouse-careers/agentsearch/internal/db"
	domcand "github.com/lighthouse-careers/agentsearch/internal/domain/candidate"
	"github.com/lighthouse-careers/agentsearch/internal/domain/search/filter"
)

func TestFindEligible_STCWAndExperience(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo,
		domcand.Record{ID: "match", PrimaryPosition: "Chief Stewardess", HasSTCW: true, YearsExperience: intPtr(7), Embedding: "[0.1,0.2]"},
		domcand.Record{ID: "no-stcw", PrimaryPosition: "Chief Stewardess", HasSTCW: false, YearsExperience: intPtr(9), Embedding: "[0.1,0.2]"},
	)

	got, err := repo.FindEligible(context.Background(),
		expr(t, flag(t, "has_stcw"), atLeast(t, "years_experience", 5)), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"match"}, ids(got))
	assert.True(t, got[0].HasSTCW)
	require.NotNil(t, got[0].YearsExperience)
	assert.Equal(t, 7, *got[0].YearsExperience)
}

func TestFindEligible_NullExperienceFailsRange(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo,
		domcand.Record{ID: "unknown", Embedding: "[1]"},
		domcand.Record{ID: "senior", YearsExperience: intPtr(12), Embedding: "[1]"},
	)

	got, err := repo.FindEligible(context.Background(), expr(t, atLeast(t, "years_experience", 3)), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"senior"}, ids(got))
}

func TestFindEligible_SkipsIneligible(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo,
		domcand.Record{ID: "live", Embedding: "[1,0]"},
		domcand.Record{ID: "no-embedding"},
		domcand.Record{ID: "deleted", Embedding: "[1,0]"},
	)
	require.NoError(t, repo.SoftDelete(context.Background(), "deleted"))

	got, err := repo.FindEligible(context.Background(), expr(t), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"live"}, ids(got))
}

func TestFindEligible_OrderAndLimit(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo,
		domcand.Record{ID: "oldest", Embedding: "[1]"},
		domcand.Record{ID: "middle", Embedding: "[1]"},
		domcand.Record{ID: "newest", Embedding: "[1]"},
	)

	got, err := repo.FindEligible(context.Background(), expr(t), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"newest", "middle"}, ids(got))

	again, err := repo.FindEligible(context.Background(), expr(t), 2)
	require.NoError(t, err)
	assert.Equal(t, ids(got), ids(again))
}

func TestFindEligible_ZeroLimit(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, domcand.Record{ID: "a", Embedding: "[1]"})

	got, err := repo.FindEligible(context.Background(), expr(t), 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindEligible_UnknownColumn(t *testing.T) {
	repo := newTestRepo(t)
	c, err := filter.NewFlag("is_admin", true)
	require.NoError(t, err)

	_, err = repo.FindEligible(context.Background(), expr(t, c), 10)
	require.Error(t, err)
}

func TestUpsert_RoundTripEnrichment(t *testing.T) {
	repo := newTestRepo(t)
	rec := domcand.Record{
		ID: "c1", FirstName: "Jonas", LastName: "Berg",
		PrimaryPosition: "Bosun", PositionCategory: domcand.CategoryDeck,
		HasSTCW: true, HasENG1: true, HighestLicense: "Yachtmaster Offshore",
		Embedding:        "[0.5,0.5]",
		Skills:           []string{"tender driving", "varnishing"},
		PositionsHeld:    []domcand.PositionHeld{{Title: "Lead Deckhand", Vessel: "M/Y Aurora", Months: 26}},
		Certifications:   []domcand.Certification{{Name: "STCW Basic Safety"}},
		Languages:        []domcand.Language{{Name: "English", Proficiency: "fluent"}},
		VesselExperience: []domcand.VesselExperience{{Type: "motor", LengthMeters: 55, Months: 30}},
	}
	seed(t, repo, rec)

	got, err := repo.FindEligible(context.Background(), expr(t), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Jonas Berg", got[0].FullName())
	assert.Equal(t, rec.Skills, got[0].Skills)
	assert.Equal(t, rec.PositionsHeld, got[0].PositionsHeld)
	assert.Equal(t, rec.Certifications, got[0].Certifications)
	assert.Equal(t, rec.Languages, got[0].Languages)
	assert.Equal(t, rec.VesselExperience, got[0].VesselExperience)
	assert.Nil(t, got[0].YearsExperience)
	assert.True(t, got[0].HasENG1)
	assert.False(t, got[0].HasB1B2)
}

func TestUpsert_UpdatesExisting(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, domcand.Record{ID: "c1", PrimaryPosition: "Deckhand", Embedding: "[1]"})
	seed(t, repo, domcand.Record{ID: "c1", PrimaryPosition: "Lead Deckhand", Embedding: "[1]"})

	got, err := repo.FindEligible(context.Background(), expr(t), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Lead Deckhand", got[0].PrimaryPosition)
}

func TestUpsert_RequiresID(t *testing.T) {
	repo := newTestRepo(t)
	require.Error(t, repo.Upsert(context.Background(), &domcand.Record{}))
}

func TestSoftDelete_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.SoftDelete(context.Background(), "ghost")
	assert.True(t, errors.Is(err, db.ErrNotFound))
}

func TestPositionsMatching(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo,
		domcand.Record{ID: "1", PrimaryPosition: "Chief Stewardess"},
		domcand.Record{ID: "2", PrimaryPosition: "Chief Stewardess"},
		domcand.Record{ID: "3", PrimaryPosition: "Chief Officer"},
		domcand.Record{ID: "4", PrimaryPosition: "Second Stewardess"},
		domcand.Record{ID: "5", PrimaryPosition: "Deckhand"},
	)

	got, err := repo.PositionsMatching(context.Background(), []string{"chief"}, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Chief Stewardess", "Chief Officer"}, got)

	got, err = repo.PositionsMatching(context.Background(), []string{"stewardess", "deckhand"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Chief Stewardess", "Deckhand"}, got)
}

func TestPositionsMatching_WholeWordsOnly(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo,
		domcand.Record{ID: "1", PrimaryPosition: "Deckhand"},
		domcand.Record{ID: "2", PrimaryPosition: "Deck/Engineer"},
		domcand.Record{ID: "3", PrimaryPosition: "Chef"},
	)

	got, err := repo.PositionsMatching(context.Background(), []string{"hand"}, 5)
	require.NoError(t, err)
	assert.Empty(t, got, "a word inside a title is not a shared word")

	got, err = repo.PositionsMatching(context.Background(), []string{"deck"}, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Deck/Engineer"}, got)

	got, err = repo.PositionsMatching(context.Background(), []string{"chef", "engineer"}, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestPositionsMatching_EscapesWildcards(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, domcand.Record{ID: "1", PrimaryPosition: "Chef"})

	got, err := repo.PositionsMatching(context.Background(), []string{"%"}, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFrequentPositions(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo,
		domcand.Record{ID: "1", PrimaryPosition: "Engineer"},
		domcand.Record{ID: "2", PrimaryPosition: "Chef"},
		domcand.Record{ID: "3", PrimaryPosition: "Deckhand"},
		domcand.Record{ID: "4", PrimaryPosition: "Deckhand"},
		domcand.Record{ID: "5", PrimaryPosition: ""},
	)

	got, err := repo.FrequentPositions(context.Background(), 200, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Deckhand", "Chef", "Engineer"}, got)

	// only the three most recent rows are sampled
	got, err = repo.FrequentPositions(context.Background(), 3, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Deckhand", "Chef"}, got)
}
