package interpret

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lighthouse-careers/agentsearch/internal/domain"
	"github.com/lighthouse-careers/agentsearch/internal/domain/query"
	"github.com/lighthouse-careers/agentsearch/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterPipelineMetrics()
	os.Exit(m.Run())
}

type stubCompleter struct {
	content string
	tokens  int
	err     error
	block   bool
	last    domain.StructuredRequest
}

func (s *stubCompleter) CompleteStructured(ctx context.Context, req domain.StructuredRequest) (domain.Completion, error) {
	s.last = req
	if s.block {
		<-ctx.Done()
		return domain.Completion{}, ctx.Err()
	}
	if s.err != nil {
		return domain.Completion{}, s.err
	}
	return domain.Completion{Content: s.content, TotalTokens: s.tokens}, nil
}

func wire(t *testing.T, mutate func(*wireQuery)) string {
	t.Helper()
	w := wireQuery{
		RequiresSTCW:     triUnset,
		RequiresENG1:     triUnset,
		RequiresB1B2:     triUnset,
		RequiresSchengen: triUnset,
		MinExperience:    unsetExperience,
		MaxExperience:    unsetExperience,
		PositionSynonyms: []string{},
		VesselType:       triUnset,
		ContractType:     triUnset,
		SearchIntent:     string(query.General),
	}
	if mutate != nil {
		mutate(&w)
	}
	b, err := json.Marshal(w)
	require.NoError(t, err)
	return string(b)
}

func TestInterpret_ChiefStewardessScenario(t *testing.T) {
	stub := &stubCompleter{tokens: 321, content: wire(t, func(w *wireQuery) {
		w.Position = "Chief Stewardess"
		w.RequiresSTCW = triYes
		w.MinExperience = 5
		w.PositionSynonyms = []string{"Head of Interior", " chief stewardess ", "Chief Steward", "Head of Interior"}
		w.SearchIntent = string(query.RoleBased)
	})}
	svc := New(stub)

	ctx, usage := domain.NewContextWithUsage(context.Background())
	got, err := svc.Interpret(ctx, "Chief Stewardess with STCW and 5+ years")
	require.NoError(t, err)

	assert.Equal(t, "Chief Stewardess with STCW and 5+ years", got.OriginalQuery)
	require.NotNil(t, got.Position)
	assert.Equal(t, "Chief Stewardess", *got.Position)
	require.NotNil(t, got.HardFilters.RequiresSTCW)
	assert.True(t, *got.HardFilters.RequiresSTCW)
	require.NotNil(t, got.HardFilters.MinExperience)
	assert.Equal(t, 5, *got.HardFilters.MinExperience)
	assert.Nil(t, got.HardFilters.MaxExperience)
	assert.Nil(t, got.HardFilters.RequiresENG1)
	assert.Equal(t, []string{"Head of Interior", "Chief Steward"}, got.HardFilters.PositionSynonyms)
	assert.True(t, got.SoftPreferences.IsEmpty())
	assert.Equal(t, query.RoleBased, got.SearchIntent)
	assert.Equal(t, 321, usage.LLMTokens())

	assert.Equal(t, schemaName, stub.last.SchemaName)
	assert.Equal(t, "Chief Stewardess with STCW and 5+ years", stub.last.UserPrompt)
	assert.IsType(t, wireQuery{}, stub.last.Schema)
}

func TestInterpret_ExplicitFalseKeptDistinctFromUnset(t *testing.T) {
	stub := &stubCompleter{content: wire(t, func(w *wireQuery) {
		w.RequiresSchengen = triNo
	})}
	got, err := New(stub).Interpret(context.Background(), "deckhand, no schengen needed")
	require.NoError(t, err)
	require.NotNil(t, got.HardFilters.RequiresSchengen)
	assert.False(t, *got.HardFilters.RequiresSchengen)
	assert.Nil(t, got.HardFilters.RequiresSTCW)
}

func TestInterpret_SoftPreferences(t *testing.T) {
	stub := &stubCompleter{content: wire(t, func(w *wireQuery) {
		w.Region = " Mediterranean "
		w.VesselType = "sail"
		w.ContractType = "seasonal"
	})}
	got, err := New(stub).Interpret(context.Background(), "med season sailing stew")
	require.NoError(t, err)
	assert.Equal(t, "Mediterranean", *got.SoftPreferences.Region)
	assert.Equal(t, "sail", *got.SoftPreferences.VesselType)
	assert.Equal(t, "seasonal", *got.SoftPreferences.ContractType)
}

func TestInterpret_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "I think you want a chef"},
		{"unknown field", `{"position":"Chef","verdict":"strong_match"}`},
		{"bad intent", wire(t, func(w *wireQuery) { w.SearchIntent = "urgent" })},
		{"bad tri-state", wire(t, func(w *wireQuery) { w.RequiresENG1 = "maybe" })},
		{"negative experience", wire(t, func(w *wireQuery) { w.MinExperience = -3 })},
		{"inverted bounds", wire(t, func(w *wireQuery) { w.MinExperience = 8; w.MaxExperience = 3 })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(&stubCompleter{content: tt.content}).Interpret(context.Background(), "q")
			require.ErrorIs(t, err, domain.ErrInterpretationFailed)
			assert.ErrorIs(t, err, domain.ErrMalformedOutput)
		})
	}
}

func TestInterpret_EmptyIntentIsGeneral(t *testing.T) {
	stub := &stubCompleter{content: wire(t, func(w *wireQuery) { w.SearchIntent = "" })}
	got, err := New(stub).Interpret(context.Background(), "anyone")
	require.NoError(t, err)
	assert.Equal(t, query.General, got.SearchIntent)
}

func TestInterpretSafe_DegradesOnProviderError(t *testing.T) {
	before := testutil.ToFloat64(metrics.InterpretDegradedTotal.WithLabelValues("provider_error"))

	stub := &stubCompleter{err: errors.New("connection reset")}
	got := New(stub).InterpretSafe(context.Background(), "chef")

	assert.Equal(t, query.Degraded("chef"), got)
	assert.True(t, got.IsDegraded())
	assert.InDelta(t, before+1, testutil.ToFloat64(metrics.InterpretDegradedTotal.WithLabelValues("provider_error")), 0)

	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"originalQuery":"chef","hardFilters":{},"softPreferences":{},"searchIntent":"general"}`, string(b))
}

func TestInterpretSafe_DegradesOnTimeout(t *testing.T) {
	before := testutil.ToFloat64(metrics.InterpretDegradedTotal.WithLabelValues("timeout"))

	svc := New(&stubCompleter{block: true}).WithTimeout(20 * time.Millisecond)
	got := svc.InterpretSafe(context.Background(), "bosun")

	assert.Equal(t, query.General, got.SearchIntent)
	assert.True(t, got.HardFilters.IsEmpty())
	assert.InDelta(t, before+1, testutil.ToFloat64(metrics.InterpretDegradedTotal.WithLabelValues("timeout")), 0)
}

func TestInterpretSafe_DegradesOnMalformed(t *testing.T) {
	before := testutil.ToFloat64(metrics.InterpretDegradedTotal.WithLabelValues("malformed_output"))

	got := New(&stubCompleter{content: "{"}).InterpretSafe(context.Background(), "eto")

	assert.Equal(t, query.Degraded("eto"), got)
	assert.InDelta(t, before+1, testutil.ToFloat64(metrics.InterpretDegradedTotal.WithLabelValues("malformed_output")), 0)
}

func TestInterpret_Deterministic(t *testing.T) {
	stub := &stubCompleter{content: wire(t, func(w *wireQuery) {
		w.Position = "Bosun"
		w.RequiresENG1 = triYes
	})}
	svc := New(stub)

	a, err := svc.Interpret(context.Background(), "bosun with eng1")
	require.NoError(t, err)
	b, err := svc.Interpret(context.Background(), "bosun with eng1")
	require.NoError(t, err)

	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	assert.Equal(t, string(ja), string(jb))
}

func TestSystemPrompt_CoversVocabulary(t *testing.T) {
	for _, want := range []string{
		"Chief Stewardess", "head of interior", "requires_stcw", "requires_b1b2",
		"Mediterranean", "rotational", "catamaran", "availability-based", "-1",
	} {
		assert.Contains(t, systemPrompt, want)
	}
	assert.False(t, strings.Contains(systemPrompt, "%!"), "prompt contains a formatting error")
}
