// Package verdict holds judge explanations and the score banding that labels them.
package verdict

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Verdict is a categorical label derived from a fit score.
type Verdict string

// Verdict bands, highest first.
const (
	StrongMatch  Verdict = "strong_match"
	GoodMatch    Verdict = "good_match"
	PartialMatch Verdict = "partial_match"
	WeakMatch    Verdict = "weak_match"
	NoMatch      Verdict = "no_match"
)

// Score bounds and reasoning limits.
const (
	MinScore     = 0
	MaxScore     = 100
	MinStrengths = 2
	MaxStrengths = 4
	MaxConcerns  = 3
)

// FromScore maps a fit score to its band. It is the only place bands are defined.
// Scores outside [0,100] are clamped.
func FromScore(score int) Verdict {
	switch {
	case score >= 80:
		return StrongMatch
	case score >= 60:
		return GoodMatch
	case score >= 40:
		return PartialMatch
	case score >= 20:
		return WeakMatch
	default:
		return NoMatch
	}
}

// Reasoning is the judge's structured justification.
type Reasoning struct {
	Strengths []string `json:"strengths"`
	Concerns  []string `json:"concerns"`
	Summary   string   `json:"summary"`
}

// Explanation is a validated judge result for one candidate.
// The verdict is never stored; it is derived from FitScore on read.
type Explanation struct {
	FitScore  int
	Reasoning Reasoning
}

// New validates judge output and builds an Explanation.
// Blank statements are dropped before counting. Two to four strengths and at
// most three concerns are required; anything else is rejected, never truncated.
func New(score int, r Reasoning) (Explanation, error) {
	if score < MinScore || score > MaxScore {
		return Explanation{}, fmt.Errorf("fit score %d out of range [%d, %d]", score, MinScore, MaxScore)
	}
	summary := strings.TrimSpace(r.Summary)
	if summary == "" {
		return Explanation{}, fmt.Errorf("summary is required")
	}
	strengths := clean(r.Strengths)
	if n := len(strengths); n < MinStrengths || n > MaxStrengths {
		return Explanation{}, fmt.Errorf("got %d strengths, want %d to %d", n, MinStrengths, MaxStrengths)
	}
	concerns := clean(r.Concerns)
	if n := len(concerns); n > MaxConcerns {
		return Explanation{}, fmt.Errorf("got %d concerns, want at most %d", n, MaxConcerns)
	}
	return Explanation{
		FitScore: score,
		Reasoning: Reasoning{
			Strengths: strengths,
			Concerns:  concerns,
			Summary:   summary,
		},
	}, nil
}

// Verdict returns the band containing the fit score.
func (e Explanation) Verdict() Verdict { return FromScore(e.FitScore) }

type explanationJSON struct {
	FitScore  int       `json:"fitScore"`
	Verdict   Verdict   `json:"verdict"`
	Reasoning Reasoning `json:"reasoning"`
}

// MarshalJSON emits the derived verdict alongside the score.
func (e Explanation) MarshalJSON() ([]byte, error) {
	r := e.Reasoning
	if r.Strengths == nil {
		r.Strengths = []string{}
	}
	if r.Concerns == nil {
		r.Concerns = []string{}
	}
	return json.Marshal(explanationJSON{
		FitScore:  e.FitScore,
		Verdict:   e.Verdict(),
		Reasoning: r,
	})
}

// UnmarshalJSON reads score and reasoning; any verdict in the input is ignored.
func (e *Explanation) UnmarshalJSON(data []byte) error {
	var raw explanationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.FitScore = raw.FitScore
	e.Reasoning = raw.Reasoning
	return nil
}

func clean(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
