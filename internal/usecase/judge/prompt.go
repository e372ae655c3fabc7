package judge

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/lighthouse-careers/agentsearch/internal/domain"
	"github.com/lighthouse-careers/agentsearch/internal/domain/query"
	"github.com/lighthouse-careers/agentsearch/internal/domain/verdict"
)

const systemPrompt = `You are a senior yacht crew recruiter. You assess how well one candidate fits a search.

Score the fit from 0 to 100 as an integer:
- 80-100: meets every stated requirement and the role closely.
- 60-79: meets the requirements with minor gaps.
- 40-59: plausible but with notable gaps.
- 20-39: weak fit.
- 0-19: does not fit.

Hard filters in the requirements have already been checked against the candidate's flags.
Weigh role equivalence (adjacent or equivalent titles count), depth and recency of experience,
certificates, languages, vessel experience and soft preferences. Soft preferences never disqualify.
Use only facts present in the candidate dossier. Do not invent experience.

Respond with a single JSON object and nothing else:
{"fitScore": <integer 0-100>, "reasoning": {"strengths": [<2 to 4 short statements>], "concerns": [<0 to 3 short statements>], "summary": "<one sentence>"}}`

// userPrompt renders the parsed requirements and the dossier as indented JSON.
func userPrompt(parsed query.Parsed, d Dossier) (string, error) {
	req, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal requirements: %w", err)
	}
	cand, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal dossier: %w", err)
	}
	var b strings.Builder
	b.WriteString("REQUIREMENTS\n")
	b.Write(req)
	b.WriteString("\n\nCANDIDATE\n")
	b.Write(cand)
	return b.String(), nil
}

type assessmentWire struct {
	FitScore  *float64          `json:"fitScore"`
	Reasoning verdict.Reasoning `json:"reasoning"`
}

// parseAssessment validates the model's JSON. The model's own verdict, if any, is ignored.
func parseAssessment(content string) (verdict.Explanation, error) {
	var w assessmentWire
	if err := json.Unmarshal([]byte(content), &w); err != nil {
		return verdict.Explanation{}, fmt.Errorf("decode assessment: %v: %w", err, domain.ErrMalformedOutput)
	}
	if w.FitScore == nil {
		return verdict.Explanation{}, fmt.Errorf("fitScore missing: %w", domain.ErrMalformedOutput)
	}
	score := *w.FitScore
	if score != math.Trunc(score) || score < verdict.MinScore || score > verdict.MaxScore {
		return verdict.Explanation{}, fmt.Errorf("fitScore %v is not an integer in [%d, %d]: %w",
			score, verdict.MinScore, verdict.MaxScore, domain.ErrMalformedOutput)
	}
	e, err := verdict.New(int(score), w.Reasoning)
	if err != nil {
		return verdict.Explanation{}, fmt.Errorf("%v: %w", err, domain.ErrMalformedOutput)
	}
	return e, nil
}
