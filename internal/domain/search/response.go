package search

import (
	"github.com/lighthouse-careers/agentsearch/internal/domain/candidate"
	"github.com/lighthouse-careers/agentsearch/internal/domain/query"
	"github.com/lighthouse-careers/agentsearch/internal/domain/verdict"
)

// NoResultsReason tells why a search came back empty.
type NoResultsReason string

// Reasons, in pipeline order.
const (
	NoCandidatesMatchFilters      NoResultsReason = "no_candidates_match_filters"
	NoCandidatesAboveSimilarity   NoResultsReason = "no_candidates_above_similarity_floor"
	NoCandidatesAboveFitThreshold NoResultsReason = "no_candidates_above_fit_threshold"
)

// MaxSuggestions caps the alternative positions offered on an empty result.
const MaxSuggestions = 5

// Stats counts survivors after each stage.
// AfterVectorSearch is the shortlist size, not the raw count above the similarity floor.
type Stats struct {
	AfterHardFilters  int `json:"afterHardFilters"`
	AfterVectorSearch int `json:"afterVectorSearch"`
	AfterAgenticJudge int `json:"afterAgenticJudge"`
}

// Result is one ranked candidate.
type Result struct {
	CandidateID        string              `json:"candidateId"`
	Name               string              `json:"name"`
	PrimaryPosition    string              `json:"primaryPosition"`
	PositionCategory   string              `json:"positionCategory,omitempty"`
	YearsExperience    *int                `json:"yearsExperience,omitempty"`
	Nationality        string              `json:"nationality,omitempty"`
	AvailabilityStatus string              `json:"availabilityStatus,omitempty"`
	HasSTCW            bool                `json:"hasStcw"`
	HasENG1            bool                `json:"hasEng1"`
	HasB1B2            bool                `json:"hasB1B2"`
	HasSchengen        bool                `json:"hasSchengen"`
	Explanation        verdict.Explanation `json:"explanation"`
	SimilarityScore    float64             `json:"similarityScore"`
	FinalScore         int                 `json:"finalScore"`
}

// NewResult builds a result row. FinalScore is the fit score.
func NewResult(c candidate.Retrieved, e verdict.Explanation) Result {
	return Result{
		CandidateID:        c.ID,
		Name:               c.FullName(),
		PrimaryPosition:    c.PrimaryPosition,
		PositionCategory:   c.PositionCategory,
		YearsExperience:    c.YearsExperience,
		Nationality:        c.Nationality,
		AvailabilityStatus: c.AvailabilityStatus,
		HasSTCW:            c.HasSTCW,
		HasENG1:            c.HasENG1,
		HasB1B2:            c.HasB1B2,
		HasSchengen:        c.HasSchengen,
		Explanation:        e,
		SimilarityScore:    c.Similarity,
		FinalScore:         e.FitScore,
	}
}

// Response is the outcome of a search. Results is never nil.
type Response struct {
	SearchID        string          `json:"searchId"`
	Results         []Result        `json:"results"`
	Total           int             `json:"total"`
	ElapsedMs       int64           `json:"elapsedMs"`
	ParsedQuery     query.Parsed    `json:"parsedQuery"`
	Stats           Stats           `json:"pipelineStats"`
	Suggestions     []string        `json:"suggestions,omitempty"`
	NoResultsReason NoResultsReason `json:"noResultsReason,omitempty"`
}
