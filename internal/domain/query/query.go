// Package query holds the structured interpretation of a free-text hiring query.
package query

import "fmt"

// Intent classifies what the searcher is primarily after.
type Intent string

// Search intent constants.
const (
	RoleBased         Intent = "role-based"
	SkillBased        Intent = "skill-based"
	AvailabilityBased Intent = "availability-based"
	// General is the fallback whenever interpretation fails or is inconclusive.
	General Intent = "general"
)

// IsValid checks if the intent is one of the supported values.
func (i Intent) IsValid() bool {
	return i == RoleBased || i == SkillBased || i == AvailabilityBased || i == General
}

// ParseIntent normalizes a raw intent. Empty input maps to General.
func ParseIntent(raw string) (Intent, error) {
	if raw == "" {
		return General, nil
	}
	i := Intent(raw)
	if !i.IsValid() {
		return "", fmt.Errorf("unknown search intent %q", raw)
	}
	return i, nil
}

// HardFilters are excluding constraints. A nil field means "do not filter on this";
// false is an explicit value and is kept distinct from unset.
type HardFilters struct {
	RequiresSTCW     *bool    `json:"requiresStcw,omitempty"`
	RequiresENG1     *bool    `json:"requiresEng1,omitempty"`
	RequiresB1B2     *bool    `json:"requiresB1B2,omitempty"`
	RequiresSchengen *bool    `json:"requiresSchengen,omitempty"`
	MinExperience    *int     `json:"minExperience,omitempty"`
	MaxExperience    *int     `json:"maxExperience,omitempty"`
	PositionSynonyms []string `json:"positionSynonyms,omitempty"`
}

// IsEmpty reports whether no hard filter is set.
func (h HardFilters) IsEmpty() bool {
	return h.RequiresSTCW == nil && h.RequiresENG1 == nil &&
		h.RequiresB1B2 == nil && h.RequiresSchengen == nil &&
		h.MinExperience == nil && h.MaxExperience == nil &&
		len(h.PositionSynonyms) == 0
}

// SoftPreferences are advisory signals. They never exclude a candidate.
type SoftPreferences struct {
	Region       *string `json:"region,omitempty"`
	VesselType   *string `json:"vesselType,omitempty"`
	ContractType *string `json:"contractType,omitempty"`
}

// IsEmpty reports whether no preference is set.
func (s SoftPreferences) IsEmpty() bool {
	return s.Region == nil && s.VesselType == nil && s.ContractType == nil
}

// Parsed is the structured requirement object produced from a query.
type Parsed struct {
	OriginalQuery   string          `json:"originalQuery"`
	Position        *string         `json:"position,omitempty"`
	HardFilters     HardFilters     `json:"hardFilters"`
	SoftPreferences SoftPreferences `json:"softPreferences"`
	SearchIntent    Intent          `json:"searchIntent"`
}

// Degraded returns the fallback interpretation: no filters, no preferences, general intent.
func Degraded(original string) Parsed {
	return Parsed{
		OriginalQuery: original,
		SearchIntent:  General,
	}
}

// IsDegraded reports whether p carries no structure beyond the original text.
func (p Parsed) IsDegraded() bool {
	return p.Position == nil && p.HardFilters.IsEmpty() &&
		p.SoftPreferences.IsEmpty() && p.SearchIntent == General
}
