package interpret

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/lighthouse-careers/agentsearch/internal/domain"
	"github.com/lighthouse-careers/agentsearch/internal/domain/query"
)

const (
	triYes   = "yes"
	triNo    = "no"
	triUnset = "unset"

	unsetExperience = -1

	// maxSynonyms bounds the synonym list carried into the dossier prompt.
	maxSynonyms = 10
)

// wireQuery is the schema the model must fill. Every field is required and
// scalar so the provider can enforce it strictly.
type wireQuery struct {
	Position         string   `json:"position" description:"Canonical position name, or empty string when no role is stated"`
	RequiresSTCW     string   `json:"requires_stcw" enum:"yes,no,unset" description:"STCW certificate requirement"`
	RequiresENG1     string   `json:"requires_eng1" enum:"yes,no,unset" description:"ENG1 medical requirement"`
	RequiresB1B2     string   `json:"requires_b1b2" enum:"yes,no,unset" description:"US B1/B2 visa requirement"`
	RequiresSchengen string   `json:"requires_schengen" enum:"yes,no,unset" description:"Schengen visa requirement"`
	MinExperience    int      `json:"min_experience" description:"Minimum years of experience, -1 when not stated"`
	MaxExperience    int      `json:"max_experience" description:"Maximum years of experience, -1 when not stated"`
	PositionSynonyms []string `json:"position_synonyms" description:"Equivalent canonical position names"`
	Region           string   `json:"region" description:"Canonical region name, or empty string"`
	VesselType       string   `json:"vessel_type" enum:"motor,sail,catamaran,unset" description:"Vessel type preference"`
	ContractType     string   `json:"contract_type" enum:"permanent,rotational,temporary,seasonal,unset" description:"Contract type preference"`
	SearchIntent     string   `json:"search_intent" enum:"role-based,skill-based,availability-based,general" description:"Primary intent of the query"`
}

func decodeWire(content string) (wireQuery, error) {
	var w wireQuery
	dec := json.NewDecoder(bytes.NewReader([]byte(content)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&w); err != nil {
		return wireQuery{}, fmt.Errorf("decode parsed query: %v: %w", err, domain.ErrMalformedOutput)
	}
	return w, nil
}

// toParsed validates and normalizes the wire object.
func (w wireQuery) toParsed(original string) (query.Parsed, error) {
	intent, err := query.ParseIntent(strings.TrimSpace(w.SearchIntent))
	if err != nil {
		return query.Parsed{}, fmt.Errorf("%v: %w", err, domain.ErrMalformedOutput)
	}

	hf := query.HardFilters{}
	fields := []struct {
		name string
		raw  string
		dst  **bool
	}{
		{"requires_stcw", w.RequiresSTCW, &hf.RequiresSTCW},
		{"requires_eng1", w.RequiresENG1, &hf.RequiresENG1},
		{"requires_b1b2", w.RequiresB1B2, &hf.RequiresB1B2},
		{"requires_schengen", w.RequiresSchengen, &hf.RequiresSchengen},
	}
	for _, f := range fields {
		v, err := triState(f.raw)
		if err != nil {
			return query.Parsed{}, fmt.Errorf("%s: %v: %w", f.name, err, domain.ErrMalformedOutput)
		}
		*f.dst = v
	}

	if hf.MinExperience, err = experience(w.MinExperience); err != nil {
		return query.Parsed{}, fmt.Errorf("min_experience: %v: %w", err, domain.ErrMalformedOutput)
	}
	if hf.MaxExperience, err = experience(w.MaxExperience); err != nil {
		return query.Parsed{}, fmt.Errorf("max_experience: %v: %w", err, domain.ErrMalformedOutput)
	}
	if hf.MinExperience != nil && hf.MaxExperience != nil && *hf.MinExperience > *hf.MaxExperience {
		return query.Parsed{}, fmt.Errorf("experience bounds inverted (%d > %d): %w",
			*hf.MinExperience, *hf.MaxExperience, domain.ErrMalformedOutput)
	}

	position := text(w.Position)
	hf.PositionSynonyms = synonyms(w.PositionSynonyms, position)

	return query.Parsed{
		OriginalQuery: original,
		Position:      position,
		HardFilters:   hf,
		SoftPreferences: query.SoftPreferences{
			Region:       text(w.Region),
			VesselType:   text(w.VesselType),
			ContractType: text(w.ContractType),
		},
		SearchIntent: intent,
	}, nil
}

func triState(raw string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case triYes:
		v := true
		return &v, nil
	case triNo:
		v := false
		return &v, nil
	case triUnset, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected value %q", raw)
	}
}

func experience(v int) (*int, error) {
	switch {
	case v == unsetExperience:
		return nil, nil
	case v < 0:
		return nil, fmt.Errorf("negative value %d", v)
	default:
		return &v, nil
	}
}

// text trims s; empty and "unset" become nil.
func text(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, triUnset) {
		return nil
	}
	return &s
}

// synonyms trims, drops blanks and duplicates (case-insensitive), and skips
// the canonical position itself.
func synonyms(raw []string, position *string) []string {
	seen := make(map[string]struct{}, len(raw)+1)
	if position != nil {
		seen[strings.ToLower(*position)] = struct{}{}
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return slices.Clip(out[:min(len(out), maxSynonyms)])
}
