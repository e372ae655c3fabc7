package retrieve

import (
	"fmt"

	"github.com/lighthouse-careers/agentsearch/internal/domain/query"
	"github.com/lighthouse-careers/agentsearch/internal/domain/search/filter"
)

// Store columns the hard filters map onto.
const (
	ColumnSTCW            = "has_stcw"
	ColumnENG1            = "has_eng1"
	ColumnB1B2            = "has_b1b2"
	ColumnSchengen        = "has_schengen"
	ColumnYearsExperience = "years_experience"
)

// BuildFilter turns hard filters into a store expression. A requirement set to
// true becomes a flag match; false and unset add nothing. Experience bounds
// become one inclusive range. Position synonyms and soft preferences are never
// translated: role matching is left to similarity and the judge.
func BuildFilter(h query.HardFilters) (filter.Expression, error) {
	var must []filter.Condition

	flags := []struct {
		col string
		v   *bool
	}{
		{ColumnSTCW, h.RequiresSTCW},
		{ColumnENG1, h.RequiresENG1},
		{ColumnB1B2, h.RequiresB1B2},
		{ColumnSchengen, h.RequiresSchengen},
	}
	for _, f := range flags {
		if f.v == nil || !*f.v {
			continue
		}
		c, err := filter.NewFlag(f.col, true)
		if err != nil {
			return filter.Expression{}, err
		}
		must = append(must, c)
	}

	if h.MinExperience != nil || h.MaxExperience != nil {
		var gte, lte *float64
		if h.MinExperience != nil {
			v := float64(*h.MinExperience)
			gte = &v
		}
		if h.MaxExperience != nil {
			v := float64(*h.MaxExperience)
			lte = &v
		}
		r, err := filter.NewRangeFilter(nil, gte, nil, lte)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("experience range: %w", err)
		}
		c, err := filter.NewRange(ColumnYearsExperience, r)
		if err != nil {
			return filter.Expression{}, err
		}
		must = append(must, c)
	}

	return filter.NewExpression(must, nil)
}
