package sqlite

import (
	"fmt"
	"strings"

	"github.com/lighthouse-careers/agentsearch/internal/domain/search/filter"
)

// Columns lists the candidate columns a filter may reference, with their kind.
var Columns = map[string]ColumnKind{
	"has_stcw":         ColumnFlag,
	"has_eng1":         ColumnFlag,
	"has_b1b2":         ColumnFlag,
	"has_schengen":     ColumnFlag,
	"years_experience": ColumnNumeric,
}

// ColumnKind is the filterable type of a column.
type ColumnKind int

// Column kinds.
const (
	ColumnFlag ColumnKind = iota + 1
	ColumnNumeric
)

// BuildWhere translates a filter expression into a SQL boolean expression with
// positional arguments. An empty expression yields "1 = 1".
// Numeric conditions never match NULL, so a candidate with unknown
// experience fails any experience bound.
func BuildWhere(expr filter.Expression) (string, []any, error) {
	if expr.IsEmpty() {
		return "1 = 1", nil, nil
	}

	var (
		parts []string
		args  []any
	)
	for _, cond := range expr.Must() {
		sql, condArgs, err := buildCondition(cond)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		args = append(args, condArgs...)
	}
	for _, cond := range expr.MustNot() {
		sql, condArgs, err := buildCondition(cond)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, "NOT ("+sql+")")
		args = append(args, condArgs...)
	}
	return strings.Join(parts, " AND "), args, nil
}

func buildCondition(cond filter.Condition) (string, []any, error) {
	kind, ok := Columns[cond.Key()]
	if !ok {
		return "", nil, fmt.Errorf("unknown filter column %q", cond.Key())
	}
	switch {
	case cond.IsFlag():
		if kind != ColumnFlag {
			return "", nil, fmt.Errorf("column %q is not a flag", cond.Key())
		}
		return buildFlagFilter(cond.Key(), cond.Flag())
	case cond.IsRange():
		if kind != ColumnNumeric {
			return "", nil, fmt.Errorf("column %q is not numeric", cond.Key())
		}
		return buildNumericFilter(cond.Key(), *cond.Range())
	default:
		return "", nil, fmt.Errorf("empty condition on %q", cond.Key())
	}
}

func buildFlagFilter(key string, value bool) (string, []any, error) {
	v := 0
	if value {
		v = 1
	}
	return key + " = ?", []any{v}, nil
}

func buildNumericFilter(key string, r filter.Range) (string, []any, error) {
	parts := []string{key + " IS NOT NULL"}
	var args []any

	if r.GT() != nil {
		parts = append(parts, key+" > ?")
		args = append(args, *r.GT())
	} else if r.GTE() != nil {
		parts = append(parts, key+" >= ?")
		args = append(args, *r.GTE())
	}

	if r.LT() != nil {
		parts = append(parts, key+" < ?")
		args = append(args, *r.LT())
	} else if r.LTE() != nil {
		parts = append(parts, key+" <= ?")
		args = append(args, *r.LTE())
	}

	return "(" + strings.Join(parts, " AND ") + ")", args, nil
}
