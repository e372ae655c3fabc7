// Package candidate reads and writes crew profiles in the SQLite candidate store.
package candidate

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lighthouse-careers/agentsearch/internal/db"
	"github.com/lighthouse-careers/agentsearch/internal/db/sqlite"
	domcand "github.com/lighthouse-careers/agentsearch/internal/domain/candidate"
	"github.com/lighthouse-careers/agentsearch/internal/domain/search/filter"
)

// store is the consumer interface for candidate queries (ISP).
type store interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Repo implements the candidate store used by retrieval and suggestions.
type Repo struct {
	store store
	now   func() time.Time
}

// New creates a candidate repository.
func New(s store) *Repo {
	return &Repo{store: s, now: time.Now}
}

// eligible restricts every read to rows that can take part in a search.
const eligible = `embedding IS NOT NULL AND embedding <> '' AND deleted_at IS NULL`

// FindEligible returns up to limit eligible candidates satisfying expr,
// most recently updated first. The order is deterministic for a fixed store state.
func (r *Repo) FindEligible(ctx context.Context, expr filter.Expression, limit int) ([]domcand.Record, error) {
	if limit <= 0 {
		return nil, nil
	}
	where, args, err := sqlite.BuildWhere(expr)
	if err != nil {
		return nil, fmt.Errorf("build filter: %w", err)
	}

	query := `SELECT ` + selectColumns + `
		FROM candidates
		WHERE ` + eligible + ` AND (` + where + `)
		ORDER BY updated_at DESC, id
		LIMIT ?`
	args = append(args, limit)

	rows, err := r.store.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	defer rows.Close()

	var out []domcand.Record
	for rows.Next() {
		raw, err := scanRow(rows)
		if err != nil {
			return nil, &db.Error{Op: db.OpQuery, Err: err}
		}
		rec, err := raw.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	return out, nil
}

// Upsert inserts or replaces a candidate. CreatedAt of an existing row is kept.
func (r *Repo) Upsert(ctx context.Context, rec *domcand.Record) error {
	if rec.ID == "" {
		return fmt.Errorf("candidate id is required")
	}
	skills, err := encodeList(rec.Skills)
	if err != nil {
		return fmt.Errorf("encode skills: %w", err)
	}
	positions, err := encodeList(rec.PositionsHeld)
	if err != nil {
		return fmt.Errorf("encode positions: %w", err)
	}
	certs, err := encodeList(rec.Certifications)
	if err != nil {
		return fmt.Errorf("encode certifications: %w", err)
	}
	langs, err := encodeList(rec.Languages)
	if err != nil {
		return fmt.Errorf("encode languages: %w", err)
	}
	vessels, err := encodeList(rec.VesselExperience)
	if err != nil {
		return fmt.Errorf("encode vessel experience: %w", err)
	}
	created, updated := timestamps(rec, r.now())

	var deleted sql.NullString
	if rec.DeletedAt != nil {
		deleted = sql.NullString{String: sqlite.FormatTime(*rec.DeletedAt), Valid: true}
	}

	query := `
		INSERT INTO candidates (` + selectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			primary_position = excluded.primary_position,
			position_category = excluded.position_category,
			years_experience = excluded.years_experience,
			nationality = excluded.nationality,
			availability_status = excluded.availability_status,
			has_stcw = excluded.has_stcw,
			has_eng1 = excluded.has_eng1,
			has_b1b2 = excluded.has_b1b2,
			has_schengen = excluded.has_schengen,
			highest_license = excluded.highest_license,
			embedding = excluded.embedding,
			skills = excluded.skills,
			positions_held = excluded.positions_held,
			certifications = excluded.certifications,
			languages = excluded.languages,
			vessel_experience = excluded.vessel_experience,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at`

	_, err = r.store.ExecContext(ctx, query,
		rec.ID, rec.FirstName, rec.LastName, rec.PrimaryPosition, rec.PositionCategory,
		nullableYears(rec.YearsExperience), rec.Nationality, rec.AvailabilityStatus,
		rec.HasSTCW, rec.HasENG1, rec.HasB1B2, rec.HasSchengen, rec.HighestLicense,
		nullableEmbedding(rec.Embedding),
		skills, positions, certs, langs, vessels,
		created, updated, deleted,
	)
	if err != nil {
		return &db.Error{Op: db.OpUpsert, Err: fmt.Errorf("candidate %s: %w", rec.ID, err)}
	}
	return nil
}

// SoftDelete marks a candidate as deleted. Deleted candidates are never retrieved.
func (r *Repo) SoftDelete(ctx context.Context, id string) error {
	res, err := r.store.ExecContext(ctx,
		`UPDATE candidates SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		sqlite.FormatTime(r.now()), sqlite.FormatTime(r.now()), id)
	if err != nil {
		return &db.Error{Op: db.OpUpsert, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &db.Error{Op: db.OpUpsert, Err: err}
	}
	if n == 0 {
		return db.ErrNotFound
	}
	return nil
}

// PositionsMatching returns distinct primary positions sharing a whole word
// with any of the given words (case-insensitive), most common first.
// LIKE narrows the rows; the word match runs on the tokenised title.
func (r *Repo) PositionsMatching(ctx context.Context, words []string, limit int) ([]string, error) {
	if len(words) == 0 || limit <= 0 {
		return nil, nil
	}
	want := make(map[string]struct{}, len(words))
	conds := make([]string, 0, len(words))
	args := make([]any, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(w)
		want[w] = struct{}{}
		conds = append(conds, `LOWER(primary_position) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(w)+"%")
	}

	query := `SELECT primary_position
		FROM candidates
		WHERE deleted_at IS NULL AND primary_position <> '' AND (` + strings.Join(conds, " OR ") + `)
		GROUP BY primary_position
		ORDER BY COUNT(*) DESC, primary_position`
	positions, err := r.queryStrings(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, min(len(positions), limit))
	for _, p := range positions {
		if sharesWord(p, want) {
			out = append(out, p)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func sharesWord(position string, want map[string]struct{}) bool {
	for _, w := range domcand.Words(position) {
		if _, ok := want[w]; ok {
			return true
		}
	}
	return false
}

// FrequentPositions returns the most common primary positions among the
// sample most recently updated live candidates.
func (r *Repo) FrequentPositions(ctx context.Context, sample, limit int) ([]string, error) {
	if sample <= 0 || limit <= 0 {
		return nil, nil
	}
	query := `SELECT primary_position
		FROM (
			SELECT primary_position FROM candidates
			WHERE deleted_at IS NULL AND primary_position <> ''
			ORDER BY updated_at DESC, id
			LIMIT ?
		)
		GROUP BY primary_position
		ORDER BY COUNT(*) DESC, primary_position
		LIMIT ?`
	return r.queryStrings(ctx, query, sample, limit)
}

func (r *Repo) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.store.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, &db.Error{Op: db.OpQuery, Err: err}
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
