package candidate

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lighthouse-careers/agentsearch/internal/db/sqlite"
	domcand "github.com/lighthouse-careers/agentsearch/internal/domain/candidate"
)

const selectColumns = `id, first_name, last_name, primary_position, position_category,
	years_experience, nationality, availability_status,
	has_stcw, has_eng1, has_b1b2, has_schengen, highest_license, embedding,
	skills, positions_held, certifications, languages, vessel_experience,
	created_at, updated_at, deleted_at`

// row mirrors one candidates row before conversion.
type row struct {
	id, firstName, lastName             string
	primaryPosition, positionCategory   string
	yearsExperience                     sql.NullInt64
	nationality, availabilityStatus     string
	hasSTCW, hasENG1, hasB1B2, hasSchen bool
	highestLicense                      string
	embedding                           sql.NullString
	skills, positionsHeld               string
	certifications, languages, vessels  string
	createdAt, updatedAt                string
	deletedAt                           sql.NullString
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(s scanner) (row, error) {
	var r row
	err := s.Scan(
		&r.id, &r.firstName, &r.lastName, &r.primaryPosition, &r.positionCategory,
		&r.yearsExperience, &r.nationality, &r.availabilityStatus,
		&r.hasSTCW, &r.hasENG1, &r.hasB1B2, &r.hasSchen, &r.highestLicense, &r.embedding,
		&r.skills, &r.positionsHeld, &r.certifications, &r.languages, &r.vessels,
		&r.createdAt, &r.updatedAt, &r.deletedAt,
	)
	return r, err
}

// toDomain converts a row. Malformed enrichment columns are treated as absent.
func (r row) toDomain() (domcand.Record, error) {
	rec := domcand.Record{
		ID:                 r.id,
		FirstName:          r.firstName,
		LastName:           r.lastName,
		PrimaryPosition:    r.primaryPosition,
		PositionCategory:   r.positionCategory,
		Nationality:        r.nationality,
		AvailabilityStatus: r.availabilityStatus,
		HasSTCW:            r.hasSTCW,
		HasENG1:            r.hasENG1,
		HasB1B2:            r.hasB1B2,
		HasSchengen:        r.hasSchen,
		HighestLicense:     r.highestLicense,
		Embedding:          r.embedding.String,
		Skills:             decodeList[string](r.skills),
		PositionsHeld:      decodeList[domcand.PositionHeld](r.positionsHeld),
		Certifications:     decodeList[domcand.Certification](r.certifications),
		Languages:          decodeList[domcand.Language](r.languages),
		VesselExperience:   decodeList[domcand.VesselExperience](r.vessels),
	}
	if r.yearsExperience.Valid {
		y := int(r.yearsExperience.Int64)
		rec.YearsExperience = &y
	}

	var err error
	if rec.CreatedAt, err = sqlite.ParseTime(r.createdAt); err != nil {
		return domcand.Record{}, fmt.Errorf("candidate %s created_at: %w", r.id, err)
	}
	if rec.UpdatedAt, err = sqlite.ParseTime(r.updatedAt); err != nil {
		return domcand.Record{}, fmt.Errorf("candidate %s updated_at: %w", r.id, err)
	}
	if r.deletedAt.Valid {
		t, err := sqlite.ParseTime(r.deletedAt.String)
		if err != nil {
			return domcand.Record{}, fmt.Errorf("candidate %s deleted_at: %w", r.id, err)
		}
		rec.DeletedAt = &t
	}
	return rec, nil
}

func decodeList[T any](raw string) []T {
	if raw == "" {
		return nil
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func encodeList[T any](items []T) (string, error) {
	if len(items) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func nullableEmbedding(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullableYears(y *int) sql.NullInt64 {
	if y == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*y), Valid: true}
}

func timestamps(rec *domcand.Record, now time.Time) (created, updated string) {
	c := rec.CreatedAt
	if c.IsZero() {
		c = now
	}
	u := rec.UpdatedAt
	if u.IsZero() {
		u = now
	}
	return sqlite.FormatTime(c), sqlite.FormatTime(u)
}
