// Package candidate models crew profiles as read from the candidate store.
package candidate

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Position categories used by the crew vocabulary.
const (
	CategoryDeck        = "deck"
	CategoryInterior    = "interior"
	CategoryEngineering = "engineering"
	CategoryGalley      = "galley"
)

// PositionHeld is one entry of a candidate's work history.
type PositionHeld struct {
	Title      string `json:"title"`
	Vessel     string `json:"vessel,omitempty"`
	VesselType string `json:"vesselType,omitempty"`
	Months     int    `json:"months,omitempty"`
}

// Certification is an extracted certificate.
type Certification struct {
	Name      string `json:"name"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

// Language is a spoken language with a free-text proficiency level.
type Language struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency,omitempty"`
}

// VesselExperience summarizes time spent on one kind of vessel or venue.
type VesselExperience struct {
	Type         string `json:"type"`
	LengthMeters int    `json:"lengthMeters,omitempty"`
	Months       int    `json:"months,omitempty"`
	Summary      string `json:"summary,omitempty"`
}

// Record is a candidate profile row. Embedding holds the stored vector text as-is.
type Record struct {
	ID                 string
	FirstName          string
	LastName           string
	PrimaryPosition    string
	PositionCategory   string
	YearsExperience    *int
	Nationality        string
	AvailabilityStatus string
	HasSTCW            bool
	HasENG1            bool
	HasB1B2            bool
	HasSchengen        bool
	HighestLicense     string
	Embedding          string

	Skills           []string
	PositionsHeld    []PositionHeld
	Certifications   []Certification
	Languages        []Language
	VesselExperience []VesselExperience

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// FullName joins first and last name, skipping empty parts.
func (r Record) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
}

// IsEligible reports whether the record can take part in a search:
// it must carry an embedding and must not be soft-deleted.
func (r Record) IsEligible() bool {
	return strings.TrimSpace(r.Embedding) != "" && r.DeletedAt == nil
}

// Retrieved is a record with its cosine similarity to the query.
type Retrieved struct {
	Record
	Similarity float64
}

// ProfileText renders the record as the text that is embedded for similarity search.
// Only fields describing the person are included; flags and ids are not.
func (r Record) ProfileText() string {
	var b strings.Builder
	line := func(label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			b.WriteString(label)
			b.WriteString(": ")
			b.WriteString(value)
			b.WriteString("\n")
		}
	}

	position := r.PrimaryPosition
	if r.PositionCategory != "" {
		position += " (" + r.PositionCategory + ")"
	}
	line("Position", position)
	if r.YearsExperience != nil {
		line("Experience", strconv.Itoa(*r.YearsExperience)+" years")
	}
	line("License", r.HighestLicense)

	history := make([]string, 0, len(r.PositionsHeld))
	for _, p := range r.PositionsHeld {
		h := p.Title
		if p.VesselType != "" {
			h += " on " + p.VesselType
		}
		history = append(history, h)
	}
	line("Previous positions", strings.Join(history, "; "))
	line("Skills", strings.Join(r.Skills, ", "))

	certs := make([]string, 0, len(r.Certifications))
	for _, c := range r.Certifications {
		certs = append(certs, c.Name)
	}
	line("Certifications", strings.Join(certs, ", "))

	langs := make([]string, 0, len(r.Languages))
	for _, l := range r.Languages {
		langs = append(langs, l.Name)
	}
	line("Languages", strings.Join(langs, ", "))

	vessels := make([]string, 0, len(r.VesselExperience))
	for _, v := range r.VesselExperience {
		s := v.Type
		if v.LengthMeters > 0 {
			s += " " + strconv.Itoa(v.LengthMeters) + "m"
		}
		if v.Summary != "" {
			s += " (" + v.Summary + ")"
		}
		vessels = append(vessels, s)
	}
	line("Vessels", strings.Join(vessels, "; "))
	line("Availability", r.AvailabilityStatus)

	return strings.TrimRight(b.String(), "\n")
}

// Words splits text into lowercase words on any rune that is not a letter or
// digit, so "Deck/Engineer" and "Chief-Stewardess" yield two words each.
func Words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
