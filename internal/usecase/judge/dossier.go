package judge

import (
	"fmt"
	"strings"

	"github.com/lighthouse-careers/agentsearch/internal/domain/candidate"
)

// Dossier is the normalized candidate view shown to the judge.
type Dossier struct {
	Name               string   `json:"name"`
	PrimaryPosition    string   `json:"primaryPosition,omitempty"`
	PositionCategory   string   `json:"positionCategory,omitempty"`
	YearsExperience    *int     `json:"yearsExperience,omitempty"`
	Nationality        string   `json:"nationality,omitempty"`
	AvailabilityStatus string   `json:"availabilityStatus,omitempty"`
	HighestLicense     string   `json:"highestLicense,omitempty"`
	PositionHistory    []string `json:"positionHistory"`
	Certifications     []string `json:"certifications"`
	Languages          []string `json:"languages"`
	VesselExperience   []string `json:"vesselExperience"`
	Skills             []string `json:"skills"`
}

// BuildDossier flattens a record into the judge's view. Certificate flags are
// listed only when the record has no extracted certifications, so the two
// sources never contradict each other.
func BuildDossier(r candidate.Record) Dossier {
	d := Dossier{
		Name:               r.FullName(),
		PrimaryPosition:    strings.TrimSpace(r.PrimaryPosition),
		PositionCategory:   r.PositionCategory,
		YearsExperience:    r.YearsExperience,
		Nationality:        r.Nationality,
		AvailabilityStatus: r.AvailabilityStatus,
		HighestLicense:     r.HighestLicense,
		PositionHistory:    []string{},
		Certifications:     dedupeCertifications(r.Certifications),
		Languages:          []string{},
		VesselExperience:   []string{},
		Skills:             nonBlank(r.Skills),
	}

	for _, p := range r.PositionsHeld {
		if line := positionLine(p); line != "" {
			d.PositionHistory = append(d.PositionHistory, line)
		}
	}
	for _, l := range r.Languages {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			continue
		}
		if p := strings.TrimSpace(l.Proficiency); p != "" {
			name = fmt.Sprintf("%s (%s)", name, p)
		}
		d.Languages = append(d.Languages, name)
	}
	for _, v := range r.VesselExperience {
		if line := vesselLine(v); line != "" {
			d.VesselExperience = append(d.VesselExperience, line)
		}
	}

	if len(d.Certifications) == 0 {
		d.Certifications = flagCertifications(r)
	}
	return d
}

func dedupeCertifications(certs []candidate.Certification) []string {
	seen := make(map[string]struct{}, len(certs))
	out := []string{}
	for _, c := range certs {
		name := strings.TrimSpace(c.Name)
		key := strings.ToLower(name)
		if name == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if exp := strings.TrimSpace(c.ExpiresAt); exp != "" {
			name = fmt.Sprintf("%s (expires %s)", name, exp)
		}
		out = append(out, name)
	}
	return out
}

func flagCertifications(r candidate.Record) []string {
	out := []string{}
	if r.HasSTCW {
		out = append(out, "STCW")
	}
	if r.HasENG1 {
		out = append(out, "ENG1")
	}
	if r.HasB1B2 {
		out = append(out, "B1/B2 visa")
	}
	if r.HasSchengen {
		out = append(out, "Schengen visa")
	}
	return out
}

func positionLine(p candidate.PositionHeld) string {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return ""
	}
	line := title
	if v := strings.TrimSpace(p.Vessel); v != "" {
		line += " on " + v
	}
	var details []string
	if vt := strings.TrimSpace(p.VesselType); vt != "" {
		details = append(details, vt)
	}
	if p.Months > 0 {
		details = append(details, fmt.Sprintf("%d months", p.Months))
	}
	if len(details) > 0 {
		line += " (" + strings.Join(details, ", ") + ")"
	}
	return line
}

func vesselLine(v candidate.VesselExperience) string {
	kind := strings.TrimSpace(v.Type)
	if kind == "" {
		return ""
	}
	var parts []string
	if v.LengthMeters > 0 {
		parts = append(parts, fmt.Sprintf("%dm", v.LengthMeters))
	}
	if v.Months > 0 {
		parts = append(parts, fmt.Sprintf("%d months", v.Months))
	}
	line := kind
	if len(parts) > 0 {
		line += " (" + strings.Join(parts, ", ") + ")"
	}
	if s := strings.TrimSpace(v.Summary); s != "" {
		line += ": " + s
	}
	return line
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
