package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	agentsearch "github.com/lighthouse-careers/agentsearch/pkg/sdk"
)

// seedCandidate is the JSON shape of one profile in a seed file.
type seedCandidate struct {
	ID                 string                         `json:"id"`
	FirstName          string                         `json:"firstName"`
	LastName           string                         `json:"lastName"`
	PrimaryPosition    string                         `json:"primaryPosition"`
	PositionCategory   string                         `json:"positionCategory"`
	YearsExperience    *int                           `json:"yearsExperience"`
	Nationality        string                         `json:"nationality"`
	AvailabilityStatus string                         `json:"availabilityStatus"`
	HasSTCW            bool                           `json:"hasStcw"`
	HasENG1            bool                           `json:"hasEng1"`
	HasB1B2            bool                           `json:"hasB1B2"`
	HasSchengen        bool                           `json:"hasSchengen"`
	HighestLicense     string                         `json:"highestLicense"`
	Skills             []string                       `json:"skills"`
	PositionsHeld      []agentsearch.PositionHeld     `json:"positionsHeld"`
	Certifications     []agentsearch.Certification    `json:"certifications"`
	Languages          []agentsearch.Language         `json:"languages"`
	VesselExperience   []agentsearch.VesselExperience `json:"vesselExperience"`
}

func (s seedCandidate) toCandidate() *agentsearch.Candidate {
	return &agentsearch.Candidate{
		ID:                 s.ID,
		FirstName:          s.FirstName,
		LastName:           s.LastName,
		PrimaryPosition:    s.PrimaryPosition,
		PositionCategory:   s.PositionCategory,
		YearsExperience:    s.YearsExperience,
		Nationality:        s.Nationality,
		AvailabilityStatus: s.AvailabilityStatus,
		HasSTCW:            s.HasSTCW,
		HasENG1:            s.HasENG1,
		HasB1B2:            s.HasB1B2,
		HasSchengen:        s.HasSchengen,
		HighestLicense:     s.HighestLicense,
		Skills:             s.Skills,
		PositionsHeld:      s.PositionsHeld,
		Certifications:     s.Certifications,
		Languages:          s.Languages,
		VesselExperience:   s.VesselExperience,
	}
}

func readSeedFile(path string) ([]seedCandidate, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seeds []seedCandidate
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for i, s := range seeds {
		if s.ID == "" {
			return nil, fmt.Errorf("seed entry %d: id is required", i)
		}
	}
	return seeds, nil
}

func seedCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one seed file")
	}
	seeds, err := readSeedFile(c.Args().First())
	if err != nil {
		return err
	}
	return withClient(c, func(client *agentsearch.Client) error {
		for i, s := range seeds {
			if err := client.Upsert(c.Context, s.toCandidate()); err != nil {
				return fmt.Errorf("seed %s (%d/%d): %w", s.ID, i+1, len(seeds), err)
			}
		}
		fmt.Fprintf(c.App.Writer, "seeded %d candidates\n", len(seeds))
		return nil
	})
}
