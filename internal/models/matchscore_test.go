package models

import (
	"testing"

	"gorm.io/datatypes"
)

func TestMatchScoreValid(t *testing.T) {
	payload := datatypes.NewJSONType(ExplanationPayload{
		Version:       ExplanationVersion,
		PrimaryReason: "shared stack",
	})

	cases := []struct {
		name string
		rec  MatchScore
		want bool
	}{
		{"score and explanation", MatchScore{Score: 72.5, Explanation: payload}, true},
		{"zero score", MatchScore{Score: 0, Explanation: payload}, false},
		{"no explanation", MatchScore{Score: 72.5}, false},
		{"whitespace reason", MatchScore{
			Score:       72.5,
			Explanation: datatypes.NewJSONType(ExplanationPayload{PrimaryReason: "   "}),
		}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.rec.Valid(); got != tc.want {
				t.Errorf("Valid() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCandidateTextChannels(t *testing.T) {
	c := Candidate{
		Major:        "CS",
		Skills:       []string{"Go", "Redis"},
		Introduction: "  likes pair programming  ",
	}
	if got := c.TechText(); got != "Go, Redis" {
		t.Errorf("TechText() = %q", got)
	}
	if got := c.ProfileText(); got != "CS likes pair programming" {
		t.Errorf("ProfileText() = %q", got)
	}

	empty := Candidate{Specialty: "   "}
	if empty.TechText() != "" || empty.ProfileText() != "" {
		t.Errorf("blank profile produced text: tech=%q profile=%q", empty.TechText(), empty.ProfileText())
	}
}

func TestProjectTextChannels(t *testing.T) {
	p := Project{
		Title:       "Team finder",
		Description: "matches devs to projects",
		Goal:        "launch by fall",
		TechStack:   []string{"Go", "PostgreSQL", "pgvector"},
	}
	if got := p.TechText(); got != "Go, PostgreSQL, pgvector" {
		t.Errorf("TechText() = %q", got)
	}
	if got := p.ProfileText(); got != "Team finder matches devs to projects launch by fall" {
		t.Errorf("ProfileText() = %q", got)
	}
}
