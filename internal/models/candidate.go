package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

type CandidateRole string

const (
	RoleCandidate CandidateRole = "candidate"
	RoleAdmin     CandidateRole = "admin"
)

// Candidate is the user-side entity being matched against projects.
type Candidate struct {
	ID           string        `gorm:"column:candidate_id;type:uuid;primaryKey" json:"candidate_id"`
	Email        string        `gorm:"column:email;type:text;uniqueIndex;not null" json:"email"`
	PasswordHash string        `gorm:"column:password_hash;type:text" json:"-"`
	Name         string        `gorm:"column:name;type:text" json:"name"`
	Role         CandidateRole `gorm:"column:role;type:text;default:candidate" json:"role"`

	Major           string         `gorm:"column:major;type:text" json:"major"`
	Specialty       string         `gorm:"column:specialty;type:text" json:"specialty"`
	Skills          pq.StringArray `gorm:"column:skills;type:text[]" json:"skills"`
	ExperienceLevel string         `gorm:"column:experience_level;type:text" json:"experience_level"`
	PreferredTopics string         `gorm:"column:preferred_topics;type:text" json:"preferred_topics"`
	CollabStyle     string         `gorm:"column:collab_style;type:text" json:"collab_style"`
	Introduction    string         `gorm:"column:introduction;type:text" json:"introduction"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Candidate) TableName() string { return "candidates" }

// TechText is the narrow skills-only channel used for technical similarity.
func (c *Candidate) TechText() string {
	return strings.TrimSpace(strings.Join(c.Skills, ", "))
}

// ProfileText is the broad channel: role, experience and free-text intro.
func (c *Candidate) ProfileText() string {
	parts := []string{c.Major, c.Specialty, c.ExperienceLevel, c.PreferredTopics, c.Introduction}
	out := parts[:0]
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, " ")
}

// Summary is the structured view handed to the explanation provider.
func (c *Candidate) Summary() map[string]any {
	return map[string]any{
		"major":            c.Major,
		"specialty":        c.Specialty,
		"skills":           []string(c.Skills),
		"experience_level": c.ExperienceLevel,
		"preferred_topics": c.PreferredTopics,
		"collab_style":     c.CollabStyle,
		"introduction":     c.Introduction,
	}
}
