package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// ExplanationVersion tags the persisted payload shape so a provider schema
// change is caught at the boundary instead of silently dropping fields.
const ExplanationVersion = 1

// ExplanationPayload is the structured rationale stored with a match score.
type ExplanationPayload struct {
	Version           int      `json:"version"`
	PrimaryReason     string   `json:"primary_reason"`
	AdditionalReasons []string `json:"additional_reasons,omitempty"`
	PositivePoints    []string `json:"positive_points,omitempty"`
	NegativePoints    []string `json:"negative_points,omitempty"`
}

func (p ExplanationPayload) Empty() bool {
	return strings.TrimSpace(p.PrimaryReason) == ""
}

// MatchScore is the persisted result of comparing one candidate to one
// project. Unique per pair; overwritten on recomputation, never appended.
type MatchScore struct {
	ID string `gorm:"column:match_id;type:uuid;primaryKey" json:"match_id"`

	CandidateID string     `gorm:"column:candidate_id;type:uuid;uniqueIndex:idx_match_pair;not null" json:"candidate_id"`
	Candidate   *Candidate `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"-"`
	ProjectID   string     `gorm:"column:project_id;type:uuid;uniqueIndex:idx_match_pair;not null" json:"project_id"`
	Project     *Project   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`

	Score            float64 `gorm:"column:score" json:"score"`
	TechScore        int     `gorm:"column:tech_score;default:0" json:"tech_score"`
	DispositionScore int     `gorm:"column:disposition_score;default:0" json:"disposition_score"`
	ExperienceScore  int     `gorm:"column:experience_score;default:0" json:"experience_score"`

	Explanation datatypes.JSONType[ExplanationPayload] `gorm:"column:explanation;type:jsonb" json:"explanation"`

	EvaluatedAt time.Time `gorm:"column:evaluated_at;type:timestamptz" json:"evaluated_at"`
}

func (MatchScore) TableName() string { return "match_scores" }

// Valid reports whether the record holds a computed result. Zero score or an
// empty explanation marks a placeholder that is recomputed on next access.
func (m *MatchScore) Valid() bool {
	return m.Score != 0 && !m.Explanation.Data().Empty()
}
