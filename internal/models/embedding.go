package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// EmbeddingDim is the vector size of the embedding model family in use.
const EmbeddingDim = 768

// CandidateEmbedding holds the current channel vectors for one candidate.
// Exactly one row per owner; overwritten in place when profile text changes.
type CandidateEmbedding struct {
	CandidateID string     `gorm:"column:candidate_id;type:uuid;primaryKey" json:"candidate_id"`
	Candidate   *Candidate `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"-"`

	TechVector    pgvector.Vector `gorm:"column:tech_vector;type:vector(768)" json:"-"`
	ProfileVector pgvector.Vector `gorm:"column:profile_vector;type:vector(768)" json:"-"`

	Model     string    `gorm:"column:model;type:text" json:"model"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (CandidateEmbedding) TableName() string { return "candidate_embeddings" }

// ProjectEmbedding mirrors CandidateEmbedding for the project side.
type ProjectEmbedding struct {
	ProjectID string   `gorm:"column:project_id;type:uuid;primaryKey" json:"project_id"`
	Project   *Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`

	TechVector    pgvector.Vector `gorm:"column:tech_vector;type:vector(768)" json:"-"`
	ProfileVector pgvector.Vector `gorm:"column:profile_vector;type:vector(768)" json:"-"`

	Model     string    `gorm:"column:model;type:text" json:"model"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (ProjectEmbedding) TableName() string { return "project_embeddings" }
