package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// Project is the target-side entity candidates are matched to.
type Project struct {
	ID      string `gorm:"column:project_id;type:uuid;primaryKey" json:"project_id"`
	OwnerID string `gorm:"column:owner_id;type:uuid;index;not null" json:"owner_id"`

	Title       string         `gorm:"column:title;type:text;not null" json:"title"`
	Description string         `gorm:"column:description;type:text" json:"description"`
	Goal        string         `gorm:"column:goal;type:text" json:"goal"`
	TechStack   pq.StringArray `gorm:"column:tech_stack;type:text[]" json:"tech_stack"`
	IsOpen      bool           `gorm:"column:is_open;default:true" json:"is_open"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Project) TableName() string { return "projects" }

func (p *Project) TechText() string {
	return strings.TrimSpace(strings.Join(p.TechStack, ", "))
}

func (p *Project) ProfileText() string {
	parts := []string{p.Title, p.Description, p.Goal}
	out := parts[:0]
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, " ")
}

func (p *Project) Summary() map[string]any {
	return map[string]any{
		"title":       p.Title,
		"description": p.Description,
		"goal":        p.Goal,
		"tech_stack":  []string(p.TechStack),
	}
}
