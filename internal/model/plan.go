package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const PlanTypeBoQ = "BoQ"

// Plan is one generated estimate and the provenance of its two source files.
type Plan struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:64;index" json:"user_id,omitempty"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Type      string    `gorm:"size:16;not null" json:"type"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	FileURL   string    `gorm:"size:1024;not null" json:"file_url"`
	FilePath  string    `gorm:"size:512;not null" json:"file_path"`
	FileType  string    `gorm:"size:16;not null" json:"file_type"`
	SpecURL   string    `gorm:"size:1024;not null" json:"spec_url"`
	SpecPath  string    `gorm:"size:512;not null" json:"spec_path"`
	SpecType  string    `gorm:"size:16;not null" json:"spec_type"`
}

func (Plan) TableName() string {
	return "plans"
}

func (p *Plan) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Type == "" {
		p.Type = PlanTypeBoQ
	}
	return nil
}
