package model

import "time"

// PipelineRun is the audit record of one estimate run, including the reason each
// stage degraded to fallback data (empty when the stage was live).
type PipelineRun struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	RunID           string    `gorm:"size:36;not null;uniqueIndex" json:"run_id"`
	PlanID          string    `gorm:"size:36;index" json:"plan_id"`
	ProjectName     string    `gorm:"size:255;not null" json:"project_name"`
	SpecDegraded    string    `gorm:"size:32" json:"spec_degraded"`
	DrawingDegraded string    `gorm:"size:32" json:"drawing_degraded"`
	BoqDegraded     string    `gorm:"size:32" json:"boq_degraded"`
	GrandTotal      string    `gorm:"size:32" json:"grand_total"`
	Persisted       bool      `json:"persisted"`
	ElapsedMS       int64     `json:"elapsed_ms"`
	CreatedAt       time.Time `json:"created_at"`
}

func (PipelineRun) TableName() string {
	return "pipeline_runs"
}
