package model

import (
	"time"

	"boq-ai/internal/boq"
)

// BoqSnapshot is the generated estimate kept in the cache for the plan view.
// Degraded maps stage name to degraded reason for stages that fell back.
type BoqSnapshot struct {
	PlanID      string            `json:"plan_id"`
	ProjectName string            `json:"project_name"`
	Boq         boq.Boq           `json:"boq"`
	GrandTotal  string            `json:"grand_total"`
	Degraded    map[string]string `json:"degraded,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}
