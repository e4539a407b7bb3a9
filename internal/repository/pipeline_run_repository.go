package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"boq-ai/internal/model"
)

type PipelineRunRepository struct {
	db *gorm.DB
}

func NewPipelineRunRepository(db *gorm.DB) *PipelineRunRepository {
	return &PipelineRunRepository{db: db}
}

// Create ignores a second insert of the same run id so redelivered events are harmless.
func (r *PipelineRunRepository) Create(ctx context.Context, run *model.PipelineRun) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "run_id"}}, DoNothing: true}).
		Create(run).Error
	if err != nil {
		return fmt.Errorf("create pipeline run failed: %w", err)
	}
	return nil
}

func (r *PipelineRunRepository) ListByPlanID(ctx context.Context, planID string) ([]model.PipelineRun, error) {
	var runs []model.PipelineRun
	if err := r.db.WithContext(ctx).Where("plan_id = ?", planID).Order("created_at DESC").Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("list pipeline runs failed: %w", err)
	}
	return runs, nil
}
