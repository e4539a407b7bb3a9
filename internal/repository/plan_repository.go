package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"boq-ai/internal/model"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(ctx context.Context, plan *model.Plan) error {
	if err := r.db.WithContext(ctx).Create(plan).Error; err != nil {
		return fmt.Errorf("create plan failed: %w", err)
	}
	return nil
}

// List returns plans newest first. An empty userID lists every plan.
func (r *PlanRepository) List(ctx context.Context, userID string, limit int) ([]model.Plan, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	q := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var plans []model.Plan
	if err := q.Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("list plans failed: %w", err)
	}
	return plans, nil
}

func (r *PlanRepository) GetByID(ctx context.Context, id string) (*model.Plan, error) {
	var plan model.Plan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query plan by id failed: %w", err)
	}
	return &plan, nil
}

func (r *PlanRepository) DeleteByID(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Plan{}).Error; err != nil {
		return fmt.Errorf("delete plan failed: %w", err)
	}
	return nil
}
