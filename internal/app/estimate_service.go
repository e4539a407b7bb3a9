package app

import (
	"context"
	"fmt"
	"time"

	"boq-ai/internal/boq"
	"boq-ai/internal/metrics"
	"boq-ai/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stage names used in logs, metrics and the degraded map.
const (
	StageSpecification = "specification"
	StageDrawing       = "drawing"
	StageBoq           = "boq"
)

type EstimateService struct {
	spec    SpecificationStage
	drawing DrawingStage
	synth   SynthesisStage
	plans   PlanStore
	blobs   BlobStore
	cache   BoqCache
	runs    RunPublisher
	logger  *zap.Logger
}

// NewEstimateService wires the pipeline. cache and runs may be nil.
func NewEstimateService(
	spec SpecificationStage,
	drawing DrawingStage,
	synth SynthesisStage,
	plans PlanStore,
	blobs BlobStore,
	cache BoqCache,
	runs RunPublisher,
	logger *zap.Logger,
) *EstimateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EstimateService{
		spec:    spec,
		drawing: drawing,
		synth:   synth,
		plans:   plans,
		blobs:   blobs,
		cache:   cache,
		runs:    runs,
		logger:  logger,
	}
}

type GenerateEstimateInput struct {
	UserID        string
	Drawing       *boq.UploadedDocument
	Specification *boq.UploadedDocument
}

// EstimateResult is returned whenever all three stages completed. Persisted is
// false when the plan row could not be written; the estimate is still valid.
type EstimateResult struct {
	RunID        string            `json:"run_id"`
	Plan         *model.Plan       `json:"plan,omitempty"`
	ProjectName  string            `json:"project_name"`
	Boq          boq.Boq           `json:"boq"`
	GrandTotal   string            `json:"grand_total"`
	Persisted    bool              `json:"persisted"`
	PersistError string            `json:"warning,omitempty"`
	Degraded     map[string]string `json:"degraded"`
}

func (s *EstimateService) GenerateEstimate(ctx context.Context, input GenerateEstimateInput) (*EstimateResult, error) {
	if !input.Drawing.Persisted() {
		metrics.PipelineRuns.WithLabelValues("invalid").Inc()
		return nil, ErrMissingDrawing
	}
	if !input.Specification.Persisted() {
		metrics.PipelineRuns.WithLabelValues("invalid").Inc()
		return nil, ErrMissingSpecification
	}
	for _, doc := range []*boq.UploadedDocument{input.Drawing, input.Specification} {
		if !s.owns(input.UserID, doc) {
			metrics.PipelineRuns.WithLabelValues("invalid").Inc()
			s.logger.Warn("estimate.generate.foreign_document",
				zap.String("user_id", input.UserID),
				zap.String("path", doc.Path),
			)
			return nil, ErrForeignDocument
		}
	}

	// Once started, a run completes even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	runID := uuid.NewString()
	start := time.Now()
	projectName := boq.ProjectName(input.Drawing.Name)
	log := s.logger.With(zap.String("run_id", runID), zap.String("project", projectName))
	log.Info("estimate.generate.start")

	fail := func(stage string, err error) (*EstimateResult, error) {
		metrics.PipelineRuns.WithLabelValues("failed").Inc()
		metrics.PipelineDuration.WithLabelValues("failed").Observe(time.Since(start).Seconds())
		log.Error("estimate.generate.failed", zap.String("stage", stage), zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %v", ErrStageFailed, stage, err)
	}

	degraded := make(map[string]string)
	record := func(stage, outcome string, reason boq.DegradedReason) {
		metrics.StageOutcomes.WithLabelValues(stage, outcome).Inc()
		if reason != boq.DegradedNone {
			degraded[stage] = string(reason)
		}
	}

	specResult, err := s.spec.ExtractSpecification(ctx, input.Specification.URL, input.Specification.Name)
	if err != nil {
		return fail(StageSpecification, err)
	}
	record(StageSpecification, specResult.Outcome(), specResult.Degraded)

	drawingResult, err := s.drawing.ExtractDrawing(ctx, input.Drawing.URL, input.Drawing.Name)
	if err != nil {
		return fail(StageDrawing, err)
	}
	record(StageDrawing, drawingResult.Outcome(), drawingResult.Degraded)

	boqResult, err := s.synth.SynthesizeBoq(ctx, specResult.Value, drawingResult.Value, projectName)
	if err != nil {
		return fail(StageBoq, err)
	}
	record(StageBoq, boqResult.Outcome(), boqResult.Degraded)

	result := &EstimateResult{
		RunID:       runID,
		ProjectName: projectName,
		Boq:         boqResult.Value,
		GrandTotal:  boq.GrandTotal(boqResult.Value),
		Degraded:    degraded,
	}

	plan := &model.Plan{
		UserID:   input.UserID,
		Name:     projectName,
		Type:     model.PlanTypeBoQ,
		FileURL:  input.Drawing.URL,
		FilePath: input.Drawing.Path,
		FileType: string(documentKind(input.Drawing)),
		SpecURL:  input.Specification.URL,
		SpecPath: input.Specification.Path,
		SpecType: string(documentKind(input.Specification)),
	}
	status := "ok"
	if err := s.plans.Create(ctx, plan); err != nil {
		status = "partial"
		result.PersistError = "estimate generated but the plan could not be saved: " + err.Error()
		log.Error("estimate.persist.failed", zap.Error(err))
	} else {
		result.Plan = plan
		result.Persisted = true
		s.afterPersist(ctx, log, result)
	}

	elapsed := time.Since(start)
	metrics.PipelineRuns.WithLabelValues(status).Inc()
	metrics.PipelineDuration.WithLabelValues(status).Observe(elapsed.Seconds())
	log.Info("estimate.generate.done",
		zap.String("status", status),
		zap.String("grand_total", result.GrandTotal),
		zap.Any("degraded", degraded),
		zap.Int64("elapsed_ms", elapsed.Milliseconds()),
	)

	s.publishRun(ctx, log, result, elapsed)
	return result, nil
}

func (s *EstimateService) afterPersist(ctx context.Context, log *zap.Logger, result *EstimateResult) {
	if s.cache == nil {
		return
	}
	err := s.cache.SetBoq(ctx, model.BoqSnapshot{
		PlanID:      result.Plan.ID,
		ProjectName: result.ProjectName,
		Boq:         result.Boq,
		GrandTotal:  result.GrandTotal,
		Degraded:    result.Degraded,
		CreatedAt:   result.Plan.CreatedAt,
	})
	if err != nil {
		log.Warn("estimate.cache.failed", zap.String("plan_id", result.Plan.ID), zap.Error(err))
	}
}

func (s *EstimateService) publishRun(ctx context.Context, log *zap.Logger, result *EstimateResult, elapsed time.Duration) {
	if s.runs == nil {
		return
	}
	run := model.PipelineRun{
		RunID:           result.RunID,
		ProjectName:     result.ProjectName,
		SpecDegraded:    result.Degraded[StageSpecification],
		DrawingDegraded: result.Degraded[StageDrawing],
		BoqDegraded:     result.Degraded[StageBoq],
		GrandTotal:      result.GrandTotal,
		Persisted:       result.Persisted,
		ElapsedMS:       elapsed.Milliseconds(),
		CreatedAt:       time.Now(),
	}
	if result.Plan != nil {
		run.PlanID = result.Plan.ID
	}
	if err := s.runs.PublishRun(ctx, run); err != nil {
		log.Warn("estimate.run.publish_failed", zap.Error(err))
	}
}

// owns reports whether doc was stored by userID's own upload: the path must sit
// under the user's prefix and the URL must be the one the store assigns to it.
func (s *EstimateService) owns(userID string, doc *boq.UploadedDocument) bool {
	return ownsKey(userID, doc.Path) && doc.URL == s.blobs.URL(doc.Path)
}

func documentKind(d *boq.UploadedDocument) boq.FileKind {
	if d.Kind != "" {
		return d.Kind
	}
	return boq.ClassifyFileKind(d.Name)
}
