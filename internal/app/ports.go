package app

import (
	"context"

	"boq-ai/internal/ai"
	"boq-ai/internal/boq"
	"boq-ai/internal/model"
)

// Completer is the Vision/LLM provider.
type Completer interface {
	Available() bool
	Complete(ctx context.Context, in ai.CompletionRequest) (string, error)
}

type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (*FetchedDocument, error)
}

type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
	// URL is the public address of key; Put returns the same value.
	URL(key string) string
}

type PlanStore interface {
	Create(ctx context.Context, plan *model.Plan) error
	List(ctx context.Context, userID string, limit int) ([]model.Plan, error)
	GetByID(ctx context.Context, id string) (*model.Plan, error)
	DeleteByID(ctx context.Context, id string) error
}

type BoqCache interface {
	GetBoq(ctx context.Context, planID string) (*model.BoqSnapshot, bool, error)
	SetBoq(ctx context.Context, entry model.BoqSnapshot) error
	DeleteBoq(ctx context.Context, planID string) error
}

type RunPublisher interface {
	PublishRun(ctx context.Context, run model.PipelineRun) error
}

type SpecificationStage interface {
	ExtractSpecification(ctx context.Context, documentURL, documentName string) (boq.Result[boq.SpecificationData], error)
}

type DrawingStage interface {
	ExtractDrawing(ctx context.Context, imageURL, imageName string) (boq.Result[boq.DrawingData], error)
}

type SynthesisStage interface {
	SynthesizeBoq(ctx context.Context, spec boq.SpecificationData, drawing boq.DrawingData, projectName string) (boq.Result[boq.Boq], error)
}
