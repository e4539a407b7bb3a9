package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"boq-ai/internal/ai"
	"boq-ai/internal/boq"
	"boq-ai/internal/vision"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const drawingSystemPrompt = `You analyze architectural floor plans and building drawings.
Measure what the drawing shows and report it in metres. Respond with a single JSON object and nothing else.`

const drawingUserPrompt = `Extract the building measurements from this drawing as a JSON object:
"dimensions": {"buildingFootprint": {"width", "length", "unit"}, "floorHeight", "totalHeight"};
"elements": array of building elements, each with a "type" (foundation, externalWalls, internalWalls, floor, roof, windows, doors)
and its measurements (area, length, height, thickness, depth, count, averageSize {width, height}, unit);
"rooms": array of {"name", "area", "unit"}.`

type DrawingExtractorConfig struct {
	MaxImageEdge int
	MaxTokens    int
}

// DrawingExtractor turns a drawing image into DrawingData. PDFs and CAD files
// are never sent to the provider.
type DrawingExtractor struct {
	llm     Completer
	fetcher DocumentFetcher
	cfg     DrawingExtractorConfig
	logger  *zap.Logger
}

func NewDrawingExtractor(llm Completer, fetcher DocumentFetcher, cfg DrawingExtractorConfig, logger *zap.Logger) *DrawingExtractor {
	if cfg.MaxImageEdge <= 0 {
		cfg.MaxImageEdge = vision.DefaultMaxEdge
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DrawingExtractor{llm: llm, fetcher: fetcher, cfg: cfg, logger: logger}
}

func (e *DrawingExtractor) ExtractDrawing(ctx context.Context, imageURL, imageName string) (boq.Result[boq.DrawingData], error) {
	if strings.TrimSpace(imageURL) == "" {
		return boq.Result[boq.DrawingData]{}, ErrMissingFileURL
	}

	reqID := uuid.NewString()
	start := time.Now()
	log := e.logger.With(zap.String("req_id", reqID), zap.String("file_name", imageName))
	log.Info("drawing.extract.start")

	degrade := func(reason boq.DegradedReason, err error) (boq.Result[boq.DrawingData], error) {
		log.Warn("drawing.extract.degraded",
			zap.String("reason", string(reason)),
			zap.Error(err),
			zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
		)
		return boq.Degraded(boq.FallbackDrawing(), reason), nil
	}

	// A name with a known non-image extension decides before any network call.
	kind := boq.ClassifyFileKind(imageName)
	if kind != boq.FileKindImage && boq.NormalizeExt(imageName) != "" {
		return degrade(boq.DegradedUnsupportedFormat, errors.New("drawing is not an image: "+string(kind)))
	}

	if !e.llm.Available() {
		return degrade(boq.DegradedProviderUnavailable, ai.ErrMissingCredential)
	}

	doc, err := e.fetcher.Fetch(ctx, imageURL)
	if err != nil {
		return degrade(boq.DegradedProviderUnavailable, err)
	}
	if kindFromContentType(doc.ContentType) == boq.FileKindPDF {
		return degrade(boq.DegradedUnsupportedFormat, errors.New("drawing content type is application/pdf"))
	}

	img, err := vision.Prepare(doc.Data, e.cfg.MaxImageEdge)
	if err != nil {
		return degrade(boq.DegradedUnsupportedFormat, err)
	}

	out, err := e.llm.Complete(ctx, ai.CompletionRequest{
		System:       drawingSystemPrompt,
		Prompt:       drawingUserPrompt,
		ImageDataURL: img.DataURL(),
		JSON:         true,
		MaxTokens:    e.cfg.MaxTokens,
	})
	if err != nil {
		return degrade(degradeReason(err), err)
	}

	decoded, err := boq.DecodeLoose(out)
	if err != nil {
		return degrade(boq.DegradedParseFailure, err)
	}
	raw, ok := decoded.(map[string]any)
	if !ok {
		return degrade(boq.DegradedParseFailure, errors.New("drawing response is not a json object"))
	}

	data := boq.NormalizeDrawing(raw)
	log.Info("drawing.extract.done",
		zap.Int("elements", len(data.Elements)),
		zap.Int("rooms", len(data.Rooms)),
		zap.Int("image_width", img.Width),
		zap.Int("image_height", img.Height),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	return boq.Live(data), nil
}
