package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"boq-ai/internal/ai"
	"boq-ai/internal/boq"
	"boq-ai/internal/pkg/pdfextract"
	"boq-ai/internal/vision"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const specSystemPrompt = `You are an OCR and classification engine for construction specification documents.
Read the document exactly as written and classify its content. Do not invent values that are not in the document.
Respond with a single JSON object and nothing else.`

const specUserPrompt = `Extract the construction specification into a JSON object with these keys:
"materials": array of {"name", "grade", "description"};
"standards": array of {"code", "description"} for referenced codes such as IS 456:2000;
"specifications": object mapping a work section (foundation, walls, flooring, roofing, plastering, painting, ...) to its specification text.`

type SpecExtractorConfig struct {
	MaxImageEdge int
	MaxTextChars int
	MaxTokens    int
}

// SpecExtractor turns a specification document into SpecificationData.
type SpecExtractor struct {
	llm     Completer
	fetcher DocumentFetcher
	cfg     SpecExtractorConfig
	logger  *zap.Logger
}

func NewSpecExtractor(llm Completer, fetcher DocumentFetcher, cfg SpecExtractorConfig, logger *zap.Logger) *SpecExtractor {
	if cfg.MaxImageEdge <= 0 {
		cfg.MaxImageEdge = vision.DefaultMaxEdge
	}
	if cfg.MaxTextChars <= 0 {
		cfg.MaxTextChars = 60000
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SpecExtractor{llm: llm, fetcher: fetcher, cfg: cfg, logger: logger}
}

func (e *SpecExtractor) ExtractSpecification(ctx context.Context, documentURL, documentName string) (boq.Result[boq.SpecificationData], error) {
	if strings.TrimSpace(documentURL) == "" {
		return boq.Result[boq.SpecificationData]{}, ErrMissingFileURL
	}

	reqID := uuid.NewString()
	start := time.Now()
	log := e.logger.With(zap.String("req_id", reqID), zap.String("file_name", documentName))
	log.Info("spec.extract.start")

	degrade := func(reason boq.DegradedReason, err error) (boq.Result[boq.SpecificationData], error) {
		log.Warn("spec.extract.degraded",
			zap.String("reason", string(reason)),
			zap.Error(err),
			zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
		)
		return boq.Degraded(boq.FallbackSpecification(), reason), nil
	}

	if !e.llm.Available() {
		return degrade(boq.DegradedProviderUnavailable, ai.ErrMissingCredential)
	}

	doc, err := e.fetcher.Fetch(ctx, documentURL)
	if err != nil {
		return degrade(boq.DegradedProviderUnavailable, err)
	}

	kind := boq.ClassifyFileKind(documentName)
	if kind == boq.FileKindOther {
		kind = kindFromContentType(doc.ContentType)
	}

	req := ai.CompletionRequest{
		System:    specSystemPrompt,
		JSON:      true,
		MaxTokens: e.cfg.MaxTokens,
	}
	switch kind {
	case boq.FileKindImage:
		img, err := vision.Prepare(doc.Data, e.cfg.MaxImageEdge)
		if err != nil {
			return degrade(boq.DegradedUnsupportedFormat, err)
		}
		req.Prompt = specUserPrompt
		req.ImageDataURL = img.DataURL()
	case boq.FileKindPDF:
		text, err := pdfextract.ExtractText(doc.Data, e.cfg.MaxTextChars)
		if err != nil {
			return degrade(boq.DegradedUnsupportedFormat, err)
		}
		req.Prompt = specUserPrompt + "\n\nDocument text:\n" + text
	default:
		return degrade(boq.DegradedUnsupportedFormat, errors.New("unsupported specification file kind: "+string(kind)))
	}

	out, err := e.llm.Complete(ctx, req)
	if err != nil {
		return degrade(degradeReason(err), err)
	}

	decoded, err := boq.DecodeLoose(out)
	if err != nil {
		return degrade(boq.DegradedParseFailure, err)
	}
	raw, ok := decoded.(map[string]any)
	if !ok {
		return degrade(boq.DegradedParseFailure, errors.New("specification response is not a json object"))
	}

	data := boq.NormalizeSpecification(raw, out)
	log.Info("spec.extract.done",
		zap.Int("materials", len(data.Materials)),
		zap.Int("standards", len(data.Standards)),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	return boq.Live(data), nil
}

func kindFromContentType(contentType string) boq.FileKind {
	switch {
	case contentType == "application/pdf":
		return boq.FileKindPDF
	case strings.HasPrefix(contentType, "image/"):
		return boq.FileKindImage
	default:
		return boq.FileKindOther
	}
}
