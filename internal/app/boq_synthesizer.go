package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"boq-ai/internal/ai"
	"boq-ai/internal/boq"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BoqSections are the work sections requested from the provider, in order.
var BoqSections = []string{
	"Earthwork & Foundation",
	"Concrete Works",
	"Masonry Works",
	"Finishing Works",
	"Doors & Windows",
	"Plumbing Works",
	"Electrical Works",
}

const boqSystemPrompt = `You are a quantity surveyor preparing a Bill of Quantities for a residential building.
Use the measurements and specifications provided. Respond with a single JSON object and nothing else.`

type BoqSynthesizerConfig struct {
	MaxTokens int
}

type BoqSynthesizer struct {
	llm    Completer
	cfg    BoqSynthesizerConfig
	logger *zap.Logger
}

func NewBoqSynthesizer(llm Completer, cfg BoqSynthesizerConfig, logger *zap.Logger) *BoqSynthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoqSynthesizer{llm: llm, cfg: cfg, logger: logger}
}

func (s *BoqSynthesizer) SynthesizeBoq(ctx context.Context, spec boq.SpecificationData, drawing boq.DrawingData, projectName string) (boq.Result[boq.Boq], error) {
	reqID := uuid.NewString()
	start := time.Now()
	log := s.logger.With(zap.String("req_id", reqID), zap.String("project", projectName))
	log.Info("boq.synthesize.start")

	degrade := func(reason boq.DegradedReason, err error) (boq.Result[boq.Boq], error) {
		log.Warn("boq.synthesize.degraded",
			zap.String("reason", string(reason)),
			zap.Error(err),
			zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
		)
		return boq.Degraded(boq.FallbackBoq(), reason), nil
	}

	if !drawing.HasFootprint() {
		return degrade(boq.DegradedMissingFootprint, errors.New("building footprint dimensions are missing"))
	}
	if !s.llm.Available() {
		return degrade(boq.DegradedProviderUnavailable, ai.ErrMissingCredential)
	}

	out, err := s.llm.Complete(ctx, ai.CompletionRequest{
		System:    boqSystemPrompt,
		Prompt:    BuildBoqPrompt(spec, drawing, projectName),
		JSON:      true,
		MaxTokens: s.cfg.MaxTokens,
	})
	if err != nil {
		return degrade(degradeReason(err), err)
	}

	decoded, err := boq.DecodeLoose(out)
	if err != nil {
		return degrade(boq.DegradedParseFailure, err)
	}
	sections, err := boq.NormalizeBoq(decoded)
	if err != nil {
		return degrade(boq.DegradedParseFailure, err)
	}
	if err := boq.ValidateBoq(sections); err != nil {
		return degrade(boq.DegradedParseFailure, err)
	}

	log.Info("boq.synthesize.done",
		zap.Int("sections", len(sections)),
		zap.String("grand_total", boq.GrandTotal(sections)),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	return boq.Live(sections), nil
}

// BuildBoqPrompt renders the synthesis request for one project.
func BuildBoqPrompt(spec boq.SpecificationData, drawing boq.DrawingData, projectName string) string {
	var b strings.Builder
	dims := drawing.Dimensions
	fp := dims.BuildingFootprint
	unit := fp.Unit
	if unit == "" {
		unit = boq.DefaultUnit
	}

	fmt.Fprintf(&b, "Generate a detailed Bill of Quantities for the project %q.\n\n", projectName)
	b.WriteString("Building dimensions:\n")
	fmt.Fprintf(&b, "- Footprint: %s %s x %s %s\n", boq.FormatQuantity(fp.Width), unit, boq.FormatQuantity(fp.Length), unit)
	fmt.Fprintf(&b, "- Floor height: %s %s\n", boq.FormatQuantity(dims.FloorHeight), unit)
	fmt.Fprintf(&b, "- Total height: %s %s\n", boq.FormatQuantity(dims.TotalHeight), unit)

	b.WriteString("\nBuilding elements:\n")
	for _, e := range drawing.Elements {
		fmt.Fprintf(&b, "- %s: %s\n", e.Type, principalMeasure(e))
	}

	b.WriteString("\nMaterials:\n")
	for _, m := range spec.Materials {
		fmt.Fprintf(&b, "- %s (%s): %s\n", m.Name, m.Grade, m.Description)
	}

	b.WriteString("\nSpecifications:\n")
	keys := make([]string, 0, len(spec.Specifications))
	for k := range spec.Specifications {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %s\n", k, spec.Specifications[k])
	}

	b.WriteString("\nReturn a JSON object {\"boq\": [...]} with exactly these sections in order: ")
	b.WriteString(strings.Join(BoqSections, ", "))
	b.WriteString(".\nEach section is {\"section\": title, \"items\": [...]} and each item is ")
	b.WriteString(`{"ref", "description", "quantity", "unit", "rate", "rateRef", "total"}`)
	b.WriteString(" where total equals quantity x rate rounded to two decimals.\n")
	return b.String()
}

func principalMeasure(e boq.Element) string {
	unit := e.Unit
	if unit == "" {
		unit = boq.DefaultUnit
	}
	switch {
	case e.Area > 0:
		if unit == boq.DefaultUnit {
			unit = "m²"
		}
		return fmt.Sprintf("%s %s", boq.FormatQuantity(e.Area), unit)
	case e.Length > 0:
		return fmt.Sprintf("%s %s length", boq.FormatQuantity(e.Length), unit)
	case e.Count > 0:
		return fmt.Sprintf("%d nos", e.Count)
	case e.Depth > 0:
		return fmt.Sprintf("%s %s depth", boq.FormatQuantity(e.Depth), unit)
	case e.Height > 0:
		return fmt.Sprintf("%s %s height", boq.FormatQuantity(e.Height), unit)
	default:
		return "not measured"
	}
}
