package app

import (
	"errors"

	"boq-ai/internal/ai"
	"boq-ai/internal/boq"
	"boq-ai/internal/pkg/pdfextract"
	"boq-ai/internal/vision"
)

// degradeReason maps a failed provider round-trip to the reason recorded on the
// fallback result.
func degradeReason(err error) boq.DegradedReason {
	switch {
	case errors.Is(err, ai.ErrQuotaExceeded):
		return boq.DegradedQuotaExceeded
	case errors.Is(err, vision.ErrUnsupportedImage), errors.Is(err, pdfextract.ErrNoTextLayer):
		return boq.DegradedUnsupportedFormat
	case errors.Is(err, ai.ErrEmptyResponse):
		return boq.DegradedParseFailure
	default:
		return boq.DegradedProviderUnavailable
	}
}
