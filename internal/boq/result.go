package boq

// DegradedReason records why a stage returned fallback data instead of live output.
// The zero value means the result is live.
type DegradedReason string

const (
	DegradedNone                DegradedReason = ""
	DegradedProviderUnavailable DegradedReason = "provider_unavailable"
	DegradedQuotaExceeded       DegradedReason = "quota_exceeded"
	DegradedUnsupportedFormat   DegradedReason = "unsupported_format"
	DegradedParseFailure        DegradedReason = "parse_failure"
	DegradedMissingFootprint    DegradedReason = "missing_footprint"
)

// Result carries a stage output together with the reason it was degraded, if any.
type Result[T any] struct {
	Value    T
	Degraded DegradedReason
}

func Live[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func Degraded[T any](v T, reason DegradedReason) Result[T] {
	return Result[T]{Value: v, Degraded: reason}
}

func (r Result[T]) IsDegraded() bool {
	return r.Degraded != DegradedNone
}

// Outcome is the metrics/log label for a result.
func (r Result[T]) Outcome() string {
	if r.Degraded == DegradedNone {
		return "live"
	}
	return string(r.Degraded)
}
