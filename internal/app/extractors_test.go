package app

import (
	"context"
	"fmt"
	"testing"

	"boq-ai/internal/ai"
	"boq-ai/internal/boq"
	"boq-ai/internal/pkg/pdfextract/pdftest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const specResponse = `Here is the data:
{"material_list":[{"name":"Concrete","grade":"M30","description":"RCC"}],
 "codes":["IS 456:2000"],
 "specs":{"foundation":"Isolated RCC footings on PCC bed"}}`

func TestSpecExtractor_LiveImage(t *testing.T) {
	llm := &fakeCompleter{available: true, responses: []string{specResponse}}
	fetcher := &fakeFetcher{docs: map[string]*FetchedDocument{
		"http://x/spec.png": {Data: pngBytes(t, 40, 20), ContentType: "image/png"},
	}}
	e := NewSpecExtractor(llm, fetcher, SpecExtractorConfig{}, nil)

	res, err := e.ExtractSpecification(context.Background(), "http://x/spec.png", "spec.png")
	require.NoError(t, err)
	assert.False(t, res.IsDegraded())
	assert.Equal(t, "live", res.Outcome())

	require.Len(t, res.Value.Materials, 1)
	assert.Equal(t, "M30", res.Value.Materials[0].Grade)
	require.Len(t, res.Value.Standards, 1)
	assert.Equal(t, "IS 456:2000", res.Value.Standards[0].Code)
	assert.Equal(t, "Isolated RCC footings on PCC bed", res.Value.Specifications["foundation"])
	for _, key := range boq.RequiredSpecSections {
		assert.NotEmpty(t, res.Value.Specifications[key], key)
	}

	require.Len(t, llm.requests, 1)
	assert.True(t, llm.requests[0].JSON)
	assert.Contains(t, llm.requests[0].ImageDataURL, "data:image/png;base64,")
}

func TestSpecExtractor_LivePDF(t *testing.T) {
	llm := &fakeCompleter{available: true, responses: []string{specResponse}}
	fetcher := &fakeFetcher{docs: map[string]*FetchedDocument{
		"http://x/spec": {
			Data: pdftest.Build(
				pdftest.TextPage("SPECIFICATIONS", "Concrete: M30 design mix"),
				pdftest.TextPage("Reinforcement: Fe 500D TMT bars"),
			),
			ContentType: "application/pdf",
		},
	}}
	e := NewSpecExtractor(llm, fetcher, SpecExtractorConfig{MaxTextChars: 4000}, nil)

	res, err := e.ExtractSpecification(context.Background(), "http://x/spec", "")
	require.NoError(t, err)
	assert.Equal(t, "live", res.Outcome())
	assert.Equal(t, "M30", res.Value.Materials[0].Grade)

	require.Len(t, llm.requests, 1)
	req := llm.requests[0]
	assert.Empty(t, req.ImageDataURL)
	assert.Contains(t, req.Prompt, "Document text:\nSPECIFICATIONS Concrete: M30 design mix\nReinforcement: Fe 500D TMT bars")
}

func TestSpecExtractor_Degrades(t *testing.T) {
	pngDoc := map[string]*FetchedDocument{
		"http://x/spec.png": {Data: []byte("not really a png"), ContentType: "image/png"},
		"http://x/spec.txt": {Data: []byte("plain"), ContentType: "text/plain"},
		"http://x/ok.png":   {Data: pngBytes(t, 8, 8), ContentType: "image/png"},
		"http://x/scan.pdf": {Data: pdftest.Build(pdftest.ImagePage), ContentType: "application/pdf"},
		"http://x/bad.pdf":  {Data: []byte("%PDF-1.4 truncated"), ContentType: "application/pdf"},
	}

	tests := []struct {
		name     string
		llm      *fakeCompleter
		fetcher  *fakeFetcher
		url      string
		fileName string
		want     boq.DegradedReason
	}{
		{
			name:     "no credential",
			llm:      &fakeCompleter{available: false},
			fetcher:  &fakeFetcher{docs: pngDoc},
			url:      "http://x/ok.png",
			fileName: "ok.png",
			want:     boq.DegradedProviderUnavailable,
		},
		{
			name:     "fetch failure",
			llm:      &fakeCompleter{available: true},
			fetcher:  &fakeFetcher{err: fmt.Errorf("%w: status 404", ErrFetchDocument)},
			url:      "http://x/missing.png",
			fileName: "missing.png",
			want:     boq.DegradedProviderUnavailable,
		},
		{
			name:     "undecodable image",
			llm:      &fakeCompleter{available: true},
			fetcher:  &fakeFetcher{docs: pngDoc},
			url:      "http://x/spec.png",
			fileName: "spec.png",
			want:     boq.DegradedUnsupportedFormat,
		},
		{
			name:     "pdf without text layer",
			llm:      &fakeCompleter{available: true},
			fetcher:  &fakeFetcher{docs: pngDoc},
			url:      "http://x/scan.pdf",
			fileName: "scan.pdf",
			want:     boq.DegradedUnsupportedFormat,
		},
		{
			name:     "unreadable pdf",
			llm:      &fakeCompleter{available: true},
			fetcher:  &fakeFetcher{docs: pngDoc},
			url:      "http://x/bad.pdf",
			fileName: "bad.pdf",
			want:     boq.DegradedUnsupportedFormat,
		},
		{
			name:     "unsupported kind",
			llm:      &fakeCompleter{available: true},
			fetcher:  &fakeFetcher{docs: pngDoc},
			url:      "http://x/spec.txt",
			fileName: "spec.txt",
			want:     boq.DegradedUnsupportedFormat,
		},
		{
			name:     "quota",
			llm:      &fakeCompleter{available: true, err: fmt.Errorf("%w: 429", ai.ErrQuotaExceeded)},
			fetcher:  &fakeFetcher{docs: pngDoc},
			url:      "http://x/ok.png",
			fileName: "ok.png",
			want:     boq.DegradedQuotaExceeded,
		},
		{
			name:     "provider error",
			llm:      &fakeCompleter{available: true, err: ai.ErrProviderUnavailable},
			fetcher:  &fakeFetcher{docs: pngDoc},
			url:      "http://x/ok.png",
			fileName: "ok.png",
			want:     boq.DegradedProviderUnavailable,
		},
		{
			name:     "malformed json",
			llm:      &fakeCompleter{available: true, responses: []string{"sorry, I cannot read this"}},
			fetcher:  &fakeFetcher{docs: pngDoc},
			url:      "http://x/ok.png",
			fileName: "ok.png",
			want:     boq.DegradedParseFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewSpecExtractor(tt.llm, tt.fetcher, SpecExtractorConfig{}, nil)
			res, err := e.ExtractSpecification(context.Background(), tt.url, tt.fileName)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Degraded)
			assert.Equal(t, boq.FallbackSpecification(), res.Value)
		})
	}
}

func TestSpecExtractor_RequiresURL(t *testing.T) {
	e := NewSpecExtractor(&fakeCompleter{available: true}, &fakeFetcher{}, SpecExtractorConfig{}, nil)
	_, err := e.ExtractSpecification(context.Background(), " ", "spec.pdf")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDrawingExtractor_LiveImage(t *testing.T) {
	llm := &fakeCompleter{available: true, responses: []string{
		`{"buildingDimensions":{"footprint":{"w":10,"l":20},"floorHeight":3},"elements":[{"type":"windows","count":6}]}`,
	}}
	fetcher := &fakeFetcher{docs: map[string]*FetchedDocument{
		"http://x/plan.png": {Data: pngBytes(t, 64, 32), ContentType: "image/png"},
	}}
	e := NewDrawingExtractor(llm, fetcher, DrawingExtractorConfig{MaxImageEdge: 16}, nil)

	res, err := e.ExtractDrawing(context.Background(), "http://x/plan.png", "plan.png")
	require.NoError(t, err)
	assert.False(t, res.IsDegraded())

	fp := res.Value.Dimensions.BuildingFootprint
	assert.Equal(t, 10.0, fp.Width)
	assert.Equal(t, 20.0, fp.Length)

	foundation, ok := res.Value.Element(boq.ElementFoundation)
	require.True(t, ok)
	assert.Equal(t, 200.0, foundation.Area)
	ext, ok := res.Value.Element(boq.ElementExternalWalls)
	require.True(t, ok)
	assert.Equal(t, 60.0, ext.Length)
	windows, ok := res.Value.Element(boq.ElementWindows)
	require.True(t, ok)
	assert.Equal(t, 6, windows.Count)
	assert.Len(t, res.Value.Rooms, len(boq.RoomShares))
}

func TestDrawingExtractor_PDFNeverCallsProvider(t *testing.T) {
	for _, available := range []bool{true, false} {
		llm := &fakeCompleter{available: available, responses: []string{`{}`}}
		fetcher := &fakeFetcher{}
		e := NewDrawingExtractor(llm, fetcher, DrawingExtractorConfig{}, nil)

		res, err := e.ExtractDrawing(context.Background(), "http://x/plan.pdf", "Plan.PDF")
		require.NoError(t, err)
		assert.Equal(t, boq.DegradedUnsupportedFormat, res.Degraded)
		assert.Equal(t, boq.FallbackDrawing(), res.Value)
		assert.Empty(t, llm.requests)
		assert.Zero(t, fetcher.calls)
	}
}

func TestDrawingExtractor_PDFContentType(t *testing.T) {
	llm := &fakeCompleter{available: true}
	fetcher := &fakeFetcher{docs: map[string]*FetchedDocument{
		"http://x/drawing": {Data: []byte("%PDF-1.4"), ContentType: "application/pdf"},
	}}
	e := NewDrawingExtractor(llm, fetcher, DrawingExtractorConfig{}, nil)

	res, err := e.ExtractDrawing(context.Background(), "http://x/drawing", "drawing")
	require.NoError(t, err)
	assert.Equal(t, boq.DegradedUnsupportedFormat, res.Degraded)
	assert.Empty(t, llm.requests)
}

func TestDrawingExtractor_FallbackIsStable(t *testing.T) {
	e := NewDrawingExtractor(&fakeCompleter{}, &fakeFetcher{}, DrawingExtractorConfig{}, nil)

	first, err := e.ExtractDrawing(context.Background(), "http://x/a.png", "a.png")
	require.NoError(t, err)
	second, err := e.ExtractDrawing(context.Background(), "http://x/a.png", "a.png")
	require.NoError(t, err)

	assert.Equal(t, boq.DegradedProviderUnavailable, first.Degraded)
	assert.Equal(t, first.Value, second.Value)
	fp := first.Value.Dimensions.BuildingFootprint
	assert.Equal(t, boq.Footprint{Width: 15.4, Length: 18.2, Unit: "m"}, fp)
}

func TestDrawingExtractor_BlueprintUnsupported(t *testing.T) {
	llm := &fakeCompleter{available: true}
	e := NewDrawingExtractor(llm, &fakeFetcher{}, DrawingExtractorConfig{}, nil)

	res, err := e.ExtractDrawing(context.Background(), "http://x/site.dwg", "site.dwg")
	require.NoError(t, err)
	assert.Equal(t, boq.DegradedUnsupportedFormat, res.Degraded)
	assert.Empty(t, llm.requests)
}
