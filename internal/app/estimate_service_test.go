package app

import (
	"context"
	"strings"
	"testing"

	"boq-ai/internal/boq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type estimateFixture struct {
	llm     *fakeCompleter
	fetcher *fakeFetcher
	plans   *fakePlanStore
	blobs   *fakeBlobStore
	cache   *fakeBoqCache
	runs    *fakeRunPublisher
	uploads *PlanService
	svc     *EstimateService
}

func newEstimateFixture(t *testing.T, llm *fakeCompleter) *estimateFixture {
	t.Helper()
	f := &estimateFixture{
		llm:     llm,
		fetcher: &fakeFetcher{docs: map[string]*FetchedDocument{}},
		plans:   newFakePlanStore(),
		blobs:   newFakeBlobStore(),
		cache:   newFakeBoqCache(),
		runs:    &fakeRunPublisher{},
	}
	f.uploads = NewPlanService(f.plans, f.blobs, f.cache, 0, nil)
	f.svc = NewEstimateService(
		NewSpecExtractor(llm, f.fetcher, SpecExtractorConfig{}, nil),
		NewDrawingExtractor(llm, f.fetcher, DrawingExtractorConfig{}, nil),
		NewBoqSynthesizer(llm, BoqSynthesizerConfig{}, nil),
		f.plans, f.blobs, f.cache, f.runs, nil,
	)
	return f
}

// upload stores name for userID and makes it fetchable at its public URL.
func (f *estimateFixture) upload(t *testing.T, userID, name string) *boq.UploadedDocument {
	t.Helper()
	doc, err := f.uploads.Upload(context.Background(), UploadInput{
		UserID:      userID,
		FileName:    name,
		ContentType: "image/png",
		Data:        pngBytes(t, 32, 32),
	})
	require.NoError(t, err)
	f.fetcher.docs[doc.URL] = &FetchedDocument{Data: f.blobs.objects[doc.Path], ContentType: "image/png"}
	return doc
}

func TestGenerateEstimate_ProviderUnavailable(t *testing.T) {
	f := newEstimateFixture(t, &fakeCompleter{available: false})

	drawing := f.upload(t, "user-1", "plan.png")
	spec := f.upload(t, "user-1", "spec.pdf")

	res, err := f.svc.GenerateEstimate(context.Background(), GenerateEstimateInput{
		UserID:        "user-1",
		Drawing:       drawing,
		Specification: spec,
	})
	require.NoError(t, err)

	assert.True(t, res.Persisted)
	assert.Empty(t, res.PersistError)
	assert.Equal(t, "plan", res.ProjectName)
	assert.Len(t, res.Boq, 8)
	assert.Equal(t, "Earthwork and Foundation", res.Boq[0].Section)
	assert.Equal(t, "3,287,066.60", res.GrandTotal)
	assert.Equal(t, map[string]string{
		StageSpecification: string(boq.DegradedProviderUnavailable),
		StageDrawing:       string(boq.DegradedProviderUnavailable),
		StageBoq:           string(boq.DegradedProviderUnavailable),
	}, res.Degraded)

	require.Equal(t, 1, f.plans.count())
	plan := res.Plan
	require.NotNil(t, plan)
	stored, err := f.plans.GetByID(context.Background(), plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "plan", stored.Name)
	assert.Equal(t, "BoQ", stored.Type)
	assert.Equal(t, "image", stored.FileType)
	assert.Equal(t, "pdf", stored.SpecType)
	assert.Equal(t, drawing.URL, stored.FileURL)
	assert.Equal(t, spec.Path, stored.SpecPath)
	assert.Equal(t, "user-1", stored.UserID)

	cached, ok := f.cache.entries[plan.ID]
	require.True(t, ok)
	assert.Equal(t, "3,287,066.60", cached.GrandTotal)

	require.Len(t, f.runs.runs, 1)
	run := f.runs.runs[0]
	assert.Equal(t, res.RunID, run.RunID)
	assert.Equal(t, plan.ID, run.PlanID)
	assert.Equal(t, "provider_unavailable", run.BoqDegraded)
	assert.True(t, run.Persisted)

	assert.Empty(t, f.llm.requests)
	assert.Zero(t, f.fetcher.calls)
}

func TestGenerateEstimate_MissingFiles(t *testing.T) {
	f := newEstimateFixture(t, &fakeCompleter{available: true})

	_, err := f.svc.GenerateEstimate(context.Background(), GenerateEstimateInput{
		Drawing:       f.upload(t, "", "plan.png"),
		Specification: nil,
	})
	assert.ErrorIs(t, err, ErrMissingSpecification)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.GenerateEstimate(context.Background(), GenerateEstimateInput{
		Drawing:       &boq.UploadedDocument{Name: "plan.png"},
		Specification: f.upload(t, "", "spec.pdf"),
	})
	assert.ErrorIs(t, err, ErrMissingDrawing)

	assert.Zero(t, f.plans.count())
	assert.Zero(t, f.fetcher.calls)
	assert.Empty(t, f.llm.requests)
	assert.Empty(t, f.runs.runs)
}

func TestGenerateEstimate_PersistFailureIsPartialSuccess(t *testing.T) {
	f := newEstimateFixture(t, &fakeCompleter{available: false})
	f.plans.createErr = errBoom

	res, err := f.svc.GenerateEstimate(context.Background(), GenerateEstimateInput{
		Drawing:       f.upload(t, "", "plan.png"),
		Specification: f.upload(t, "", "spec.pdf"),
	})
	require.NoError(t, err)
	assert.False(t, res.Persisted)
	assert.Nil(t, res.Plan)
	assert.Contains(t, res.PersistError, "boom")
	assert.Equal(t, "3,287,066.60", res.GrandTotal)
	assert.Empty(t, f.cache.entries)

	require.Len(t, f.runs.runs, 1)
	assert.False(t, f.runs.runs[0].Persisted)
	assert.Empty(t, f.runs.runs[0].PlanID)
}

func TestGenerateEstimate_Live(t *testing.T) {
	llm := &fakeCompleter{available: true, responses: []string{
		specResponse,
		`{"dimensions":{"buildingFootprint":{"width":12,"length":10},"floorHeight":3,"totalHeight":6}}`,
		liveBoqResponse,
	}}
	f := newEstimateFixture(t, llm)

	res, err := f.svc.GenerateEstimate(context.Background(), GenerateEstimateInput{
		Drawing:       f.upload(t, "", "house.plan.png"),
		Specification: f.upload(t, "", "spec.png"),
	})
	require.NoError(t, err)
	assert.Empty(t, res.Degraded)
	assert.Equal(t, "house", res.ProjectName)
	assert.Equal(t, "263,250.00", res.GrandTotal)
	require.Len(t, llm.requests, 3)
	assert.Contains(t, llm.requests[2].Prompt, "12.00 m x 10.00 m")
	assert.Contains(t, llm.requests[2].Prompt, "Isolated RCC footings")
}

type failingSpecStage struct{}

func (failingSpecStage) ExtractSpecification(context.Context, string, string) (boq.Result[boq.SpecificationData], error) {
	return boq.Result[boq.SpecificationData]{}, errBoom
}

func TestGenerateEstimate_StageErrorAborts(t *testing.T) {
	f := newEstimateFixture(t, &fakeCompleter{available: false})
	svc := NewEstimateService(failingSpecStage{}, f.svc.drawing, f.svc.synth, f.plans, f.blobs, f.cache, f.runs, nil)

	res, err := svc.GenerateEstimate(context.Background(), GenerateEstimateInput{
		Drawing:       f.upload(t, "", "plan.png"),
		Specification: f.upload(t, "", "spec.pdf"),
	})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrStageFailed)
	assert.Zero(t, f.plans.count())
}

func TestGenerateEstimate_RejectsForeignDocuments(t *testing.T) {
	f := newEstimateFixture(t, &fakeCompleter{available: false})
	ctx := context.Background()

	aliceDrawing := f.upload(t, "alice", "plan.png")
	aliceSpec := f.upload(t, "alice", "spec.pdf")
	malloryDrawing := f.upload(t, "mallory", "plan.png")
	mallorySpec := f.upload(t, "mallory", "spec.pdf")

	forged := func(path, url string) *boq.UploadedDocument {
		return &boq.UploadedDocument{Name: "plan.png", Path: path, URL: url, Kind: boq.FileKindImage}
	}
	tests := []struct {
		name    string
		drawing *boq.UploadedDocument
		spec    *boq.UploadedDocument
	}{
		{"another user's drawing", aliceDrawing, mallorySpec},
		{"another user's specification", malloryDrawing, aliceSpec},
		{"path escapes own prefix", forged(UploadPrefix("mallory")+"../"+strings.TrimPrefix(aliceDrawing.Path, "uploads/"), aliceDrawing.URL), mallorySpec},
		{"url does not match path", forged(malloryDrawing.Path, aliceDrawing.URL), mallorySpec},
		{"anonymous prefix", forged(UploadPrefix("")+"x/plan.png", f.blobs.URL(UploadPrefix("")+"x/plan.png")), mallorySpec},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.svc.GenerateEstimate(ctx, GenerateEstimateInput{
				UserID:        "mallory",
				Drawing:       tt.drawing,
				Specification: tt.spec,
			})
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrForeignDocument)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	assert.Zero(t, f.plans.count())
	assert.Zero(t, f.fetcher.calls)
	assert.Empty(t, f.runs.runs)

	plans, err := f.uploads.List(ctx, "mallory")
	require.NoError(t, err)
	for _, p := range plans {
		require.NoError(t, f.uploads.Delete(ctx, "mallory", p.ID))
	}
	assert.Contains(t, f.blobs.objects, aliceDrawing.Path)
	assert.Contains(t, f.blobs.objects, aliceSpec.Path)
}
