package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"boq-ai/internal/ai"
	"boq-ai/internal/model"

	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	available bool
	responses []string
	err       error
	requests  []ai.CompletionRequest
}

func (f *fakeCompleter) Available() bool { return f.available }

func (f *fakeCompleter) Complete(_ context.Context, in ai.CompletionRequest) (string, error) {
	f.requests = append(f.requests, in)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", ai.ErrEmptyResponse
	}
	out := f.responses[0]
	f.responses = f.responses[1:]
	return out, nil
}

type fakeFetcher struct {
	docs  map[string]*FetchedDocument
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*FetchedDocument, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	doc, ok := f.docs[url]
	if !ok {
		return nil, ErrFetchDocument
	}
	return doc, nil
}

type fakePlanStore struct {
	mu        sync.Mutex
	plans     map[string]*model.Plan
	createErr error
	deleteErr error
	nextID    int
}

func newFakePlanStore() *fakePlanStore {
	return &fakePlanStore{plans: map[string]*model.Plan{}}
}

func (s *fakePlanStore) Create(_ context.Context, plan *model.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	if plan.ID == "" {
		plan.ID = fmt.Sprintf("plan-%d", s.nextID)
	}
	cp := *plan
	s.plans[plan.ID] = &cp
	return nil
}

func (s *fakePlanStore) List(_ context.Context, userID string, _ int) ([]model.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Plan
	for _, p := range s.plans {
		if userID == "" || p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakePlanStore) GetByID(_ context.Context, id string) (*model.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.plans[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *fakePlanStore) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.plans, id)
	return nil
}

func (s *fakePlanStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.plans)
}

type fakeBlobStore struct {
	objects   map[string][]byte
	removed   []string
	removeErr map[string]error
	putErr    error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: map[string][]byte{}, removeErr: map[string]error{}}
}

func (b *fakeBlobStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	if b.putErr != nil {
		return "", b.putErr
	}
	b.objects[key] = data
	return b.URL(key), nil
}

func (b *fakeBlobStore) URL(key string) string {
	return "http://blobs.local/blueprints/" + key
}

func (b *fakeBlobStore) Remove(_ context.Context, key string) error {
	b.removed = append(b.removed, key)
	if err := b.removeErr[key]; err != nil {
		return err
	}
	delete(b.objects, key)
	return nil
}

type fakeBoqCache struct {
	entries map[string]model.BoqSnapshot
	setErr  error
}

func newFakeBoqCache() *fakeBoqCache {
	return &fakeBoqCache{entries: map[string]model.BoqSnapshot{}}
}

func (c *fakeBoqCache) GetBoq(_ context.Context, planID string) (*model.BoqSnapshot, bool, error) {
	e, ok := c.entries[planID]
	if !ok {
		return nil, false, nil
	}
	return &e, true, nil
}

func (c *fakeBoqCache) SetBoq(_ context.Context, entry model.BoqSnapshot) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[entry.PlanID] = entry
	return nil
}

func (c *fakeBoqCache) DeleteBoq(_ context.Context, planID string) error {
	delete(c.entries, planID)
	return nil
}

type fakeRunPublisher struct {
	runs []model.PipelineRun
	err  error
}

func (p *fakeRunPublisher) PublishRun(_ context.Context, run model.PipelineRun) error {
	if p.err != nil {
		return p.err
	}
	p.runs = append(p.runs, run)
	return nil
}

var errBoom = errors.New("boom")

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.Black)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
