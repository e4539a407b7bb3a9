package app

import (
	"context"
	"net/url"
	"path"
	"strings"

	"boq-ai/internal/boq"
	"boq-ai/internal/metrics"
	"boq-ai/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPlanListLimit = 100
	anonymousOwner       = "anonymous"
)

// UploadPrefix is the key prefix every upload by userID is stored under.
// The user ID is escaped so it always forms exactly one path segment.
func UploadPrefix(userID string) string {
	owner := anonymousOwner
	if userID != "" {
		owner = strings.ReplaceAll(url.PathEscape(userID), ".", "%2E")
	}
	return "uploads/" + owner + "/"
}

// ownsKey reports whether key is a clean path under the user's upload prefix.
func ownsKey(userID, key string) bool {
	return key == path.Clean(key) && strings.HasPrefix(key, UploadPrefix(userID))
}

type PlanService struct {
	plans          PlanStore
	blobs          BlobStore
	cache          BoqCache
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewPlanService builds the plan registry. cache may be nil.
func NewPlanService(plans PlanStore, blobs BlobStore, cache BoqCache, maxUploadBytes int64, logger *zap.Logger) *PlanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanService{
		plans:          plans,
		blobs:          blobs,
		cache:          cache,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

type UploadInput struct {
	UserID      string
	FileName    string
	ContentType string
	Data        []byte
}

// Upload stores one source file and returns it with its path and URL assigned.
func (s *PlanService) Upload(ctx context.Context, input UploadInput) (*boq.UploadedDocument, error) {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(input.FileName), "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return nil, ErrInvalidInput
	}
	if !boq.AcceptedUploadExtension(name) {
		return nil, ErrUnsupportedFile
	}
	if len(input.Data) == 0 {
		return nil, ErrEmptyFile
	}
	if s.maxUploadBytes > 0 && int64(len(input.Data)) > s.maxUploadBytes {
		return nil, ErrFileTooLarge
	}

	contentType := input.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := UploadPrefix(input.UserID) + uuid.NewString() + "/" + name
	location, err := s.blobs.Put(ctx, key, input.Data, contentType)
	if err != nil {
		return nil, err
	}

	s.logger.Info("plan.upload.stored",
		zap.String("user_id", input.UserID),
		zap.String("path", key),
		zap.Int("bytes", len(input.Data)),
	)
	return &boq.UploadedDocument{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(input.Data)),
		Path:        key,
		URL:         location,
		Kind:        boq.ClassifyFileKind(name),
	}, nil
}

// List returns the user's plans, newest first. An empty userID lists all plans.
func (s *PlanService) List(ctx context.Context, userID string) ([]model.Plan, error) {
	return s.plans.List(ctx, userID, defaultPlanListLimit)
}

func (s *PlanService) Get(ctx context.Context, userID, id string) (*model.Plan, error) {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	if userID != "" && plan.UserID != "" && plan.UserID != userID {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// GetBoq returns the estimate cached when the plan was generated.
func (s *PlanService) GetBoq(ctx context.Context, userID, id string) (*model.BoqSnapshot, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	if s.cache == nil {
		return nil, ErrBoqNotCached
	}
	snapshot, ok, err := s.cache.GetBoq(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		metrics.CacheMisses.WithLabelValues("boq").Inc()
		return nil, ErrBoqNotCached
	}
	metrics.CacheHits.WithLabelValues("boq").Inc()
	return snapshot, nil
}

// Delete removes both source blobs and then the row. Blob failures are logged
// and counted but do not stop the row delete.
func (s *PlanService) Delete(ctx context.Context, userID, id string) error {
	plan, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	log := s.logger.With(zap.String("plan_id", plan.ID))
	for _, key := range []string{plan.FilePath, plan.SpecPath} {
		if key == "" {
			continue
		}
		if !ownsKey(plan.UserID, key) {
			log.Warn("plan.delete.blob_foreign", zap.String("path", key))
			continue
		}
		if err := s.blobs.Remove(ctx, key); err != nil {
			metrics.BlobDeleteFailures.Inc()
			log.Warn("plan.delete.blob_failed", zap.String("path", key), zap.Error(err))
		}
	}

	if err := s.plans.DeleteByID(ctx, plan.ID); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.DeleteBoq(ctx, plan.ID); err != nil {
			log.Warn("plan.delete.cache_evict_failed", zap.Error(err))
		}
	}
	log.Info("plan.delete.done")
	return nil
}
