package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/domain"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/repository"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/logger"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/validator"
)

// DetailCache is a read-through cache of resolved product views.
// Get returns (nil, nil) on a miss.
type DetailCache interface {
	Get(ctx context.Context, partID string) (*domain.ProductDetail, error)
	Set(ctx context.Context, partID string, detail *domain.ProductDetail) error
}

// DetailService resolves denormalized product views.
type DetailService struct {
	repo   repository.CatalogRepository
	cache  DetailCache
	group  singleflight.Group
	logger *slog.Logger
}

// NewDetailService creates a detail service. cache may be nil.
func NewDetailService(repo repository.CatalogRepository, cache DetailCache, logger *slog.Logger) *DetailService {
	return &DetailService{repo: repo, cache: cache, logger: logger}
}

// Resolve returns the product view for partID, or domain.ErrProductNotFound.
// Concurrent lookups of the same key share one store query, which a cancelled
// caller does not abort for the others. Cache failures are logged and
// otherwise ignored; not-found results are never cached.
func (s *DetailService) Resolve(ctx context.Context, partID string) (*domain.ProductDetail, error) {
	if err := validator.Field("productID", partID, "required,max=64"); err != nil {
		return nil, err
	}
	log := logger.WithContext(ctx, s.logger)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, partID)
		if err != nil {
			log.WarnContext(ctx, "product detail cache read failed",
				slog.String("part_id", partID),
				slog.String("error", err.Error()),
			)
		} else if cached != nil {
			return cached, nil
		}
	}

	// The shared query outlives any single caller; each caller still gives up
	// when its own context ends.
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(partID, func() (any, error) {
		detail, err := s.repo.GetProductDetail(shared, partID)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(shared, partID, detail); err != nil {
				log.WarnContext(shared, "product detail cache write failed",
					slog.String("part_id", partID),
					slog.String("error", err.Error()),
				)
			}
		}
		return detail, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	detail := *res.Val.(*domain.ProductDetail)
	return &detail, nil
}
