package repository

import (
	"context"

	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/domain"
)

// CatalogRepository reads the relational product catalog.
type CatalogRepository interface {
	// ExtractAll returns every row of the catalog relation, unordered.
	ExtractAll(ctx context.Context) ([]domain.CatalogRecord, error)

	// GetProductDetail returns the denormalized view of one part, or
	// domain.ErrProductNotFound when the join yields no rows.
	GetProductDetail(ctx context.Context, partID string) (*domain.ProductDetail, error)
}
