package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/domain"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/database"
)

const extractAllQuery = `SELECT * FROM dpi_partnumberinfo`

// The join fans out over image and category mappings; the ORDER BY picks the
// same row on every call.
const productDetailQuery = `
		SELECT COALESCE(p."partNumber"::text, ''),
			COALESCE(im."fileName", ''),
			COALESCE(b."BrandName", ''),
			COALESCE(vp."PartTerminologyName", ''),
			COALESCE(c."categoryName", ''),
			COALESCE(s."SubCategoryName", '')
		FROM dpi_partnumberinfo p
		INNER JOIN vcdb_brands b ON p."BrandID" = b."BrandID"
		INNER JOIN vcdb_parts vp ON p."PartTerminologyID" = vp."PartTerminologyID"
		INNER JOIN "dpi_categoryMapping" cm ON p."PartTerminologyID" = cm."PartTerminologyID"
		INNER JOIN dpi_categories c ON cm."categoryID" = c."categoryID"
		INNER JOIN dpi_subcategories s ON cm."subcategoryID" = s."subcategoryID"
		INNER JOIN dpi_image_mapper im ON p.part_id = im.part_id
		WHERE p.part_id::text = $1
		ORDER BY im."fileName", c."categoryName", s."SubCategoryName"
		LIMIT 1`

// CatalogRepository implements repository.CatalogRepository using PostgreSQL.
type CatalogRepository struct {
	db     database.DBTX
	tracer *database.QueryTracer
}

// NewCatalogRepository creates a PostgreSQL-backed catalog repository.
// tracer may be nil.
func NewCatalogRepository(db database.DBTX, tracer *database.QueryTracer) *CatalogRepository {
	return &CatalogRepository{db: db, tracer: tracer}
}

// ExtractAll reads the whole catalog relation in one query. Every column is
// carried into the record's field map under its column name.
func (r *CatalogRepository) ExtractAll(ctx context.Context) (records []domain.CatalogRecord, err error) {
	ctx, end := r.tracer.Trace(ctx, "ExtractAll", extractAllQuery)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, extractAllQuery)
	if err != nil {
		return nil, storeError("extract", err)
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, storeError("extract", err)
	}

	records = make([]domain.CatalogRecord, 0, len(maps))
	for _, m := range maps {
		records = append(records, domain.NewCatalogRecord(m))
	}
	return records, nil
}

// GetProductDetail resolves the product view for partID.
func (r *CatalogRepository) GetProductDetail(ctx context.Context, partID string) (detail *domain.ProductDetail, err error) {
	ctx, end := r.tracer.Trace(ctx, "GetProductDetail", productDetailQuery)
	defer func() {
		if errors.Is(err, domain.ErrProductNotFound) {
			end(nil)
			return
		}
		end(err)
	}()

	var d domain.ProductDetail
	err = r.db.QueryRow(ctx, productDetailQuery, partID).Scan(
		&d.PartNumber,
		&d.FileName,
		&d.BrandName,
		&d.PartTerminologyName,
		&d.CategoryName,
		&d.SubCategoryName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, storeError("product detail", err)
	}
	return &d, nil
}

func storeError(op string, err error) error {
	kind := domain.StoreErrorQuery
	if database.IsConnectionError(err) {
		kind = domain.StoreErrorConnection
	}
	return &domain.StoreError{Op: op, Kind: kind, Err: err}
}
