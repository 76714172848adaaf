package engine

import (
	"context"

	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/domain"
)

// CatalogIndex is the search index holding catalog documents.
// Implementations may use Elasticsearch, in-memory storage, or other backends.
type CatalogIndex interface {
	// BulkIndex writes docs in one batch and returns one outcome per input
	// document, in input order. Per-document rejections are reported in the
	// outcomes; an error means the batch as a whole failed and no outcomes
	// are returned.
	BulkIndex(ctx context.Context, docs []domain.IndexDocument) ([]domain.BulkOutcome, error)

	// SearchPartNumbers returns the documents whose partNumber contains
	// fragment, ignoring case. fragment is already case-folded.
	SearchPartNumbers(ctx context.Context, fragment string) ([]domain.SuggestionEntry, error)

	// Ping checks that the index is reachable.
	Ping(ctx context.Context) error
}
