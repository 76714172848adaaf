package memory

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/domain"
)

// Engine is an in-memory implementation of engine.CatalogIndex for local runs
// and tests. Documents are kept in first-insertion order, which is also the
// suggestion order. Thread-safe via sync.RWMutex.
type Engine struct {
	mu    sync.RWMutex
	docs  map[string]map[string]any
	order []string
	limit int
}

// New creates an empty in-memory index. limit caps suggestion results; zero
// means no cap.
func New(limit int) *Engine {
	return &Engine{
		docs:  make(map[string]map[string]any),
		limit: limit,
	}
}

// BulkIndex upserts each document by ID, generating one when the document has
// none. A document without a string partNumber is rejected with 400, the way a
// strict mapping would reject it.
func (e *Engine) BulkIndex(_ context.Context, docs []domain.IndexDocument) ([]domain.BulkOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	outcomes := make([]domain.BulkOutcome, 0, len(docs))
	for i, doc := range docs {
		id := doc.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, ok := doc.PartNumber(); !ok {
			outcomes = append(outcomes, domain.NewBulkOutcome(i, id, http.StatusBadRequest,
				"mapper_parsing_exception: field [partNumber] must be a string"))
			continue
		}

		src := make(map[string]any, len(doc.Source))
		for k, v := range doc.Source {
			src[k] = v
		}

		status := http.StatusOK
		if _, exists := e.docs[id]; !exists {
			status = http.StatusCreated
			e.order = append(e.order, id)
		}
		e.docs[id] = src
		outcomes = append(outcomes, domain.NewBulkOutcome(i, id, status, ""))
	}
	return outcomes, nil
}

// SearchPartNumbers returns documents whose partNumber contains fragment,
// ignoring case.
func (e *Engine) SearchPartNumbers(_ context.Context, fragment string) ([]domain.SuggestionEntry, error) {
	fold := cases.Lower(language.Und)
	needle := fold.String(fragment)

	e.mu.RLock()
	defer e.mu.RUnlock()

	entries := make([]domain.SuggestionEntry, 0)
	for _, id := range e.order {
		src := e.docs[id]
		pn, _ := src[domain.FieldPartNumber].(string)
		if !strings.Contains(fold.String(pn), needle) {
			continue
		}
		entries = append(entries, domain.NewSuggestionEntry(src))
		if e.limit > 0 && len(entries) == e.limit {
			break
		}
	}
	return entries, nil
}

// Ping always succeeds.
func (e *Engine) Ping(context.Context) error { return nil }

// Len returns the number of stored documents.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.docs)
}
