package service

import (
	"context"
	"log/slog"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/domain"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/engine"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/validator"
)

// MaxFragmentLength bounds the suggestion fragment.
const MaxFragmentLength = 128

// SuggestService answers partial part-number lookups.
type SuggestService struct {
	index  engine.CatalogIndex
	logger *slog.Logger
}

// NewSuggestService creates a suggestion service.
func NewSuggestService(index engine.CatalogIndex, logger *slog.Logger) *SuggestService {
	return &SuggestService{index: index, logger: logger}
}

// Suggest returns the indexed parts whose partNumber contains fragment,
// ignoring case, in engine order. The fragment is matched as given, whitespace
// included; only an empty fragment is a missing parameter.
func (s *SuggestService) Suggest(ctx context.Context, fragment string) ([]domain.SuggestionEntry, error) {
	if fragment == "" {
		return nil, &domain.QueryError{Kind: domain.QueryErrorMissingParameter}
	}
	if err := validator.Field("q", fragment, "max="+strconv.Itoa(MaxFragmentLength)); err != nil {
		return nil, err
	}

	// A Caser keeps state and is not safe for concurrent use.
	folded := cases.Lower(language.Und).String(fragment)

	entries, err := s.index.SearchPartNumbers(ctx, folded)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.SuggestionEntry{}
	}
	return entries, nil
}
