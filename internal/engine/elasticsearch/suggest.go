package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/domain"
)

// esSuggestResponse is the structure used to decode suggestion hits.
type esSuggestResponse struct {
	Hits struct {
		Hits []struct {
			Source map[string]any `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

// SearchPartNumbers runs a case-insensitive "contains" wildcard query on the
// suggest field. Wildcard metacharacters in fragment match literally. A missing
// index yields no suggestions.
func (e *Engine) SearchPartNumbers(ctx context.Context, fragment string) ([]domain.SuggestionEntry, error) {
	query := map[string]any{
		"query": map[string]any{
			"wildcard": map[string]any{
				e.suggestField: map[string]any{
					"value":            "*" + wildcardEscaper.Replace(fragment) + "*",
					"case_insensitive": true,
				},
			},
		},
		"_source": []string{domain.FieldPartNumber, domain.FieldPartID},
	}
	if e.suggestSize > 0 {
		query["size"] = e.suggestSize
	}

	data, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch suggest: marshal query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(bytes.NewReader(data)),
		e.client.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, &domain.QueryError{Kind: domain.QueryErrorEngineUnavailable, Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	switch {
	case res.StatusCode == http.StatusNotFound:
		e.logger.WarnContext(ctx, "suggestion index missing", "index", e.index)
		return []domain.SuggestionEntry{}, nil
	case res.StatusCode >= http.StatusInternalServerError:
		return nil, &domain.QueryError{
			Kind: domain.QueryErrorEngineUnavailable,
			Err:  decodeError(res.Status(), res.Body),
		}
	case res.IsError():
		return nil, fmt.Errorf("elasticsearch suggest: %w", decodeError(res.Status(), res.Body))
	}

	dec := json.NewDecoder(res.Body)
	dec.UseNumber()
	var esResp esSuggestResponse
	if err := dec.Decode(&esResp); err != nil {
		return nil, fmt.Errorf("elasticsearch suggest: decode response: %w", err)
	}

	entries := make([]domain.SuggestionEntry, 0, len(esResp.Hits.Hits))
	for _, hit := range esResp.Hits.Hits {
		entries = append(entries, domain.NewSuggestionEntry(hit.Source))
	}
	return entries, nil
}
