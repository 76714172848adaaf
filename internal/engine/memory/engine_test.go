package memory

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/domain"
)

func doc(fields map[string]any) domain.IndexDocument {
	return domain.NewIndexDocument(domain.NewCatalogRecord(fields))
}

func seed(t *testing.T, e *Engine, docs ...domain.IndexDocument) []domain.BulkOutcome {
	t.Helper()
	outcomes, err := e.BulkIndex(context.Background(), docs)
	require.NoError(t, err)
	require.Len(t, outcomes, len(docs))
	return outcomes
}

func TestBulkIndex_CreateThenUpdate(t *testing.T) {
	e := New(0)

	first := seed(t, e, doc(map[string]any{"part_id": "P1", "partNumber": "ABC-123"}))
	assert.Equal(t, domain.BulkOutcome{Position: 0, DocumentID: "P1", Status: http.StatusCreated, Accepted: true}, first[0])

	second := seed(t, e, doc(map[string]any{"part_id": "P1", "partNumber": "ABC-124"}))
	assert.Equal(t, http.StatusOK, second[0].Status)
	assert.True(t, second[0].Accepted)
	assert.Equal(t, 1, e.Len())

	entries, err := e.SearchPartNumbers(context.Background(), "abc-124")
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestBulkIndex_GeneratesMissingIDs(t *testing.T) {
	e := New(0)

	outcomes := seed(t, e,
		doc(map[string]any{"partNumber": "A"}),
		doc(map[string]any{"partNumber": "B"}),
	)
	assert.NotEmpty(t, outcomes[0].DocumentID)
	assert.NotEqual(t, outcomes[0].DocumentID, outcomes[1].DocumentID)
	assert.Equal(t, 2, e.Len())
}

func TestBulkIndex_RejectsMissingPartNumber(t *testing.T) {
	e := New(0)

	outcomes := seed(t, e,
		doc(map[string]any{"part_id": "P1", "partNumber": "ABC-123"}),
		doc(map[string]any{"part_id": "P2"}),
		doc(map[string]any{"part_id": "P3", "partNumber": 42}),
	)

	assert.True(t, outcomes[0].Accepted)
	for _, o := range outcomes[1:] {
		assert.False(t, o.Accepted)
		assert.Equal(t, http.StatusBadRequest, o.Status)
		assert.Contains(t, o.Reason, "mapper_parsing_exception")
	}
	assert.Equal(t, 1, outcomes[1].Position)
	assert.Equal(t, "P2", outcomes[1].DocumentID)
	assert.Equal(t, 1, e.Len())
}

func TestBulkIndex_Empty(t *testing.T) {
	outcomes, err := New(0).BulkIndex(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, outcomes)
}

func TestSearchPartNumbers_ContainsIgnoringCase(t *testing.T) {
	e := New(0)
	seed(t, e,
		doc(map[string]any{"part_id": "P1", "partNumber": "ABC-123"}),
		doc(map[string]any{"part_id": "P2", "partNumber": "xbc-1"}),
		doc(map[string]any{"part_id": "P3", "partNumber": "ZZZ"}),
	)

	tests := []struct {
		fragment string
		want     []string
	}{
		{"bc-1", []string{"P1", "P2"}},
		{"BC-1", []string{"P1", "P2"}},
		{"abc", []string{"P1"}},
		{"123", []string{"P1"}},
		{"-", []string{"P1", "P2"}},
		{"nomatch", nil},
	}
	for _, tt := range tests {
		entries, err := e.SearchPartNumbers(context.Background(), tt.fragment)
		require.NoError(t, err)
		assert.NotNil(t, entries)

		var ids []string
		for _, en := range entries {
			ids = append(ids, en.PartID.(string))
		}
		assert.Equal(t, tt.want, ids, tt.fragment)
	}
}

func TestSearchPartNumbers_Projection(t *testing.T) {
	e := New(0)
	seed(t, e, doc(map[string]any{"part_id": "P1", "partNumber": "ABC-123", "BrandID": "BKDT"}))

	entries, err := e.SearchPartNumbers(context.Background(), "bc-1")
	require.NoError(t, err)
	assert.Equal(t, []domain.SuggestionEntry{{PartNumber: "ABC-123", PartID: "P1"}}, entries)
}

func TestSearchPartNumbers_Limit(t *testing.T) {
	e := New(2)
	seed(t, e,
		doc(map[string]any{"part_id": "P1", "partNumber": "A1"}),
		doc(map[string]any{"part_id": "P2", "partNumber": "A2"}),
		doc(map[string]any{"part_id": "P3", "partNumber": "A3"}),
	)

	entries, err := e.SearchPartNumbers(context.Background(), "a")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestBulkIndex_CopiesSource(t *testing.T) {
	e := New(0)
	d := doc(map[string]any{"part_id": "P1", "partNumber": "ABC"})
	seed(t, e, d)

	d.Source["partNumber"] = "CHANGED"

	entries, err := e.SearchPartNumbers(context.Background(), "abc")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ABC", entries[0].PartNumber)
}
