package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/domain"
)

// esBulkResponse is the structure used to decode Elasticsearch bulk responses.
type esBulkResponse struct {
	Errors bool `json:"errors"`
	Items  []struct {
		Index struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
			Error  *struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"index"`
	} `json:"items"`
}

type bulkAction struct {
	Index bulkActionMeta `json:"index"`
}

type bulkActionMeta struct {
	Index string `json:"_index"`
	ID    string `json:"_id,omitempty"`
}

// BulkIndex sends all documents in a single _bulk request. A document whose
// source cannot be encoded is rejected locally with status 400 and left out of
// the request; every other outcome comes from the cluster's per-item status.
func (e *Engine) BulkIndex(ctx context.Context, docs []domain.IndexDocument) ([]domain.BulkOutcome, error) {
	outcomes := make([]domain.BulkOutcome, len(docs))
	if len(docs) == 0 {
		return outcomes, nil
	}

	var buf bytes.Buffer
	sent := make([]int, 0, len(docs))
	for i, doc := range docs {
		line, err := encodeBulkItem(e.index, doc)
		if err != nil {
			outcomes[i] = domain.NewBulkOutcome(i, doc.ID, http.StatusBadRequest, "document_parsing_exception: "+err.Error())
			continue
		}
		buf.Write(line)
		sent = append(sent, i)
	}
	if len(sent) == 0 {
		return outcomes, nil
	}

	res, err := e.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		e.client.Bulk.WithIndex(e.index),
		e.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return nil, &domain.IndexError{Op: "bulk", Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, &domain.IndexError{Op: "bulk", Err: decodeError(res.Status(), res.Body)}
	}

	var bulkResp esBulkResponse
	if err := json.NewDecoder(res.Body).Decode(&bulkResp); err != nil {
		return nil, &domain.IndexError{Op: "bulk", Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(bulkResp.Items) != len(sent) {
		return nil, &domain.IndexError{
			Op:  "bulk",
			Err: fmt.Errorf("response has %d items for %d documents", len(bulkResp.Items), len(sent)),
		}
	}

	for n, item := range bulkResp.Items {
		pos := sent[n]
		id := item.Index.ID
		if id == "" {
			id = docs[pos].ID
		}
		reason := ""
		if item.Index.Error != nil {
			reason = item.Index.Error.Type + ": " + item.Index.Error.Reason
		}
		outcomes[pos] = domain.NewBulkOutcome(pos, id, item.Index.Status, reason)
	}
	return outcomes, nil
}

// encodeBulkItem renders the action and source lines of one document.
func encodeBulkItem(index string, doc domain.IndexDocument) ([]byte, error) {
	var line bytes.Buffer
	enc := json.NewEncoder(&line)
	if err := enc.Encode(bulkAction{Index: bulkActionMeta{Index: index, ID: doc.ID}}); err != nil {
		return nil, err
	}
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return line.Bytes(), nil
}
