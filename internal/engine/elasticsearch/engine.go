package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
)

// DefaultIndexName is the index the catalog is synchronized into.
const DefaultIndexName = "parts"

// DefaultSuggestField is matched by suggestion queries. The keyword sub-field
// holds the unanalyzed part number, so a wildcard sees the whole value.
const DefaultSuggestField = "partNumber.keyword"

// Config configures the Elasticsearch engine.
type Config struct {
	Addresses []string
	Username  string
	Password  string

	Index        string
	SuggestField string
	// SuggestSize caps suggestion hits. Zero leaves the size to the engine.
	SuggestSize int

	// Transport overrides the HTTP transport, e.g. with a circuit breaker.
	Transport http.RoundTripper
}

// Engine is an Elasticsearch-backed implementation of engine.CatalogIndex.
type Engine struct {
	client       *elasticsearch.Client
	index        string
	suggestField string
	suggestSize  int
	logger       *slog.Logger
}

// esErrorResponse is used to decode Elasticsearch error responses.
type esErrorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}

// New creates an engine for the given cluster. It does not contact the
// cluster and does not create or map the index.
func New(cfg Config, logger *slog.Logger) (*Engine, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: create client: %w", err)
	}

	e := &Engine{
		client:       client,
		index:        cfg.Index,
		suggestField: cfg.SuggestField,
		suggestSize:  cfg.SuggestSize,
		logger:       logger,
	}
	if e.index == "" {
		e.index = DefaultIndexName
	}
	if e.suggestField == "" {
		e.suggestField = DefaultSuggestField
	}
	return e, nil
}

// Ping checks whether the Elasticsearch cluster is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	res, err := e.client.Ping(e.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: unexpected status %s", res.Status())
	}
	return nil
}

// decodeError turns a failed response body into an error, falling back to the
// HTTP status when the body is not an Elasticsearch error document.
func decodeError(status string, body io.Reader) error {
	var errResp esErrorResponse
	if err := json.NewDecoder(body).Decode(&errResp); err == nil && errResp.Error.Type != "" {
		return fmt.Errorf("%s: %s", errResp.Error.Type, errResp.Error.Reason)
	}
	return fmt.Errorf("unexpected status %s", status)
}
