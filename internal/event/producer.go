package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/domain"
	pkgkafka "github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/kafka"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/logger"
)

// Event type published after every completed synchronization run.
const EventSyncCompleted = "catalog.sync.completed"

// Aggregate type constant.
const AggregateTypeCatalogSync = "catalog_sync"

// Source identifier for events originating from this service.
const SourceCatalogService = "catalog-search-service"

// SyncCompletedData is the payload for a catalog.sync.completed event.
type SyncCompletedData struct {
	RunID      string    `json:"run_id"`
	Index      string    `json:"index"`
	Total      int       `json:"total"`
	Accepted   int       `json:"accepted"`
	Rejected   int       `json:"rejected"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Publisher is the subset of the Kafka producer used here.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes catalog lifecycle events to Kafka.
type Producer struct {
	kafka  Publisher
	topic  string
	index  string
	logger *slog.Logger
}

// NewProducer creates a new event producer writing to topic.
func NewProducer(kafka Publisher, topic, index string, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, topic: topic, index: index, logger: logger}
}

// PublishSyncCompleted publishes the summary of a finished run.
func (p *Producer) PublishSyncCompleted(ctx context.Context, report *domain.BulkReport) error {
	data := SyncCompletedData{
		RunID:      report.RunID,
		Index:      p.index,
		Total:      report.Total,
		Accepted:   report.Accepted,
		Rejected:   report.Rejected,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
	}

	evt, err := pkgkafka.NewEvent(EventSyncCompleted, report.RunID, AggregateTypeCatalogSync, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create sync completed event: %w", err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}

	if err := p.kafka.Publish(ctx, p.topic, evt); err != nil {
		return fmt.Errorf("publish sync completed event: %w", err)
	}

	p.logger.InfoContext(ctx, "published sync completed event",
		slog.String("run_id", report.RunID),
		slog.String("event_id", evt.EventID),
	)
	return nil
}
