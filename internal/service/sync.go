package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/domain"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/engine"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/repository"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/logger"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/tracing"
)

const tracerName = "github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/service"

// SyncEventPublisher announces completed runs.
type SyncEventPublisher interface {
	PublishSyncCompleted(ctx context.Context, report *domain.BulkReport) error
}

// SyncService copies the full catalog into the search index.
type SyncService struct {
	repo    repository.CatalogRepository
	index   engine.CatalogIndex
	events  SyncEventPublisher
	metrics *SyncMetrics
	logger  *slog.Logger
}

// NewSyncService creates a sync service. events and metrics may be nil.
func NewSyncService(
	repo repository.CatalogRepository,
	index engine.CatalogIndex,
	events SyncEventPublisher,
	metrics *SyncMetrics,
	logger *slog.Logger,
) *SyncService {
	return &SyncService{
		repo:    repo,
		index:   index,
		events:  events,
		metrics: metrics,
		logger:  logger,
	}
}

// Sync runs one full snapshot: extract every record, map each to a document
// and bulk load them. Store and index failures abort the run; rejected
// documents are only counted and logged.
func (s *SyncService) Sync(ctx context.Context) (*domain.BulkReport, error) {
	report := &domain.BulkReport{RunID: uuid.NewString(), StartedAt: time.Now().UTC()}

	ctx = logger.WithRunID(ctx, report.RunID)
	ctx, span := tracing.Tracer(tracerName).Start(ctx, "catalog.sync")
	defer span.End()
	log := logger.WithContext(ctx, s.logger)

	fail := func(stage string, err error) (*domain.BulkReport, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, stage)
		s.metrics.observeRun("failure", time.Since(report.StartedAt).Seconds())
		log.ErrorContext(ctx, "catalog sync failed",
			slog.String("stage", stage),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	records, err := s.repo.ExtractAll(ctx)
	if err != nil {
		return fail("extract", err)
	}
	log.InfoContext(ctx, "catalog extracted", slog.Int("records", len(records)))

	outcomes, err := s.index.BulkIndex(ctx, domain.NewIndexDocuments(records))
	if err != nil {
		return fail("load", err)
	}

	report.Outcomes = outcomes
	report.Total = len(outcomes)
	for _, o := range outcomes {
		if o.Accepted {
			report.Accepted++
			log.DebugContext(ctx, "document indexed",
				slog.Int("position", o.Position),
				slog.String("document_id", o.DocumentID),
				slog.Int("status", o.Status),
			)
			continue
		}
		report.Rejected++
		log.WarnContext(ctx, "document rejected",
			slog.Int("position", o.Position),
			slog.String("document_id", o.DocumentID),
			slog.Int("status", o.Status),
			slog.String("reason", o.Reason),
		)
	}
	report.FinishedAt = time.Now().UTC()

	span.SetAttributes(
		attribute.Int("catalog.sync.total", report.Total),
		attribute.Int("catalog.sync.rejected", report.Rejected),
	)
	s.metrics.addDocuments(report.Accepted, report.Rejected)
	s.metrics.observeRun("success", report.FinishedAt.Sub(report.StartedAt).Seconds())

	log.InfoContext(ctx, "catalog sync completed",
		slog.Int("total", report.Total),
		slog.Int("accepted", report.Accepted),
		slog.Int("rejected", report.Rejected),
		slog.Duration("duration", report.FinishedAt.Sub(report.StartedAt)),
	)

	if s.events != nil {
		if err := s.events.PublishSyncCompleted(ctx, report); err != nil {
			log.ErrorContext(ctx, "failed to publish sync completed event", slog.String("error", err.Error()))
		}
	}
	return report, nil
}
