package event

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/domain"
	pkgkafka "github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/kafka"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/logger"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, event *pkgkafka.Event) error {
	return m.Called(ctx, topic, event).Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleReport() *domain.BulkReport {
	start := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	return &domain.BulkReport{
		RunID:      "run-1",
		Total:      3,
		Accepted:   2,
		Rejected:   1,
		StartedAt:  start,
		FinishedAt: start.Add(time.Second),
	}
}

func TestPublishSyncCompleted(t *testing.T) {
	pub := &mockPublisher{}
	var published *pkgkafka.Event
	pub.On("Publish", mock.Anything, "catalog.sync.completed", mock.AnythingOfType("*kafka.Event")).
		Run(func(args mock.Arguments) { published = args.Get(2).(*pkgkafka.Event) }).
		Return(nil)

	p := NewProducer(pub, "catalog.sync.completed", "parts", discardLogger())
	ctx := logger.WithCorrelationID(context.Background(), "corr-1")

	require.NoError(t, p.PublishSyncCompleted(ctx, sampleReport()))
	pub.AssertExpectations(t)

	require.NotNil(t, published)
	assert.Equal(t, EventSyncCompleted, published.EventType)
	assert.Equal(t, "run-1", published.AggregateID)
	assert.Equal(t, AggregateTypeCatalogSync, published.AggregateType)
	assert.Equal(t, "corr-1", published.CorrelationID)

	var data SyncCompletedData
	require.NoError(t, published.UnmarshalData(&data))
	assert.Equal(t, SyncCompletedData{
		RunID:      "run-1",
		Index:      "parts",
		Total:      3,
		Accepted:   2,
		Rejected:   1,
		StartedAt:  sampleReport().StartedAt,
		FinishedAt: sampleReport().FinishedAt,
	}, data)
}

func TestPublishSyncCompleted_Error(t *testing.T) {
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	p := NewProducer(pub, "topic", "parts", discardLogger())
	err := p.PublishSyncCompleted(context.Background(), sampleReport())
	assert.ErrorContains(t, err, "broker down")
}
