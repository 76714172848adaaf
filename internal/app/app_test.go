package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	rediscache "github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/cache/redis"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/config"
	esengine "github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/engine/elasticsearch"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/engine/memory"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/health"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/logger"
)

func TestSyncLimiter(t *testing.T) {
	assert.Nil(t, syncLimiter(&config.Config{SyncRateLimit: 0}))

	l := syncLimiter(&config.Config{SyncRateLimit: 2, SyncRateInterval: 10 * time.Second})
	require.NotNil(t, l)
	assert.Equal(t, 2, l.Burst())
	assert.Equal(t, rate.Every(5*time.Second), l.Limit())
}

func TestNewCatalogIndex(t *testing.T) {
	log := logger.New(config.ServiceName, "error")

	idx, err := newCatalogIndex(&config.Config{SearchEngine: config.EngineMemory}, prometheus.NewRegistry(), log)
	require.NoError(t, err)
	assert.IsType(t, &memory.Engine{}, idx)

	idx, err = newCatalogIndex(&config.Config{
		SearchEngine:        config.EngineElasticsearch,
		ElasticsearchURLs:   []string{"http://localhost:9200"},
		ElasticsearchIndex:  "parts",
		SuggestField:        "partNumber.keyword",
		BreakerMaxRequests:  1,
		BreakerFailureRatio: 0.5,
		BreakerMinRequests:  5,
	}, prometheus.NewRegistry(), log)
	require.NoError(t, err)
	assert.IsType(t, &esengine.Engine{}, idx)
}

func readiness(t *testing.T, h *health.Handler) (int, health.Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	var resp health.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestNewHealthHandler_RedisIsNonCritical(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	up := func(context.Context) error { return nil }
	h := newHealthHandler(up, up, rediscache.NewDetailCache(client, time.Minute), nil)

	code, resp := readiness(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, health.StatusUp, resp.Status)
	require.Contains(t, resp.Checks, "redis")
	assert.Equal(t, health.StatusUp, resp.Checks["redis"].Status)
	assert.False(t, resp.Checks["redis"].Critical)
	assert.NotContains(t, resp.Checks, "kafka")

	mr.Close()

	code, resp = readiness(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, health.StatusDegraded, resp.Status)
	assert.Equal(t, health.StatusDown, resp.Checks["redis"].Status)
	assert.Equal(t, health.StatusUp, resp.Checks["postgres"].Status)
}

func TestNewHealthHandler_WithoutRedis(t *testing.T) {
	up := func(context.Context) error { return nil }
	_, resp := readiness(t, newHealthHandler(up, up, nil, nil))
	assert.Len(t, resp.Checks, 2)
	assert.NotContains(t, resp.Checks, "redis")
}
