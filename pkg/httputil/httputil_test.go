package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/errors"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/logger"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/validator"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestWriteJSON_SetsContentTypeAndStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, Response{Data: "hello"})

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "hello", decode(t, rec).Data)
}

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/product/P2", nil)
	req = req.WithContext(logger.WithCorrelationID(req.Context(), "corr-1"))

	WriteError(rec, req, fmt.Errorf("resolve: %w", apperrors.NotFound("product", "P2")), slog.Default())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decode(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.Equal(t, "corr-1", resp.Error.RequestID)
}

func TestWriteError_SentinelNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(rec, req, fmt.Errorf("x: %w", apperrors.ErrNotFound), slog.Default())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "resource not found", decode(t, rec).Error.Message)
}

func TestWriteError_UnknownIsGenericAndLogged(t *testing.T) {
	var buf bytes.Buffer
	fallback := slog.New(slog.NewJSONHandler(&buf, nil))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/index", nil)

	WriteError(rec, req, errors.New("pq: password authentication failed"), fallback)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "password")
	assert.Contains(t, buf.String(), "request failed")
}

func TestWriteError_PrefersRequestLogger(t *testing.T) {
	var reqBuf, fallbackBuf bytes.Buffer
	reqLogger := slog.New(slog.NewJSONHandler(&reqBuf, nil))
	fallback := slog.New(slog.NewJSONHandler(&fallbackBuf, nil))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(logger.NewContext(context.Background(), reqLogger))

	WriteError(rec, req, errors.New("boom"), fallback)

	assert.NotZero(t, reqBuf.Len())
	assert.Zero(t, fallbackBuf.Len())
}

func TestWriteValidationError(t *testing.T) {
	type input struct {
		Key string `validate:"required"`
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	WriteValidationError(rec, req, validator.Validate(input{}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, "is required", resp.Error.Fields["Key"])

	rec = httptest.NewRecorder()
	WriteValidationError(rec, req, errors.New("bad"))
	assert.Equal(t, "INVALID_INPUT", decode(t, rec).Error.Code)
}
