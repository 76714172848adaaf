package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/service"
	apperrors "github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/errors"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/httputil"
)

// CatalogHandler handles HTTP requests for the catalog endpoints.
type CatalogHandler struct {
	sync    *service.SyncService
	suggest *service.SuggestService
	detail  *service.DetailService
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler. A nil limiter leaves
// sync triggers unthrottled.
func NewCatalogHandler(
	syncSvc *service.SyncService,
	suggestSvc *service.SuggestService,
	detailSvc *service.DetailService,
	limiter *rate.Limiter,
	logger *slog.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		sync:    syncSvc,
		suggest: suggestSvc,
		detail:  detailSvc,
		limiter: limiter,
		logger:  logger,
	}
}

// SyncResponse is the JSON body returned after a completed sync.
type SyncResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	RunID    string `json:"run_id"`
	Total    int    `json:"total"`
	Accepted int    `json:"accepted"`
	Rejected int    `json:"rejected"`
}

// Sync handles POST /api/v1/catalog/sync and GET /index
// @Summary Synchronize the catalog into the search index
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/catalog/sync [post]
func (h *CatalogHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil {
		res := h.limiter.Reserve()
		if !res.OK() {
			httputil.WriteError(w, r, apperrors.TooManyRequests("catalog sync is disabled"), h.logger)
			return
		}
		if delay := res.Delay(); delay > 0 {
			res.Cancel()
			w.Header().Set("Retry-After", strconv.Itoa(int(delay/time.Second)+1))
			httputil.WriteError(w, r, apperrors.TooManyRequests("a catalog sync was triggered recently"), h.logger)
			return
		}
	}

	// A disconnecting client must not abort a half-written bulk load.
	report, err := h.sync.Sync(context.WithoutCancel(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, &apperrors.AppError{
			Code:    "INDEXING_FAILED",
			Message: "error indexing data",
			Status:  http.StatusInternalServerError,
			Err:     err,
		}, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: SyncResponse{
		Status:   "indexed",
		Message:  "data indexed successfully",
		RunID:    report.RunID,
		Total:    report.Total,
		Accepted: report.Accepted,
		Rejected: report.Rejected,
	}})
}

// Suggestions handles GET /api/v1/catalog/suggestions and GET /suggestions
// @Summary Suggest part numbers containing a fragment
// @Tags catalog
// @Produce json
// @Param q query string true "Part number fragment, matched case-insensitively"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/catalog/suggestions [get]
func (h *CatalogHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	entries, err := h.suggest.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: entries})
}

// GetProduct handles GET /api/v1/catalog/products/{productID} and GET /product/{productID}
// @Summary Get the denormalized product view
// @Tags catalog
// @Produce json
// @Param productID path string true "Part ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/catalog/products/{productID} [get]
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	detail, err := h.detail.Resolve(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: detail})
}
