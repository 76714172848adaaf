package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/internal/domain"
	apperrors "github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/errors"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/httputil"
	"github.com/ImperiumWebApplications/elasticsearch-web-application-backend/pkg/validator"
)

// toAppError maps catalog errors to their HTTP representation. Errors it does
// not recognize are returned unchanged and end up as a generic 500.
func toAppError(err error) error {
	switch {
	case domain.IsQueryError(err, domain.QueryErrorMissingParameter):
		return apperrors.MissingParameter("q")
	case domain.IsQueryError(err, domain.QueryErrorEngineUnavailable):
		return apperrors.ServiceUnavailable("ENGINE_UNAVAILABLE", "search engine unavailable", err)
	case errors.Is(err, domain.ErrProductNotFound):
		return &apperrors.AppError{
			Code:    "NOT_FOUND",
			Message: "product not found",
			Status:  http.StatusNotFound,
			Err:     err,
		}
	}
	return err
}

func writeError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		httputil.WriteValidationError(w, r, err)
		return
	}
	httputil.WriteError(w, r, toAppError(err), logger)
}
