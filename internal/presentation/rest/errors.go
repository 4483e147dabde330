package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bibbank/mortgageflex/internal/domain/model"
	"github.com/bibbank/mortgageflex/internal/domain/valueobject"
	"github.com/bibbank/mortgageflex/internal/presentation/validation"
	"github.com/bibbank/mortgageflex/pkg/auth"
)

// errBadRequest marks malformed input that never reached validation.
var errBadRequest = errors.New("bad request")

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func statusFor(err error) int {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrMortgageNotFound),
		errors.Is(err, model.ErrAdjustmentNotFound),
		errors.Is(err, model.ErrNoMortgages),
		errors.Is(err, model.ErrNoActiveMortgage),
		errors.Is(err, model.ErrFinancialProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, valueobject.ErrInvalidStatusTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err onto a status code. Internal failures are logged and
// answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := statusFor(err)
	body := errorBody{Error: err.Error()}

	var verr *validation.Error
	if errors.As(err, &verr) {
		body = errorBody{Error: "validation failed", Fields: verr.Fields}
	}
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		body = errorBody{Error: "internal server error"}
	}
	writeJSON(w, status, body)
}
