package rest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bibbank/mortgageflex/internal/application/dto"
	"github.com/bibbank/mortgageflex/internal/application/usecase"
	"github.com/bibbank/mortgageflex/internal/domain/valueobject"
	"github.com/bibbank/mortgageflex/internal/presentation/validation"
	"github.com/bibbank/mortgageflex/pkg/auth"
)

const (
	basePath        = "/api/v1/mortgage-adjustments"
	maxRequestBytes = 1 << 20
)

// AdjustmentHandler serves the mortgage adjustment API.
type AdjustmentHandler struct {
	ops       usecase.Operations
	validator *validation.Validator
	logger    *slog.Logger
}

// NewAdjustmentHandler wires the handler to the use cases.
func NewAdjustmentHandler(ops usecase.Operations, v *validation.Validator, logger *slog.Logger) *AdjustmentHandler {
	return &AdjustmentHandler{ops: ops, validator: v, logger: logger}
}

// RegisterRoutes mounts the adjustment routes under /api/v1/mortgage-adjustments.
func (h *AdjustmentHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST "+basePath+"/request", h.processAdjustment)
	mux.HandleFunc("GET "+basePath+"/eligibility/{userId}", h.checkEligibility)
	mux.HandleFunc("GET "+basePath+"/history/{userId}", h.history)
	mux.HandleFunc("GET "+basePath+"/recommendation/{userId}", h.recommendation)
	mux.HandleFunc("POST "+basePath+"/simulate", h.simulate)
	mux.HandleFunc("GET "+basePath+"/insights/{userId}", h.insights)
	mux.HandleFunc("DELETE "+basePath+"/{adjustmentId}", h.cancel)
}

func (h *AdjustmentHandler) processAdjustment(w http.ResponseWriter, r *http.Request) {
	var req dto.ProcessAdjustmentRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := auth.Authorize(r.Context(), req.UserID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	resp, err := h.ops.Process.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AdjustmentHandler) checkEligibility(w http.ResponseWriter, r *http.Request) {
	req := dto.CheckEligibilityRequest{UserID: r.PathValue("userId")}
	if err := h.authorizeUser(r, req, req.UserID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	resp, err := h.ops.Eligibility.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Eligible)
}

func (h *AdjustmentHandler) history(w http.ResponseWriter, r *http.Request) {
	req := dto.AdjustmentHistoryRequest{UserID: r.PathValue("userId")}
	query := r.URL.Query()

	var err error
	if s := query.Get("fromDate"); s != "" {
		if req.FromDate, err = dto.ParseDate(s); err != nil {
			writeError(w, r, h.logger, fmt.Errorf("%w: fromDate: %v", errBadRequest, err))
			return
		}
	}
	if s := query.Get("toDate"); s != "" {
		if req.ToDate, err = dto.ParseDate(s); err != nil {
			writeError(w, r, h.logger, fmt.Errorf("%w: toDate: %v", errBadRequest, err))
			return
		}
	}
	if s := query.Get("status"); s != "" {
		if req.Status, err = valueobject.NewAdjustmentStatus(s); err != nil {
			writeError(w, r, h.logger, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
	}
	if !req.FromDate.IsZero() && !req.ToDate.IsZero() && req.ToDate.Before(req.FromDate.Time) {
		writeError(w, r, h.logger, fmt.Errorf("%w: toDate is before fromDate", errBadRequest))
		return
	}
	if err := h.authorizeUser(r, req, req.UserID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	resp, err := h.ops.History.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AdjustmentHandler) recommendation(w http.ResponseWriter, r *http.Request) {
	req := dto.RecommendationRequest{UserID: r.PathValue("userId")}
	if err := h.authorizeUser(r, req, req.UserID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	resp, err := h.ops.Recommendation.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AdjustmentHandler) simulate(w http.ResponseWriter, r *http.Request) {
	var req dto.SimulationRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := auth.Authorize(r.Context(), req.UserID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	resp, err := h.ops.Simulate.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AdjustmentHandler) insights(w http.ResponseWriter, r *http.Request) {
	req := dto.FinancialInsightsRequest{UserID: r.PathValue("userId")}
	if err := h.authorizeUser(r, req, req.UserID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	resp, err := h.ops.Insights.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AdjustmentHandler) cancel(w http.ResponseWriter, r *http.Request) {
	req := dto.CancelAdjustmentRequest{AdjustmentID: r.PathValue("adjustmentId")}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.ops.Cancel.Execute(r.Context(), req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdjustmentHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return h.validator.Struct(dst)
}

// authorizeUser validates a path-derived request and checks the caller may act
// for userID.
func (h *AdjustmentHandler) authorizeUser(r *http.Request, req any, userID string) error {
	if err := h.validator.Struct(req); err != nil {
		return err
	}
	return auth.Authorize(r.Context(), userID)
}
