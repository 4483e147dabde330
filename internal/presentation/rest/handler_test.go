package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/mortgageflex/internal/application/dto"
	"github.com/bibbank/mortgageflex/internal/application/usecase"
	"github.com/bibbank/mortgageflex/internal/domain/model"
	"github.com/bibbank/mortgageflex/internal/domain/valueobject"
	"github.com/bibbank/mortgageflex/internal/presentation/rest"
	"github.com/bibbank/mortgageflex/internal/presentation/validation"
	"github.com/bibbank/mortgageflex/pkg/auth"
)

var now = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func notCalled[Req, Resp any](t *testing.T) usecase.OperationFunc[Req, Resp] {
	return func(context.Context, Req) (Resp, error) {
		var zero Resp
		t.Errorf("unexpected call with %T", *new(Req))
		return zero, nil
	}
}

// defaultOps fails the test if an operation the test did not set is reached.
func defaultOps(t *testing.T) usecase.Operations {
	return usecase.Operations{
		Process:        notCalled[dto.ProcessAdjustmentRequest, dto.AdjustmentResponse](t),
		Eligibility:    notCalled[dto.CheckEligibilityRequest, dto.EligibilityResponse](t),
		History:        notCalled[dto.AdjustmentHistoryRequest, []dto.AdjustmentResponse](t),
		Recommendation: notCalled[dto.RecommendationRequest, dto.RecommendationResponse](t),
		Simulate:       notCalled[dto.SimulationRequest, dto.SimulationResponse](t),
		Insights:       notCalled[dto.FinancialInsightsRequest, dto.FinancialInsightsResponse](t),
		Cancel: usecase.CommandFunc[dto.CancelAdjustmentRequest](func(context.Context, dto.CancelAdjustmentRequest) error {
			t.Error("unexpected cancel")
			return nil
		}),
	}
}

type serverOpts struct {
	validator auth.TokenValidator
	rateLimit int
	db        rest.Pinger
	logs      *bytes.Buffer
}

func newServer(t *testing.T, ops usecase.Operations, opts serverOpts) http.Handler {
	t.Helper()
	var out io.Writer = io.Discard
	if opts.logs != nil {
		out = opts.logs
	}
	logger := slog.New(slog.NewTextHandler(out, nil))
	if opts.db == nil {
		opts.db = pinger{}
	}

	return rest.NewRouter(rest.RouterConfig{
		Adjustments: rest.NewAdjustmentHandler(ops, validation.New(func() time.Time { return now }), logger),
		Health:      rest.NewHealthHandler("mortgage-adjustment-service", opts.db, logger),
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "# metrics\n")
		}),
		Validator: opts.validator,
		RateLimit: opts.rateLimit,
		Logger:    logger,
	})
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

const processBody = `{
	"user_id": "USER12345",
	"mortgage_account_number": "MORT98765",
	"reduction_amount": "1500.00",
	"adjustment_month": "2025-07-01",
	"pressure_type": "MEDICAL_EXPENSES",
	"repayment_strategy": "SPREAD_EVENLY"
}`

func TestProcessAdjustment(t *testing.T) {
	ops := defaultOps(t)
	var got dto.ProcessAdjustmentRequest
	ops.Process = usecase.OperationFunc[dto.ProcessAdjustmentRequest, dto.AdjustmentResponse](
		func(_ context.Context, req dto.ProcessAdjustmentRequest) (dto.AdjustmentResponse, error) {
			got = req
			return dto.AdjustmentResponse{
				AdjustmentID:            "ADJ-1A2B3C4D",
				UserID:                  req.UserID,
				ApprovedReductionAmount: req.ReductionAmount,
				Status:                  valueobject.AdjustmentStatusApproved,
			}, nil
		})

	rec := do(t, newServer(t, ops, serverOpts{}), http.MethodPost, "/api/v1/mortgage-adjustments/request", processBody)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "MORT98765", got.MortgageAccountNumber)
	assert.True(t, got.ReductionAmount.Equal(decimal.RequireFromString("1500")))
	assert.Equal(t, valueobject.PressureTypeMedicalExpenses, got.PressureType)
	assert.Equal(t, "2025-07-01", got.AdjustmentMonth.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ADJ-1A2B3C4D", resp["adjustment_id"])
	assert.Equal(t, "APPROVED", resp["status"])
}

func TestProcessAdjustment_BadInput(t *testing.T) {
	h := newServer(t, defaultOps(t), serverOpts{})

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{
			name:  "reduction below minimum",
			body:  strings.Replace(processBody, `"1500.00"`, `"50"`, 1),
			field: "reduction_amount",
		},
		{
			name:  "month in the past",
			body:  strings.Replace(processBody, `"2025-07-01"`, `"2025-06-01"`, 1),
			field: "adjustment_month",
		},
		{
			name:  "malformed user",
			body:  strings.Replace(processBody, `"USER12345"`, `"bob"`, 1),
			field: "user_id",
		},
		{name: "unknown field", body: `{"user_id":"USER12345","surprise":true}`},
		{name: "invalid pressure type", body: strings.Replace(processBody, "MEDICAL_EXPENSES", "VACATION", 1)},
		{name: "not json", body: `user=USER12345`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/mortgage-adjustments/request", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			body := decodeError(t, rec)
			assert.NotEmpty(t, body["error"])
			if tt.field != "" {
				fields, ok := body["fields"].(map[string]any)
				require.True(t, ok, "expected fields in %v", body)
				assert.Contains(t, fields, tt.field)
			}
		})
	}
}

func TestCheckEligibility(t *testing.T) {
	ops := defaultOps(t)
	ops.Eligibility = usecase.OperationFunc[dto.CheckEligibilityRequest, dto.EligibilityResponse](
		func(_ context.Context, req dto.CheckEligibilityRequest) (dto.EligibilityResponse, error) {
			return dto.EligibilityResponse{UserID: req.UserID, Eligible: req.UserID == "USER12345"}, nil
		})
	h := newServer(t, ops, serverOpts{})

	rec := do(t, h, http.MethodGet, "/api/v1/mortgage-adjustments/eligibility/USER12345", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "true", rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/v1/mortgage-adjustments/eligibility/USER54321", "")
	assert.JSONEq(t, "false", rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/v1/mortgage-adjustments/eligibility/nobody", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistory(t *testing.T) {
	ops := defaultOps(t)
	var got dto.AdjustmentHistoryRequest
	ops.History = usecase.OperationFunc[dto.AdjustmentHistoryRequest, []dto.AdjustmentResponse](
		func(_ context.Context, req dto.AdjustmentHistoryRequest) ([]dto.AdjustmentResponse, error) {
			got = req
			return []dto.AdjustmentResponse{}, nil
		})
	h := newServer(t, ops, serverOpts{})

	rec := do(t, h, http.MethodGet,
		"/api/v1/mortgage-adjustments/history/USER12345?fromDate=2024-02-01&toDate=2024-02-28&status=APPROVED", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, "[]", rec.Body.String())
	assert.Equal(t, "2024-02-01", got.FromDate.String())
	assert.Equal(t, "2024-02-28", got.ToDate.String())
	assert.Equal(t, valueobject.AdjustmentStatusApproved, got.Status)

	for _, query := range []string{
		"fromDate=01-02-2024",
		"toDate=tomorrow",
		"status=CANCELLED",
		"fromDate=2024-03-01&toDate=2024-02-01",
	} {
		rec := do(t, h, http.MethodGet, "/api/v1/mortgage-adjustments/history/USER12345?"+query, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestRecommendationAndInsights_NotFound(t *testing.T) {
	ops := defaultOps(t)
	ops.Recommendation = usecase.OperationFunc[dto.RecommendationRequest, dto.RecommendationResponse](
		func(context.Context, dto.RecommendationRequest) (dto.RecommendationResponse, error) {
			return dto.RecommendationResponse{}, fmt.Errorf("load mortgages: %w", model.ErrNoMortgages)
		})
	ops.Insights = usecase.OperationFunc[dto.FinancialInsightsRequest, dto.FinancialInsightsResponse](
		func(context.Context, dto.FinancialInsightsRequest) (dto.FinancialInsightsResponse, error) {
			return dto.FinancialInsightsResponse{}, fmt.Errorf("insights: %w", model.ErrFinancialProfileNotFound)
		})
	h := newServer(t, ops, serverOpts{})

	rec := do(t, h, http.MethodGet, "/api/v1/mortgage-adjustments/recommendation/USER12345", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeError(t, rec)["error"], "no mortgages found")

	rec = do(t, h, http.MethodGet, "/api/v1/mortgage-adjustments/insights/USER12345", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInsights(t *testing.T) {
	ops := defaultOps(t)
	ops.Insights = usecase.OperationFunc[dto.FinancialInsightsRequest, dto.FinancialInsightsResponse](
		func(_ context.Context, req dto.FinancialInsightsRequest) (dto.FinancialInsightsResponse, error) {
			return dto.FinancialInsightsResponse{
				UserID:               req.UserID,
				CreditScore:          720,
				RecommendedReduction: decimal.RequireFromString("271.18"),
			}, nil
		})

	rec := do(t, newServer(t, ops, serverOpts{}), http.MethodGet, "/api/v1/mortgage-adjustments/insights/USER12345", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "USER12345", body["user_id"])
	assert.Equal(t, "271.18", body["recommended_reduction"])
}

func TestSimulate(t *testing.T) {
	ops := defaultOps(t)
	var got dto.SimulationRequest
	ops.Simulate = usecase.OperationFunc[dto.SimulationRequest, dto.SimulationResponse](
		func(_ context.Context, req dto.SimulationRequest) (dto.SimulationResponse, error) {
			got = req
			return dto.SimulationResponse{
				ProjectedAdjustedPayment: decimal.RequireFromString("4500"),
				EligibleForAdjustment:    true,
			}, nil
		})
	h := newServer(t, ops, serverOpts{})

	body := `{"user_id":"USER12345","mortgage_account_number":"MORT98765",` +
		`"proposed_reduction_amount":"1500","proposed_start_date":"2025-07-01","duration_months":3}`
	rec := do(t, h, http.MethodPost, "/api/v1/mortgage-adjustments/simulate", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 3, got.DurationMonths)
	assert.Equal(t, true, decodeError(t, rec)["eligible_for_adjustment"])

	rec = do(t, h, http.MethodPost, "/api/v1/mortgage-adjustments/simulate",
		strings.Replace(body, `"duration_months":3`, `"duration_months":0`, 1))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"pending record", nil, http.StatusNoContent},
		{"decided record", fmt.Errorf("cancel: %w", valueobject.ErrInvalidStatusTransition), http.StatusConflict},
		{"unknown record", fmt.Errorf("load: %w", model.ErrAdjustmentNotFound), http.StatusNotFound},
		{"store failure", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := defaultOps(t)
			var gotID string
			ops.Cancel = usecase.CommandFunc[dto.CancelAdjustmentRequest](
				func(_ context.Context, req dto.CancelAdjustmentRequest) error {
					gotID = req.AdjustmentID
					return tt.err
				})
			logs := &bytes.Buffer{}

			rec := do(t, newServer(t, ops, serverOpts{logs: logs}), http.MethodDelete,
				"/api/v1/mortgage-adjustments/ADJ-1A2B3C4D", "")

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "ADJ-1A2B3C4D", gotID)
			if tt.status == http.StatusInternalServerError {
				assert.Equal(t, "internal server error", decodeError(t, rec)["error"])
				assert.Contains(t, logs.String(), "connection reset")
			}
		})
	}
}

func TestHealth(t *testing.T) {
	h := newServer(t, defaultOps(t), serverOpts{})
	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	down := newServer(t, defaultOps(t), serverOpts{db: pinger{err: errors.New("dial tcp: refused")}})
	rec = do(t, down, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAuthentication(t *testing.T) {
	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{Secret: "rest-test-secret", Issuer: "mortgageflex"})
	require.NoError(t, err)
	customer, err := jwtSvc.Issue("USER12345", []string{auth.RoleCustomer}, time.Now())
	require.NoError(t, err)
	advisor, err := jwtSvc.Issue("ADVISOR1", []string{auth.RoleAdvisor}, time.Now())
	require.NoError(t, err)

	ops := defaultOps(t)
	ops.Eligibility = usecase.OperationFunc[dto.CheckEligibilityRequest, dto.EligibilityResponse](
		func(context.Context, dto.CheckEligibilityRequest) (dto.EligibilityResponse, error) {
			return dto.EligibilityResponse{Eligible: true}, nil
		})
	h := newServer(t, ops, serverOpts{validator: jwtSvc})

	const path = "/api/v1/mortgage-adjustments/eligibility/"
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, path+"USER12345", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, path+"USER12345", "", "Authorization", "Bearer "+customer).Code)
	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodGet, path+"USER54321", "", "Authorization", "Bearer "+customer).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, path+"USER54321", "", "Authorization", "Bearer "+advisor).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", "").Code)
}

func TestRateLimit(t *testing.T) {
	h := newServer(t, defaultOps(t), serverOpts{rateLimit: 1})

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", "").Code)
	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestLoggingMiddleware(t *testing.T) {
	logs := &bytes.Buffer{}
	h := newServer(t, defaultOps(t), serverOpts{logs: logs})

	do(t, h, http.MethodGet, "/api/v1/mortgage-adjustments/eligibility/bad", "")

	out := logs.String()
	assert.Contains(t, out, "method=GET")
	assert.Contains(t, out, "path=/api/v1/mortgage-adjustments/eligibility/bad")
	assert.Contains(t, out, "status=400")
	assert.Contains(t, out, "duration_ms=")
}
