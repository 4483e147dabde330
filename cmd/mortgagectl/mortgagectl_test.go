package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/mortgageflex/internal/application/dto"
	"github.com/bibbank/mortgageflex/internal/domain/model"
	"github.com/bibbank/mortgageflex/internal/domain/valueobject"
	"github.com/bibbank/mortgageflex/internal/infrastructure/config"
	"github.com/bibbank/mortgageflex/pkg/auth"
)

const scenarioYAML = `
mortgage:
  monthly_payment: 6000.00
  current_balance: 250000
  interest_rate: 3.75
  remaining_term_months: 300
adjustment:
  reduction: 1500
  start_date: "2030-07-01"
  duration_months: 6
risk_score: 0.3
`

func TestLoadScenario(t *testing.T) {
	s, err := loadScenario(strings.NewReader(scenarioYAML))
	require.NoError(t, err)

	mortgage, req, err := s.request()
	require.NoError(t, err)
	assert.True(t, mortgage.MonthlyPayment().Equal(decimal.NewFromInt(6000)))
	assert.Equal(t, 300, mortgage.RemainingTermMonths())
	assert.True(t, req.ProposedReductionAmount.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, "2030-07-01", req.ProposedStartDate.String())
	assert.Equal(t, 6, req.DurationMonths)
	assert.InDelta(t, 0.3, s.RiskScore, 1e-9)
}

func TestLoadScenario_UnknownField(t *testing.T) {
	_, err := loadScenario(strings.NewReader("mortgage:\n  payment: 1\n"))
	require.Error(t, err)
}

func TestScenarioRequest_ReportsEveryProblem(t *testing.T) {
	var s scenario
	s.Adjustment.StartDate = "July"
	s.Adjustment.Strategy = "SOMEDAY"

	_, _, err := s.request()
	require.Error(t, err)
	for _, want := range []string{"monthly_payment", "reduction", "duration_months", "start_date", "strategy"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestSimulateCmd_FileJSON(t *testing.T) {
	path := t.TempDir() + "/scenario.yaml"
	require.NoError(t, writeFile(path, scenarioYAML))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"simulate", "--file", path, "--output", "json"})
	require.NoError(t, cmd.Execute())

	var resp dto.SimulationResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.True(t, resp.ProjectedAdjustedPayment.Equal(decimal.NewFromInt(4500)), resp.ProjectedAdjustedPayment.String())
	assert.True(t, resp.PostAdjustmentMonthlyPayment.Equal(decimal.NewFromInt(6750)), resp.PostAdjustmentMonthlyPayment.String())
	assert.True(t, resp.EligibleForAdjustment)
	assert.NotEmpty(t, resp.MonthlyProjections)
}

func TestSimulateCmd_FlagsTable(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{
		"simulate",
		"--payment", "6000", "--balance", "250000", "--rate", "3.75", "--term", "300",
		"--reduction", "1500", "--start", "2030-07-01", "--months", "6",
	})
	require.NoError(t, cmd.Execute())

	text := out.String()
	assert.Contains(t, text, "Adjusted payment:")
	assert.Contains(t, text, "4500.00")
	assert.Contains(t, text, "6750.00")
	assert.Contains(t, text, "MONTH")
	assert.Contains(t, text, "2030-07-01")
}

func TestSimulateCmd_UnknownOutput(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{
		"simulate", "--payment", "6000", "--balance", "250000", "--rate", "3.75", "--term", "300",
		"--reduction", "1500", "--start", "2030-07-01", "--output", "xml",
	})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

const seedYAML = `
profiles:
  - user_id: USER00001
    total_annual_income: 120000
    credit_score: 720
    debt_to_income_ratio: 35
    employment_status: FULL_TIME
    stability_score: 0.8
    last_assessment_date: "2025-01-15"
mortgages:
  - account_number: MORT12345
    user_id: USER00001
    original_loan_amount: 500000
    current_balance: 250000
    interest_rate: 3.75
    original_term_months: 360
    remaining_term_months: 300
    monthly_payment: 6000
    mortgage_type: FIXED_RATE
  - id: m-2
    account_number: MORT54321
    user_id: USER00001
    original_loan_amount: 200000
    current_balance: 150000
    interest_rate: 4.1
    original_term_months: 300
    remaining_term_months: 240
    monthly_payment: 1100
    mortgage_type: VARIABLE_RATE
    active: false
`

type fakeMortgageStore struct {
	saved []model.Mortgage
	err   error
}

func (f *fakeMortgageStore) Upsert(_ context.Context, m model.Mortgage) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, m)
	return nil
}

type fakeProfileStore struct {
	saved []model.FinancialProfile
}

func (f *fakeProfileStore) Upsert(_ context.Context, p model.FinancialProfile) error {
	f.saved = append(f.saved, p)
	return nil
}

func TestApplySeed(t *testing.T) {
	f, err := loadSeed(strings.NewReader(seedYAML))
	require.NoError(t, err)

	mortgages := &fakeMortgageStore{}
	profiles := &fakeProfileStore{}
	nm, np, err := applySeed(context.Background(), f, mortgages, profiles)
	require.NoError(t, err)
	assert.Equal(t, 2, nm)
	assert.Equal(t, 1, np)

	require.Len(t, profiles.saved, 1)
	p := profiles.saved[0]
	assert.Equal(t, 720, p.CreditScore())
	assert.True(t, p.EmploymentStatus().Equal(valueobject.EmploymentStatusFullTime))
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), p.LastAssessmentDate())

	require.Len(t, mortgages.saved, 2)
	first := mortgages.saved[0]
	assert.NotEmpty(t, first.ID())
	assert.True(t, first.IsActive())
	assert.True(t, first.MortgageType().Equal(valueobject.MortgageTypeFixedRate))
	assert.Equal(t, "m-2", mortgages.saved[1].ID())
	assert.False(t, mortgages.saved[1].IsActive())
}

func TestApplySeed_DerivedIDIsStable(t *testing.T) {
	f, err := loadSeed(strings.NewReader(seedYAML))
	require.NoError(t, err)

	a, b := &fakeMortgageStore{}, &fakeMortgageStore{}
	_, _, err = applySeed(context.Background(), f, a, &fakeProfileStore{})
	require.NoError(t, err)
	_, _, err = applySeed(context.Background(), f, b, &fakeProfileStore{})
	require.NoError(t, err)
	assert.Equal(t, a.saved[0].ID(), b.saved[0].ID())
}

func TestApplySeed_InvalidRecordsWriteNothing(t *testing.T) {
	f, err := loadSeed(strings.NewReader(seedYAML))
	require.NoError(t, err)
	f.Mortgages[1].MortgageType = "BALLOON"
	f.Profiles[0].CreditScore = 900

	mortgages := &fakeMortgageStore{}
	profiles := &fakeProfileStore{}
	_, _, err = applySeed(context.Background(), f, mortgages, profiles)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mortgages[1]")
	assert.Contains(t, err.Error(), "profiles[0]")
	assert.Empty(t, mortgages.saved)
	assert.Empty(t, profiles.saved)
}

func TestApplySeed_StoreError(t *testing.T) {
	f, err := loadSeed(strings.NewReader(seedYAML))
	require.NoError(t, err)

	boom := errors.New("connection reset")
	_, _, err = applySeed(context.Background(), f, &fakeMortgageStore{err: boom}, &fakeProfileStore{})
	require.ErrorIs(t, err, boom)
}

func TestIssueToken(t *testing.T) {
	cfg := config.AuthConfig{Secret: "local-secret", Issuer: "mortgageflex"}
	now := time.Now()

	token, err := issueToken(tokenOptions{
		userID: "USER00001",
		roles:  []string{auth.RoleCustomer},
		ttl:    time.Hour,
	}, cfg, now)
	require.NoError(t, err)

	svc, err := auth.NewJWTService(auth.JWTConfig{Secret: cfg.Secret, Issuer: cfg.Issuer})
	require.NoError(t, err)
	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "USER00001", claims.UserID)
	assert.True(t, claims.CanActFor("USER00001"))
	assert.False(t, claims.CanActFor("USER00002"))
}

func TestIssueToken_Rejects(t *testing.T) {
	secret := config.AuthConfig{Secret: "local-secret"}
	tests := []struct {
		name string
		opts tokenOptions
		cfg  config.AuthConfig
		want string
	}{
		{"customer without user", tokenOptions{roles: []string{auth.RoleCustomer}}, secret, "--user"},
		{"unknown role", tokenOptions{userID: "USER00001", roles: []string{"root"}}, secret, "root"},
		{"no key", tokenOptions{userID: "USER00001", roles: []string{auth.RoleCustomer}}, config.AuthConfig{}, "JWT_SECRET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issueToken(tt.opts, tt.cfg, time.Now())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestIssueToken_AdvisorNeedsNoUser(t *testing.T) {
	token, err := issueToken(tokenOptions{roles: []string{auth.RoleAdvisor}, ttl: time.Minute},
		config.AuthConfig{Secret: "local-secret"}, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "mortgagectl dev\n", out.String())
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}
