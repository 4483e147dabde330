package usecase_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgageflex/internal/application/usecase"
	"github.com/bibbank/mortgageflex/internal/domain/event"
	"github.com/bibbank/mortgageflex/internal/domain/model"
	"github.com/bibbank/mortgageflex/internal/domain/service"
	"github.com/bibbank/mortgageflex/internal/domain/valueobject"
)

// --- Mock implementations ---

type mockMortgageRepository struct {
	mortgages []model.Mortgage
	err       error
}

func (m *mockMortgageRepository) FindByAccountNumber(_ context.Context, accountNumber string) (model.Mortgage, error) {
	if m.err != nil {
		return model.Mortgage{}, m.err
	}
	for _, mg := range m.mortgages {
		if mg.AccountNumber() == accountNumber {
			return mg, nil
		}
	}
	return model.Mortgage{}, model.ErrMortgageNotFound
}

func (m *mockMortgageRepository) FindByUserID(_ context.Context, userID string) ([]model.Mortgage, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []model.Mortgage{}
	for _, mg := range m.mortgages {
		if mg.UserID() == userID {
			out = append(out, mg)
		}
	}
	return out, nil
}

func (m *mockMortgageRepository) CountActiveByUserID(_ context.Context, userID string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	n := 0
	for _, mg := range m.mortgages {
		if mg.UserID() == userID && mg.IsActive() {
			n++
		}
	}
	return n, nil
}

type mockAdjustmentRepository struct {
	records             []model.Adjustment
	insertFunc          func(ctx context.Context, adj model.Adjustment, since time.Time, limit int) error
	deletePendingFunc   func(ctx context.Context, id string) error
	inserted            []model.Adjustment
	deleted             []string
	findByStatusCalls   int
	findByMortgageCalls int
}

func (m *mockAdjustmentRepository) InsertWithinLimit(ctx context.Context, adj model.Adjustment, since time.Time, limit int) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, adj, since, limit)
	}
	m.inserted = append(m.inserted, adj)
	m.records = append(m.records, adj)
	return nil
}

func (m *mockAdjustmentRepository) FindByID(_ context.Context, id string) (model.Adjustment, error) {
	for _, a := range m.records {
		if a.ID() == id {
			return a, nil
		}
	}
	return model.Adjustment{}, model.ErrAdjustmentNotFound
}

func (m *mockAdjustmentRepository) FindByMortgageID(_ context.Context, mortgageID string) ([]model.Adjustment, error) {
	m.findByMortgageCalls++
	var out []model.Adjustment
	for _, a := range m.records {
		if a.MortgageID() == mortgageID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAdjustmentRepository) FindByMortgageAndStatus(_ context.Context, mortgageID string, status valueobject.AdjustmentStatus) ([]model.Adjustment, error) {
	m.findByStatusCalls++
	var out []model.Adjustment
	for _, a := range m.records {
		if a.MortgageID() == mortgageID && a.Status().Equal(status) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAdjustmentRepository) CountSince(_ context.Context, mortgageIDs []string, since time.Time) (map[string]int, error) {
	counts := map[string]int{}
	for _, id := range mortgageIDs {
		for _, a := range m.records {
			if a.MortgageID() == id && !a.CreatedAt().Before(since) {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (m *mockAdjustmentRepository) DeletePending(ctx context.Context, id string) error {
	if m.deletePendingFunc != nil {
		return m.deletePendingFunc(ctx, id)
	}
	m.deleted = append(m.deleted, id)
	return nil
}

type mockRiskOracle struct {
	stress      bool
	difficulty  float64
	recommended decimal.Decimal
	pressures   []valueobject.PressureType
	insights    service.FinancialInsights
	impact      service.LongTermImpact
	impactFor   decimal.Decimal
	err         error
}

func (m *mockRiskOracle) StressFlag(context.Context, string) (bool, error) {
	return m.stress, m.err
}

func (m *mockRiskOracle) PaymentDifficulty(context.Context, string) (float64, error) {
	return m.difficulty, m.err
}

func (m *mockRiskOracle) RecommendedReduction(context.Context, string) (decimal.Decimal, error) {
	return m.recommended, m.err
}

func (m *mockRiskOracle) PressureTypes(context.Context, string) ([]valueobject.PressureType, error) {
	return m.pressures, m.err
}

func (m *mockRiskOracle) FinancialInsights(context.Context, string) (service.FinancialInsights, error) {
	return m.insights, m.err
}

func (m *mockRiskOracle) LongTermImpact(_ context.Context, _ string, reduction decimal.Decimal) (service.LongTermImpact, error) {
	m.impactFor = reduction
	return m.impact, m.err
}

type mockProfileRepository struct {
	profile *model.FinancialProfile
	err     error
}

func (m *mockProfileRepository) FindByUserID(context.Context, string) (model.FinancialProfile, error) {
	if m.err != nil {
		return model.FinancialProfile{}, m.err
	}
	if m.profile == nil {
		return model.FinancialProfile{}, model.ErrFinancialProfileNotFound
	}
	return *m.profile, nil
}

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

type fixedIDs struct{ id string }

func (f fixedIDs) NewAdjustmentID() string { return f.id }

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

// --- Fixtures ---

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func referenceMortgage() model.Mortgage {
	return model.ReconstructMortgage(model.MortgageAttrs{
		ID:                  "mortgage-1",
		AccountNumber:       "MORT98765",
		UserID:              "USER12345",
		OriginalLoanAmount:  d("500000"),
		CurrentBalance:      d("250000"),
		InterestRate:        d("3.75"),
		OriginalTermMonths:  360,
		RemainingTermMonths: 300,
		MonthlyPayment:      d("6000.00"),
		MortgageType:        valueobject.MortgageTypeFixedRate,
		Active:              true,
	})
}

func storedAdjustment(id, mortgageID string, created time.Time, status valueobject.AdjustmentStatus) model.Adjustment {
	return model.ReconstructAdjustment(id, mortgageID, created,
		d("6000.00"), d("4500.00"), d("4.69"), status,
		time.Date(created.Year(), created.Month()+1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(created.Year(), created.Month()+2, 1, 0, 0, 0, 0, time.UTC),
		"", valueobject.PressureType{}, 0.3)
}

func newGate(mortgages *mockMortgageRepository, adjustments *mockAdjustmentRepository) *usecase.EligibilityGate {
	return usecase.NewEligibilityGate(mortgages, adjustments, service.NewEligibilityEvaluator(), fixedClock{now: testNow})
}
