package testutil

import (
	"time"

	"github.com/bibbank/mortgageflex/internal/domain/model"
	"github.com/bibbank/mortgageflex/internal/domain/valueobject"
	"github.com/bibbank/mortgageflex/pkg/money"
)

// Identifiers shared by integration and end-to-end tests.
const (
	UserID        = "USER12345"
	OtherUserID   = "USER54321"
	MortgageID    = "mortgage-0001"
	AccountNumber = "MORT98765"
)

// Mortgage returns an active fixed-rate mortgage: 500000 original, 250000
// outstanding at 3.75%, 300 of 360 months left, paying 6000 a month.
// mutate may adjust the attributes before construction.
func Mortgage(mutate func(*model.MortgageAttrs)) model.Mortgage {
	attrs := model.MortgageAttrs{
		ID:                  MortgageID,
		AccountNumber:       AccountNumber,
		UserID:              UserID,
		OriginalLoanAmount:  money.MustParse("500000"),
		CurrentBalance:      money.MustParse("250000"),
		InterestRate:        money.MustParse("3.75"),
		OriginalTermMonths:  360,
		RemainingTermMonths: 300,
		MonthlyPayment:      money.MustParse("6000.00"),
		MortgageType:        valueobject.MortgageTypeFixedRate,
		LoanStartDate:       time.Date(2020, 7, 1, 0, 0, 0, 0, time.UTC),
		NextPaymentDate:     time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		Active:              true,
	}
	if mutate != nil {
		mutate(&attrs)
	}
	return model.ReconstructMortgage(attrs)
}

// Profile returns a moderate-risk profile for userID: 120000 income, credit
// score 720, 35% debt-to-income.
func Profile(userID string) model.FinancialProfile {
	return model.ReconstructFinancialProfile(
		userID,
		money.MustParse("120000"),
		720,
		money.MustParse("35"),
		valueobject.EmploymentStatusFullTime,
		0.8,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	)
}
