package service_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgageflex/internal/domain/model"
	"github.com/bibbank/mortgageflex/internal/domain/valueobject"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// referenceMortgage is MORT98765: 250k of 500k outstanding at 3.75% with
// 300 months left and a 6000 monthly payment.
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
		LoanStartDate:       time.Date(2020, 7, 1, 0, 0, 0, 0, time.UTC),
		Active:              true,
	})
}

func mortgageWith(mutate func(a *model.MortgageAttrs)) model.Mortgage {
	a := model.MortgageAttrs{
		ID:                  "mortgage-1",
		AccountNumber:       "MORT98765",
		UserID:              "USER12345",
		OriginalLoanAmount:  d("500000"),
		CurrentBalance:      d("250000"),
		InterestRate:        d("3.75"),
		RemainingTermMonths: 300,
		MonthlyPayment:      d("6000.00"),
		Active:              true,
	}
	mutate(&a)
	return model.ReconstructMortgage(a)
}

func profile(dti string, credit int, stability float64, income string) model.FinancialProfile {
	return model.ReconstructFinancialProfile("USER12345", d(income), credit, d(dti),
		valueobject.EmploymentStatusFullTime, stability, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
}
