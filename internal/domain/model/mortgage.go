package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgageflex/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Mortgage (read-only to the adjustment engine)
// ---------------------------------------------------------------------------

// Mortgage is an immutable snapshot of a mortgage owned by the mortgage
// directory. The adjustment engine only reads it.
type Mortgage struct {
	id                  string
	accountNumber       string
	userID              string
	originalLoanAmount  decimal.Decimal
	currentBalance      decimal.Decimal
	interestRate        decimal.Decimal
	originalTermMonths  int
	remainingTermMonths int
	monthlyPayment      decimal.Decimal
	mortgageType        valueobject.MortgageType
	loanStartDate       time.Time
	nextPaymentDate     time.Time
	active              bool
}

// MortgageAttrs carries the fields of a Mortgage for construction.
type MortgageAttrs struct {
	ID                  string
	AccountNumber       string
	UserID              string
	OriginalLoanAmount  decimal.Decimal
	CurrentBalance      decimal.Decimal
	InterestRate        decimal.Decimal
	OriginalTermMonths  int
	RemainingTermMonths int
	MonthlyPayment      decimal.Decimal
	MortgageType        valueobject.MortgageType
	LoanStartDate       time.Time
	NextPaymentDate     time.Time
	Active              bool
}

// NewMortgage validates attrs and builds a Mortgage.
func NewMortgage(a MortgageAttrs) (Mortgage, error) {
	if a.AccountNumber == "" {
		return Mortgage{}, errors.New("account number is required")
	}
	if a.UserID == "" {
		return Mortgage{}, errors.New("user ID is required")
	}
	if a.OriginalLoanAmount.IsNegative() {
		return Mortgage{}, errors.New("original loan amount must not be negative")
	}
	if a.CurrentBalance.IsNegative() {
		return Mortgage{}, errors.New("current balance must not be negative")
	}
	if a.CurrentBalance.GreaterThan(a.OriginalLoanAmount) {
		return Mortgage{}, errors.New("current balance must not exceed original loan amount")
	}
	if a.RemainingTermMonths < 0 {
		return Mortgage{}, errors.New("remaining term months must not be negative")
	}
	if a.MonthlyPayment.IsNegative() {
		return Mortgage{}, errors.New("monthly payment must not be negative")
	}
	return ReconstructMortgage(a), nil
}

// ReconstructMortgage rebuilds a Mortgage from persistence without validation.
func ReconstructMortgage(a MortgageAttrs) Mortgage {
	return Mortgage{
		id:                  a.ID,
		accountNumber:       a.AccountNumber,
		userID:              a.UserID,
		originalLoanAmount:  a.OriginalLoanAmount,
		currentBalance:      a.CurrentBalance,
		interestRate:        a.InterestRate,
		originalTermMonths:  a.OriginalTermMonths,
		remainingTermMonths: a.RemainingTermMonths,
		monthlyPayment:      a.MonthlyPayment,
		mortgageType:        a.MortgageType,
		loanStartDate:       a.LoanStartDate,
		nextPaymentDate:     a.NextPaymentDate,
		active:              a.Active,
	}
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (m Mortgage) ID() string                             { return m.id }
func (m Mortgage) AccountNumber() string                  { return m.accountNumber }
func (m Mortgage) UserID() string                         { return m.userID }
func (m Mortgage) OriginalLoanAmount() decimal.Decimal    { return m.originalLoanAmount }
func (m Mortgage) CurrentBalance() decimal.Decimal        { return m.currentBalance }
func (m Mortgage) InterestRate() decimal.Decimal          { return m.interestRate }
func (m Mortgage) OriginalTermMonths() int                { return m.originalTermMonths }
func (m Mortgage) RemainingTermMonths() int               { return m.remainingTermMonths }
func (m Mortgage) MonthlyPayment() decimal.Decimal        { return m.monthlyPayment }
func (m Mortgage) MortgageType() valueobject.MortgageType { return m.mortgageType }
func (m Mortgage) LoanStartDate() time.Time               { return m.loanStartDate }
func (m Mortgage) NextPaymentDate() time.Time             { return m.nextPaymentDate }
func (m Mortgage) IsActive() bool                         { return m.active }

// BalanceRatio returns currentBalance / originalLoanAmount, or zero when the
// original amount is zero.
func (m Mortgage) BalanceRatio() decimal.Decimal {
	if m.originalLoanAmount.IsZero() {
		return decimal.Zero
	}
	return m.currentBalance.Div(m.originalLoanAmount)
}

// FirstActive returns the first active mortgage in list order.
func FirstActive(mortgages []Mortgage) (Mortgage, bool) {
	for _, m := range mortgages {
		if m.active {
			return m, true
		}
	}
	return Mortgage{}, false
}
