package model

import "errors"

// Lookup failures surfaced to callers as NotFound.
var (
	ErrMortgageNotFound         = errors.New("mortgage not found")
	ErrAdjustmentNotFound       = errors.New("adjustment not found")
	ErrNoMortgages              = errors.New("no mortgages found for user")
	ErrNoActiveMortgage         = errors.New("no active mortgage found for user")
	ErrFinancialProfileNotFound = errors.New("financial profile not found")
)

// ErrAdjustmentLimitReached is returned by the adjustment store when a
// mortgage already holds the maximum number of adjustments for the trailing
// year at the moment of insertion.
var ErrAdjustmentLimitReached = errors.New("adjustment limit reached for mortgage")

// IsNotFound reports whether err is one of the lookup failures above.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMortgageNotFound) ||
		errors.Is(err, ErrAdjustmentNotFound) ||
		errors.Is(err, ErrNoMortgages) ||
		errors.Is(err, ErrNoActiveMortgage) ||
		errors.Is(err, ErrFinancialProfileNotFound)
}
