package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
)

// AssertDecimal fails the test when got is not numerically equal to want.
// Trailing zeros are ignored, so "4500" matches 4500.00.
func AssertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	w, err := decimal.NewFromString(want)
	if err != nil {
		t.Fatalf("invalid expected decimal %q: %v", want, err)
	}
	if !w.Equal(got) {
		if len(msgAndArgs) > 0 {
			t.Errorf("decimal mismatch: want %s, got %s (%v)", w, got, msgAndArgs)
			return
		}
		t.Errorf("decimal mismatch: want %s, got %s", w, got)
	}
}
