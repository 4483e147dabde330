package valueobject

import "fmt"

// RepaymentStrategy describes how deferred amounts are recovered once the
// reduced-payment period ends. The zero value means no preference.
type RepaymentStrategy struct {
	value string
}

const (
	strategySpreadEvenly = "SPREAD_EVENLY"
	strategyBackLoaded   = "BACK_LOADED"
	strategyFrontLoaded  = "FRONT_LOADED"
	strategyFlexible     = "FLEXIBLE"
)

var (
	RepaymentStrategySpreadEvenly = RepaymentStrategy{value: strategySpreadEvenly}
	RepaymentStrategyBackLoaded   = RepaymentStrategy{value: strategyBackLoaded}
	RepaymentStrategyFrontLoaded  = RepaymentStrategy{value: strategyFrontLoaded}
	RepaymentStrategyFlexible     = RepaymentStrategy{value: strategyFlexible}
)

var validRepaymentStrategies = map[string]RepaymentStrategy{
	strategySpreadEvenly: RepaymentStrategySpreadEvenly,
	strategyBackLoaded:   RepaymentStrategyBackLoaded,
	strategyFrontLoaded:  RepaymentStrategyFrontLoaded,
	strategyFlexible:     RepaymentStrategyFlexible,
}

// NewRepaymentStrategy parses a repayment strategy. An empty string yields
// the zero value.
func NewRepaymentStrategy(s string) (RepaymentStrategy, error) {
	if s == "" {
		return RepaymentStrategy{}, nil
	}
	v, ok := validRepaymentStrategies[s]
	if !ok {
		return RepaymentStrategy{}, fmt.Errorf("invalid repayment strategy: %q", s)
	}
	return v, nil
}

func (r RepaymentStrategy) String() string { return r.value }

func (r RepaymentStrategy) IsZero() bool { return r.value == "" }

func (r RepaymentStrategy) Equal(other RepaymentStrategy) bool { return r.value == other.value }

// MarshalText implements encoding.TextMarshaler.
func (r RepaymentStrategy) MarshalText() ([]byte, error) { return []byte(r.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler. Empty input leaves the
// value unset.
func (r *RepaymentStrategy) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*r = RepaymentStrategy{}
		return nil
	}
	v, err := NewRepaymentStrategy(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
