package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// MortgageType
// ---------------------------------------------------------------------------

// MortgageType classifies how a mortgage's rate behaves over its life.
type MortgageType struct {
	value string
}

const (
	mortgageTypeFixedRate        = "FIXED_RATE"
	mortgageTypeVariableRate     = "VARIABLE_RATE"
	mortgageTypeHybrid           = "HYBRID"
	mortgageTypeGovernmentBacked = "GOVERNMENT_BACKED"
)

var (
	MortgageTypeFixedRate        = MortgageType{value: mortgageTypeFixedRate}
	MortgageTypeVariableRate     = MortgageType{value: mortgageTypeVariableRate}
	MortgageTypeHybrid           = MortgageType{value: mortgageTypeHybrid}
	MortgageTypeGovernmentBacked = MortgageType{value: mortgageTypeGovernmentBacked}
)

var validMortgageTypes = map[string]MortgageType{
	mortgageTypeFixedRate:        MortgageTypeFixedRate,
	mortgageTypeVariableRate:     MortgageTypeVariableRate,
	mortgageTypeHybrid:           MortgageTypeHybrid,
	mortgageTypeGovernmentBacked: MortgageTypeGovernmentBacked,
}

// NewMortgageType creates a MortgageType from a raw string.
func NewMortgageType(s string) (MortgageType, error) {
	v, ok := validMortgageTypes[s]
	if !ok {
		return MortgageType{}, fmt.Errorf("invalid mortgage type: %q", s)
	}
	return v, nil
}

func (m MortgageType) String() string { return m.value }

func (m MortgageType) IsZero() bool { return m.value == "" }

func (m MortgageType) Equal(other MortgageType) bool { return m.value == other.value }

// ---------------------------------------------------------------------------
// EmploymentStatus
// ---------------------------------------------------------------------------

// EmploymentStatus is the employment situation recorded on a financial profile.
type EmploymentStatus struct {
	value string
}

const (
	employmentFullTime     = "FULL_TIME"
	employmentPartTime     = "PART_TIME"
	employmentSelfEmployed = "SELF_EMPLOYED"
	employmentContractor   = "CONTRACTOR"
	employmentUnemployed   = "UNEMPLOYED"
	employmentRetired      = "RETIRED"
)

var (
	EmploymentStatusFullTime     = EmploymentStatus{value: employmentFullTime}
	EmploymentStatusPartTime     = EmploymentStatus{value: employmentPartTime}
	EmploymentStatusSelfEmployed = EmploymentStatus{value: employmentSelfEmployed}
	EmploymentStatusContractor   = EmploymentStatus{value: employmentContractor}
	EmploymentStatusUnemployed   = EmploymentStatus{value: employmentUnemployed}
	EmploymentStatusRetired      = EmploymentStatus{value: employmentRetired}
)

var validEmploymentStatuses = map[string]EmploymentStatus{
	employmentFullTime:     EmploymentStatusFullTime,
	employmentPartTime:     EmploymentStatusPartTime,
	employmentSelfEmployed: EmploymentStatusSelfEmployed,
	employmentContractor:   EmploymentStatusContractor,
	employmentUnemployed:   EmploymentStatusUnemployed,
	employmentRetired:      EmploymentStatusRetired,
}

// NewEmploymentStatus creates an EmploymentStatus from a raw string.
func NewEmploymentStatus(s string) (EmploymentStatus, error) {
	v, ok := validEmploymentStatuses[s]
	if !ok {
		return EmploymentStatus{}, fmt.Errorf("invalid employment status: %q", s)
	}
	return v, nil
}

func (e EmploymentStatus) String() string { return e.value }

func (e EmploymentStatus) IsZero() bool { return e.value == "" }

func (e EmploymentStatus) Equal(other EmploymentStatus) bool { return e.value == other.value }
