package valueobject

import "fmt"

// PressureType is the categorical reason behind a customer's financial
// hardship. The zero value means no reason was given.
type PressureType struct {
	value string
}

const (
	pressureEducation        = "EDUCATION"
	pressureMedicalExpenses  = "MEDICAL_EXPENSES"
	pressureHomeRepairs      = "HOME_REPAIRS"
	pressureFamilyEmergency  = "FAMILY_EMERGENCY"
	pressureCareerTransition = "CAREER_TRANSITION"
	pressureOther            = "OTHER"
)

var (
	PressureTypeEducation        = PressureType{value: pressureEducation}
	PressureTypeMedicalExpenses  = PressureType{value: pressureMedicalExpenses}
	PressureTypeHomeRepairs      = PressureType{value: pressureHomeRepairs}
	PressureTypeFamilyEmergency  = PressureType{value: pressureFamilyEmergency}
	PressureTypeCareerTransition = PressureType{value: pressureCareerTransition}
	PressureTypeOther            = PressureType{value: pressureOther}
)

var validPressureTypes = map[string]PressureType{
	pressureEducation:        PressureTypeEducation,
	pressureMedicalExpenses:  PressureTypeMedicalExpenses,
	pressureHomeRepairs:      PressureTypeHomeRepairs,
	pressureFamilyEmergency:  PressureTypeFamilyEmergency,
	pressureCareerTransition: PressureTypeCareerTransition,
	pressureOther:            PressureTypeOther,
}

// NewPressureType parses a pressure type. An empty string yields the zero
// value, since the field is optional on every request.
func NewPressureType(s string) (PressureType, error) {
	if s == "" {
		return PressureType{}, nil
	}
	v, ok := validPressureTypes[s]
	if !ok {
		return PressureType{}, fmt.Errorf("invalid pressure type: %q", s)
	}
	return v, nil
}

// String returns the string representation of the pressure type.
func (p PressureType) String() string { return p.value }

// IsZero returns true if no pressure type was supplied.
func (p PressureType) IsZero() bool { return p.value == "" }

// Equal returns true when both pressure types carry the same value.
func (p PressureType) Equal(other PressureType) bool { return p.value == other.value }

// MarshalText implements encoding.TextMarshaler.
func (p PressureType) MarshalText() ([]byte, error) { return []byte(p.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler. Empty input leaves the
// value unset.
func (p *PressureType) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*p = PressureType{}
		return nil
	}
	v, err := NewPressureType(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
