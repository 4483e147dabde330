// Package validation checks request DTOs before they reach the use cases.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgageflex/internal/application/dto"
)

var (
	userIDPattern          = regexp.MustCompile(`^USER\d{5}$`)
	mortgageAccountPattern = regexp.MustCompile(`^MORT\d{5}$`)
)

// Error lists the offending fields by their JSON name.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator wraps a configured validator.Validate. The clock decides what
// "future" means for date fields.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

func New(now func() time.Time) *Validator {
	v := &Validator{validate: validator.New(validator.WithRequiredStructEnabled()), now: now}

	v.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Decimals are validated through their canonical string and dates through
	// the wrapped time so the custom tags see comparable values.
	v.validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	v.validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(dto.Date); ok {
			return d.Time
		}
		return nil
	}, dto.Date{})

	mustRegister(v.validate, "user_id", matches(userIDPattern))
	mustRegister(v.validate, "mortgage_account", matches(mortgageAccountPattern))
	mustRegister(v.validate, "dec_min", compareDecimal(func(c int) bool { return c >= 0 }))
	mustRegister(v.validate, "dec_max", compareDecimal(func(c int) bool { return c <= 0 }))
	mustRegister(v.validate, "dec_positive", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && d.IsPositive()
	})
	mustRegister(v.validate, "future_date", v.futureDate)

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// compareDecimal checks the field against the tag parameter; ok receives
// field.Cmp(param).
func compareDecimal(ok func(int) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		bound, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}
		return ok(value.Cmp(bound))
	}
}

// futureDate accepts calendar dates strictly after today.
func (v *Validator) futureDate(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok || t.IsZero() {
		return false
	}
	y, m, d := v.now().UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return t.After(today)
}

// Struct validates req and returns *Error describing every failed field.
func (v *Validator) Struct(req any) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate request: %w", err)
	}

	out := &Error{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields[fe.Field()] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "user_id":
		return "must match USER followed by five digits"
	case "mortgage_account":
		return "must match MORT followed by five digits"
	case "dec_min", "min":
		return "must be at least " + fe.Param()
	case "dec_max", "max":
		return "must be at most " + fe.Param()
	case "dec_positive":
		return "must be greater than zero"
	case "future_date":
		return "must be a date after today"
	default:
		return "failed " + fe.Tag()
	}
}
