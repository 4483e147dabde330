package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bibbank/mortgageflex/internal/application/dto"
	"github.com/bibbank/mortgageflex/internal/domain/model"
	"github.com/bibbank/mortgageflex/internal/domain/valueobject"
	"github.com/bibbank/mortgageflex/internal/infrastructure/config"
	pgrepo "github.com/bibbank/mortgageflex/internal/infrastructure/postgres"
	pkgpostgres "github.com/bibbank/mortgageflex/pkg/postgres"
)

type seedFile struct {
	Mortgages []seedMortgage `yaml:"mortgages"`
	Profiles  []seedProfile  `yaml:"profiles"`
}

type seedMortgage struct {
	ID                  string          `yaml:"id"`
	AccountNumber       string          `yaml:"account_number"`
	UserID              string          `yaml:"user_id"`
	OriginalLoanAmount  decimal.Decimal `yaml:"original_loan_amount"`
	CurrentBalance      decimal.Decimal `yaml:"current_balance"`
	InterestRate        decimal.Decimal `yaml:"interest_rate"`
	OriginalTermMonths  int             `yaml:"original_term_months"`
	RemainingTermMonths int             `yaml:"remaining_term_months"`
	MonthlyPayment      decimal.Decimal `yaml:"monthly_payment"`
	MortgageType        string          `yaml:"mortgage_type"`
	LoanStartDate       string          `yaml:"loan_start_date"`
	NextPaymentDate     string          `yaml:"next_payment_date"`
	Active              *bool           `yaml:"active"`
}

type seedProfile struct {
	UserID             string          `yaml:"user_id"`
	TotalAnnualIncome  decimal.Decimal `yaml:"total_annual_income"`
	CreditScore        int             `yaml:"credit_score"`
	DebtToIncomeRatio  decimal.Decimal `yaml:"debt_to_income_ratio"`
	EmploymentStatus   string          `yaml:"employment_status"`
	StabilityScore     float64         `yaml:"stability_score"`
	LastAssessmentDate string          `yaml:"last_assessment_date"`
}

type mortgageUpserter interface {
	Upsert(ctx context.Context, m model.Mortgage) error
}

type profileUpserter interface {
	Upsert(ctx context.Context, p model.FinancialProfile) error
}

func loadSeed(r io.Reader) (seedFile, error) {
	var f seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return seedFile{}, fmt.Errorf("decode seed file: %w", err)
	}
	return f, nil
}

func optionalDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := dto.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", field, err)
	}
	return d.Time, nil
}

func (s seedMortgage) toModel() (model.Mortgage, error) {
	var errs []error
	mortgageType, err := valueobject.NewMortgageType(s.MortgageType)
	if err != nil {
		errs = append(errs, fmt.Errorf("mortgage_type: %w", err))
	}
	start, err := optionalDate("loan_start_date", s.LoanStartDate)
	if err != nil {
		errs = append(errs, err)
	}
	next, err := optionalDate("next_payment_date", s.NextPaymentDate)
	if err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return model.Mortgage{}, err
	}

	id := s.ID
	if id == "" {
		id = uuid.NewSHA1(uuid.NameSpaceOID, []byte(s.AccountNumber)).String()
	}
	return model.NewMortgage(model.MortgageAttrs{
		ID:                  id,
		AccountNumber:       s.AccountNumber,
		UserID:              s.UserID,
		OriginalLoanAmount:  s.OriginalLoanAmount,
		CurrentBalance:      s.CurrentBalance,
		InterestRate:        s.InterestRate,
		OriginalTermMonths:  s.OriginalTermMonths,
		RemainingTermMonths: s.RemainingTermMonths,
		MonthlyPayment:      s.MonthlyPayment,
		MortgageType:        mortgageType,
		LoanStartDate:       start,
		NextPaymentDate:     next,
		Active:              s.Active == nil || *s.Active,
	})
}

func (s seedProfile) toModel() (model.FinancialProfile, error) {
	if s.UserID == "" {
		return model.FinancialProfile{}, errors.New("user_id is required")
	}
	if s.CreditScore < 300 || s.CreditScore > 850 {
		return model.FinancialProfile{}, fmt.Errorf("credit_score %d outside 300-850", s.CreditScore)
	}
	employment, err := valueobject.NewEmploymentStatus(s.EmploymentStatus)
	if err != nil {
		return model.FinancialProfile{}, fmt.Errorf("employment_status: %w", err)
	}
	assessed, err := optionalDate("last_assessment_date", s.LastAssessmentDate)
	if err != nil {
		return model.FinancialProfile{}, err
	}
	return model.ReconstructFinancialProfile(
		s.UserID,
		s.TotalAnnualIncome,
		s.CreditScore,
		s.DebtToIncomeRatio,
		employment,
		s.StabilityScore,
		assessed,
	), nil
}

// applySeed validates every record before writing any of them.
func applySeed(ctx context.Context, f seedFile, mortgages mortgageUpserter, profiles profileUpserter) (int, int, error) {
	var errs []error
	ms := make([]model.Mortgage, 0, len(f.Mortgages))
	for i, s := range f.Mortgages {
		m, err := s.toModel()
		if err != nil {
			errs = append(errs, fmt.Errorf("mortgages[%d]: %w", i, err))
			continue
		}
		ms = append(ms, m)
	}
	ps := make([]model.FinancialProfile, 0, len(f.Profiles))
	for i, s := range f.Profiles {
		p, err := s.toModel()
		if err != nil {
			errs = append(errs, fmt.Errorf("profiles[%d]: %w", i, err))
			continue
		}
		ps = append(ps, p)
	}
	if err := errors.Join(errs...); err != nil {
		return 0, 0, err
	}

	for _, p := range ps {
		if err := profiles.Upsert(ctx, p); err != nil {
			return 0, 0, fmt.Errorf("upsert profile %s: %w", p.UserID(), err)
		}
	}
	for _, m := range ms {
		if err := mortgages.Upsert(ctx, m); err != nil {
			return 0, len(ps), fmt.Errorf("upsert mortgage %s: %w", m.AccountNumber(), err)
		}
	}
	return len(ms), len(ps), nil
}

func seedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load mortgages and financial profiles from a YAML file",
		Long: `Load mortgages and financial profiles from a YAML file.

Records are upserted, so running the same file twice is harmless.

  profiles:
    - user_id: USER001
      total_annual_income: 120000
      credit_score: 720
      debt_to_income_ratio: 35
      employment_status: FULL_TIME
      stability_score: 0.8
  mortgages:
    - account_number: MORT12345
      user_id: USER001
      original_loan_amount: 500000
      current_balance: 250000
      interest_rate: 3.75
      original_term_months: 360
      remaining_term_months: 300
      monthly_payment: 6000
      mortgage_type: FIXED_RATE`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open seed file: %w", err)
			}
			defer in.Close()
			f, err := loadSeed(in)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := pkgpostgres.Open(ctx, config.Load().Postgres())
			if err != nil {
				return err
			}
			defer pool.Close()

			nm, np, err := applySeed(ctx, f, pgrepo.NewMortgageRepo(pool), pgrepo.NewFinancialProfileRepo(pool))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d mortgages and %d profiles\n", nm, np)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML seed file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
