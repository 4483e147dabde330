package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bibbank/mortgageflex/internal/application/dto"
	"github.com/bibbank/mortgageflex/internal/application/usecase"
	"github.com/bibbank/mortgageflex/internal/domain/model"
	"github.com/bibbank/mortgageflex/internal/domain/valueobject"
	"github.com/bibbank/mortgageflex/pkg/money"
)

// scenario is an offline simulation input.
type scenario struct {
	Mortgage struct {
		MonthlyPayment      decimal.Decimal `yaml:"monthly_payment"`
		CurrentBalance      decimal.Decimal `yaml:"current_balance"`
		InterestRate        decimal.Decimal `yaml:"interest_rate"`
		RemainingTermMonths int             `yaml:"remaining_term_months"`
	} `yaml:"mortgage"`
	Adjustment struct {
		Reduction      decimal.Decimal `yaml:"reduction"`
		StartDate      string          `yaml:"start_date"`
		DurationMonths int             `yaml:"duration_months"`
		Strategy       string          `yaml:"strategy"`
	} `yaml:"adjustment"`
	RiskScore float64 `yaml:"risk_score"`
	Eligible  *bool   `yaml:"eligible"`
}

func loadScenario(r io.Reader) (scenario, error) {
	var s scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return scenario{}, fmt.Errorf("decode scenario: %w", err)
	}
	return s, nil
}

// request validates the scenario and converts it to the mortgage and
// simulation request the projector expects.
func (s scenario) request() (model.Mortgage, dto.SimulationRequest, error) {
	var errs []error
	if !s.Mortgage.MonthlyPayment.IsPositive() {
		errs = append(errs, errors.New("mortgage.monthly_payment must be positive"))
	}
	if s.Mortgage.CurrentBalance.IsNegative() {
		errs = append(errs, errors.New("mortgage.current_balance must not be negative"))
	}
	if s.Mortgage.RemainingTermMonths < 0 {
		errs = append(errs, errors.New("mortgage.remaining_term_months must not be negative"))
	}
	if !s.Adjustment.Reduction.IsPositive() {
		errs = append(errs, errors.New("adjustment.reduction must be positive"))
	}
	if s.Adjustment.DurationMonths < 1 || s.Adjustment.DurationMonths > 12 {
		errs = append(errs, errors.New("adjustment.duration_months must be between 1 and 12"))
	}
	start, err := dto.ParseDate(s.Adjustment.StartDate)
	if err != nil {
		errs = append(errs, fmt.Errorf("adjustment.start_date: %w", err))
	}
	var strategy valueobject.RepaymentStrategy
	if s.Adjustment.Strategy != "" {
		if strategy, err = valueobject.NewRepaymentStrategy(s.Adjustment.Strategy); err != nil {
			errs = append(errs, fmt.Errorf("adjustment.strategy: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return model.Mortgage{}, dto.SimulationRequest{}, err
	}

	mortgage := model.ReconstructMortgage(model.MortgageAttrs{
		AccountNumber:       "MORT00000",
		OriginalLoanAmount:  s.Mortgage.CurrentBalance,
		CurrentBalance:      s.Mortgage.CurrentBalance,
		InterestRate:        s.Mortgage.InterestRate,
		RemainingTermMonths: s.Mortgage.RemainingTermMonths,
		MonthlyPayment:      s.Mortgage.MonthlyPayment,
		Active:              true,
	})
	req := dto.SimulationRequest{
		MortgageAccountNumber:   mortgage.AccountNumber(),
		ProposedReductionAmount: s.Adjustment.Reduction,
		ProposedStartDate:       start,
		DurationMonths:          s.Adjustment.DurationMonths,
		RepaymentStrategy:       strategy,
	}
	return mortgage, req, nil
}

func simulateCmd() *cobra.Command {
	var (
		file    string
		output  string
		s       scenario
		payment string
		balance string
		rate    string
		reduce  string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Project a payment reduction without touching the database",
		Long: `Project a temporary payment reduction offline.

Describe the mortgage and the adjustment with flags, or with a YAML scenario:

  mortgage:
    monthly_payment: 6000.00
    current_balance: 250000
    interest_rate: 3.75
    remaining_term_months: 300
  adjustment:
    reduction: 1500
    start_date: "2025-07-01"
    duration_months: 6
  risk_score: 0.3

Examples:
  mortgagectl simulate --file scenario.yaml
  mortgagectl simulate --payment 6000 --balance 250000 --rate 3.75 --term 300 \
      --reduction 1500 --start 2025-07-01 --months 6 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("open scenario: %w", err)
				}
				defer f.Close()
				if s, err = loadScenario(f); err != nil {
					return err
				}
			} else {
				for _, p := range []struct {
					raw  string
					dst  *decimal.Decimal
					name string
				}{
					{payment, &s.Mortgage.MonthlyPayment, "payment"},
					{balance, &s.Mortgage.CurrentBalance, "balance"},
					{reduce, &s.Adjustment.Reduction, "reduction"},
				} {
					v, err := money.Parse(p.raw)
					if err != nil {
						return fmt.Errorf("--%s: %w", p.name, err)
					}
					*p.dst = v
				}
				v, err := decimal.NewFromString(rate)
				if err != nil {
					return fmt.Errorf("--rate: %w", err)
				}
				s.Mortgage.InterestRate = v
			}

			mortgage, req, err := s.request()
			if err != nil {
				return err
			}
			eligible := s.Eligible == nil || *s.Eligible
			result := usecase.Simulate(mortgage, req, s.RiskScore, eligible)
			return writeSimulation(cmd.OutOrStdout(), output, result)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&file, "file", "f", "", "YAML scenario file")
	f.StringVarP(&output, "output", "o", "table", "output format: table or json")
	f.StringVar(&payment, "payment", "0", "current monthly payment")
	f.StringVar(&balance, "balance", "0", "current balance")
	f.StringVar(&rate, "rate", "0", "annual interest rate in percent")
	f.IntVar(&s.Mortgage.RemainingTermMonths, "term", 0, "remaining term in months")
	f.StringVar(&reduce, "reduction", "0", "monthly reduction")
	f.StringVar(&s.Adjustment.StartDate, "start", "", "first reduced month, YYYY-MM-DD")
	f.IntVar(&s.Adjustment.DurationMonths, "months", 1, "number of reduced months")
	f.StringVar(&s.Adjustment.Strategy, "strategy", "", "repayment strategy")
	f.Float64Var(&s.RiskScore, "risk-score", 0, "risk score to report in the result")
	cmd.MarkFlagsMutuallyExclusive("file", "payment")
	cmd.MarkFlagsMutuallyExclusive("file", "reduction")
	return cmd
}

func writeSimulation(w io.Writer, format string, r dto.SimulationResponse) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "table":
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Adjusted payment:\t%s\n", r.ProjectedAdjustedPayment.StringFixed(2))
	fmt.Fprintf(tw, "Recovery payment:\t%s\n", r.PostAdjustmentMonthlyPayment.StringFixed(2))
	fmt.Fprintf(tw, "Additional interest:\t%s\n", r.TotalAdditionalInterest.StringFixed(2))
	fmt.Fprintf(tw, "Loan term impact:\t%d months\n", r.ProjectedLoanTermImpact)
	fmt.Fprintf(tw, "Eligible:\t%t\n", r.EligibleForAdjustment)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "MONTH\tPAYMENT\tPRINCIPAL\tINTEREST")
	for _, p := range r.MonthlyProjections {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Month,
			p.ProjectedPayment.StringFixed(2), p.PrincipalPortion.StringFixed(2), p.InterestPortion.StringFixed(2))
	}
	for _, s := range r.ImprovementSuggestions {
		fmt.Fprintf(tw, "\nSuggestion: %s\n", s)
	}
	return tw.Flush()
}
