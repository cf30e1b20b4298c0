package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/loansim/loan-simulator/pkg/prepayment"
	"github.com/loansim/loan-simulator/pkg/schedule"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	path := writeConfig(t, `---
loan:
  principal: 30000000
  annualRate: 1.5
  years: 35
  method: equalPayment
  bonus:
    amount: 5000000
    months: [6, 12]
prepayments:
  - period: 60
    amount: 1000000
    policy: shortenTerm
borrowing:
  monthlyPayment: 91855
  annualRate: 1.5
  years: 35
offers:
  - name: bank A
    principal: 30000000
    annualRate: 1.5
    years: 35
    flatFee: 330000
  - name: bank B
    principal: 30000000
    annualRate: 1.4
    years: 35
    feeRate: 2.2
logging:
  level: debug
  format: console
output:
  format: pretty
`)

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Loan == nil {
		t.Fatalf("Loan section not loaded")
	}
	if conf.Loan.Principal != 30000000 {
		t.Errorf("Loan.Principal = %d, expected 30000000", conf.Loan.Principal)
	}
	if conf.Loan.Bonus == nil || conf.Loan.Bonus.Amount != 5000000 {
		t.Errorf("Loan.Bonus not loaded correctly: %+v", conf.Loan.Bonus)
	}
	if len(conf.Prepayments) != 1 || conf.Prepayments[0].Period != 60 {
		t.Errorf("Prepayments not loaded correctly: %+v", conf.Prepayments)
	}
	if conf.Borrowing == nil || conf.Borrowing.MonthlyPayment != 91855 {
		t.Errorf("Borrowing not loaded correctly: %+v", conf.Borrowing)
	}
	if len(conf.Offers) != 2 || conf.Offers[1].FeeRate != 2.2 {
		t.Errorf("Offers not loaded correctly: %+v", conf.Offers)
	}
	if conf.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, expected %q", conf.Logging.Level, "debug")
	}
	if conf.Output.Format != "pretty" {
		t.Errorf("Output.Format = %q, expected %q", conf.Output.Format, "pretty")
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Errorf("LoadConfiguration() expected error for missing file")
	}
}

func TestLoanConfigTerms(t *testing.T) {
	loan := LoanConfig{
		Principal:   30000000,
		AnnualRate:  1.5,
		Years:       35,
		ExtraMonths: 0,
	}

	terms, err := loan.Terms()
	if err != nil {
		t.Fatalf("Terms() error = %v", err)
	}
	if terms.TotalPeriods != 420 {
		t.Errorf("TotalPeriods = %d, expected 420", terms.TotalPeriods)
	}
	if terms.Method != schedule.EqualPayment {
		t.Errorf("Method = %v, expected default equalPayment", terms.Method)
	}

	loan.Method = "equalPrincipal"
	loan.ExtraMonths = 6
	terms, err = loan.Terms()
	if err != nil {
		t.Fatalf("Terms() error = %v", err)
	}
	if terms.TotalPeriods != 426 {
		t.Errorf("TotalPeriods = %d, expected 426", terms.TotalPeriods)
	}
	if terms.Method != schedule.EqualPrincipal {
		t.Errorf("Method = %v, expected equalPrincipal", terms.Method)
	}

	loan.Method = "balloon"
	if _, err := loan.Terms(); err == nil {
		t.Errorf("Terms() expected error for unknown method")
	}

	loan.Method = ""
	loan.Principal = 0
	if _, err := loan.Terms(); err == nil {
		t.Errorf("Terms() expected error for zero principal")
	}
}

func TestPrepaymentConfigEvent(t *testing.T) {
	event, err := PrepaymentConfig{Period: 60, Amount: 1000000}.Event()
	if err != nil {
		t.Fatalf("Event() error = %v", err)
	}
	if event.Policy != prepayment.ShortenTerm {
		t.Errorf("Policy = %v, expected default shortenTerm", event.Policy)
	}

	event, err = PrepaymentConfig{Period: 60, Amount: 1000000, Policy: "reducePayment"}.Event()
	if err != nil {
		t.Fatalf("Event() error = %v", err)
	}
	if event.Policy != prepayment.ReducePayment {
		t.Errorf("Policy = %v, expected reducePayment", event.Policy)
	}

	if _, err := (PrepaymentConfig{Period: 60, Amount: 1000000, Policy: "defer"}).Event(); err == nil {
		t.Errorf("Event() expected error for unknown policy")
	}
}

func TestOfferConfigOffer(t *testing.T) {
	offer, err := OfferConfig{
		Name:       "bank A",
		Principal:  30000000,
		AnnualRate: 1.5,
		Years:      35,
		FeeRate:    2.2,
	}.Offer()
	if err != nil {
		t.Fatalf("Offer() error = %v", err)
	}
	if offer.Terms.TotalPeriods != 420 {
		t.Errorf("Terms.TotalPeriods = %d, expected 420", offer.Terms.TotalPeriods)
	}
	if offer.FeeRatePercent != 2.2 {
		t.Errorf("FeeRatePercent = %v, expected 2.2", offer.FeeRatePercent)
	}
}

func TestValidateConfiguration(t *testing.T) {
	tests := []struct {
		name             string
		conf             Configuration
		expectedWarnings int
	}{
		{
			name:             "Empty configuration",
			conf:             Configuration{},
			expectedWarnings: 1,
		},
		{
			name: "Prepayments without loan",
			conf: Configuration{
				Prepayments: []PrepaymentConfig{{Period: 60, Amount: 1000000}},
				Borrowing:   &BorrowingConfig{MonthlyPayment: 100000, Years: 10},
			},
			expectedWarnings: 1,
		},
		{
			name: "Bonus without months",
			conf: Configuration{
				Loan: &LoanConfig{
					Principal:  30000000,
					AnnualRate: 1.5,
					Years:      35,
					Bonus:      &BonusConfig{Amount: 5000000},
				},
			},
			expectedWarnings: 1,
		},
		{
			name: "Borrowing bonus payment without months",
			conf: Configuration{
				Borrowing: &BorrowingConfig{
					MonthlyPayment: 91855,
					BonusPayment:   100000,
					AnnualRate:     1.5,
					Years:          35,
				},
			},
			expectedWarnings: 1,
		},
		{
			name: "Too many offers",
			conf: Configuration{
				Offers: make([]OfferConfig, 6),
			},
			expectedWarnings: 1,
		},
		{
			name: "Valid loan only",
			conf: Configuration{
				Loan: &LoanConfig{Principal: 30000000, AnnualRate: 1.5, Years: 35},
			},
			expectedWarnings: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := tt.conf.ValidateConfiguration()
			if len(warnings) != tt.expectedWarnings {
				t.Errorf("got %d warnings %v, expected %d", len(warnings), warnings, tt.expectedWarnings)
			}
		})
	}
}
