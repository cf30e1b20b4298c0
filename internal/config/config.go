// Package config defines the data structures related to configuration and
// includes functions for loading and converting the config into engine types.
package config

import (
	"fmt"

	"github.com/loansim/loan-simulator/pkg/compare"
	"github.com/loansim/loan-simulator/pkg/constants"
	"github.com/loansim/loan-simulator/pkg/prepayment"
	"github.com/loansim/loan-simulator/pkg/ratemath"
	"github.com/loansim/loan-simulator/pkg/schedule"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for loan-simulator. Each analysis
// section is optional; only the configured ones are run.
type Configuration struct {
	Loan        *LoanConfig
	Prepayments []PrepaymentConfig
	Borrowing   *BorrowingConfig
	Offers      []OfferConfig
	Logging     LoggingConfig `yaml:"logging,omitempty"`
	Output      OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// LoanConfig describes the loan whose schedule should be generated.
// Amounts are in the smallest currency unit; rates are percentages.
type LoanConfig struct {
	Principal   int64
	AnnualRate  float64
	Years       int
	ExtraMonths int
	Method      string // equalPayment (default), equalPrincipal
	Bonus       *BonusConfig
}

// BonusConfig describes periodic extra installments on the loan.
type BonusConfig struct {
	Amount int64
	Months []int // months of the year, 1..12
}

// PrepaymentConfig describes one extra lump-sum payment against the loan.
type PrepaymentConfig struct {
	Period int
	Amount int64
	Policy string // shortenTerm (default), reducePayment
}

// BorrowingConfig describes a reverse calculation: the principal affordable
// at the given payments.
type BorrowingConfig struct {
	MonthlyPayment int64
	BonusPayment   int64
	AnnualRate     float64
	Years          int
	ExtraMonths    int
	BonusMonths    []int
}

// OfferConfig describes one loan offer for comparison.
type OfferConfig struct {
	Name         string
	Principal    int64
	AnnualRate   float64
	Years        int
	ExtraMonths  int
	Method       string
	FlatFee      int64
	FeeRate      float64 // percent of principal
	GuaranteeFee int64
	OtherFees    int64
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

func parseMethod(method string) (schedule.RepaymentMethod, error) {
	if method == "" {
		return schedule.EqualPayment, nil
	}
	return schedule.ParseMethod(method)
}

// Terms converts the loan section into engine terms.
func (l *LoanConfig) Terms() (schedule.LoanTerms, error) {
	method, err := parseMethod(l.Method)
	if err != nil {
		return schedule.LoanTerms{}, err
	}
	terms := schedule.LoanTerms{
		Principal:    l.Principal,
		AnnualRate:   l.AnnualRate,
		TotalPeriods: ratemath.TotalPeriods(l.Years, l.ExtraMonths),
		Method:       method,
	}
	return terms, terms.Validate()
}

// BonusTerms converts the bonus section into engine terms, or nil when no
// bonus installments are configured.
func (l *LoanConfig) BonusTerms() *schedule.BonusConfig {
	if l.Bonus == nil {
		return nil
	}
	return &schedule.BonusConfig{
		Amount:       l.Bonus.Amount,
		MonthsOfYear: l.Bonus.Months,
	}
}

// Event converts one prepayment section into an engine event.
func (p PrepaymentConfig) Event() (prepayment.Event, error) {
	policy := prepayment.ShortenTerm
	if p.Policy != "" {
		parsed, err := prepayment.ParsePolicy(p.Policy)
		if err != nil {
			return prepayment.Event{}, err
		}
		policy = parsed
	}
	return prepayment.Event{
		AtPeriod: p.Period,
		Amount:   p.Amount,
		Policy:   policy,
	}, nil
}

// Offer converts one offer section into an engine offer.
func (o OfferConfig) Offer() (compare.Offer, error) {
	method, err := parseMethod(o.Method)
	if err != nil {
		return compare.Offer{}, err
	}
	return compare.Offer{
		Name: o.Name,
		Terms: schedule.LoanTerms{
			Principal:    o.Principal,
			AnnualRate:   o.AnnualRate,
			TotalPeriods: ratemath.TotalPeriods(o.Years, o.ExtraMonths),
			Method:       method,
		},
		FlatFee:        o.FlatFee,
		FeeRatePercent: o.FeeRate,
		GuaranteeFee:   o.GuaranteeFee,
		OtherFees:      o.OtherFees,
	}, nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Hard errors surface later when the engine rejects the
// converted values.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Loan == nil && c.Borrowing == nil && len(c.Offers) == 0 {
		warnings = append(warnings, "no loan, borrowing, or offers section is configured; nothing to compute")
	}
	if len(c.Prepayments) > 0 && c.Loan == nil {
		warnings = append(warnings, "prepayments are configured but no loan section exists; they will be ignored")
	}
	if c.Loan != nil && c.Loan.Bonus != nil && len(c.Loan.Bonus.Months) == 0 {
		warnings = append(warnings, "loan bonus section has no months configured")
	}
	if c.Borrowing != nil && c.Borrowing.BonusPayment > 0 && len(c.Borrowing.BonusMonths) == 0 {
		warnings = append(warnings, "borrowing bonusPayment is set but bonusMonths is empty")
	}
	if len(c.Offers) > constants.MaxComparisonOffers {
		warnings = append(warnings, fmt.Sprintf("more than %d offers are configured; the comparison will be rejected",
			constants.MaxComparisonOffers))
	}

	return warnings
}
