// Package schedule generates period-by-period repayment schedules for
// fixed-term installment loans. All currency values are int64 amounts in the
// smallest currency unit; rates are decimal percentages (1.5 means 1.5%).
package schedule

import (
	"fmt"
	"math"

	"github.com/loansim/loan-simulator/pkg/constants"
	"github.com/loansim/loan-simulator/pkg/ratemath"
)

// RepaymentMethod selects how the principal is repaid over the term.
type RepaymentMethod int

const (
	// EqualPayment keeps the total payment constant each period (annuity).
	EqualPayment RepaymentMethod = iota
	// EqualPrincipal keeps the principal portion constant each period.
	EqualPrincipal
)

// String returns the configuration name of the method.
func (m RepaymentMethod) String() string {
	switch m {
	case EqualPayment:
		return "equalPayment"
	case EqualPrincipal:
		return "equalPrincipal"
	default:
		return fmt.Sprintf("RepaymentMethod(%d)", int(m))
	}
}

// ParseMethod converts a configuration string into a RepaymentMethod.
func ParseMethod(s string) (RepaymentMethod, error) {
	switch s {
	case "equalPayment":
		return EqualPayment, nil
	case "equalPrincipal":
		return EqualPrincipal, nil
	default:
		return EqualPayment, fmt.Errorf("expected repayment method of %s or %s, got %q",
			EqualPayment, EqualPrincipal, s)
	}
}

// LoanTerms describes one loan. Immutable once constructed.
type LoanTerms struct {
	Principal    int64
	AnnualRate   float64 // percent
	TotalPeriods int
	Method       RepaymentMethod
}

// Validate checks the structural preconditions on the terms.
func (t LoanTerms) Validate() error {
	if t.Principal <= 0 {
		return fmt.Errorf("principal must be positive, got %d", t.Principal)
	}
	if t.AnnualRate < 0 || t.AnnualRate > constants.MaxAnnualRatePercent {
		return fmt.Errorf("annual rate must be within [0, %.0f], got %.3f",
			constants.MaxAnnualRatePercent, t.AnnualRate)
	}
	if t.TotalPeriods < constants.MinTermPeriods || t.TotalPeriods > constants.MaxTermPeriods {
		return fmt.Errorf("total periods must be within [%d, %d], got %d",
			constants.MinTermPeriods, constants.MaxTermPeriods, t.TotalPeriods)
	}
	if t.Method != EqualPayment && t.Method != EqualPrincipal {
		return fmt.Errorf("unknown repayment method %d", int(t.Method))
	}
	return nil
}

// Entry holds the values for a given period.
type Entry struct {
	Period        int
	Payment       int64
	Principal     int64
	Interest      int64
	Remaining     int64
	IsBonusPeriod bool
}

// Result holds a full schedule along with its summary totals.
type Result struct {
	PeriodicPayment int64
	BonusPayment    int64 // zero unless a bonus split was applied
	TotalPayment    int64
	TotalInterest   int64
	TotalPrincipal  int64
	Entries         []Entry
}

// Generate produces the full repayment schedule for the given terms. The
// final entry always carries a remaining balance of exactly zero; cumulative
// rounding drift is absorbed by the last period.
func Generate(terms LoanTerms) (*Result, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	switch terms.Method {
	case EqualPrincipal:
		return generateEqualPrincipal(terms), nil
	default:
		return generateEqualPayment(terms), nil
	}
}

// CalculatePeriodicPayment calculates the fixed payment for an annuity loan
// using the standard amortization formula.
func CalculatePeriodicPayment(principal int64, annualRate float64, totalPeriods int) int64 {
	if annualRate == 0 {
		// For zero interest, simply divide the principal by term
		return ratemath.RoundCurrency(float64(principal) / float64(totalPeriods))
	}
	r := ratemath.PeriodicRate(annualRate)
	power := math.Pow(1.00+r, float64(totalPeriods))
	return ratemath.RoundCurrency(float64(principal) * r * power / (power - 1.00))
}

// CalculateInterestPayment calculates the interest portion of a payment on
// the given remaining balance.
func CalculateInterestPayment(remaining int64, annualRate float64) int64 {
	return ratemath.RoundCurrency(float64(remaining) * ratemath.PeriodicRate(annualRate))
}

func generateEqualPayment(terms LoanTerms) *Result {
	payment := CalculatePeriodicPayment(terms.Principal, terms.AnnualRate, terms.TotalPeriods)

	entries := make([]Entry, 0, terms.TotalPeriods)
	balance := terms.Principal
	for period := 1; period <= terms.TotalPeriods; period++ {
		interest := CalculateInterestPayment(balance, terms.AnnualRate)
		principal := payment - interest
		total := payment
		if period == terms.TotalPeriods || principal > balance {
			// Absorb the accumulated rounding drift so the loan lands on zero.
			principal = balance
			total = principal + interest
		}
		balance -= principal
		entries = append(entries, Entry{
			Period:    period,
			Payment:   total,
			Principal: principal,
			Interest:  interest,
			Remaining: balance,
		})
	}

	return summarize(payment, entries)
}

func generateEqualPrincipal(terms LoanTerms) *Result {
	base := ratemath.RoundCurrency(float64(terms.Principal) / float64(terms.TotalPeriods))

	entries := make([]Entry, 0, terms.TotalPeriods)
	balance := terms.Principal
	for period := 1; period <= terms.TotalPeriods; period++ {
		principal := base
		if period == terms.TotalPeriods || principal > balance {
			// Last period takes the exact remainder.
			principal = balance
		}
		interest := CalculateInterestPayment(balance, terms.AnnualRate)
		balance -= principal
		entries = append(entries, Entry{
			Period:    period,
			Payment:   principal + interest,
			Principal: principal,
			Interest:  interest,
			Remaining: balance,
		})
	}

	// The first payment is the largest; report it as the periodic payment.
	return summarize(entries[0].Payment, entries)
}

func summarize(periodicPayment int64, entries []Entry) *Result {
	result := &Result{
		PeriodicPayment: periodicPayment,
		Entries:         entries,
	}
	for _, entry := range entries {
		result.TotalPayment += entry.Payment
		result.TotalInterest += entry.Interest
		result.TotalPrincipal += entry.Principal
	}
	return result
}
