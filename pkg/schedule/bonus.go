package schedule

import (
	"fmt"

	"github.com/loansim/loan-simulator/pkg/constants"
)

// BonusConfig describes extra installments due in specific months of each
// year on top of the regular periodic payment.
type BonusConfig struct {
	Amount       int64 // portion of the principal repaid through bonus installments
	MonthsOfYear []int // 1..12
}

// Validate checks the bonus configuration against the loan principal.
func (c BonusConfig) Validate(principal int64) error {
	if c.Amount <= 0 {
		return fmt.Errorf("bonus amount must be positive, got %d", c.Amount)
	}
	if c.Amount >= principal {
		return fmt.Errorf("bonus amount exceeds principal: %d >= %d", c.Amount, principal)
	}
	return ValidateBonusMonths(c.MonthsOfYear)
}

// ValidateBonusMonths checks that the months of year are within [1, 12] and
// free of duplicates.
func ValidateBonusMonths(months []int) error {
	if len(months) == 0 {
		return fmt.Errorf("bonus months must not be empty")
	}
	seen := make(map[int]bool)
	for _, month := range months {
		if month < 1 || month > constants.MonthsPerYear {
			return fmt.Errorf("bonus month must be within [1, %d], got %d",
				constants.MonthsPerYear, month)
		}
		if seen[month] {
			return fmt.Errorf("duplicate bonus month %d", month)
		}
		seen[month] = true
	}
	return nil
}

// BonusEventCount returns how many bonus installments actually fall within
// the term. Period p lands in month of year (p-1)%12+1, so month m first
// occurs at period m and then every 12 periods after.
func BonusEventCount(totalPeriods int, monthsOfYear []int) int {
	count := 0
	for _, month := range monthsOfYear {
		if month >= 1 && month <= totalPeriods {
			count += (totalPeriods-month)/constants.MonthsPerYear + 1
		}
	}
	return count
}

// GenerateWithBonus splits the loan into a regular sub-loan and a bonus
// sub-loan, schedules each independently, and interleaves them into one
// merged schedule. Non-bonus entries carry the bonus sub-loan's outstanding
// balance additively so the merged schedule always reports the true total
// debt.
func GenerateWithBonus(terms LoanTerms, bonus BonusConfig) (*Result, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}
	if err := bonus.Validate(terms.Principal); err != nil {
		return nil, err
	}

	bonusPeriods := BonusEventCount(terms.TotalPeriods, bonus.MonthsOfYear)
	if bonusPeriods == 0 {
		return nil, fmt.Errorf("no bonus period falls within the term of %d periods", terms.TotalPeriods)
	}

	regular, err := Generate(LoanTerms{
		Principal:    terms.Principal - bonus.Amount,
		AnnualRate:   terms.AnnualRate,
		TotalPeriods: terms.TotalPeriods,
		Method:       terms.Method,
	})
	if err != nil {
		return nil, err
	}

	sub, err := Generate(LoanTerms{
		Principal:    bonus.Amount,
		AnnualRate:   terms.AnnualRate,
		TotalPeriods: bonusPeriods,
		Method:       terms.Method,
	})
	if err != nil {
		return nil, err
	}

	months := make(map[int]bool, len(bonus.MonthsOfYear))
	for _, month := range bonus.MonthsOfYear {
		months[month] = true
	}

	entries := make([]Entry, 0, terms.TotalPeriods)
	bonusIndex := 0
	bonusRemaining := bonus.Amount
	for i, regularEntry := range regular.Entries {
		period := i + 1
		monthOfYear := (period-1)%constants.MonthsPerYear + 1
		if months[monthOfYear] && bonusIndex < len(sub.Entries) {
			bonusEntry := sub.Entries[bonusIndex]
			bonusIndex++
			bonusRemaining = bonusEntry.Remaining
			entries = append(entries, Entry{
				Period:        period,
				Payment:       regularEntry.Payment + bonusEntry.Payment,
				Principal:     regularEntry.Principal + bonusEntry.Principal,
				Interest:      regularEntry.Interest + bonusEntry.Interest,
				Remaining:     regularEntry.Remaining + bonusEntry.Remaining,
				IsBonusPeriod: true,
			})
		} else {
			entries = append(entries, Entry{
				Period:    period,
				Payment:   regularEntry.Payment,
				Principal: regularEntry.Principal,
				Interest:  regularEntry.Interest,
				Remaining: regularEntry.Remaining + bonusRemaining,
			})
		}
	}

	merged := summarize(regular.PeriodicPayment, entries)
	merged.BonusPayment = sub.PeriodicPayment
	return merged, nil
}
