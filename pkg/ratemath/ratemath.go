// Package ratemath provides low-level rate and rounding helpers shared by the
// schedule, reverse, and comparison packages.
package ratemath

import (
	"math"

	"github.com/loansim/loan-simulator/pkg/constants"
)

// PeriodicRate converts an annual percentage rate into a monthly decimal rate.
func PeriodicRate(annualRatePercent float64) float64 {
	return annualRatePercent / constants.PercentageMultiplier / constants.MonthsPerYear
}

// TotalPeriods converts a year count plus extra months into a period count.
func TotalPeriods(years, extraMonths int) int {
	return years*constants.MonthsPerYear + extraMonths
}

// Years converts a period count into a (possibly fractional) year count.
func Years(periods int) float64 {
	return float64(periods) / constants.MonthsPerYear
}

// RoundFinancial rounds half-up at the given number of decimal places.
func RoundFinancial(value float64, decimalPlaces int) float64 {
	shift := math.Pow(10, float64(decimalPlaces))
	return math.Floor(value*shift+0.5) / shift
}

// RoundCurrency rounds half-up to a whole smallest currency unit.
func RoundCurrency(value float64) int64 {
	return int64(math.Floor(value + 0.5))
}

// RoundToUnit rounds half-up to the nearest multiple of unit. Used when a
// reverse-solved principal is reported at a coarser granularity than the
// smallest currency unit.
func RoundToUnit(value float64, unit int64) int64 {
	if unit <= 1 {
		return RoundCurrency(value)
	}
	return RoundCurrency(value/float64(unit)) * unit
}
