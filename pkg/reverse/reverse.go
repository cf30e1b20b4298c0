// Package reverse inverts the annuity payment formula to recover a principal
// from a known periodic payment ("how much can I borrow").
package reverse

import (
	"fmt"
	"math"

	"github.com/loansim/loan-simulator/pkg/constants"
	"github.com/loansim/loan-simulator/pkg/ratemath"
	"github.com/loansim/loan-simulator/pkg/schedule"
)

// PrincipalFromPayment returns the exact principal whose annuity payment over
// the given term equals payment. Zero-rate loans reduce to payment * periods.
func PrincipalFromPayment(payment float64, annualRate float64, totalPeriods int) float64 {
	if annualRate == 0 {
		return payment * float64(totalPeriods)
	}
	r := ratemath.PeriodicRate(annualRate)
	power := math.Pow(1.00+r, float64(totalPeriods))
	return payment * (power - 1.00) / (r * power)
}

// BorrowablePrincipal returns the maximum principal affordable at the given
// periodic payment, reported at the principal rounding granularity.
func BorrowablePrincipal(payment int64, annualRate float64, totalPeriods int) (int64, error) {
	if err := validate(payment, annualRate, totalPeriods); err != nil {
		return 0, err
	}
	raw := PrincipalFromPayment(float64(payment), annualRate, totalPeriods)
	return ratemath.RoundToUnit(raw, constants.PrincipalRoundingUnit), nil
}

// Combined holds the decomposition of a borrowable principal into a regular
// and a bonus portion.
type Combined struct {
	Total       int64
	Regular     int64
	Bonus       int64
	BonusCapped bool
}

// CombinedPrincipal derives a total borrowable principal from a regular
// periodic payment plus a bonus installment amount due in the configured
// months of each year. The bonus portion is capped at half of the combined
// total; the regular portion is re-derived as the residual so the combined
// total is preserved.
func CombinedPrincipal(regularPayment, bonusPayment int64, annualRate float64,
	totalPeriods int, bonusMonths []int) (*Combined, error) {

	if err := validate(regularPayment, annualRate, totalPeriods); err != nil {
		return nil, err
	}
	if bonusPayment < 0 {
		return nil, fmt.Errorf("bonus payment must not be negative, got %d", bonusPayment)
	}
	if bonusPayment == 0 {
		total, err := BorrowablePrincipal(regularPayment, annualRate, totalPeriods)
		if err != nil {
			return nil, err
		}
		return &Combined{Total: total, Regular: total}, nil
	}

	if err := schedule.ValidateBonusMonths(bonusMonths); err != nil {
		return nil, err
	}
	bonusPeriods := schedule.BonusEventCount(totalPeriods, bonusMonths)
	if bonusPeriods == 0 {
		return nil, fmt.Errorf("no bonus period falls within the term of %d periods", totalPeriods)
	}

	regularRaw := PrincipalFromPayment(float64(regularPayment), annualRate, totalPeriods)
	bonusRaw := PrincipalFromPayment(float64(bonusPayment), annualRate, bonusPeriods)

	total := ratemath.RoundToUnit(regularRaw+bonusRaw, constants.PrincipalRoundingUnit)
	bonus := ratemath.RoundToUnit(bonusRaw, constants.PrincipalRoundingUnit)

	capped := false
	if bonus > total/2 {
		// Policy cap: the bonus portion may not exceed half of the combined
		// total. The total is preserved; the regular portion absorbs the rest.
		bonus = total / 2 / constants.PrincipalRoundingUnit * constants.PrincipalRoundingUnit
		capped = true
	}

	return &Combined{
		Total:       total,
		Regular:     total - bonus,
		Bonus:       bonus,
		BonusCapped: capped,
	}, nil
}

func validate(payment int64, annualRate float64, totalPeriods int) error {
	if payment <= 0 {
		return fmt.Errorf("payment must be positive, got %d", payment)
	}
	if annualRate < 0 || annualRate > constants.MaxAnnualRatePercent {
		return fmt.Errorf("annual rate must be within [0, %.0f], got %.3f",
			constants.MaxAnnualRatePercent, annualRate)
	}
	if totalPeriods < constants.MinTermPeriods || totalPeriods > constants.MaxTermPeriods {
		return fmt.Errorf("total periods must be within [%d, %d], got %d",
			constants.MinTermPeriods, constants.MaxTermPeriods, totalPeriods)
	}
	return nil
}
