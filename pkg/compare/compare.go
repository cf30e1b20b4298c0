// Package compare evaluates competing loan offers and ranks them once
// upfront fees are amortized into an effective annual rate.
package compare

import (
	"fmt"

	"github.com/loansim/loan-simulator/pkg/constants"
	"github.com/loansim/loan-simulator/pkg/ratemath"
	"github.com/loansim/loan-simulator/pkg/schedule"
)

// Offer is one loan offer under comparison: terms plus upfront fees.
type Offer struct {
	Name           string
	Terms          schedule.LoanTerms
	FlatFee        int64
	FeeRatePercent float64 // percent of principal
	GuaranteeFee   int64
	OtherFees      int64
}

// TotalFees sums the upfront fees of the offer.
func (o Offer) TotalFees() int64 {
	rateFee := ratemath.RoundCurrency(float64(o.Terms.Principal) * o.FeeRatePercent / constants.PercentageMultiplier)
	return o.FlatFee + rateFee + o.GuaranteeFee + o.OtherFees
}

// Evaluation is one offer with its computed schedule and cost metrics.
type Evaluation struct {
	Offer                Offer
	Schedule             *schedule.Result
	TotalFees            int64
	TotalCost            int64
	EffectiveRatePercent float64
}

// Recommendation names the winners of each ranking. Total cost is the
// dominant decision criterion, so the overall pick is the best-for-total
// offer.
type Recommendation struct {
	BestMonthly string
	BestTotal   string
	Overall     string
	Rationale   string
}

// Comparison holds the evaluations in input order plus the recommendation.
type Comparison struct {
	Evaluations    []Evaluation
	Recommendation Recommendation
}

// Compare evaluates between 1 and 5 offers and ranks them by monthly
// payment, total cost, and a blended recommendation.
func Compare(offers []Offer) (*Comparison, error) {
	if len(offers) == 0 {
		return nil, fmt.Errorf("nothing to compare: no offers given")
	}
	if len(offers) > constants.MaxComparisonOffers {
		return nil, fmt.Errorf("at most %d offers can be compared, got %d",
			constants.MaxComparisonOffers, len(offers))
	}

	evaluations := make([]Evaluation, 0, len(offers))
	for i, offer := range offers {
		result, err := schedule.Generate(offer.Terms)
		if err != nil {
			return nil, fmt.Errorf("offer %s: %w", offerName(offer, i), err)
		}
		totalFees := offer.TotalFees()
		evaluations = append(evaluations, Evaluation{
			Offer:                offer,
			Schedule:             result,
			TotalFees:            totalFees,
			TotalCost:            result.TotalPayment + totalFees,
			EffectiveRatePercent: effectiveRate(offer.Terms, result.TotalInterest, totalFees),
		})
	}

	bestMonthly := 0
	bestTotal := 0
	for i := 1; i < len(evaluations); i++ {
		if evaluations[i].Schedule.PeriodicPayment < evaluations[bestMonthly].Schedule.PeriodicPayment {
			bestMonthly = i
		}
		if evaluations[i].TotalCost < evaluations[bestTotal].TotalCost {
			bestTotal = i
		}
	}

	overall := evaluations[bestTotal]
	recommendation := Recommendation{
		BestMonthly: offerName(evaluations[bestMonthly].Offer, bestMonthly),
		BestTotal:   offerName(evaluations[bestTotal].Offer, bestTotal),
		Overall:     offerName(overall.Offer, bestTotal),
		Rationale: fmt.Sprintf("%s has the lowest total cost of %d (effective rate %.3f%%) and is the recommended choice",
			offerName(overall.Offer, bestTotal), overall.TotalCost, overall.EffectiveRatePercent),
	}

	return &Comparison{Evaluations: evaluations, Recommendation: recommendation}, nil
}

// effectiveRate folds the upfront fees into an annualized percentage rate.
func effectiveRate(terms schedule.LoanTerms, totalInterest, totalFees int64) float64 {
	years := ratemath.Years(terms.TotalPeriods)
	rate := float64(totalInterest+totalFees) / float64(terms.Principal+totalFees) / years * constants.PercentageMultiplier
	return ratemath.RoundFinancial(rate, constants.EffectiveRateDecimals)
}

func offerName(offer Offer, index int) string {
	if offer.Name != "" {
		return offer.Name
	}
	return fmt.Sprintf("offer %d", index+1)
}
