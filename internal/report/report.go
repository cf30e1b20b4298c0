// Package report runs every analysis configured for a simulation and
// aggregates the engine outputs into a single Report value.
package report

import (
	"fmt"

	"github.com/loansim/loan-simulator/internal/config"
	"github.com/loansim/loan-simulator/pkg/compare"
	"github.com/loansim/loan-simulator/pkg/prepayment"
	"github.com/loansim/loan-simulator/pkg/ratemath"
	"github.com/loansim/loan-simulator/pkg/reverse"
	"github.com/loansim/loan-simulator/pkg/schedule"
	"go.uber.org/zap"
)

// LoanAnalysis holds the generated schedule together with the terms it was
// generated from.
type LoanAnalysis struct {
	Terms  schedule.LoanTerms
	Bonus  *schedule.BonusConfig
	Result *schedule.Result
}

// Report aggregates the outputs of all configured analyses. Sections not
// configured remain nil.
type Report struct {
	Loan       *LoanAnalysis
	Prepayment *prepayment.Effect
	Borrowing  *reverse.Combined
	Comparison *compare.Comparison
}

// Run executes every configured analysis against the engine.
func Run(logger *zap.Logger, conf config.Configuration) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	result := &Report{}

	if conf.Loan != nil {
		analysis, err := runLoan(logger, *conf.Loan)
		if err != nil {
			return nil, err
		}
		result.Loan = analysis

		if len(conf.Prepayments) > 0 {
			effect, err := runPrepayments(logger, analysis.Terms, conf.Prepayments)
			if err != nil {
				return nil, err
			}
			result.Prepayment = effect
		}
	}

	if conf.Borrowing != nil {
		combined, err := runBorrowing(logger, *conf.Borrowing)
		if err != nil {
			return nil, err
		}
		result.Borrowing = combined
	}

	if len(conf.Offers) > 0 {
		comparison, err := runComparison(logger, conf.Offers)
		if err != nil {
			return nil, err
		}
		result.Comparison = comparison
	}

	return result, nil
}

func runLoan(logger *zap.Logger, loan config.LoanConfig) (*LoanAnalysis, error) {
	terms, err := loan.Terms()
	if err != nil {
		return nil, fmt.Errorf("invalid loan configuration: %w", err)
	}

	bonus := loan.BonusTerms()
	var result *schedule.Result
	if bonus != nil {
		result, err = schedule.GenerateWithBonus(terms, *bonus)
	} else {
		result, err = schedule.Generate(terms)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate schedule: %w", err)
	}

	logger.Debug(fmt.Sprintf("generated %d-period schedule with periodic payment %d",
		len(result.Entries), result.PeriodicPayment),
		zap.String("op", "report.runLoan"),
	)

	return &LoanAnalysis{Terms: terms, Bonus: bonus, Result: result}, nil
}

func runPrepayments(logger *zap.Logger, terms schedule.LoanTerms, configs []config.PrepaymentConfig) (*prepayment.Effect, error) {
	events := make([]prepayment.Event, 0, len(configs))
	for i, pc := range configs {
		event, err := pc.Event()
		if err != nil {
			return nil, fmt.Errorf("invalid prepayment %d: %w", i+1, err)
		}
		events = append(events, event)
	}

	simulator := prepayment.NewSimulator(logger)
	effect, err := simulator.SimulateChain(terms, events)
	if err != nil {
		return nil, fmt.Errorf("failed to simulate prepayments: %w", err)
	}

	logger.Debug(fmt.Sprintf("prepayment chain of %d events saves %d interest",
		len(events), effect.InterestSaved),
		zap.String("op", "report.runPrepayments"),
	)

	return effect, nil
}

func runBorrowing(logger *zap.Logger, borrowing config.BorrowingConfig) (*reverse.Combined, error) {
	periods := ratemath.TotalPeriods(borrowing.Years, borrowing.ExtraMonths)
	combined, err := reverse.CombinedPrincipal(
		borrowing.MonthlyPayment,
		borrowing.BonusPayment,
		borrowing.AnnualRate,
		periods,
		borrowing.BonusMonths,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to solve borrowable principal: %w", err)
	}

	logger.Debug(fmt.Sprintf("borrowable principal %d (regular %d, bonus %d)",
		combined.Total, combined.Regular, combined.Bonus),
		zap.String("op", "report.runBorrowing"),
	)

	return combined, nil
}

func runComparison(logger *zap.Logger, configs []config.OfferConfig) (*compare.Comparison, error) {
	offers := make([]compare.Offer, 0, len(configs))
	for i, oc := range configs {
		offer, err := oc.Offer()
		if err != nil {
			return nil, fmt.Errorf("invalid offer %d: %w", i+1, err)
		}
		offers = append(offers, offer)
	}

	comparison, err := compare.Compare(offers)
	if err != nil {
		return nil, fmt.Errorf("failed to compare offers: %w", err)
	}

	logger.Debug(fmt.Sprintf("compared %d offers, recommending %s",
		len(offers), comparison.Recommendation.Overall),
		zap.String("op", "report.runComparison"),
	)

	return comparison, nil
}
