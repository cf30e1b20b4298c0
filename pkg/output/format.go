// Package output provides utilities for formatting and displaying report results.
package output

import (
	"fmt"

	"github.com/loansim/loan-simulator/internal/report"
	"github.com/loansim/loan-simulator/pkg/prepayment"
	"github.com/loansim/loan-simulator/pkg/schedule"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable view of
// the report.
func PrettyFormat(result *report.Report) {
	p := message.NewPrinter(language.English)

	if result.Loan != nil {
		loan := result.Loan
		fmt.Printf("--- Repayment schedule (%s) ---\n", loan.Terms.Method)
		_, _ = p.Printf("Periodic payment: %d\n", loan.Result.PeriodicPayment)
		if loan.Result.BonusPayment > 0 {
			_, _ = p.Printf("Bonus payment:    %d\n", loan.Result.BonusPayment)
		}
		_, _ = p.Printf("Total payment:    %d\n", loan.Result.TotalPayment)
		_, _ = p.Printf("Total interest:   %d\n", loan.Result.TotalInterest)
		fmt.Printf("Period | Payment       | Principal     | Interest      | Remaining\n")
		fmt.Printf("______ | _____________ | _____________ | _____________ | _____________\n")
		for _, entry := range loan.Result.Entries {
			marker := ""
			if entry.IsBonusPeriod {
				marker = " *"
			}
			_, _ = p.Printf("%6d | %13d | %13d | %13d | %13d%s\n",
				entry.Period, entry.Payment, entry.Principal, entry.Interest, entry.Remaining, marker)
		}
		fmt.Printf("\n")
	}

	if result.Prepayment != nil {
		effect := result.Prepayment
		fmt.Printf("--- Prepayment effect ---\n")
		_, _ = p.Printf("Interest saved:   %d\n", effect.InterestSaved)
		_, _ = p.Printf("Total saved:      %d\n", effect.TotalSaved)
		if effect.PeriodsReduced > 0 {
			_, _ = p.Printf("Periods reduced:  %d (%d -> %d)\n",
				effect.PeriodsReduced, len(effect.Original.Entries), len(effect.Adjusted.Entries))
		}
		if effect.PaymentReduction > 0 {
			_, _ = p.Printf("Payment reduced:  %d (%d -> %d)\n",
				effect.PaymentReduction, effect.Original.PeriodicPayment, effect.Adjusted.PeriodicPayment)
		}
		fmt.Printf("\n")
	}

	if result.Borrowing != nil {
		borrowing := result.Borrowing
		fmt.Printf("--- Borrowable principal ---\n")
		_, _ = p.Printf("Total:   %d\n", borrowing.Total)
		_, _ = p.Printf("Regular: %d\n", borrowing.Regular)
		if borrowing.Bonus > 0 {
			_, _ = p.Printf("Bonus:   %d\n", borrowing.Bonus)
		}
		if borrowing.BonusCapped {
			fmt.Printf("Note: bonus portion capped at half of the combined total\n")
		}
		fmt.Printf("\n")
	}

	if result.Comparison != nil {
		comparison := result.Comparison
		fmt.Printf("--- Offer comparison ---\n")
		fmt.Printf("Offer                | Monthly       | Total cost    | Fees          | Effective rate\n")
		fmt.Printf("____________________ | _____________ | _____________ | _____________ | ______________\n")
		for _, eval := range comparison.Evaluations {
			_, _ = p.Printf("%-20s | %13d | %13d | %13d | %13.3f%%\n",
				eval.Offer.Name, eval.Schedule.PeriodicPayment, eval.TotalCost,
				eval.TotalFees, eval.EffectiveRatePercent)
		}
		fmt.Printf("Best monthly payment: %s\n", comparison.Recommendation.BestMonthly)
		fmt.Printf("Best total cost:      %s\n", comparison.Recommendation.BestTotal)
		fmt.Printf("Recommendation:       %s\n", comparison.Recommendation.Rationale)
		fmt.Printf("\n")
	}
}

// CsvFormat outputs the schedule portions of the report in comma-separated
// value format.
func CsvFormat(result *report.Report) {
	if result.Loan != nil {
		fmt.Printf(`"period","payment","principal","interest","remaining","bonus"`)
		fmt.Printf("\n")
		printEntriesCsv(result.Loan.Result.Entries)
	}

	if result.Prepayment != nil {
		fmt.Printf(`"period","payment","principal","interest","remaining","bonus"`)
		fmt.Printf("\n")
		printEntriesCsv(result.Prepayment.Adjusted.Entries)
		printEffectCsv(result.Prepayment)
	}

	if result.Comparison != nil {
		fmt.Printf(`"offer","monthly","totalCost","fees","effectiveRate"`)
		fmt.Printf("\n")
		for _, eval := range result.Comparison.Evaluations {
			fmt.Printf(`"%s","%d","%d","%d","%.3f"`,
				eval.Offer.Name, eval.Schedule.PeriodicPayment, eval.TotalCost,
				eval.TotalFees, eval.EffectiveRatePercent)
			fmt.Printf("\n")
		}
	}
}

func printEntriesCsv(entries []schedule.Entry) {
	for _, entry := range entries {
		bonus := ""
		if entry.IsBonusPeriod {
			bonus = "*"
		}
		fmt.Printf(`"%d","%d","%d","%d","%d","%s"`,
			entry.Period, entry.Payment, entry.Principal, entry.Interest, entry.Remaining, bonus)
		fmt.Printf("\n")
	}
}

func printEffectCsv(effect *prepayment.Effect) {
	fmt.Printf(`"interestSaved","totalSaved","periodsReduced","paymentReduction"`)
	fmt.Printf("\n")
	fmt.Printf(`"%d","%d","%d","%d"`,
		effect.InterestSaved, effect.TotalSaved, effect.PeriodsReduced, effect.PaymentReduction)
	fmt.Printf("\n")
}
