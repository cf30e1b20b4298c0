// Package prepayment simulates the effect of extra lump-sum payments on an
// existing loan, under a term-shortening or payment-reduction policy.
package prepayment

import (
	"fmt"
	"math"
	"sort"

	"github.com/loansim/loan-simulator/pkg/ratemath"
	"github.com/loansim/loan-simulator/pkg/schedule"
	"go.uber.org/zap"
)

// Policy selects what is held constant after a prepayment.
type Policy int

const (
	// ShortenTerm keeps the periodic payment and shortens the remaining term.
	ShortenTerm Policy = iota
	// ReducePayment keeps the remaining term and lowers the periodic payment.
	ReducePayment
)

// String returns the configuration name of the policy.
func (p Policy) String() string {
	switch p {
	case ShortenTerm:
		return "shortenTerm"
	case ReducePayment:
		return "reducePayment"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy converts a configuration string into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "shortenTerm":
		return ShortenTerm, nil
	case "reducePayment":
		return ReducePayment, nil
	default:
		return ShortenTerm, fmt.Errorf("expected prepayment policy of %s or %s, got %q",
			ShortenTerm, ReducePayment, s)
	}
}

// Event represents one extra lump-sum payment.
type Event struct {
	AtPeriod int
	Amount   int64
	Policy   Policy
}

// Effect reports the before and after schedules along with the deltas. The
// lump sums themselves are folded into the adjusted schedule's payments, so
// TotalSaved reflects pure interest savings.
type Effect struct {
	Original *schedule.Result
	Adjusted *schedule.Result

	InterestSaved    int64
	TotalSaved       int64
	PeriodsReduced   int
	PaymentReduction int64
}

// Simulator recomputes loan schedules around prepayment events.
type Simulator struct {
	logger *zap.Logger
}

// NewSimulator creates a new simulator instance.
func NewSimulator(logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{logger: logger}
}

// Simulate applies a single prepayment event to the loan.
func (s *Simulator) Simulate(terms schedule.LoanTerms, event Event) (*Effect, error) {
	return s.SimulateChain(terms, []Event{event})
}

// SimulateChain applies multiple prepayment events sequentially, ordered by
// event period. Each event operates on the loan state left behind by the
// previous one; one infeasible event fails the whole chain.
func (s *Simulator) SimulateChain(terms schedule.LoanTerms, events []Event) (*Effect, error) {
	if len(events) == 0 {
		return nil, fmt.Errorf("no prepayment events given")
	}

	original, err := schedule.Generate(terms)
	if err != nil {
		return nil, err
	}

	ordered := make([]Event, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].AtPeriod < ordered[j].AtPeriod
	})

	current := terms
	offset := 0
	var entries []schedule.Entry
	var pendingExtra int64

	for _, event := range ordered {
		relative := event.AtPeriod - offset
		if relative < 1 || relative > current.TotalPeriods {
			return nil, fmt.Errorf("prepayment period %d is outside the remaining term", event.AtPeriod)
		}

		segment, err := schedule.Generate(current)
		if err != nil {
			return nil, err
		}

		balanceAtEvent := current.Principal
		if relative > 1 {
			balanceAtEvent = segment.Entries[relative-2].Remaining
		}
		if event.Amount <= 0 || event.Amount >= balanceAtEvent {
			return nil, fmt.Errorf("prepayment amount %d at period %d must be within (0, %d)",
				event.Amount, event.AtPeriod, balanceAtEvent)
		}

		for i := 0; i < relative-1; i++ {
			entry := segment.Entries[i]
			entry.Period = offset + i + 1
			if i == 0 && pendingExtra > 0 {
				entry.Payment += pendingExtra
				entry.Principal += pendingExtra
				pendingExtra = 0
			}
			entries = append(entries, entry)
		}

		newBalance := balanceAtEvent - event.Amount
		remaining := current.TotalPeriods - relative + 1

		var nextPeriods int
		switch event.Policy {
		case ShortenTerm:
			nextPeriods, err = s.shortenedPeriods(current, segment.PeriodicPayment, newBalance, remaining)
			if err != nil {
				return nil, err
			}
		case ReducePayment:
			nextPeriods = remaining
		default:
			return nil, fmt.Errorf("unknown prepayment policy %d", int(event.Policy))
		}

		s.logger.Debug(fmt.Sprintf("prepayment of %d at period %d leaves balance %d over %d periods",
			event.Amount, event.AtPeriod, newBalance, nextPeriods),
			zap.String("op", "prepayment.SimulateChain"),
		)

		pendingExtra += event.Amount
		offset += relative - 1
		current = schedule.LoanTerms{
			Principal:    newBalance,
			AnnualRate:   current.AnnualRate,
			TotalPeriods: nextPeriods,
			Method:       current.Method,
		}
	}

	tail, err := schedule.Generate(current)
	if err != nil {
		return nil, err
	}
	for i, entry := range tail.Entries {
		entry.Period = offset + i + 1
		if i == 0 && pendingExtra > 0 {
			entry.Payment += pendingExtra
			entry.Principal += pendingExtra
			pendingExtra = 0
		}
		entries = append(entries, entry)
	}

	adjusted := &schedule.Result{
		PeriodicPayment: tail.PeriodicPayment,
		Entries:         entries,
	}
	for _, entry := range entries {
		adjusted.TotalPayment += entry.Payment
		adjusted.TotalInterest += entry.Interest
		adjusted.TotalPrincipal += entry.Principal
	}

	effect := &Effect{
		Original:       original,
		Adjusted:       adjusted,
		InterestSaved:  original.TotalInterest - adjusted.TotalInterest,
		TotalSaved:     original.TotalPayment - adjusted.TotalPayment,
		PeriodsReduced: len(original.Entries) - len(adjusted.Entries),
	}
	for _, event := range ordered {
		if event.Policy == ReducePayment {
			effect.PaymentReduction = original.PeriodicPayment - adjusted.PeriodicPayment
			break
		}
	}
	return effect, nil
}

// shortenedPeriods inverts the annuity formula for the period count needed to
// pay off balance at the held payment. The logarithmic inversion is
// approximate; the raw result is ceiled and then verified against a trial
// schedule, incrementing once more if the held payment would be exceeded.
func (s *Simulator) shortenedPeriods(terms schedule.LoanTerms, heldPayment, balance int64, maxPeriods int) (int, error) {
	var periods int
	switch {
	case terms.Method == schedule.EqualPrincipal:
		base := ratemath.RoundCurrency(float64(terms.Principal) / float64(terms.TotalPeriods))
		periods = int(math.Ceil(float64(balance) / float64(base)))
	case terms.AnnualRate == 0:
		periods = int(math.Ceil(float64(balance) / float64(heldPayment)))
	default:
		r := ratemath.PeriodicRate(terms.AnnualRate)
		ratio := 1 - r*float64(balance)/float64(heldPayment)
		if ratio <= 0 {
			return 0, fmt.Errorf("payment %d does not cover periodic interest on balance %d", heldPayment, balance)
		}
		periods = int(math.Ceil(-math.Log(ratio) / math.Log(1+r)))
	}

	if periods < 1 {
		periods = 1
	}
	if periods > maxPeriods {
		periods = maxPeriods
	}

	if terms.Method == schedule.EqualPayment {
		for periods < maxPeriods {
			trial, err := schedule.Generate(schedule.LoanTerms{
				Principal:    balance,
				AnnualRate:   terms.AnnualRate,
				TotalPeriods: periods,
				Method:       terms.Method,
			})
			if err != nil {
				return 0, err
			}
			if trial.PeriodicPayment <= heldPayment {
				break
			}
			s.logger.Debug(fmt.Sprintf("period inversion undershot at %d periods, retrying with %d",
				periods, periods+1),
				zap.String("op", "prepayment.shortenedPeriods"),
			)
			periods++
		}
	}

	return periods, nil
}

// ScanOptions bounds a prepayment timing scan.
type ScanOptions struct {
	FromPeriod int // defaults to 1
	ToPeriod   int // defaults to the full term
	Step       int // defaults to 1
}

// Candidate is one evaluated timing in a scan.
type Candidate struct {
	AtPeriod int
	Effect   *Effect
}

// ScanResult holds all feasible candidates plus the one saving the most interest.
type ScanResult struct {
	Best       Candidate
	Candidates []Candidate
}

// ScanTiming evaluates a fixed prepayment amount at each candidate period on
// the configured grid and reports the timing that saves the most interest.
// Infeasible candidates are skipped, not fatal.
func (s *Simulator) ScanTiming(terms schedule.LoanTerms, amount int64, policy Policy, opts ScanOptions) (*ScanResult, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	from := opts.FromPeriod
	if from < 1 {
		from = 1
	}
	to := opts.ToPeriod
	if to < 1 || to > terms.TotalPeriods {
		to = terms.TotalPeriods
	}
	step := opts.Step
	if step < 1 {
		step = 1
	}
	if from > to {
		return nil, fmt.Errorf("scan range [%d, %d] is empty", from, to)
	}

	result := &ScanResult{}
	for period := from; period <= to; period += step {
		effect, err := s.Simulate(terms, Event{AtPeriod: period, Amount: amount, Policy: policy})
		if err != nil {
			s.logger.Debug(fmt.Sprintf("skipping infeasible prepayment candidate at period %d", period),
				zap.String("op", "prepayment.ScanTiming"),
				zap.Error(err),
			)
			continue
		}
		candidate := Candidate{AtPeriod: period, Effect: effect}
		result.Candidates = append(result.Candidates, candidate)
		if result.Best.Effect == nil || effect.InterestSaved > result.Best.Effect.InterestSaved {
			result.Best = candidate
		}
	}

	if result.Best.Effect == nil {
		return nil, fmt.Errorf("no feasible prepayment candidate within periods [%d, %d]", from, to)
	}
	return result, nil
}
