// Package server exposes the simulation engine over a JSON HTTP API.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/loansim/loan-simulator/pkg/compare"
	"github.com/loansim/loan-simulator/pkg/constants"
	"github.com/loansim/loan-simulator/pkg/prepayment"
	"github.com/loansim/loan-simulator/pkg/ratemath"
	"github.com/loansim/loan-simulator/pkg/reverse"
	"github.com/loansim/loan-simulator/pkg/schedule"
	"go.uber.org/zap"
)

type handler struct {
	logger         *zap.Logger
	maxRequestSize int64
	version        string
}

// NewHandler constructs the HTTP handler that serves the simulation API.
func NewHandler(logger *zap.Logger, maxRequestSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRequestSize <= 0 {
		maxRequestSize = constants.DefaultMaxRequestSizeBytes
	}
	if version == "" {
		version = "dev"
	}

	h := &handler{logger: logger, maxRequestSize: maxRequestSize, version: version}

	r := mux.NewRouter()
	r.HandleFunc("/api/schedule", h.handleSchedule).Methods("POST")
	r.HandleFunc("/api/prepayment", h.handlePrepayment).Methods("POST")
	r.HandleFunc("/api/reverse", h.handleReverse).Methods("POST")
	r.HandleFunc("/api/compare", h.handleCompare).Methods("POST")
	r.HandleFunc("/api/version", h.handleVersion).Methods("GET")

	return r
}

type loanRequest struct {
	Principal   int64        `json:"principal"`
	AnnualRate  float64      `json:"annualRate"`
	Years       int          `json:"years"`
	ExtraMonths int          `json:"extraMonths,omitempty"`
	Method      string       `json:"method,omitempty"`
	Bonus       *bonusConfig `json:"bonus,omitempty"`
}

type bonusConfig struct {
	Amount int64 `json:"amount"`
	Months []int `json:"months"`
}

type prepaymentRequest struct {
	Loan   loanRequest       `json:"loan"`
	Events []prepaymentEvent `json:"events"`
}

type prepaymentEvent struct {
	Period int    `json:"period"`
	Amount int64  `json:"amount"`
	Policy string `json:"policy,omitempty"`
}

type reverseRequest struct {
	MonthlyPayment int64   `json:"monthlyPayment"`
	BonusPayment   int64   `json:"bonusPayment,omitempty"`
	AnnualRate     float64 `json:"annualRate"`
	Years          int     `json:"years"`
	ExtraMonths    int     `json:"extraMonths,omitempty"`
	BonusMonths    []int   `json:"bonusMonths,omitempty"`
}

type compareRequest struct {
	Offers []offerRequest `json:"offers"`
}

type offerRequest struct {
	Name         string  `json:"name"`
	Principal    int64   `json:"principal"`
	AnnualRate   float64 `json:"annualRate"`
	Years        int     `json:"years"`
	ExtraMonths  int     `json:"extraMonths,omitempty"`
	Method       string  `json:"method,omitempty"`
	FlatFee      int64   `json:"flatFee,omitempty"`
	FeeRate      float64 `json:"feeRate,omitempty"`
	GuaranteeFee int64   `json:"guaranteeFee,omitempty"`
	OtherFees    int64   `json:"otherFees,omitempty"`
}

type scheduleEntry struct {
	Period        int   `json:"period"`
	Payment       int64 `json:"payment"`
	Principal     int64 `json:"principal"`
	Interest      int64 `json:"interest"`
	Remaining     int64 `json:"remaining"`
	IsBonusPeriod bool  `json:"isBonusPeriod,omitempty"`
}

type scheduleResponse struct {
	PeriodicPayment int64           `json:"periodicPayment"`
	BonusPayment    int64           `json:"bonusPayment,omitempty"`
	TotalPayment    int64           `json:"totalPayment"`
	TotalInterest   int64           `json:"totalInterest"`
	TotalPrincipal  int64           `json:"totalPrincipal"`
	Entries         []scheduleEntry `json:"entries"`
}

type prepaymentResponse struct {
	Original         scheduleResponse `json:"original"`
	Adjusted         scheduleResponse `json:"adjusted"`
	InterestSaved    int64            `json:"interestSaved"`
	TotalSaved       int64            `json:"totalSaved"`
	PeriodsReduced   int              `json:"periodsReduced,omitempty"`
	PaymentReduction int64            `json:"paymentReduction,omitempty"`
}

type reverseResponse struct {
	Total       int64 `json:"total"`
	Regular     int64 `json:"regular"`
	Bonus       int64 `json:"bonus,omitempty"`
	BonusCapped bool  `json:"bonusCapped,omitempty"`
}

type compareEvaluation struct {
	Name            string  `json:"name"`
	PeriodicPayment int64   `json:"periodicPayment"`
	TotalPayment    int64   `json:"totalPayment"`
	TotalInterest   int64   `json:"totalInterest"`
	TotalFees       int64   `json:"totalFees"`
	TotalCost       int64   `json:"totalCost"`
	EffectiveRate   float64 `json:"effectiveRatePercent"`
}

type compareResponse struct {
	Evaluations []compareEvaluation `json:"evaluations"`
	BestMonthly string              `json:"bestMonthly"`
	BestTotal   string              `json:"bestTotal"`
	Overall     string              `json:"overall"`
	Rationale   string              `json:"rationale"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (r loanRequest) terms() (schedule.LoanTerms, error) {
	method := schedule.EqualPayment
	if r.Method != "" {
		parsed, err := schedule.ParseMethod(r.Method)
		if err != nil {
			return schedule.LoanTerms{}, err
		}
		method = parsed
	}
	terms := schedule.LoanTerms{
		Principal:    r.Principal,
		AnnualRate:   r.AnnualRate,
		TotalPeriods: ratemath.TotalPeriods(r.Years, r.ExtraMonths),
		Method:       method,
	}
	return terms, terms.Validate()
}

func toScheduleResponse(result *schedule.Result) scheduleResponse {
	entries := make([]scheduleEntry, 0, len(result.Entries))
	for _, entry := range result.Entries {
		entries = append(entries, scheduleEntry{
			Period:        entry.Period,
			Payment:       entry.Payment,
			Principal:     entry.Principal,
			Interest:      entry.Interest,
			Remaining:     entry.Remaining,
			IsBonusPeriod: entry.IsBonusPeriod,
		})
	}
	return scheduleResponse{
		PeriodicPayment: result.PeriodicPayment,
		BonusPayment:    result.BonusPayment,
		TotalPayment:    result.TotalPayment,
		TotalInterest:   result.TotalInterest,
		TotalPrincipal:  result.TotalPrincipal,
		Entries:         entries,
	}
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if !h.decode(w, r, &req) {
		return
	}

	terms, err := req.terms()
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	var result *schedule.Result
	if req.Bonus != nil {
		result, err = schedule.GenerateWithBonus(terms, schedule.BonusConfig{
			Amount:       req.Bonus.Amount,
			MonthsOfYear: req.Bonus.Months,
		})
	} else {
		result, err = schedule.Generate(terms)
	}
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toScheduleResponse(result))
}

func (h *handler) handlePrepayment(w http.ResponseWriter, r *http.Request) {
	var req prepaymentRequest
	if !h.decode(w, r, &req) {
		return
	}

	terms, err := req.Loan.terms()
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	events := make([]prepayment.Event, 0, len(req.Events))
	for _, e := range req.Events {
		policy := prepayment.ShortenTerm
		if e.Policy != "" {
			parsed, err := prepayment.ParsePolicy(e.Policy)
			if err != nil {
				h.writeError(w, http.StatusBadRequest, err)
				return
			}
			policy = parsed
		}
		events = append(events, prepayment.Event{AtPeriod: e.Period, Amount: e.Amount, Policy: policy})
	}

	simulator := prepayment.NewSimulator(h.logger)
	effect, err := simulator.SimulateChain(terms, events)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	h.writeJSON(w, http.StatusOK, prepaymentResponse{
		Original:         toScheduleResponse(effect.Original),
		Adjusted:         toScheduleResponse(effect.Adjusted),
		InterestSaved:    effect.InterestSaved,
		TotalSaved:       effect.TotalSaved,
		PeriodsReduced:   effect.PeriodsReduced,
		PaymentReduction: effect.PaymentReduction,
	})
}

func (h *handler) handleReverse(w http.ResponseWriter, r *http.Request) {
	var req reverseRequest
	if !h.decode(w, r, &req) {
		return
	}

	combined, err := reverse.CombinedPrincipal(
		req.MonthlyPayment,
		req.BonusPayment,
		req.AnnualRate,
		ratemath.TotalPeriods(req.Years, req.ExtraMonths),
		req.BonusMonths,
	)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	h.writeJSON(w, http.StatusOK, reverseResponse{
		Total:       combined.Total,
		Regular:     combined.Regular,
		Bonus:       combined.Bonus,
		BonusCapped: combined.BonusCapped,
	})
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !h.decode(w, r, &req) {
		return
	}

	offers := make([]compare.Offer, 0, len(req.Offers))
	for _, o := range req.Offers {
		loan := loanRequest{
			Principal:   o.Principal,
			AnnualRate:  o.AnnualRate,
			Years:       o.Years,
			ExtraMonths: o.ExtraMonths,
			Method:      o.Method,
		}
		terms, err := loan.terms()
		if err != nil {
			h.writeError(w, http.StatusBadRequest, fmt.Errorf("offer %s: %w", o.Name, err))
			return
		}
		offers = append(offers, compare.Offer{
			Name:           o.Name,
			Terms:          terms,
			FlatFee:        o.FlatFee,
			FeeRatePercent: o.FeeRate,
			GuaranteeFee:   o.GuaranteeFee,
			OtherFees:      o.OtherFees,
		})
	}

	comparison, err := compare.Compare(offers)
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	resp := compareResponse{
		BestMonthly: comparison.Recommendation.BestMonthly,
		BestTotal:   comparison.Recommendation.BestTotal,
		Overall:     comparison.Recommendation.Overall,
		Rationale:   comparison.Recommendation.Rationale,
	}
	for _, eval := range comparison.Evaluations {
		resp.Evaluations = append(resp.Evaluations, compareEvaluation{
			Name:            eval.Offer.Name,
			PeriodicPayment: eval.Schedule.PeriodicPayment,
			TotalPayment:    eval.Schedule.TotalPayment,
			TotalInterest:   eval.Schedule.TotalInterest,
			TotalFees:       eval.TotalFees,
			TotalCost:       eval.TotalCost,
			EffectiveRate:   eval.EffectiveRatePercent,
		})
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"version": h.version})
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, h.maxRequestSize)
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Warn("failed to encode response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}

func (h *handler) writeError(w http.ResponseWriter, status int, err error) {
	h.logger.Debug("request rejected",
		zap.String("op", "server.writeError"),
		zap.Int("status", status),
		zap.Error(err),
	)
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}
