package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newTestHandler() http.Handler {
	return NewHandler(zap.NewNop(), 0, "test")
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandleSchedule(t *testing.T) {
	h := newTestHandler()
	w := doJSON(t, h, "POST", "/api/schedule",
		`{"principal": 12000000, "annualRate": 0, "years": 10}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, expected %d, body %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp scheduleResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.PeriodicPayment != 100000 {
		t.Errorf("periodicPayment = %d, expected 100000", resp.PeriodicPayment)
	}
	if len(resp.Entries) != 120 {
		t.Errorf("got %d entries, expected 120", len(resp.Entries))
	}
	if resp.TotalPayment != 12000000 {
		t.Errorf("totalPayment = %d, expected 12000000", resp.TotalPayment)
	}
}

func TestHandleScheduleWithBonus(t *testing.T) {
	h := newTestHandler()
	w := doJSON(t, h, "POST", "/api/schedule",
		`{"principal": 30000000, "annualRate": 1.5, "years": 35,
		  "bonus": {"amount": 5000000, "months": [6, 12]}}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, expected %d, body %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp scheduleResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.BonusPayment <= 0 {
		t.Errorf("bonusPayment = %d, expected positive", resp.BonusPayment)
	}
}

func TestHandleScheduleRejectsInvalidBody(t *testing.T) {
	h := newTestHandler()

	tests := []struct {
		name string
		body string
	}{
		{name: "Malformed JSON", body: `{"principal": `},
		{name: "Unknown field", body: `{"principal": 1000000, "annualRate": 1, "years": 10, "color": "red"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, h, "POST", "/api/schedule", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, expected %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestHandleScheduleRejectsInvalidTerms(t *testing.T) {
	h := newTestHandler()
	w := doJSON(t, h, "POST", "/api/schedule",
		`{"principal": 0, "annualRate": 1.5, "years": 35}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected %d", w.Code, http.StatusBadRequest)
	}

	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Error == "" {
		t.Errorf("error message is empty")
	}
}

func TestHandleScheduleMethodNotAllowed(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest("GET", "/api/schedule", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, expected %d", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandlePrepayment(t *testing.T) {
	h := newTestHandler()
	w := doJSON(t, h, "POST", "/api/prepayment",
		`{"loan": {"principal": 50000000, "annualRate": 1.0, "years": 35},
		  "events": [{"period": 60, "amount": 5000000, "policy": "shortenTerm"}]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, expected %d, body %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp prepaymentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.PeriodsReduced <= 0 {
		t.Errorf("periodsReduced = %d, expected positive", resp.PeriodsReduced)
	}
	if resp.InterestSaved <= 0 {
		t.Errorf("interestSaved = %d, expected positive", resp.InterestSaved)
	}
	if len(resp.Adjusted.Entries) >= len(resp.Original.Entries) {
		t.Errorf("adjusted schedule not shorter: %d vs %d",
			len(resp.Adjusted.Entries), len(resp.Original.Entries))
	}
}

func TestHandlePrepaymentInfeasible(t *testing.T) {
	h := newTestHandler()
	w := doJSON(t, h, "POST", "/api/prepayment",
		`{"loan": {"principal": 1000000, "annualRate": 1.0, "years": 10},
		  "events": [{"period": 60, "amount": 5000000}]}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, expected %d", w.Code, http.StatusUnprocessableEntity)
	}
}

func TestHandleReverse(t *testing.T) {
	h := newTestHandler()
	w := doJSON(t, h, "POST", "/api/reverse",
		`{"monthlyPayment": 91855, "annualRate": 1.5, "years": 35}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, expected %d, body %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp reverseResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 30000000 {
		t.Errorf("total = %d, expected 30000000", resp.Total)
	}
}

func TestHandleCompare(t *testing.T) {
	h := newTestHandler()
	w := doJSON(t, h, "POST", "/api/compare",
		`{"offers": [
		   {"name": "bank A", "principal": 30000000, "annualRate": 1.5, "years": 35, "flatFee": 330000},
		   {"name": "bank B", "principal": 30000000, "annualRate": 1.5, "years": 35, "flatFee": 110000}
		 ]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, expected %d, body %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp compareResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Evaluations) != 2 {
		t.Errorf("got %d evaluations, expected 2", len(resp.Evaluations))
	}
	if resp.Overall != "bank B" {
		t.Errorf("overall = %q, expected %q", resp.Overall, "bank B")
	}
}

func TestHandleCompareTooManyOffers(t *testing.T) {
	h := newTestHandler()

	offer := `{"name": "x", "principal": 10000000, "annualRate": 1.0, "years": 10}`
	offers := make([]string, 6)
	for i := range offers {
		offers[i] = offer
	}
	w := doJSON(t, h, "POST", "/api/compare",
		`{"offers": [`+strings.Join(offers, ",")+`]}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, expected %d", w.Code, http.StatusUnprocessableEntity)
	}
}

func TestHandleVersion(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest("GET", "/api/version", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, expected %d", w.Code, http.StatusOK)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] != "test" {
		t.Errorf("version = %q, expected %q", resp["version"], "test")
	}
}

func TestRequestSizeLimit(t *testing.T) {
	h := NewHandler(zap.NewNop(), 64, "test")
	body := `{"principal": 12000000, "annualRate": 0, "years": 10, "method": "equalPayment"}`
	w := doJSON(t, h, "POST", "/api/schedule", body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected %d for oversized body", w.Code, http.StatusBadRequest)
	}
}
