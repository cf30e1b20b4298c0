package ratemath

import (
	"math"
	"testing"
)

func TestPeriodicRate(t *testing.T) {
	tests := []struct {
		name       string
		annualRate float64
		expected   float64
	}{
		{
			name:       "Typical mortgage rate",
			annualRate: 1.5,
			expected:   0.00125,
		},
		{
			name:       "Zero rate",
			annualRate: 0.0,
			expected:   0.0,
		},
		{
			name:       "High rate",
			annualRate: 18.0,
			expected:   0.015,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PeriodicRate(tt.annualRate)
			if math.Abs(result-tt.expected) > 1e-12 {
				t.Errorf("PeriodicRate() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestTotalPeriods(t *testing.T) {
	tests := []struct {
		name        string
		years       int
		extraMonths int
		expected    int
	}{
		{name: "35 years", years: 35, extraMonths: 0, expected: 420},
		{name: "10 years and 6 months", years: 10, extraMonths: 6, expected: 126},
		{name: "Months only", years: 0, extraMonths: 7, expected: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := TotalPeriods(tt.years, tt.extraMonths); result != tt.expected {
				t.Errorf("TotalPeriods() = %d, expected %d", result, tt.expected)
			}
		})
	}
}

func TestRoundFinancial(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		places   int
		expected float64
	}{
		{name: "Half rounds up", value: 0.5, places: 0, expected: 1},
		{name: "Below half rounds down", value: 1.499, places: 0, expected: 1},
		{name: "Three decimal places", value: 1.23456, places: 3, expected: 1.235},
		{name: "Exact value unchanged", value: 42, places: 0, expected: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := RoundFinancial(tt.value, tt.places); math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("RoundFinancial() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestRoundCurrency(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected int64
	}{
		{name: "Half rounds up", value: 91855.5, expected: 91856},
		{name: "Below half rounds down", value: 91855.17, expected: 91855},
		{name: "Whole value", value: 100000, expected: 100000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := RoundCurrency(tt.value); result != tt.expected {
				t.Errorf("RoundCurrency() = %d, expected %d", result, tt.expected)
			}
		})
	}
}

func TestRoundToUnit(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		unit     int64
		expected int64
	}{
		{name: "Rounds up to ten thousand", value: 29999902, unit: 10000, expected: 30000000},
		{name: "Rounds down to ten thousand", value: 30004999, unit: 10000, expected: 30000000},
		{name: "Unit of one falls back to currency rounding", value: 123.6, unit: 1, expected: 124},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := RoundToUnit(tt.value, tt.unit); result != tt.expected {
				t.Errorf("RoundToUnit() = %d, expected %d", result, tt.expected)
			}
		})
	}
}
