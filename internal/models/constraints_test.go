package models

import "testing"

func floatPtr(f float64) *float64 { return &f }

func TestNumericRangeValidate(t *testing.T) {
	valid := []NumericRange{
		{},
		{Min: floatPtr(1)},
		{Max: floatPtr(5)},
		{Min: floatPtr(1), Max: floatPtr(5)},
		{Min: floatPtr(3), Max: floatPtr(3)},
	}
	for _, r := range valid {
		if err := r.Validate(); err != nil {
			t.Errorf("Expected %s to validate, got %v", r.Describe(), err)
		}
	}

	inverted := NumericRange{Min: floatPtr(5), Max: floatPtr(1)}
	if err := inverted.Validate(); err == nil {
		t.Error("Expected error for min greater than max")
	}
}

func TestNumericRangeContains(t *testing.T) {
	r := NumericRange{Min: floatPtr(1), Max: floatPtr(5)}

	for _, v := range []float64{1, 3, 5} {
		if !r.Contains(v) {
			t.Errorf("Expected %v to be inside the range", v)
		}
	}
	for _, v := range []float64{0.9, 5.1, -10} {
		if r.Contains(v) {
			t.Errorf("Expected %v to be outside the range", v)
		}
	}

	open := NumericRange{Min: floatPtr(0)}
	if !open.Contains(1e9) {
		t.Error("Expected an open max to accept any larger value")
	}
}

func TestNumericRangeDescribe(t *testing.T) {
	tests := []struct {
		r        NumericRange
		expected string
	}{
		{NumericRange{Min: floatPtr(1), Max: floatPtr(5)}, "between 1 and 5"},
		{NumericRange{Min: floatPtr(2.5)}, "2.5 or more"},
		{NumericRange{Max: floatPtr(10)}, "10 or less"},
		{NumericRange{}, ""},
	}

	for _, tt := range tests {
		if got := tt.r.Describe(); got != tt.expected {
			t.Errorf("Expected %q, got %q", tt.expected, got)
		}
	}
}
