package domain

import (
	"math"
	"testing"
)

func TestParseCost(t *testing.T) {
	five := 5.0

	tests := []struct {
		name string
		raw  interface{}
		want *float64
	}{
		{"nil", nil, nil},
		{"float64", 4.5, &[]float64{4.5}[0]},
		{"float32", float32(0.5), &[]float64{0.5}[0]},
		{"int64", int64(3), &[]float64{3}[0]},
		{"int", 2, &[]float64{2}[0]},
		{"pointer", &five, &five},
		{"nil pointer", (*float64)(nil), nil},
		{"numeric string", " 4.50 ", &[]float64{4.5}[0]},
		{"bytes", []byte("1.25"), &[]float64{1.25}[0]},
		{"garbage string", "n/a", nil},
		{"empty string", "", nil},
		{"NaN", math.NaN(), nil},
		{"infinity", math.Inf(1), nil},
		{"NaN string", "NaN", nil},
		{"unsupported type", struct{}{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCost(tt.raw)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("ParseCost(%v) = %v, want nil", tt.raw, *got)
			case tt.want != nil && got == nil:
				t.Errorf("ParseCost(%v) = nil, want %v", tt.raw, *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("ParseCost(%v) = %v, want %v", tt.raw, *got, *tt.want)
			}
		})
	}
}

func TestShoppingListItem_Cost(t *testing.T) {
	if got := (ShoppingListItem{}).Cost(); got != 0 {
		t.Errorf("Cost() without estimate = %v, want 0", got)
	}

	v := 2.25
	if got := (ShoppingListItem{EstimatedCost: &v}).Cost(); got != 2.25 {
		t.Errorf("Cost() = %v, want 2.25", got)
	}
}

func TestNormalizeName(t *testing.T) {
	tests := map[string]string{
		"  Brown SUGAR ": "brown sugar",
		"\tflour\n":      "flour",
		"":               "",
	}

	for in, want := range tests {
		if got := NormalizeName(in); got != want {
			t.Errorf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPriceRange_Midpoint(t *testing.T) {
	if got := (PriceRange{Min: 1, Max: 3}).Midpoint(); got != 2 {
		t.Errorf("Midpoint() = %v, want 2", got)
	}
}
