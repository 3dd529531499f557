package usecase

import (
	"testing"

	"github.com/homekeep/backend/internal/domain"
)

func cost(v float64) *float64 { return &v }

func TestComputeTotal(t *testing.T) {
	tests := []struct {
		name  string
		items []domain.ShoppingListItem
		want  float64
	}{
		{
			name: "nil costs count as zero",
			items: []domain.ShoppingListItem{
				{EstimatedCost: cost(1.50)},
				{EstimatedCost: nil},
				{EstimatedCost: cost(2.25)},
			},
			want: 3.75,
		},
		{
			name:  "empty list",
			items: nil,
			want:  0,
		},
		{
			name: "rounds to cents",
			items: []domain.ShoppingListItem{
				{EstimatedCost: cost(0.1)},
				{EstimatedCost: cost(0.2)},
			},
			want: 0.3,
		},
		{
			name: "sub-cent amounts",
			items: []domain.ShoppingListItem{
				{EstimatedCost: cost(1.004)},
				{EstimatedCost: cost(1.004)},
			},
			want: 2.01,
		},
		{
			name: "unparseable stored values are zero",
			items: []domain.ShoppingListItem{
				{EstimatedCost: domain.ParseCost("n/a")},
				{EstimatedCost: domain.ParseCost("4.99")},
			},
			want: 4.99,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeTotal(tt.items); got != tt.want {
				t.Errorf("ComputeTotal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRoundCents(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1.005, 1.0}, // 1.005 is 1.00499... in binary
		{0.125, 0.13},
		{-0.125, -0.13},
		{1.006, 1.01},
		{-1.234, -1.23},
		{19.999, 20},
	}

	for _, tt := range tests {
		if got := RoundCents(tt.in); got != tt.want {
			t.Errorf("RoundCents(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
