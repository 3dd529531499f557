package usecase

import (
	"math"

	"github.com/homekeep/backend/internal/domain"
)

// ComputeTotal sums the estimated cost of every item, counting missing costs
// as zero, and rounds the result to cents
func ComputeTotal(items []domain.ShoppingListItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Cost()
	}
	return RoundCents(sum)
}

// RoundCents rounds a currency amount to two decimal places
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
