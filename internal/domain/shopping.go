package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ShoppingList is a named list of items. TotalEstimatedCost is a cached
// aggregate that drifts from its items until reconciled.
type ShoppingList struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	TotalEstimatedCost float64   `json:"totalEstimatedCost"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// ShoppingListItem is a single line on a shopping list.
// A nil EstimatedCost means no estimate has been recorded.
type ShoppingListItem struct {
	ID            int64    `json:"id"`
	ListID        int64    `json:"listId"`
	ItemName      string   `json:"itemName"`
	Quantity      float64  `json:"quantity"`
	Unit          string   `json:"unit"`
	EstimatedCost *float64 `json:"estimatedCost"`
}

// Cost returns the item's estimated cost, or 0 when absent
func (i ShoppingListItem) Cost() float64 {
	if i.EstimatedCost == nil {
		return 0
	}
	return *i.EstimatedCost
}

// ReconcileResult reports the outcome of recomputing a list total
type ReconcileResult struct {
	ListID        int64   `json:"listId"`
	ItemCount     int     `json:"itemCount"`
	PreviousTotal float64 `json:"previousTotal"`
	NewTotal      float64 `json:"newTotal"`
	Updated       bool    `json:"updated"`
	Changed       bool    `json:"changed"`
}

// ListSummary is a list together with its items and the total computed from them
type ListSummary struct {
	List          ShoppingList       `json:"list"`
	Items         []ShoppingListItem `json:"items"`
	ComputedTotal float64            `json:"computedTotal"`
	InSync        bool               `json:"inSync"`
}

// CreateListRequest represents a request to create a shopping list
type CreateListRequest struct {
	Name string `json:"name" binding:"required"`
}

// AddItemRequest represents a request to add an item to a shopping list
type AddItemRequest struct {
	ItemName      string   `json:"itemName" binding:"required"`
	Quantity      float64  `json:"quantity"`
	Unit          string   `json:"unit"`
	EstimatedCost *float64 `json:"estimatedCost"`
}

// UpdateItemCostRequest sets or clears an item's estimated cost
type UpdateItemCostRequest struct {
	EstimatedCost *float64 `json:"estimatedCost"`
}

// ParseCost converts a raw stored cost into a usable value.
// Returns nil for absent, unparseable, NaN or infinite values.
func ParseCost(raw interface{}) *float64 {
	var v float64
	switch c := raw.(type) {
	case nil:
		return nil
	case float64:
		v = c
	case float32:
		v = float64(c)
	case int64:
		v = float64(c)
	case int:
		v = float64(c)
	case *float64:
		if c == nil {
			return nil
		}
		v = *c
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return nil
		}
		v = parsed
	case []byte:
		return ParseCost(string(c))
	default:
		return nil
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
