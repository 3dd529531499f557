package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/homekeep/backend/internal/domain"
)

// PackageService resolves recipe quantities and price estimates
type PackageService interface {
	ResolvePackage(ingredient string, quantity float64, unit string) domain.ResolvedPackage
	PackageOptions(ingredient string) ([]domain.PackageOption, bool)
	EstimatedPriceRange(ingredient string) domain.PriceRange
}

// ShoppingService manages shopping lists
type ShoppingService interface {
	CreateList(ctx context.Context, request *domain.CreateListRequest) (*domain.ShoppingList, error)
	Lists(ctx context.Context) ([]domain.ShoppingList, error)
	GetListSummary(ctx context.Context, listID int64) (*domain.ListSummary, error)
	AddItem(ctx context.Context, listID int64, request *domain.AddItemRequest) (*domain.ShoppingListItem, error)
	UpdateItemCost(ctx context.Context, itemID int64, request *domain.UpdateItemCostRequest) (*domain.ShoppingListItem, error)
	DeleteItem(ctx context.Context, itemID int64) error
	ReconcileListTotal(ctx context.Context, listID int64) (*domain.ReconcileResult, error)
	ReconcileAll(ctx context.Context) ([]domain.ReconcileResult, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	packages PackageService
	shopping ShoppingService
}

// NewHandler creates a new HTTP handler
func NewHandler(packages PackageService, shopping ShoppingService) *Handler {
	return &Handler{
		packages: packages,
		shopping: shopping,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "homekeep-backend",
		"version": "1.0.0",
	})
}

// ResolvePackage converts a recipe quantity into a store package
func (h *Handler) ResolvePackage(c *gin.Context) {
	var req domain.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingredient is required"})
		return
	}

	c.JSON(http.StatusOK, h.packages.ResolvePackage(req.Ingredient, req.Quantity, req.Unit))
}

// PackageOptions lists every known package size for an ingredient
func (h *Handler) PackageOptions(c *gin.Context) {
	ingredient := strings.TrimSpace(c.Query("ingredient"))
	if ingredient == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingredient query parameter is required"})
		return
	}

	options, ok := h.packages.PackageOptions(ingredient)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no package rule for ingredient"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ingredient": ingredient,
		"options":    options,
	})
}

// PriceRange returns the estimated shelf price for an ingredient
func (h *Handler) PriceRange(c *gin.Context) {
	ingredient := strings.TrimSpace(c.Query("ingredient"))
	if ingredient == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingredient query parameter is required"})
		return
	}

	c.JSON(http.StatusOK, h.packages.EstimatedPriceRange(ingredient))
}

// ListShoppingLists returns all shopping lists
func (h *Handler) ListShoppingLists(c *gin.Context) {
	lists, err := h.shopping.Lists(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lists": lists})
}

// CreateShoppingList creates an empty shopping list
func (h *Handler) CreateShoppingList(c *gin.Context) {
	var req domain.CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	list, err := h.shopping.CreateList(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, list)
}

// GetShoppingList returns a list with its items and computed total
func (h *Handler) GetShoppingList(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	summary, err := h.shopping.GetListSummary(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// AddItem adds an item to a list
func (h *Handler) AddItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req domain.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itemName is required"})
		return
	}

	item, err := h.shopping.AddItem(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateItemCost sets or clears an item's estimated cost.
// The estimatedCost key is required; an explicit null clears the cost.
func (h *Handler) UpdateItemCost(c *gin.Context) {
	id, ok := parseID(c, "itemId")
	if !ok {
		return
	}

	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	raw, present := body["estimatedCost"]
	if !present {
		c.JSON(http.StatusBadRequest, gin.H{"error": "estimatedCost is required (use null to clear)"})
		return
	}

	var req domain.UpdateItemCostRequest
	if err := json.Unmarshal(raw, &req.EstimatedCost); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "estimatedCost must be a number or null"})
		return
	}

	item, err := h.shopping.UpdateItemCost(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteItem removes an item
func (h *Handler) DeleteItem(c *gin.Context) {
	id, ok := parseID(c, "itemId")
	if !ok {
		return
	}

	if err := h.shopping.DeleteItem(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReconcileList recomputes one list's stored total
func (h *Handler) ReconcileList(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.shopping.ReconcileListTotal(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ReconcileAllLists recomputes every list's stored total
func (h *Handler) ReconcileAllLists(c *gin.Context) {
	results, err := h.shopping.ReconcileAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// parseID reads a positive integer path parameter, writing a 400 on failure
func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return 0, false
	}
	return id, true
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrListNotFound), errors.Is(err, domain.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
