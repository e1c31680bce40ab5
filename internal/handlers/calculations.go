package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"polibest/api/internal/ids"
	"polibest/api/internal/models"
	"polibest/api/internal/repository"
)

type calculationRequest struct {
	ProductID       string          `json:"product_id" binding:"required"`
	ProductName     string          `json:"product_name" binding:"required"`
	ClientName      string          `json:"client_name"`
	OrderDate       string          `json:"order_date"`
	OrderSource     string          `json:"order_source"`
	AreaM2          float64         `json:"area_m2"`
	Layers          int             `json:"layers"`
	ConsumptionKgM2 float64         `json:"consumption_kg_m2"`
	TotalKg         float64         `json:"total_kg"`
	PricePerKg      float64         `json:"price_per_kg"`
	TotalPrice      float64         `json:"total_price"`
	WithPrimer      bool            `json:"with_primer"`
	LacType         *string         `json:"lac_type"`
	Items           json.RawMessage `json:"items"`
	IncludeInTotal  *bool           `json:"include_in_total"`
}

func (h HandlerSet) ListCalculations(c *gin.Context) {
	calcs, err := h.calculations.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if calcs == nil {
		calcs = []models.Calculation{}
	}

	c.JSON(http.StatusOK, calcs)
}

func (h HandlerSet) CreateCalculation(c *gin.Context) {
	var req calculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	includeInTotal := true
	if req.IncludeInTotal != nil {
		includeInTotal = *req.IncludeInTotal
	}

	calc := models.Calculation{
		ID:              ids.New(),
		ProductID:       req.ProductID,
		ProductName:     req.ProductName,
		ClientName:      req.ClientName,
		OrderDate:       req.OrderDate,
		OrderSource:     req.OrderSource,
		AreaM2:          req.AreaM2,
		Layers:          req.Layers,
		ConsumptionKgM2: req.ConsumptionKgM2,
		TotalKg:         req.TotalKg,
		PricePerKg:      req.PricePerKg,
		TotalPrice:      req.TotalPrice,
		WithPrimer:      req.WithPrimer,
		LacType:         req.LacType,
		Items:           req.Items,
		IncludeInTotal:  includeInTotal,
	}

	if err := h.calculations.Create(c.Request.Context(), calc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, calc)
}

func (h HandlerSet) GetCalculation(c *gin.Context) {
	calc, err := h.calculations.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrCalculationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "calculation_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, calc)
}

type calculationPatchRequest struct {
	ClientName  *string `json:"client_name"`
	OrderDate   *string `json:"order_date"`
	OrderSource *string `json:"order_source"`
}

func (h HandlerSet) PatchCalculation(c *gin.Context) {
	var req calculationPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.calculations.Patch(c.Request.Context(), c.Param("id"), repository.CalculationPatch{
		ClientName:  req.ClientName,
		OrderDate:   req.OrderDate,
		OrderSource: req.OrderSource,
	})
	if err != nil {
		if errors.Is(err, repository.ErrCalculationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "calculation_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h HandlerSet) ToggleCalculationTotal(c *gin.Context) {
	included, err := h.calculations.ToggleIncludeInTotal(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrCalculationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "calculation_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"include_in_total": included})
}

func (h HandlerSet) DeleteCalculation(c *gin.Context) {
	if err := h.calculations.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrCalculationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "calculation_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Розрахунок видалено"})
}
