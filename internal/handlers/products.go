package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"polibest/api/internal/ids"
	"polibest/api/internal/models"
	"polibest/api/internal/repository"
)

type productRequest struct {
	Name            string  `json:"name" binding:"required"`
	PricePerKg      float64 `json:"price_per_kg" binding:"required"`
	ConsumptionKgM2 float64 `json:"consumption_kg_m2" binding:"required"`
	Description     string  `json:"description"`
}

func (h HandlerSet) ListProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	c.JSON(http.StatusOK, products)
}

func (h HandlerSet) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := models.Product{
		ID:              ids.New(),
		Name:            req.Name,
		PricePerKg:      req.PricePerKg,
		ConsumptionKgM2: req.ConsumptionKgM2,
		Description:     req.Description,
	}

	if err := h.products.Create(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h HandlerSet) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := models.Product{
		ID:              c.Param("id"),
		Name:            req.Name,
		PricePerKg:      req.PricePerKg,
		ConsumptionKgM2: req.ConsumptionKgM2,
		Description:     req.Description,
	}

	updated, err := h.products.Update(c.Request.Context(), product)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h HandlerSet) DeleteProduct(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Продукт удалён"})
}
