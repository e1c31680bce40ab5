package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"polibest/api/internal/models"
	"polibest/api/internal/repository"
)

// GetSettings returns the singleton settings document, seeding the
// defaults on first read.
func (h HandlerSet) GetSettings(c *gin.Context) {
	settings, err := h.settings.GetSettings(c.Request.Context())
	if err != nil {
		if errors.Is(err, repository.ErrSettingsNotFound) {
			settings = models.DefaultSettings()
			if err := h.settings.UpsertSettings(c.Request.Context(), settings); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, settings)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, settings)
}

type settingsUpdateRequest struct {
	Currency    *string `json:"currency"`
	Unit        *string `json:"unit"`
	CompanyName *string `json:"company_name"`
}

func (h HandlerSet) UpdateSettings(c *gin.Context) {
	var req settingsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.settings.GetSettings(c.Request.Context())
	if err != nil {
		if !errors.Is(err, repository.ErrSettingsNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		settings = models.DefaultSettings()
	}

	if req.Currency != nil {
		settings.Currency = *req.Currency
	}
	if req.Unit != nil {
		settings.Unit = *req.Unit
	}
	if req.CompanyName != nil {
		settings.CompanyName = *req.CompanyName
	}

	if err := h.settings.UpsertSettings(c.Request.Context(), settings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (h HandlerSet) GetCalculatorPrices(c *gin.Context) {
	prices, err := h.settings.GetCalculatorPrices(c.Request.Context())
	if err != nil {
		if errors.Is(err, repository.ErrSettingsNotFound) {
			prices = models.DefaultCalculatorPrices()
			if err := h.settings.UpsertCalculatorPrices(c.Request.Context(), prices); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, prices)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, prices)
}

type calculatorPricesUpdateRequest struct {
	Primer    *float64 `json:"primer"`
	Paint     *float64 `json:"paint"`
	Enamel    *float64 `json:"enamel"`
	Floki     *float64 `json:"floki"`
	LacGlossy *float64 `json:"lacGlossy"`
	LacMatte  *float64 `json:"lacMatte"`
}

func (h HandlerSet) UpdateCalculatorPrices(c *gin.Context) {
	var req calculatorPricesUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prices, err := h.settings.GetCalculatorPrices(c.Request.Context())
	if err != nil {
		if !errors.Is(err, repository.ErrSettingsNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		prices = models.DefaultCalculatorPrices()
	}

	if req.Primer != nil {
		prices.Primer = *req.Primer
	}
	if req.Paint != nil {
		prices.Paint = *req.Paint
	}
	if req.Enamel != nil {
		prices.Enamel = *req.Enamel
	}
	if req.Floki != nil {
		prices.Floki = *req.Floki
	}
	if req.LacGlossy != nil {
		prices.LacGlossy = *req.LacGlossy
	}
	if req.LacMatte != nil {
		prices.LacMatte = *req.LacMatte
	}

	if err := h.settings.UpsertCalculatorPrices(c.Request.Context(), prices); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, prices)
}
