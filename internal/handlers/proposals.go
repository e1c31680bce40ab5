package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"polibest/api/internal/ids"
	"polibest/api/internal/models"
	"polibest/api/internal/repository"
	"polibest/api/internal/service"
)

type proposalRequest struct {
	Title          string          `json:"title" binding:"required"`
	Client         string          `json:"client" binding:"required"`
	Location       string          `json:"location"`
	Date           string          `json:"date" binding:"required"`
	Settings       json.RawMessage `json:"settings"`
	Rooms          json.RawMessage `json:"rooms"`
	AdditionalData json.RawMessage `json:"additionalData"`
	GrandTotal     float64         `json:"grandTotal"`
}

func (req proposalRequest) toModel(id string) models.Proposal {
	proposal := models.Proposal{
		ID:             id,
		Title:          req.Title,
		Client:         req.Client,
		Location:       req.Location,
		Date:           req.Date,
		Settings:       req.Settings,
		Rooms:          req.Rooms,
		AdditionalData: req.AdditionalData,
		GrandTotal:     req.GrandTotal,
		Status:         models.ProposalStatusDraft,
	}
	if proposal.Settings == nil {
		proposal.Settings = json.RawMessage(`{}`)
	}
	if proposal.Rooms == nil {
		proposal.Rooms = json.RawMessage(`[]`)
	}
	if proposal.AdditionalData == nil {
		proposal.AdditionalData = json.RawMessage(`{}`)
	}
	return proposal
}

func (h HandlerSet) ListProposals(c *gin.Context) {
	proposals, err := h.proposals.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if proposals == nil {
		proposals = []models.Proposal{}
	}

	c.JSON(http.StatusOK, proposals)
}

func (h HandlerSet) GetProposal(c *gin.Context) {
	proposal, err := h.proposals.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrProposalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "proposal_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, proposal)
}

// CreateProposal starts every proposal in draft with an empty history;
// transitions happen only through the status endpoint.
func (h HandlerSet) CreateProposal(c *gin.Context) {
	var req proposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	proposal := req.toModel(ids.New())
	if err := h.proposals.Create(c.Request.Context(), proposal); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": proposal.ID, "message": "КП створено"})
}

func (h HandlerSet) UpdateProposal(c *gin.Context) {
	var req proposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	proposal := req.toModel(c.Param("id"))
	if err := h.proposals.Update(c.Request.Context(), proposal); err != nil {
		if errors.Is(err, repository.ErrProposalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "proposal_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": proposal.ID, "message": "КП оновлено"})
}

func (h HandlerSet) DeleteProposal(c *gin.Context) {
	if err := h.proposals.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrProposalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "proposal_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "КП видалено"})
}

type proposalStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h HandlerSet) UpdateProposalStatus(c *gin.Context) {
	var req proposalStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.proposalService.SetStatus(c.Request.Context(), c.Param("id"), models.ProposalStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_status"})
		case errors.Is(err, repository.ErrProposalNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "proposal_not_found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           result.ID,
		"status":       result.Status,
		"status_label": result.Label,
		"message":      "Статус оновлено",
	})
}

func (h HandlerSet) ProposalFunnel(c *gin.Context) {
	report, err := h.proposalService.Funnel(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}
