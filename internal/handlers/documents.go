package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"polibest/api/internal/ids"
	"polibest/api/internal/models"
	"polibest/api/internal/repository"
)

type documentRequest struct {
	Title         string  `json:"title" binding:"required"`
	DocType       string  `json:"doc_type" binding:"required"`
	CalculationID *string `json:"calculation_id"`
	Content       string  `json:"content"`
}

func (h HandlerSet) ListDocuments(c *gin.Context) {
	docs, err := h.documents.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if docs == nil {
		docs = []models.Document{}
	}

	c.JSON(http.StatusOK, docs)
}

func (h HandlerSet) CreateDocument(c *gin.Context) {
	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc := models.Document{
		ID:            ids.New(),
		Title:         req.Title,
		DocType:       req.DocType,
		CalculationID: req.CalculationID,
		Content:       req.Content,
	}

	if err := h.documents.Create(c.Request.Context(), doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h HandlerSet) DeleteDocument(c *gin.Context) {
	if err := h.documents.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "document_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Документ удалён"})
}

// DocumentFile serves the document body as a downloadable text file. The
// filename goes through RFC 5987 encoding so non-ASCII titles survive the
// Content-Disposition header.
func (h HandlerSet) DocumentFile(c *gin.Context) {
	doc, err := h.documents.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "document_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", contentDisposition(doc.Title+".txt"))
	c.Header("Access-Control-Expose-Headers", "Content-Disposition")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(doc.Content))
}

func contentDisposition(fileName string) string {
	return "attachment; filename*=UTF-8''" + url.PathEscape(fileName)
}
