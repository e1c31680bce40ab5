package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"polibest/api/internal/models"
	"polibest/api/internal/repository"
	"polibest/api/internal/service"
)

type instructionRequest struct {
	Title    string  `json:"title" binding:"required"`
	Category string  `json:"category" binding:"required"`
	Content  string  `json:"content"`
	FileName *string `json:"file_name"`
	FileData *string `json:"file_data"`
	FileType string  `json:"file_type"`
}

func (req instructionRequest) toInput() service.InstructionInput {
	return service.InstructionInput{
		Title:    req.Title,
		Category: req.Category,
		Content:  req.Content,
		FileName: req.FileName,
		FileData: req.FileData,
		FileType: req.FileType,
	}
}

func (h HandlerSet) ListInstructions(c *gin.Context) {
	instructions, err := h.instructionService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if instructions == nil {
		instructions = []models.Instruction{}
	}

	c.JSON(http.StatusOK, instructions)
}

func (h HandlerSet) CreateInstruction(c *gin.Context) {
	var req instructionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	instruction, err := h.instructionService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, instruction)
}

func (h HandlerSet) UpdateInstruction(c *gin.Context) {
	var req instructionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	instruction, err := h.instructionService.Update(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		if errors.Is(err, repository.ErrInstructionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "instruction_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, instruction)
}

func (h HandlerSet) DeleteInstruction(c *gin.Context) {
	if err := h.instructionService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrInstructionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "instruction_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Инструкция удалена"})
}

func (h HandlerSet) InstructionFile(c *gin.Context) {
	file, err := h.instructionService.GetFile(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInstructionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "instruction_not_found"})
		case errors.Is(err, service.ErrFileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "file_not_found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	defer file.Reader.Close()

	headers := map[string]string{
		"Content-Disposition":           contentDisposition(file.FileName),
		"Access-Control-Expose-Headers": "Content-Disposition",
	}
	c.DataFromReader(http.StatusOK, file.Size, file.ContentType, file.Reader, headers)
}
