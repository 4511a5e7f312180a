package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chatrelay/internal/app"
)

type TranscribeHandler struct {
	transcribeService *app.TranscribeService
}

func NewTranscribeHandler(transcribeService *app.TranscribeService) *TranscribeHandler {
	return &TranscribeHandler{transcribeService: transcribeService}
}

// Transcribe accepts a multipart audio file plus an optional language form
// field and blocks until the provider finishes the job.
func (h *TranscribeHandler) Transcribe(c *gin.Context) {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "audio file is required"})
		return
	}
	language := c.DefaultPostForm("language", "en")

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal error: " + err.Error()})
		return
	}
	defer file.Close()

	text, err := h.transcribeService.Transcribe(c.Request.Context(), file, language)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal error: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}
