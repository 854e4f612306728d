package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"violation-report/models"
	"violation-report/report"
)

// Builder renders a report request into a document.
type Builder interface {
	Build(ctx context.Context, req *models.ReportRequest) (*report.Document, error)
}

// Handlers represents the HTTP handlers
type Handlers struct {
	builder         Builder
	maxRequestBytes int64
}

// NewHandlers creates new HTTP handlers
func NewHandlers(builder Builder, maxRequestBytes int64) *Handlers {
	return &Handlers{builder: builder, maxRequestBytes: maxRequestBytes}
}

// Root answers liveness probes with plain text.
func (h *Handlers) Root(c *gin.Context) {
	c.String(http.StatusOK, "Drone Report API Running")
}

// HealthCheck handles health check requests
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "violation-report",
	})
}

// GenerateReport builds a report from the posted JSON and returns it as a PDF
// attachment.
func (h *Handlers) GenerateReport(c *gin.Context) {
	if h.maxRequestBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxRequestBytes)
	}

	var req models.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No JSON received"})
		case errors.As(err, &tooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit),
			})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		}
		return
	}

	doc, err := h.builder.Build(c.Request.Context(), &req)
	if err != nil {
		if models.IsInputError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.WithError(err).Error("Failed to generate report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Name))
	c.Data(http.StatusOK, "application/pdf", doc.Data)
}
