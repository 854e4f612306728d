package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"violation-report/handlers"
	"violation-report/models"
	"violation-report/report"
)

type staticBuilder struct{}

func (staticBuilder) Build(context.Context, *models.ReportRequest) (*report.Document, error) {
	return &report.Document{Name: report.FileName, Data: []byte("%PDF-1.3"), Pages: 4}, nil
}

func TestGenerateReportRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := setupRouter([]string{"*"}, handlers.NewHandlers(staticBuilder{}, 1<<20))

	body := `{"violations": [{"id": "1", "type": "fire"}]}`
	for _, path := range []string{"/generate-report", "/api/v3/generate-report"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
			assert.Contains(t, w.Header().Get("Content-Disposition"), report.FileName)
		})
	}
}

func TestHealthRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := setupRouter([]string{"*"}, handlers.NewHandlers(staticBuilder{}, 1<<20))

	for _, path := range []string{"/", "/health", "/api/v3/health"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
