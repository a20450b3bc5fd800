package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// A malformed driver ID must come back as a 400, never leak through to a
// lookup that reports the driver as missing.
func TestSettlementHandlerRejectsMalformedDriverID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewSettlementHandler(nil)
	router := gin.New()
	router.POST("/settlements", h.Create)
	router.PUT("/settlements", h.Save)
	router.POST("/settlements/initialize", h.Initialize)

	body := `{"driver_id":"not-a-uuid","target_month":"2025-06"}`
	cases := []struct {
		name   string
		method string
		path   string
	}{
		{"create", http.MethodPost, "/settlements"},
		{"save", http.MethodPut, "/settlements"},
		{"initialize", http.MethodPost, "/settlements/initialize"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
