package handler

import (
	"net/http"

	"github.com/sfines/sdd-process-example/internal/api/response"
)

// Health handles GET /api/health
func Health(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "healthy"})
}
