package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/valvecheck-backend-go/internal/analysis/ledger"
	"github.com/jengzang/valvecheck-backend-go/internal/analysis/regression"
	"github.com/jengzang/valvecheck-backend-go/internal/service"
	"github.com/jengzang/valvecheck-backend-go/pkg/response"
)

// MetaHandler serves static reference data
type MetaHandler struct {
	sessions *service.SessionService
}

// NewMetaHandler creates a new meta handler
func NewMetaHandler(sessions *service.SessionService) *MetaHandler {
	return &MetaHandler{sessions: sessions}
}

// Machines handles GET /api/v1/machines
func (h *MetaHandler) Machines(c *gin.Context) {
	response.Success(c, regression.Machines())
}

// Voltages handles GET /api/v1/voltages
func (h *MetaHandler) Voltages(c *gin.Context) {
	response.Success(c, ledger.Voltages())
}

// Health handles GET /health
func (h *MetaHandler) Health(c *gin.Context) {
	response.Success(c, gin.H{
		"status":   "ok",
		"message":  "Valve check API is running",
		"sessions": len(h.sessions.IDs()),
	})
}
