package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/valvecheck-backend-go/internal/middleware"
	"github.com/jengzang/valvecheck-backend-go/internal/models"
	"github.com/jengzang/valvecheck-backend-go/internal/render"
	"github.com/jengzang/valvecheck-backend-go/internal/service"
	"github.com/jengzang/valvecheck-backend-go/internal/stats"
	"github.com/jengzang/valvecheck-backend-go/pkg/response"
)

// SessionHandler handles HTTP requests for test sessions
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// IngestRequest is a batch of parsed waveforms plus the files the parser rejected
type IngestRequest struct {
	Waveforms []models.Waveform      `json:"waveforms"`
	Failures  []models.IngestFailure `json:"failures"`
}

// ApproveRequest carries the voltage to bind
type ApproveRequest struct {
	Voltage *float64 `json:"voltage" binding:"required"`
}

// MachineRequest selects a machine type
type MachineRequest struct {
	MachineType string `json:"machineType" binding:"required"`
}

// CreateSession handles POST /api/v1/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	response.Created(c, h.sessions.Create())
}

// GetSession handles GET /api/v1/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	snap, err := h.sessions.Snapshot(c.Param("id"))
	if err != nil {
		fail(c, "Failed to get session", err)
		return
	}
	response.Success(c, snap)
}

// DeleteSession handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Param("id")); err != nil {
		fail(c, "Failed to delete session", err)
		return
	}
	response.Success(c, nil)
}

// IngestWaveforms handles POST /api/v1/sessions/:id/waveforms
func (h *SessionHandler) IngestWaveforms(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Waveforms) == 0 && len(req.Failures) == 0 {
		response.BadRequest(c, "No waveforms supplied")
		return
	}

	result, err := h.sessions.Ingest(c.Param("id"), req.Waveforms, req.Failures)
	if err != nil {
		fail(c, "Failed to ingest waveforms", err)
		return
	}
	response.Success(c, result)
}

// Recalculate handles POST /api/v1/sessions/:id/files/:file/recalculate
func (h *SessionHandler) Recalculate(c *gin.Context) {
	var req models.RecalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.sessions.Recalculate(c.Param("id"), c.Param("file"), req)
	if err != nil {
		fail(c, "Recalculation rejected", err)
		return
	}
	response.Success(c, result)
}

// Approve handles POST /api/v1/sessions/:id/files/:file/approve
func (h *SessionHandler) Approve(c *gin.Context) {
	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.sessions.Approve(c.Param("id"), c.Param("file"), *req.Voltage, middleware.Operator(c))
	if err != nil {
		fail(c, "Approval rejected", err)
		return
	}
	response.Success(c, result)
}

// Revoke handles POST /api/v1/sessions/:id/files/:file/revoke
func (h *SessionHandler) Revoke(c *gin.Context) {
	entry, err := h.sessions.Revoke(c.Param("id"), c.Param("file"))
	if err != nil {
		fail(c, "Failed to revoke approval", err)
		return
	}
	response.Success(c, entry)
}

// Select handles POST /api/v1/sessions/:id/files/:file/select
func (h *SessionHandler) Select(c *gin.Context) {
	result, err := h.sessions.Select(c.Param("id"), c.Param("file"))
	if err != nil {
		fail(c, "Failed to select file", err)
		return
	}
	response.Success(c, result)
}

// SetMachine handles PUT /api/v1/sessions/:id/machine
func (h *SessionHandler) SetMachine(c *gin.Context) {
	var req MachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.sessions.SetMachineType(c.Param("id"), req.MachineType); err != nil {
		fail(c, "Failed to set machine type", err)
		return
	}
	h.GetSession(c)
}

// SetManualSlope handles PUT /api/v1/sessions/:id/manual-slope
func (h *SessionHandler) SetManualSlope(c *gin.Context) {
	var req models.SlopeOverride
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.sessions.SetSlopeOverride(c.Param("id"), req); err != nil {
		fail(c, "Failed to set manual slope", err)
		return
	}
	h.GetSession(c)
}

// GetCurve handles GET /api/v1/sessions/:id/curve?width=&height=
func (h *SessionHandler) GetCurve(c *gin.Context) {
	width, err := queryDimension(c, "width")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid width", err)
		return
	}
	height, err := queryDimension(c, "height")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid height", err)
		return
	}

	view, err := h.sessions.Curve(c.Param("id"), width, height)
	if err != nil {
		fail(c, "Failed to build curve", err)
		return
	}
	response.Success(c, view)
}

// GetChart handles GET /api/v1/sessions/:id/chart.png
func (h *SessionHandler) GetChart(c *gin.Context) {
	width, err := strconv.Atoi(c.DefaultQuery("width", "0"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid width", err)
		return
	}
	height, err := strconv.Atoi(c.DefaultQuery("height", "0"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid height", err)
		return
	}

	d, err := h.sessions.Derived(c.Param("id"))
	if err != nil {
		fail(c, "Failed to get session", err)
		return
	}

	var buf bytes.Buffer
	opts := render.ChartOptions{Width: width, Height: height}
	if err := render.VoltageChart(&buf, d.VoltagePoints, d.Regression, d.Curve, opts); err != nil {
		fail(c, "Failed to render chart", err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// queryDimension parses a finite float query parameter, defaulting to 0
func queryDimension(c *gin.Context, key string) (float64, error) {
	v, err := strconv.ParseFloat(c.DefaultQuery(key, "0"), 64)
	if err != nil {
		return 0, err
	}
	if !stats.Finite(v) {
		return 0, fmt.Errorf("%s must be finite, got %v", key, v)
	}
	return v, nil
}
