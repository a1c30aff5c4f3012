package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/valvecheck-backend-go/internal/middleware"
	"github.com/jengzang/valvecheck-backend-go/internal/models"
	"github.com/jengzang/valvecheck-backend-go/internal/service"
	"github.com/jengzang/valvecheck-backend-go/pkg/response"
)

// CertificationHandler handles export and the certification archive
type CertificationHandler struct {
	exports *service.ExportService
}

// NewCertificationHandler creates a new certification handler
func NewCertificationHandler(exports *service.ExportService) *CertificationHandler {
	return &CertificationHandler{exports: exports}
}

// ExportRequest is the operator-entered metadata of an export
type ExportRequest struct {
	TestFormData     models.TestFormData     `json:"testFormData"`
	SystemParameters models.SystemParameters `json:"systemParameters"`
}

// Export handles POST /api/v1/sessions/:id/export
func (h *CertificationHandler) Export(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cert, err := h.exports.Export(c.Request.Context(), c.Param("id"), req.TestFormData, req.SystemParameters, middleware.Operator(c))
	if err != nil {
		fail(c, "Export rejected", err)
		return
	}
	response.Created(c, cert)
}

// ListCertifications handles GET /api/v1/certifications
func (h *CertificationHandler) ListCertifications(c *gin.Context) {
	var filter models.CertificationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	certs, total, err := h.exports.ListCertifications(c.Request.Context(), filter)
	if err != nil {
		fail(c, "Failed to list certifications", err)
		return
	}
	response.Paginated(c, certs, total, filter.Page, filter.PageSize)
}

// GetCertification handles GET /api/v1/certifications/:id
func (h *CertificationHandler) GetCertification(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid certification ID")
		return
	}

	cert, err := h.exports.GetCertification(c.Request.Context(), id)
	if err != nil {
		fail(c, "Failed to get certification", err)
		return
	}
	response.Success(c, cert)
}
