package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/valvecheck-backend-go/internal/analysis"
	"github.com/jengzang/valvecheck-backend-go/internal/analysis/curve"
	"github.com/jengzang/valvecheck-backend-go/internal/render"
	"github.com/jengzang/valvecheck-backend-go/internal/service"
	"github.com/jengzang/valvecheck-backend-go/pkg/response"
)

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrCertificationNotFound),
		errors.Is(err, analysis.ErrUnknownFile):
		return http.StatusNotFound
	case errors.Is(err, analysis.ErrInvalidVoltage):
		return http.StatusConflict
	case errors.Is(err, analysis.ErrInvalidWaveform),
		errors.Is(err, analysis.ErrUnknownMachineType),
		errors.Is(err, render.ErrChartSize):
		return http.StatusBadRequest
	case errors.Is(err, analysis.ErrInvalidIndices),
		errors.Is(err, analysis.ErrInvalidSlope),
		errors.Is(err, analysis.ErrInsufficientData),
		errors.Is(err, analysis.ErrValidation),
		errors.Is(err, curve.ErrDegenerateAxis),
		errors.Is(err, render.ErrNothingToPlot):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err through the response envelope
func fail(c *gin.Context, message string, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	response.Error(c, code, message, err)
}
