package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jengzang/valvecheck-backend-go/internal/analysis"
	"github.com/jengzang/valvecheck-backend-go/internal/analysis/curve"
	"github.com/jengzang/valvecheck-backend-go/internal/render"
	"github.com/jengzang/valvecheck-backend-go/internal/service"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: x", service.ErrSessionNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: a.csv", analysis.ErrUnknownFile), http.StatusNotFound},
		{fmt.Errorf("%w: 10 V taken", analysis.ErrInvalidVoltage), http.StatusConflict},
		{analysis.ErrUnknownMachineType, http.StatusBadRequest},
		{fmt.Errorf("%w: 9000x10", render.ErrChartSize), http.StatusBadRequest},
		{fmt.Errorf("%w: target", curve.ErrDegenerateAxis), http.StatusUnprocessableEntity},
		{fmt.Errorf("ramp up: %w", analysis.ErrInvalidIndices), http.StatusUnprocessableEntity},
		{analysis.ErrValidation, http.StatusUnprocessableEntity},
		{analysis.ErrInsufficientData, http.StatusUnprocessableEntity},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
