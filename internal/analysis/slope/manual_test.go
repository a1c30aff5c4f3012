package slope

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/valvecheck-backend-go/internal/analysis"
	"github.com/jengzang/valvecheck-backend-go/internal/models"
)

func TestRecalculate_MeasuresGivenRanges(t *testing.T) {
	w := doubleRamp("2V.csv", 2.0, 1.5, nil)
	req := models.RecalculateRequest{
		RampUp:   models.IndexRange{StartIndex: 15, EndIndex: 35},
		RampDown: models.IndexRange{StartIndex: 65, EndIndex: 85},
	}

	res, err := Recalculate(w, req)
	require.NoError(t, err)

	assert.Equal(t, models.DetectionManual, res.DetectionMethod)
	assert.Equal(t, req.RampUp, res.RampUp.Range())
	assert.Equal(t, req.RampDown, res.RampDown.Range())
	assert.InDelta(t, 2.0, res.RampUp.Velocity, 1e-9)
	assert.InDelta(t, 1.5, res.RampDown.Velocity, 1e-9)
	assert.InDelta(t, 0.20, res.RampUp.Duration, 1e-9)
}

func TestRecalculate_Idempotent(t *testing.T) {
	w := doubleRamp("2V.csv", 2.0, 1.5, nil)
	req := models.RecalculateRequest{
		RampUp:   models.IndexRange{StartIndex: 5, EndIndex: 45},
		RampDown: models.IndexRange{StartIndex: 55, EndIndex: 95},
	}

	first, err := Recalculate(w, req)
	require.NoError(t, err)
	second, err := Recalculate(w, req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRecalculate_RejectsInvalidIndices(t *testing.T) {
	w := doubleRamp("2V.csv", 2.0, 1.5, nil)
	good := models.IndexRange{StartIndex: 60, EndIndex: 90}

	cases := map[string]models.IndexRange{
		"too short": {StartIndex: 10, EndIndex: 13},
		"reversed":  {StartIndex: 30, EndIndex: 10},
		"equal":     {StartIndex: 10, EndIndex: 10},
		"negative":  {StartIndex: -1, EndIndex: 20},
		"past end":  {StartIndex: 90, EndIndex: 100},
	}
	for name, r := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Recalculate(w, models.RecalculateRequest{RampUp: r, RampDown: good})
			assert.True(t, errors.Is(err, analysis.ErrInvalidIndices), "got %v", err)

			_, err = Recalculate(w, models.RecalculateRequest{RampUp: good, RampDown: r})
			assert.True(t, errors.Is(err, analysis.ErrInvalidIndices), "got %v", err)
		})
	}
}
