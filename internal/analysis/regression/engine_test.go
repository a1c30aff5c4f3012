package regression

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/valvecheck-backend-go/internal/analysis"
	"github.com/jengzang/valvecheck-backend-go/internal/models"
)

func onLine(voltages []float64, slope, intercept float64) []models.VoltagePoint {
	points := make([]models.VoltagePoint, len(voltages))
	for i, v := range voltages {
		points[i] = models.VoltagePoint{Voltage: v, Velocity: slope*v + intercept}
	}
	return points
}

func ptr(v float64) *float64 { return &v }

func TestFit_RecoversLine(t *testing.T) {
	res, err := Fit(onLine([]float64{10, 5, -5, -10}, 2, 1), Options{})
	require.NoError(t, err)

	assert.InDelta(t, 2.0, res.CalculatedSlope, 1e-9)
	assert.InDelta(t, 1.0, res.Intercept, 1e-9)
	assert.InDelta(t, 1.0, res.RSquared, 1e-9)
	assert.Equal(t, 4, res.PointCount)
	assert.Equal(t, DefaultMachineType, res.MachineType)
	assert.Nil(t, res.ManualSlope)
	assert.InDelta(t, 2.0, res.EffectiveSlope, 1e-9)
	assert.True(t, res.Verdict.Passed)
	assert.Equal(t, models.QualityOptimal, res.Verdict.Quality)
}

func TestFit_InsufficientData(t *testing.T) {
	_, err := Fit(nil, Options{})
	assert.True(t, errors.Is(err, analysis.ErrInsufficientData))

	_, err = Fit(onLine([]float64{5}, 2, 0), Options{})
	assert.True(t, errors.Is(err, analysis.ErrInsufficientData))

	same := []models.VoltagePoint{{Voltage: 5, Velocity: 1}, {Voltage: 5, Velocity: 2}}
	_, err = Fit(same, Options{})
	assert.True(t, errors.Is(err, analysis.ErrInsufficientData))
}

func TestFit_InvalidSlope(t *testing.T) {
	_, err := Fit(onLine([]float64{10, -10}, -1, 0), Options{})
	assert.True(t, errors.Is(err, analysis.ErrInvalidSlope))

	_, err = Fit(onLine([]float64{10, -10}, 2, 0), Options{
		Override: models.SlopeOverride{ManualSlopeFactor: ptr(-1)},
	})
	assert.True(t, errors.Is(err, analysis.ErrInvalidSlope))

	_, err = Fit(onLine([]float64{10, -10}, 2, 0), Options{
		Override: models.SlopeOverride{ManualSlope: ptr(math.NaN())},
	})
	assert.True(t, errors.Is(err, analysis.ErrInvalidSlope))
}

func TestFit_ManualOverride(t *testing.T) {
	points := onLine([]float64{10, 5, -5, -10}, 2, 0)

	res, err := Fit(points, Options{Override: models.SlopeOverride{ManualSlopeFactor: ptr(1.15)}})
	require.NoError(t, err)
	require.NotNil(t, res.ManualSlope)
	assert.InDelta(t, 2.3, *res.ManualSlope, 1e-9)
	assert.InDelta(t, 2.3, res.EffectiveSlope, 1e-9)
	assert.InDelta(t, 2.0, res.CalculatedSlope, 1e-9)
	assert.Equal(t, models.QualityAcceptable, res.Verdict.Quality)

	res, err = Fit(points, Options{Override: models.SlopeOverride{
		ManualSlope:       ptr(1.5),
		ManualSlopeFactor: ptr(1.1),
	}})
	require.NoError(t, err)
	assert.Equal(t, 1.5, res.EffectiveSlope, "manual slope wins over factor")
	assert.False(t, res.Verdict.Passed)
	assert.Equal(t, models.QualityOutOfTolerance, res.Verdict.Quality)
	require.NotNil(t, res.ManualSlopeFactor)
	assert.Equal(t, 1.1, *res.ManualSlopeFactor)
}

func TestFit_MachineType(t *testing.T) {
	points := onLine([]float64{10, -10}, 5, 0)

	res, err := Fit(points, Options{MachineType: "high_speed"})
	require.NoError(t, err)
	assert.Equal(t, "high_speed", res.MachineParams.Type)
	assert.True(t, res.Verdict.Passed)

	_, err = Fit(points, Options{MachineType: "warp_drive"})
	assert.True(t, errors.Is(err, analysis.ErrUnknownMachineType))
}

func TestClassify(t *testing.T) {
	p := models.MachineParams{Lower: 1.6, Middle: 2.0, Upper: 2.4, Type: "standard"}

	assert.Equal(t, models.QualityOptimal, Classify(2.0, p).Quality)
	assert.Equal(t, models.QualityOptimal, Classify(1.85, p).Quality)
	assert.Equal(t, models.QualityAcceptable, Classify(1.65, p).Quality)
	assert.True(t, Classify(1.6, p).Passed)
	assert.True(t, Classify(2.4, p).Passed)
	assert.False(t, Classify(2.41, p).Passed)
	assert.False(t, Classify(1.59, p).Passed)
	assert.InDelta(t, 0.1, Classify(2.2, p).Deviation, 1e-9)
}

func TestRegisterMachine(t *testing.T) {
	require.NoError(t, RegisterMachine(models.MachineParams{Lower: 9, Middle: 10, Upper: 11, Type: "test_bench"}))

	p, err := LookupMachine("test_bench")
	require.NoError(t, err)
	assert.Equal(t, 10.0, p.Middle)

	found := false
	for _, m := range Machines() {
		if m.Type == "test_bench" {
			found = true
		}
	}
	assert.True(t, found)

	assert.Error(t, RegisterMachine(models.MachineParams{Lower: 3, Middle: 2, Upper: 4, Type: "bad"}))
	assert.Error(t, RegisterMachine(models.MachineParams{Lower: 1, Middle: 2, Upper: 3}))
}
