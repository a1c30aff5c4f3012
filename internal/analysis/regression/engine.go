package regression

import (
	"fmt"

	"github.com/jengzang/valvecheck-backend-go/internal/analysis"
	"github.com/jengzang/valvecheck-backend-go/internal/analysis/voltage"
	"github.com/jengzang/valvecheck-backend-go/internal/models"
	"github.com/jengzang/valvecheck-backend-go/internal/stats"
)

// Options are the operator inputs of a fit
type Options struct {
	MachineType string
	Override    models.SlopeOverride
}

// Fit regresses velocity on voltage and evaluates the effective slope against
// the machine's tolerance band.
//
// A manual slope replaces the calculated one; otherwise a manual factor
// multiplies it. Fails with ErrInsufficientData below two distinct voltages
// and ErrInvalidSlope when the effective slope is not a positive number.
func Fit(points []models.VoltagePoint, opts Options) (*models.RegressionResult, error) {
	if n := voltage.DistinctVoltages(points); n < 2 {
		return nil, fmt.Errorf("%w: %d distinct voltages, need 2", analysis.ErrInsufficientData, n)
	}

	machineType := opts.MachineType
	if machineType == "" {
		machineType = DefaultMachineType
	}
	params, err := LookupMachine(machineType)
	if err != nil {
		return nil, err
	}

	x := make([]float64, len(points))
	y := make([]float64, len(points))
	for i, p := range points {
		x[i] = p.Voltage
		y[i] = p.Velocity
	}
	if !stats.Finite(y...) {
		return nil, fmt.Errorf("%w: velocity is not a number", analysis.ErrInvalidSlope)
	}

	fit, ok := stats.LinearRegression(x, y)
	if !ok {
		return nil, fmt.Errorf("%w: regression undefined", analysis.ErrInsufficientData)
	}

	result := &models.RegressionResult{
		CalculatedSlope: fit.Slope,
		Intercept:       fit.Intercept,
		RSquared:        fit.RSquared,
		PointCount:      len(points),
		MachineType:     machineType,
		MachineParams:   params,
	}
	applyOverride(result, opts.Override)

	effective := result.Effective()
	if !stats.Finite(effective) || effective <= 0 {
		return nil, fmt.Errorf("%w: effective slope %g", analysis.ErrInvalidSlope, effective)
	}
	result.EffectiveSlope = effective
	result.Verdict = Classify(effective, params)
	return result, nil
}

func applyOverride(r *models.RegressionResult, o models.SlopeOverride) {
	if o.ManualSlopeFactor != nil {
		factor := *o.ManualSlopeFactor
		r.ManualSlopeFactor = &factor
	}

	switch {
	case o.ManualSlope != nil:
		slope := *o.ManualSlope
		r.ManualSlope = &slope
	case o.ManualSlopeFactor != nil:
		slope := r.CalculatedSlope * *o.ManualSlopeFactor
		r.ManualSlope = &slope
	}
}
