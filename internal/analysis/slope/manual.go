package slope

import (
	"fmt"

	"github.com/jengzang/valvecheck-backend-go/internal/models"
)

// Recalculate measures both ramps over operator-supplied ranges using the same
// fit as Detect. On any invalid range nothing is returned and the caller keeps
// its previous result. The returned result is always marked manual.
func Recalculate(w models.Waveform, req models.RecalculateRequest) (models.DualSlopeResult, error) {
	t := w.Times()
	p := w.Positions()

	up, err := measure(t, p, req.RampUp)
	if err != nil {
		return models.DualSlopeResult{}, fmt.Errorf("ramp up: %w", err)
	}
	down, err := measure(t, p, req.RampDown)
	if err != nil {
		return models.DualSlopeResult{}, fmt.Errorf("ramp down: %w", err)
	}

	return models.DualSlopeResult{
		FileName:        w.FileName,
		RampUp:          up,
		RampDown:        down,
		DetectionMethod: models.DetectionManual,
	}, nil
}
