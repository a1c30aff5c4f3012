package slope

import (
	"fmt"
	"math"

	"github.com/jengzang/valvecheck-backend-go/internal/analysis"
	"github.com/jengzang/valvecheck-backend-go/internal/models"
	"github.com/jengzang/valvecheck-backend-go/internal/stats"
)

// measure fits position against time over r
func measure(t, p []float64, r models.IndexRange) (models.RampSegment, error) {
	if err := checkRange(r, len(p)); err != nil {
		return models.RampSegment{}, err
	}

	fit, ok := stats.LinearRegression(t[r.StartIndex:r.EndIndex+1], p[r.StartIndex:r.EndIndex+1])
	if !ok {
		return models.RampSegment{}, fmt.Errorf("%w: no time spread in [%d, %d]",
			analysis.ErrInvalidIndices, r.StartIndex, r.EndIndex)
	}
	return segmentFromFit(t, r, fit), nil
}

func segmentFromFit(t []float64, r models.IndexRange, fit stats.LinearFit) models.RampSegment {
	return models.RampSegment{
		StartIndex: r.StartIndex,
		EndIndex:   r.EndIndex,
		Velocity:   math.Abs(fit.Slope),
		Duration:   t[r.EndIndex] - t[r.StartIndex],
		RSquared:   fit.RSquared,
	}
}

func checkRange(r models.IndexRange, n int) error {
	if r.StartIndex < 0 || r.EndIndex > n-1 {
		return fmt.Errorf("%w: [%d, %d] outside 0..%d", analysis.ErrInvalidIndices, r.StartIndex, r.EndIndex, n-1)
	}
	if r.StartIndex >= r.EndIndex {
		return fmt.Errorf("%w: start %d not before end %d", analysis.ErrInvalidIndices, r.StartIndex, r.EndIndex)
	}
	if r.Span() < analysis.MinRampSamples {
		return fmt.Errorf("%w: [%d, %d] spans %d samples, need %d",
			analysis.ErrInvalidIndices, r.StartIndex, r.EndIndex, r.Span(), analysis.MinRampSamples)
	}
	return nil
}
