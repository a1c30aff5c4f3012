package slope

import (
	"fmt"

	"github.com/jengzang/valvecheck-backend-go/internal/analysis"
	"github.com/jengzang/valvecheck-backend-go/internal/models"
	"github.com/jengzang/valvecheck-backend-go/internal/stats"
)

// DetectionThresholds defines configurable thresholds for ramp detection
type DetectionThresholds struct {
	MinRSquared          float64 `yaml:"min_r_squared"`          // Both ramps must fit at least this well
	MinMonotonicFraction float64 `yaml:"min_monotonic_fraction"` // Share of smoothed steps moving the ramp's way
	MinAmplitudeFraction float64 `yaml:"min_amplitude_fraction"` // Ramp travel relative to the full position range
	PlateauTolerance     float64 `yaml:"plateau_tolerance"`      // Fraction of range below the peak still counted as plateau
	SmoothingWindow      int     `yaml:"smoothing_window"`       // Moving average width used for crossings
}

// DefaultThresholds provides default detection thresholds
var DefaultThresholds = DetectionThresholds{
	MinRSquared:          0.95,
	MinMonotonicFraction: 0.8,
	MinAmplitudeFraction: 0.5,
	PlateauTolerance:     0.05,
	SmoothingWindow:      5,
}

// crossingLevels are the (low, high) fractions of ramp travel tried as
// candidate window bounds. The best fitting window wins.
var crossingLevels = [][2]float64{
	{0.05, 0.95},
	{0.10, 0.90},
	{0.15, 0.85},
	{0.20, 0.80},
}

// Detector locates the ramp-up and ramp-down segments of a waveform
type Detector struct {
	Thresholds DetectionThresholds
}

// NewDetector creates a detector; zero-valued fields fall back to DefaultThresholds
func NewDetector(t DetectionThresholds) *Detector {
	if t.MinRSquared <= 0 {
		t.MinRSquared = DefaultThresholds.MinRSquared
	}
	if t.MinMonotonicFraction <= 0 {
		t.MinMonotonicFraction = DefaultThresholds.MinMonotonicFraction
	}
	if t.MinAmplitudeFraction <= 0 {
		t.MinAmplitudeFraction = DefaultThresholds.MinAmplitudeFraction
	}
	if t.PlateauTolerance <= 0 {
		t.PlateauTolerance = DefaultThresholds.PlateauTolerance
	}
	if t.SmoothingWindow <= 0 {
		t.SmoothingWindow = DefaultThresholds.SmoothingWindow
	}
	return &Detector{Thresholds: t}
}

// Validate checks the preconditions detection relies on
func Validate(w models.Waveform) error {
	if w.FileName == "" {
		return fmt.Errorf("%w: missing file name", analysis.ErrInvalidWaveform)
	}
	if w.Len() < analysis.MinWaveformSamples {
		return fmt.Errorf("%w: %s has %d samples, need at least %d",
			analysis.ErrInvalidWaveform, w.FileName, w.Len(), analysis.MinWaveformSamples)
	}
	for i, s := range w.Samples {
		if !stats.Finite(s.Time, s.Position) {
			return fmt.Errorf("%w: %s sample %d is not a number", analysis.ErrInvalidWaveform, w.FileName, i)
		}
		if i > 0 && s.Time <= w.Samples[i-1].Time {
			return fmt.Errorf("%w: %s time is not strictly increasing at sample %d",
				analysis.ErrInvalidWaveform, w.FileName, i)
		}
	}
	return nil
}

// Detect finds both ramps. A well-formed waveform never fails: when no
// confident pair exists the result uses fixed fallback ranges.
func (d *Detector) Detect(w models.Waveform) (models.DualSlopeResult, error) {
	if err := Validate(w); err != nil {
		return models.DualSlopeResult{}, err
	}

	t := w.Times()
	p := w.Positions()

	if up, down, ok := d.detectRamps(t, p); ok {
		return models.DualSlopeResult{
			FileName:        w.FileName,
			RampUp:          up,
			RampDown:        down,
			DetectionMethod: models.DetectionAutomatic,
		}, nil
	}

	upRange, downRange := FallbackRanges(len(p))
	up, err := measure(t, p, upRange)
	if err != nil {
		return models.DualSlopeResult{}, err
	}
	down, err := measure(t, p, downRange)
	if err != nil {
		return models.DualSlopeResult{}, err
	}

	return models.DualSlopeResult{
		FileName:        w.FileName,
		RampUp:          up,
		RampDown:        down,
		DetectionMethod: models.DetectionFallback,
	}, nil
}

// FallbackRanges returns the first and last third of an n-sample series,
// widened to the minimum ramp span
func FallbackRanges(n int) (up, down models.IndexRange) {
	size := n / 3
	if size < analysis.MinRampSamples {
		size = analysis.MinRampSamples
	}
	up = models.IndexRange{StartIndex: 0, EndIndex: size - 1}
	down = models.IndexRange{StartIndex: n - size, EndIndex: n - 1}
	return up, down
}

// detectRamps splits the series at the plateau around the peak and searches
// each side for the best linear window
func (d *Detector) detectRamps(t, p []float64) (up, down models.RampSegment, ok bool) {
	smooth := stats.MovingAverage(p, d.Thresholds.SmoothingWindow)
	lo, hi := stats.MinMax(smooth)
	full := hi - lo
	if full <= 0 {
		return up, down, false
	}

	plateauStart, plateauEnd := plateau(smooth, hi-d.Thresholds.PlateauTolerance*full)

	upLow, _ := stats.MinMax(smooth[:plateauStart+1])
	downLow, _ := stats.MinMax(smooth[plateauEnd:])

	up, okUp := d.bestWindow(t, p, smooth, 0, plateauStart, upLow, hi, 1, full)
	if !okUp {
		return up, down, false
	}
	down, okDown := d.bestWindow(t, p, smooth, plateauEnd, len(p)-1, downLow, hi, -1, full)
	if !okDown {
		return up, down, false
	}
	return up, down, true
}

// plateau returns the first and last index of the run around the global
// maximum that stays at or above level
func plateau(smooth []float64, level float64) (start, end int) {
	peak := 0
	for i, v := range smooth {
		if v > smooth[peak] {
			peak = i
		}
	}

	start, end = peak, peak
	for start > 0 && smooth[start-1] >= level {
		start--
	}
	for end < len(smooth)-1 && smooth[end+1] >= level {
		end++
	}
	return start, end
}

// bestWindow tries every crossing level inside [from, to] and keeps the
// candidate with the highest R². sign is +1 for rising, -1 for falling.
func (d *Detector) bestWindow(t, p, smooth []float64, from, to int, low, high, sign, full float64) (models.RampSegment, bool) {
	amp := high - low
	if amp <= 0 || amp < d.Thresholds.MinAmplitudeFraction*full {
		return models.RampSegment{}, false
	}

	var best models.RampSegment
	found := false
	for _, level := range crossingLevels {
		r, ok := crossingWindow(smooth, from, to, low, amp, sign, level[0], level[1])
		if !ok || r.Span() < analysis.MinRampSamples {
			continue
		}

		fit, ok := stats.LinearRegression(t[r.StartIndex:r.EndIndex+1], p[r.StartIndex:r.EndIndex+1])
		if !ok || fit.Slope*sign <= 0 {
			continue
		}
		if stats.MonotonicFraction(smooth[r.StartIndex:r.EndIndex+1], sign) < d.Thresholds.MinMonotonicFraction {
			continue
		}

		seg := segmentFromFit(t, r, fit)
		if !found || seg.RSquared > best.RSquared ||
			(seg.RSquared == best.RSquared && r.Span() > best.Range().Span()) {
			best = seg
			found = true
		}
	}

	if !found || best.RSquared < d.Thresholds.MinRSquared {
		return best, false
	}
	return best, true
}

// crossingWindow finds the window between the lowFrac and highFrac crossings
// of the ramp's travel. The end is the first crossing of the far level; the
// start is the sample after the last one still short of the near level.
func crossingWindow(smooth []float64, from, to int, low, amp, sign, lowFrac, highFrac float64) (models.IndexRange, bool) {
	near := func(i int) float64 {
		if sign > 0 {
			return smooth[i] - low
		}
		return low + amp - smooth[i]
	}

	end := -1
	for i := from; i <= to; i++ {
		if near(i) >= highFrac*amp {
			end = i
			break
		}
	}
	if end < 0 {
		return models.IndexRange{}, false
	}

	start := from
	for i := end - 1; i >= from; i-- {
		if near(i) < lowFrac*amp {
			start = i + 1
			break
		}
	}
	if start >= end {
		return models.IndexRange{}, false
	}
	return models.IndexRange{StartIndex: start, EndIndex: end}, true
}
