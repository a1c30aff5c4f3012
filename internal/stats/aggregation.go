package stats

import "math"

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// MinMax returns the smallest and largest value
func MinMax(values []float64) (min, max float64) {
	if len(values) == 0 {
		return 0, 0
	}

	min, max = values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Range returns max - min
func Range(values []float64) float64 {
	min, max := MinMax(values)
	return max - min
}

// MovingAverage returns the centered moving average of values.
// The window shrinks near both ends so the output has the same length as the input.
func MovingAverage(values []float64, window int) []float64 {
	n := len(values)
	out := make([]float64, n)
	if window < 2 {
		copy(out, values)
		return out
	}

	half := window / 2
	for i := 0; i < n; i++ {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > n-1 {
			hi = n - 1
		}
		out[i] = Mean(values[lo : hi+1])
	}
	return out
}

// MonotonicFraction returns the share of consecutive steps moving in the
// direction of sign (+1 rising, -1 falling). Flat steps count against.
func MonotonicFraction(values []float64, sign float64) float64 {
	if len(values) < 2 {
		return 0
	}

	var good int
	for i := 1; i < len(values); i++ {
		if (values[i]-values[i-1])*sign > 0 {
			good++
		}
	}
	return float64(good) / float64(len(values)-1)
}

// Finite reports whether every value is a real number
func Finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
