package models

import (
	"encoding/json"
	"fmt"
)

// DetectionMethod tells how the ramps of a DualSlopeResult were obtained.
// Values only change through slope.Detect and slope.Recalculate.
type DetectionMethod int

const (
	DetectionAutomatic DetectionMethod = iota
	DetectionFallback
	DetectionManual
)

var detectionMethodNames = map[DetectionMethod]string{
	DetectionAutomatic: "automatic",
	DetectionFallback:  "fallback",
	DetectionManual:    "manual",
}

// String returns the lowercase name used on the wire
func (m DetectionMethod) String() string {
	if name, ok := detectionMethodNames[m]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON encodes the method as its name
func (m DetectionMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON decodes a method name
func (m *DetectionMethod) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for method, n := range detectionMethodNames {
		if n == name {
			*m = method
			return nil
		}
	}
	return fmt.Errorf("unknown detection method %q", name)
}

// IndexRange is an inclusive [StartIndex, EndIndex] range over a waveform
type IndexRange struct {
	StartIndex int `json:"startIndex"`
	EndIndex   int `json:"endIndex"`
}

// Span returns the number of samples covered by the range
func (r IndexRange) Span() int {
	return r.EndIndex - r.StartIndex + 1
}

// RampSegment is one linear portion of a waveform
type RampSegment struct {
	StartIndex int     `json:"startIndex"`
	EndIndex   int     `json:"endIndex"`
	Velocity   float64 `json:"velocity"` // Unsigned magnitude of the fitted slope
	Duration   float64 `json:"duration"` // time[end] - time[start]
	RSquared   float64 `json:"rSquared"` // Fit quality over the range
}

// Range returns the index range of the segment
func (s RampSegment) Range() IndexRange {
	return IndexRange{StartIndex: s.StartIndex, EndIndex: s.EndIndex}
}

// DualSlopeResult is the ramp-up/ramp-down measurement of one waveform
type DualSlopeResult struct {
	FileName        string          `json:"fileName"`
	RampUp          RampSegment     `json:"rampUp"`
	RampDown        RampSegment     `json:"rampDown"`
	DetectionMethod DetectionMethod `json:"detectionMethod"`
}

// RecalculateRequest carries operator-supplied ramp ranges
type RecalculateRequest struct {
	RampUp   IndexRange `json:"rampUp"`
	RampDown IndexRange `json:"rampDown"`
}
