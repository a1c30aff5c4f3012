package models

// VoltagePoint is one signed voltage/velocity pair fed to the regression
type VoltagePoint struct {
	Voltage  float64 `json:"voltage"`
	Velocity float64 `json:"velocity"`
	FileName string  `json:"fileName,omitempty"`
}

// MachineParams is the tolerance band of the effective slope for a machine type
type MachineParams struct {
	Lower  float64 `json:"lower" yaml:"lower"`
	Middle float64 `json:"middle" yaml:"middle"`
	Upper  float64 `json:"upper" yaml:"upper"`
	Type   string  `json:"type" yaml:"type"`
}

// Quality flags
const (
	QualityOptimal        = "optimal"
	QualityAcceptable     = "acceptable"
	QualityOutOfTolerance = "out_of_tolerance"
)

// Verdict is the pass/fail classification of the effective slope
type Verdict struct {
	Passed    bool    `json:"passed"`
	Quality   string  `json:"quality"`
	Deviation float64 `json:"deviation"` // (effective - middle) / middle
}

// RegressionResult is the voltage-to-velocity fit and its speed check
type RegressionResult struct {
	CalculatedSlope   float64       `json:"calculatedSlope"`
	ManualSlope       *float64      `json:"manualSlope,omitempty"`
	ManualSlopeFactor *float64      `json:"manualSlopeFactor,omitempty"`
	Intercept         float64       `json:"intercept"`
	RSquared          float64       `json:"rSquared"`
	PointCount        int           `json:"pointCount"`
	EffectiveSlope    float64       `json:"effectiveSlope"`
	MachineType       string        `json:"machineType"`
	MachineParams     MachineParams `json:"machineParams"`
	Verdict           Verdict       `json:"verdict"`
}

// Effective returns manualSlope when present, otherwise calculatedSlope
func (r RegressionResult) Effective() float64 {
	if r.ManualSlope != nil {
		return *r.ManualSlope
	}
	return r.CalculatedSlope
}

// SlopeOverride is the operator's manual slope input
type SlopeOverride struct {
	ManualSlope       *float64 `json:"manualSlope"`
	ManualSlopeFactor *float64 `json:"manualSlopeFactor"`
}
