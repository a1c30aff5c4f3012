package models

// Sample is one (time, position) reading of a displacement test
type Sample struct {
	Time     float64 `json:"time"`     // Seconds since start of the recording
	Position float64 `json:"position"` // Valve spool position
}

// Waveform is the complete sample sequence recorded for one voltage level
type Waveform struct {
	FileName string   `json:"fileName" binding:"required"`
	Samples  []Sample `json:"samples" binding:"required"`
}

// Times returns the time column
func (w Waveform) Times() []float64 {
	out := make([]float64, len(w.Samples))
	for i, s := range w.Samples {
		out[i] = s.Time
	}
	return out
}

// Positions returns the position column
func (w Waveform) Positions() []float64 {
	out := make([]float64, len(w.Samples))
	for i, s := range w.Samples {
		out[i] = s.Position
	}
	return out
}

// Len returns the number of samples
func (w Waveform) Len() int {
	return len(w.Samples)
}

// IngestFailure is a file the ingester could not turn into a waveform
type IngestFailure struct {
	FileName string `json:"fileName"`
	Error    string `json:"error"`
}

// Warning is a non-fatal condition reported back to the operator
type Warning struct {
	FileName string `json:"fileName"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// Warning codes
const (
	WarningDetectionDegraded = "DETECTION_DEGRADED"
)
