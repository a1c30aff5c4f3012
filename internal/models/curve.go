package models

// CurvePoint is a {voltage, velocity} pair in data space
type CurvePoint struct {
	Voltage  float64 `json:"voltage"`
	Velocity float64 `json:"velocity"`
}

// BezierSegment is one cubic segment of the smoothed curve
type BezierSegment struct {
	Start CurvePoint `json:"start"`
	CP1   CurvePoint `json:"cp1"`
	CP2   CurvePoint `json:"cp2"`
	End   CurvePoint `json:"end"`
}

// RenderPoint is a point in rendering space
type RenderPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RenderSegment is a BezierSegment mapped into rendering space
type RenderSegment struct {
	Start RenderPoint `json:"start"`
	CP1   RenderPoint `json:"cp1"`
	CP2   RenderPoint `json:"cp2"`
	End   RenderPoint `json:"end"`
}

// Curve is the smoothed curve view. Straight is set when there are too few
// points to smooth and the caller should draw a line through Points instead.
type Curve struct {
	Points   []VoltagePoint  `json:"points"`
	Segments []BezierSegment `json:"segments"`
	Straight bool            `json:"straight"`
}
