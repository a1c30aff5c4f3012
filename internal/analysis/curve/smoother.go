package curve

import (
	"github.com/golang/geo/r2"

	"github.com/jengzang/valvecheck-backend-go/internal/models"
)

// Tension of the Catmull-Rom spline
const Tension = 0.5

// Build returns the curve view of points. With fewer than three points no
// smoothing is done and Straight tells the caller to draw a line.
func Build(points []models.VoltagePoint) models.Curve {
	segments := Smooth(points)
	return models.Curve{
		Points:   points,
		Segments: segments,
		Straight: segments == nil,
	}
}

// Smooth converts points, already sorted along the voltage axis, into one
// cubic Bezier segment per consecutive pair. Missing neighbours at both ends
// reuse the nearest existing point. Returns nil for fewer than three points.
func Smooth(points []models.VoltagePoint) []models.BezierSegment {
	n := len(points)
	if n < 3 {
		return nil
	}

	pts := make([]r2.Point, n)
	for i, p := range points {
		pts[i] = r2.Point{X: p.Voltage, Y: p.Velocity}
	}
	at := func(i int) r2.Point {
		if i < 0 {
			i = 0
		}
		if i > n-1 {
			i = n - 1
		}
		return pts[i]
	}

	segments := make([]models.BezierSegment, 0, n-1)
	for i := 0; i < n-1; i++ {
		p0, p1, p2, p3 := at(i-1), at(i), at(i+1), at(i+2)

		t1 := p2.Sub(p0).Mul(Tension)
		t2 := p3.Sub(p1).Mul(Tension)

		segments = append(segments, models.BezierSegment{
			Start: toCurve(p1),
			CP1:   toCurve(p1.Add(t1.Mul(1.0 / 3))),
			CP2:   toCurve(p2.Sub(t2.Mul(1.0 / 3))),
			End:   toCurve(p2),
		})
	}
	return segments
}

// Sample evaluates a segment at parameter u in [0, 1]
func Sample(s models.BezierSegment, u float64) models.CurvePoint {
	v := 1 - u
	b0 := v * v * v
	b1 := 3 * v * v * u
	b2 := 3 * v * u * u
	b3 := u * u * u
	return models.CurvePoint{
		Voltage:  b0*s.Start.Voltage + b1*s.CP1.Voltage + b2*s.CP2.Voltage + b3*s.End.Voltage,
		Velocity: b0*s.Start.Velocity + b1*s.CP1.Velocity + b2*s.CP2.Velocity + b3*s.End.Velocity,
	}
}

// Polyline flattens segments into steps points per segment plus the final end point
func Polyline(segments []models.BezierSegment, steps int) []models.CurvePoint {
	if len(segments) == 0 || steps < 1 {
		return nil
	}
	out := make([]models.CurvePoint, 0, len(segments)*steps+1)
	for _, s := range segments {
		for k := 0; k < steps; k++ {
			out = append(out, Sample(s, float64(k)/float64(steps)))
		}
	}
	return append(out, segments[len(segments)-1].End)
}

func toCurve(p r2.Point) models.CurvePoint {
	return models.CurvePoint{Voltage: p.X, Velocity: p.Y}
}
