package curve

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"

	"github.com/jengzang/valvecheck-backend-go/internal/models"
	"github.com/jengzang/valvecheck-backend-go/internal/stats"
)

// ErrDegenerateAxis means an axis range has no length
var ErrDegenerateAxis = errors.New("degenerate axis range")

// Transform is an exact affine map from data space (voltage, velocity) into
// a rendering rectangle. It is not tied to Bezier points.
type Transform struct {
	Data   r2.Rect // X: voltage range, Y: velocity range
	Target r2.Rect // Render area
	ScaleX float64
	ScaleY float64
	FlipY  bool // Screen coordinates grow downwards
}

// NewTransform validates the ranges; zero scale factors default to 1
func NewTransform(data, target r2.Rect, scaleX, scaleY float64, flipY bool) (*Transform, error) {
	if !stats.Finite(data.X.Lo, data.X.Hi, data.Y.Lo, data.Y.Hi) {
		return nil, fmt.Errorf("%w: data %v", ErrDegenerateAxis, data)
	}
	if !stats.Finite(target.X.Lo, target.X.Hi, target.Y.Lo, target.Y.Hi) {
		return nil, fmt.Errorf("%w: target %v", ErrDegenerateAxis, target)
	}
	if !stats.Finite(scaleX, scaleY) {
		return nil, fmt.Errorf("%w: scale %v x %v", ErrDegenerateAxis, scaleX, scaleY)
	}
	if data.X.Length() <= 0 || data.Y.Length() <= 0 {
		return nil, fmt.Errorf("%w: data %v", ErrDegenerateAxis, data)
	}
	if target.X.Length() <= 0 || target.Y.Length() <= 0 {
		return nil, fmt.Errorf("%w: target %v", ErrDegenerateAxis, target)
	}
	if scaleX == 0 {
		scaleX = 1
	}
	if scaleY == 0 {
		scaleY = 1
	}
	return &Transform{Data: data, Target: target, ScaleX: scaleX, ScaleY: scaleY, FlipY: flipY}, nil
}

// Apply maps one data-space point
func (t *Transform) Apply(p r2.Point) r2.Point {
	x := t.Target.X.Lo + (p.X-t.Data.X.Lo)*(t.Target.X.Length()/t.Data.X.Length())*t.ScaleX
	dy := (p.Y - t.Data.Y.Lo) * (t.Target.Y.Length() / t.Data.Y.Length()) * t.ScaleY
	if t.FlipY {
		return r2.Point{X: x, Y: t.Target.Y.Hi - dy}
	}
	return r2.Point{X: x, Y: t.Target.Y.Lo + dy}
}

// Point maps a curve point
func (t *Transform) Point(p models.CurvePoint) models.RenderPoint {
	q := t.Apply(r2.Point{X: p.Voltage, Y: p.Velocity})
	return models.RenderPoint{X: q.X, Y: q.Y}
}

// Segments maps every control point of segments
func (t *Transform) Segments(segments []models.BezierSegment) []models.RenderSegment {
	out := make([]models.RenderSegment, len(segments))
	for i, s := range segments {
		out[i] = models.RenderSegment{
			Start: t.Point(s.Start),
			CP1:   t.Point(s.CP1),
			CP2:   t.Point(s.CP2),
			End:   t.Point(s.End),
		}
	}
	return out
}

// Points maps voltage points
func (t *Transform) Points(points []models.VoltagePoint) []models.RenderPoint {
	out := make([]models.RenderPoint, len(points))
	for i, p := range points {
		out[i] = t.Point(models.CurvePoint{Voltage: p.Voltage, Velocity: p.Velocity})
	}
	return out
}

// DataBounds returns the rectangle enclosing points, padded by padFraction of
// each axis length. An axis without spread is widened by 1 on both sides.
func DataBounds(points []models.VoltagePoint, padFraction float64) r2.Rect {
	if len(points) == 0 {
		return r2.Rect{X: r1.Interval{Lo: -1, Hi: 1}, Y: r1.Interval{Lo: -1, Hi: 1}}
	}

	pts := make([]r2.Point, len(points))
	for i, p := range points {
		pts[i] = r2.Point{X: p.Voltage, Y: p.Velocity}
	}
	rect := r2.RectFromPoints(pts...)

	return r2.Rect{X: pad(rect.X, padFraction), Y: pad(rect.Y, padFraction)}
}

func pad(iv r1.Interval, fraction float64) r1.Interval {
	if iv.Length() <= 0 {
		return iv.Expanded(1)
	}
	return iv.Expanded(iv.Length() * fraction)
}
