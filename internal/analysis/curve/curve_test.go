package curve

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/valvecheck-backend-go/internal/models"
)

func vp(v, vel float64) models.VoltagePoint {
	return models.VoltagePoint{Voltage: v, Velocity: vel}
}

func TestSmooth_TwoPointsIsStraight(t *testing.T) {
	points := []models.VoltagePoint{vp(10, 20), vp(-10, -20)}

	assert.Nil(t, Smooth(points))
	c := Build(points)
	assert.True(t, c.Straight)
	assert.Equal(t, points, c.Points)

	assert.Nil(t, Smooth(points[:1]))
	assert.Nil(t, Smooth(nil))
}

func TestSmooth_SegmentEndpointsMatchPoints(t *testing.T) {
	points := []models.VoltagePoint{vp(10, 21), vp(5, 11), vp(2, 4.5), vp(-2, -3.5), vp(-5, -9), vp(-10, -19)}

	segs := Smooth(points)
	require.Len(t, segs, len(points)-1)
	for i, s := range segs {
		assert.Equal(t, points[i].Voltage, s.Start.Voltage)
		assert.Equal(t, points[i].Velocity, s.Start.Velocity)
		assert.Equal(t, points[i+1].Voltage, s.End.Voltage)
		assert.Equal(t, points[i+1].Velocity, s.End.Velocity)
	}
	assert.False(t, Build(points).Straight)
}

func TestSmooth_CollinearControlPointsAtThirds(t *testing.T) {
	points := []models.VoltagePoint{vp(0, 0), vp(3, 6), vp(6, 12)}

	segs := Smooth(points)
	require.Len(t, segs, 2)

	// first segment: left neighbour clamped to the first point
	assert.InDelta(t, 0.5, segs[0].CP1.Voltage, 1e-12)
	assert.InDelta(t, 1.0, segs[0].CP1.Velocity, 1e-12)
	assert.InDelta(t, 2.0, segs[0].CP2.Voltage, 1e-12)
	assert.InDelta(t, 4.0, segs[0].CP2.Velocity, 1e-12)

	// second segment: right neighbour clamped to the last point
	assert.InDelta(t, 4.0, segs[1].CP1.Voltage, 1e-12)
	assert.InDelta(t, 5.5, segs[1].CP2.Voltage, 1e-12)
}

func TestSampleAndPolyline(t *testing.T) {
	segs := Smooth([]models.VoltagePoint{vp(0, 0), vp(3, 6), vp(6, 12)})

	start := Sample(segs[0], 0)
	end := Sample(segs[0], 1)
	assert.InDelta(t, 0, start.Voltage, 1e-12)
	assert.InDelta(t, 3, end.Voltage, 1e-12)
	assert.InDelta(t, 6, end.Velocity, 1e-12)

	line := Polyline(segs, 4)
	require.Len(t, line, 9)
	assert.Equal(t, segs[1].End, line[len(line)-1])
	assert.Nil(t, Polyline(nil, 4))
}

func TestTransform_ExactAffine(t *testing.T) {
	data := r2.Rect{X: r1.Interval{Lo: -10, Hi: 10}, Y: r1.Interval{Lo: -20, Hi: 20}}
	target := r2.Rect{X: r1.Interval{Lo: 0, Hi: 400}, Y: r1.Interval{Lo: 0, Hi: 200}}

	tr, err := NewTransform(data, target, 0, 0, true)
	require.NoError(t, err)

	assert.Equal(t, r2.Point{X: 0, Y: 200}, tr.Apply(r2.Point{X: -10, Y: -20}))
	assert.Equal(t, r2.Point{X: 400, Y: 0}, tr.Apply(r2.Point{X: 10, Y: 20}))
	assert.Equal(t, r2.Point{X: 200, Y: 100}, tr.Apply(r2.Point{X: 0, Y: 0}))

	a := r2.Point{X: -3, Y: 7}
	b := r2.Point{X: 8, Y: -12}
	mid := tr.Apply(a.Add(b).Mul(0.5))
	want := tr.Apply(a).Add(tr.Apply(b)).Mul(0.5)
	assert.InDelta(t, want.X, mid.X, 1e-9)
	assert.InDelta(t, want.Y, mid.Y, 1e-9)
}

func TestTransform_ScaleAndNoFlip(t *testing.T) {
	data := r2.Rect{X: r1.Interval{Lo: 0, Hi: 10}, Y: r1.Interval{Lo: 0, Hi: 10}}
	target := r2.Rect{X: r1.Interval{Lo: 50, Hi: 150}, Y: r1.Interval{Lo: 10, Hi: 110}}

	tr, err := NewTransform(data, target, 2, 0.5, false)
	require.NoError(t, err)

	p := tr.Point(models.CurvePoint{Voltage: 5, Velocity: 5})
	assert.InDelta(t, 150, p.X, 1e-9)
	assert.InDelta(t, 35, p.Y, 1e-9)

	segs := tr.Segments(Smooth([]models.VoltagePoint{vp(0, 0), vp(5, 5), vp(10, 10)}))
	require.Len(t, segs, 2)
	assert.InDelta(t, 50, segs[0].Start.X, 1e-9)

	pts := tr.Points([]models.VoltagePoint{vp(10, 10)})
	assert.InDelta(t, 250, pts[0].X, 1e-9)
}

func TestTransform_DegenerateAxis(t *testing.T) {
	flat := r2.Rect{X: r1.Interval{Lo: 1, Hi: 1}, Y: r1.Interval{Lo: 0, Hi: 1}}
	target := r2.Rect{X: r1.Interval{Lo: 0, Hi: 1}, Y: r1.Interval{Lo: 0, Hi: 1}}

	_, err := NewTransform(flat, target, 1, 1, false)
	assert.True(t, errors.Is(err, ErrDegenerateAxis))

	_, err = NewTransform(target, flat, 1, 1, false)
	assert.True(t, errors.Is(err, ErrDegenerateAxis))
}

func TestTransform_NonFiniteRejected(t *testing.T) {
	data := r2.Rect{X: r1.Interval{Lo: -10, Hi: 10}, Y: r1.Interval{Lo: -20, Hi: 20}}
	unit := r2.Rect{X: r1.Interval{Lo: 0, Hi: 100}, Y: r1.Interval{Lo: 0, Hi: 100}}

	tests := []struct {
		name   string
		data   r2.Rect
		target r2.Rect
		sx, sy float64
	}{
		{"nan target width", data, r2.Rect{X: r1.Interval{Lo: 0, Hi: math.NaN()}, Y: unit.Y}, 1, 1},
		{"inf target width", data, r2.Rect{X: r1.Interval{Lo: 0, Hi: math.Inf(1)}, Y: unit.Y}, 1, 1},
		{"inf target height", data, r2.Rect{X: unit.X, Y: r1.Interval{Lo: 0, Hi: math.Inf(1)}}, 1, 1},
		{"nan data", r2.Rect{X: r1.Interval{Lo: math.NaN(), Hi: 10}, Y: data.Y}, unit, 1, 1},
		{"inf data", r2.Rect{X: data.X, Y: r1.Interval{Lo: math.Inf(-1), Hi: 20}}, unit, 1, 1},
		{"nan scale", data, unit, math.NaN(), 1},
		{"inf scale", data, unit, 1, math.Inf(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTransform(tt.data, tt.target, tt.sx, tt.sy, true)
			assert.True(t, errors.Is(err, ErrDegenerateAxis))
		})
	}
}

func TestDataBounds(t *testing.T) {
	b := DataBounds([]models.VoltagePoint{vp(-10, -19), vp(10, 21)}, 0.1)
	assert.InDelta(t, -12, b.X.Lo, 1e-9)
	assert.InDelta(t, 12, b.X.Hi, 1e-9)
	assert.InDelta(t, -23, b.Y.Lo, 1e-9)
	assert.InDelta(t, 25, b.Y.Hi, 1e-9)

	single := DataBounds([]models.VoltagePoint{vp(5, 5)}, 0.1)
	assert.Equal(t, 2.0, single.X.Length())

	empty := DataBounds(nil, 0.1)
	assert.Equal(t, 2.0, empty.Y.Length())
}
