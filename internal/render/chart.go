package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/jengzang/valvecheck-backend-go/internal/analysis/curve"
	"github.com/jengzang/valvecheck-backend-go/internal/models"
	"github.com/jengzang/valvecheck-backend-go/internal/stats"
)

// ErrNothingToPlot means there are fewer than two voltage points
var ErrNothingToPlot = errors.New("nothing to plot")

// ErrChartSize means a requested dimension exceeds MaxChartSize
var ErrChartSize = errors.New("chart size out of range")

// MaxChartSize bounds either side of the canvas in pixels
const MaxChartSize = 4000

// curveSteps is the number of polyline samples per Bezier segment
const curveSteps = 16

// ChartOptions sizes the rendered chart
type ChartOptions struct {
	Width  int
	Height int
	Title  string
}

// DefaultChartOptions is used for zero-valued fields
var DefaultChartOptions = ChartOptions{
	Width:  800,
	Height: 500,
	Title:  "Velocity vs. voltage",
}

// pointStyle renders points only
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    4,
		DotColor:    col,
	}
}

func lineStyle(col drawing.Color, width float64) chart.Style {
	return chart.Style{
		StrokeWidth: width,
		StrokeColor: col,
	}
}

// VoltageChart writes a PNG of the approved points, the fitted line and the
// smoothed curve
func VoltageChart(w io.Writer, points []models.VoltagePoint, result *models.RegressionResult, c models.Curve, opts ChartOptions) error {
	if len(points) < 2 {
		return fmt.Errorf("%w: %d points", ErrNothingToPlot, len(points))
	}
	if opts.Width <= 0 {
		opts.Width = DefaultChartOptions.Width
	}
	if opts.Height <= 0 {
		opts.Height = DefaultChartOptions.Height
	}
	if opts.Title == "" {
		opts.Title = DefaultChartOptions.Title
	}
	if opts.Width > MaxChartSize || opts.Height > MaxChartSize {
		return fmt.Errorf("%w: %dx%d exceeds %d", ErrChartSize, opts.Width, opts.Height, MaxChartSize)
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.Voltage
		ys[i] = p.Velocity
	}
	lo, hi := stats.MinMax(xs)

	series := []chart.Series{
		chart.ContinuousSeries{Name: "Measured", XValues: xs, YValues: ys, Style: pointStyle(chart.ColorBlue)},
	}

	if c.Straight {
		series = append(series, chart.ContinuousSeries{
			Name: "Curve", XValues: xs, YValues: ys, Style: lineStyle(chart.ColorAlternateGray, 1),
		})
	} else {
		poly := curve.Polyline(c.Segments, curveSteps)
		cx := make([]float64, len(poly))
		cy := make([]float64, len(poly))
		for i, p := range poly {
			cx[i] = p.Voltage
			cy[i] = p.Velocity
		}
		series = append(series, chart.ContinuousSeries{
			Name: "Curve", XValues: cx, YValues: cy, Style: lineStyle(chart.ColorAlternateGray, 1),
		})
	}

	if result != nil {
		fit := stats.LinearFit{Slope: result.CalculatedSlope, Intercept: result.Intercept}
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("Fit (%.3f)", result.CalculatedSlope),
			XValues: []float64{lo, hi},
			YValues: []float64{fit.Predict(lo), fit.Predict(hi)},
			Style:   lineStyle(chart.ColorGreen, 2),
		})
		if result.ManualSlope != nil {
			manual := stats.LinearFit{Slope: *result.ManualSlope, Intercept: result.Intercept}
			series = append(series, chart.ContinuousSeries{
				Name:    fmt.Sprintf("Manual (%.3f)", *result.ManualSlope),
				XValues: []float64{lo, hi},
				YValues: []float64{manual.Predict(lo), manual.Predict(hi)},
				Style:   lineStyle(chart.ColorRed, 2),
			})
		}
	}

	ch := chart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Voltage (V)"},
		YAxis:      chart.YAxis{Name: "Velocity"},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
