package voltage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/valvecheck-backend-go/internal/models"
)

func result(name string, up, down float64) models.DualSlopeResult {
	return models.DualSlopeResult{
		FileName: name,
		RampUp:   models.RampSegment{Velocity: up},
		RampDown: models.RampSegment{Velocity: down},
	}
}

func TestMap_SignConventionAndOrder(t *testing.T) {
	results := map[string]models.DualSlopeResult{
		"5V.csv":  result("5V.csv", 11, 9),
		"10V.csv": result("10V.csv", 21, 19),
		"2V.csv":  result("2V.csv", 5, 3),
	}
	bindings := []models.Binding{
		{FileName: "5V.csv", Voltage: 5},
		{FileName: "10V.csv", Voltage: 10},
	}

	points := Map(results, bindings)
	require.Len(t, points, 2*len(bindings))

	want := []models.VoltagePoint{
		{Voltage: 10, Velocity: 21, FileName: "10V.csv"},
		{Voltage: 5, Velocity: 11, FileName: "5V.csv"},
		{Voltage: -5, Velocity: -9, FileName: "5V.csv"},
		{Voltage: -10, Velocity: -19, FileName: "10V.csv"},
	}
	assert.Equal(t, want, points)

	for i := 1; i < len(points); i++ {
		assert.Greater(t, points[i-1].Voltage, points[i].Voltage, "strictly descending")
	}
	assert.Equal(t, 4, DistinctVoltages(points))
}

func TestMap_ExcludesUnboundAndIsIdempotent(t *testing.T) {
	results := map[string]models.DualSlopeResult{
		"a.csv": result("a.csv", 1, 1),
		"b.csv": result("b.csv", 2, 2),
	}
	bindings := []models.Binding{{FileName: "b.csv", Voltage: 3}}

	first := Map(results, bindings)
	second := Map(results, bindings)
	assert.Equal(t, first, second)
	require.Len(t, first, 2)
	for _, p := range first {
		assert.Equal(t, "b.csv", p.FileName)
	}

	assert.Empty(t, Map(results, nil))
}
