package voltage

import (
	"sort"

	"github.com/jengzang/valvecheck-backend-go/internal/models"
)

// Map turns approved bindings into signed voltage/velocity points.
//
// Sign convention: the ramp-up velocity pairs with +V and keeps a positive
// sign, the ramp-down velocity pairs with -V and is negated. Each approved
// file contributes both points; files without a binding contribute nothing.
// The output is sorted by voltage descending (+10 V ... -10 V).
func Map(results map[string]models.DualSlopeResult, bindings []models.Binding) []models.VoltagePoint {
	points := make([]models.VoltagePoint, 0, 2*len(bindings))
	for _, b := range bindings {
		res, ok := results[b.FileName]
		if !ok {
			continue
		}
		points = append(points,
			models.VoltagePoint{Voltage: b.Voltage, Velocity: res.RampUp.Velocity, FileName: b.FileName},
			models.VoltagePoint{Voltage: -b.Voltage, Velocity: -res.RampDown.Velocity, FileName: b.FileName},
		)
	}

	sort.SliceStable(points, func(i, j int) bool {
		if points[i].Voltage != points[j].Voltage {
			return points[i].Voltage > points[j].Voltage
		}
		return points[i].FileName < points[j].FileName
	})
	return points
}

// DistinctVoltages counts the different voltages among points
func DistinctVoltages(points []models.VoltagePoint) int {
	seen := make(map[float64]struct{}, len(points))
	for _, p := range points {
		seen[p.Voltage] = struct{}{}
	}
	return len(seen)
}
