package regression

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jengzang/valvecheck-backend-go/internal/analysis"
	"github.com/jengzang/valvecheck-backend-go/internal/models"
)

// DefaultMachineType is used when the operator has not picked one
const DefaultMachineType = "standard"

// Tolerance bands of the effective slope (velocity per volt) per machine type
var (
	machineMu       sync.RWMutex
	machineRegistry = map[string]models.MachineParams{
		"compact":    {Lower: 0.8, Middle: 1.0, Upper: 1.2, Type: "compact"},
		"standard":   {Lower: 1.6, Middle: 2.0, Upper: 2.4, Type: "standard"},
		"heavy_duty": {Lower: 2.8, Middle: 3.5, Upper: 4.2, Type: "heavy_duty"},
		"high_speed": {Lower: 4.0, Middle: 5.0, Upper: 6.0, Type: "high_speed"},
	}
)

// RegisterMachine adds or replaces the tolerance band of a machine type
func RegisterMachine(p models.MachineParams) error {
	if p.Type == "" {
		return fmt.Errorf("machine type name is required")
	}
	if !(p.Lower > 0 && p.Lower <= p.Middle && p.Middle <= p.Upper) {
		return fmt.Errorf("machine %s: need 0 < lower <= middle <= upper, got %g/%g/%g",
			p.Type, p.Lower, p.Middle, p.Upper)
	}

	machineMu.Lock()
	defer machineMu.Unlock()
	machineRegistry[p.Type] = p
	return nil
}

// LookupMachine returns the tolerance band of a machine type
func LookupMachine(machineType string) (models.MachineParams, error) {
	machineMu.RLock()
	defer machineMu.RUnlock()

	p, ok := machineRegistry[machineType]
	if !ok {
		return models.MachineParams{}, fmt.Errorf("%w: %q", analysis.ErrUnknownMachineType, machineType)
	}
	return p, nil
}

// Machines returns every registered band sorted by type
func Machines() []models.MachineParams {
	machineMu.RLock()
	defer machineMu.RUnlock()

	out := make([]models.MachineParams, 0, len(machineRegistry))
	for _, p := range machineRegistry {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// Classify checks slope against the band. Inside the band the slope is
// optimal when it lies in the half of the band nearest the middle.
func Classify(slope float64, p models.MachineParams) models.Verdict {
	v := models.Verdict{
		Passed:    slope >= p.Lower && slope <= p.Upper,
		Deviation: (slope - p.Middle) / p.Middle,
	}
	if !v.Passed {
		v.Quality = models.QualityOutOfTolerance
		return v
	}

	half := p.Middle - p.Lower
	if slope > p.Middle {
		half = p.Upper - p.Middle
	}
	dist := slope - p.Middle
	if dist < 0 {
		dist = -dist
	}
	if half == 0 || dist <= half/2 {
		v.Quality = models.QualityOptimal
	} else {
		v.Quality = models.QualityAcceptable
	}
	return v
}
