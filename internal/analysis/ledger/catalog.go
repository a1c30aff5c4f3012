package ledger

import "github.com/shopspring/decimal"

// Catalog is the fixed ascending list of nominal test voltage magnitudes.
// It is shared with the UI and is not configurable at runtime.
var Catalog = []float64{
	0.1, 0.2, 0.3, 0.5, 0.7,
	1.0, 1.5, 2.0, 2.5, 3.0,
	4.0, 5.0, 6.0, 7.0, 8.0,
	10.0,
}

// voltageDecimals is the precision catalog values are compared at
const voltageDecimals = 3

var catalogIndex = buildCatalogIndex()

func buildCatalogIndex() map[string]float64 {
	index := make(map[string]float64, len(Catalog))
	for _, v := range Catalog {
		index[voltageKey(v)] = v
	}
	return index
}

// voltageKey normalizes a voltage so 5, 5.0 and 5.0000001 compare equal
func voltageKey(v float64) string {
	return decimal.NewFromFloat(v).Round(voltageDecimals).String()
}

// CatalogVoltage returns the canonical catalog value for v
func CatalogVoltage(v float64) (float64, bool) {
	canonical, ok := catalogIndex[voltageKey(v)]
	return canonical, ok
}

// Voltages returns a copy of the catalog
func Voltages() []float64 {
	out := make([]float64, len(Catalog))
	copy(out, Catalog)
	return out
}
