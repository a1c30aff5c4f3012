package models

import "time"

// LedgerEntry is the approval state of one file
type LedgerEntry struct {
	FileName         string     `json:"fileName"`
	Approved         bool       `json:"approved"`
	ManuallyAdjusted bool       `json:"manuallyAdjusted"`
	Voltage          *float64   `json:"voltage,omitempty"` // nil while unassigned
	ApprovedBy       string     `json:"approvedBy,omitempty"`
	ApprovedAt       *time.Time `json:"approvedAt,omitempty"`
}

// LedgerSnapshot is a read-only copy of the whole ledger
type LedgerSnapshot struct {
	Entries           []LedgerEntry `json:"entries"` // Processing order
	AvailableVoltages []float64     `json:"availableVoltages"`
	AssignedVoltages  []float64     `json:"assignedVoltages"`
}

// Binding ties an approved file to its voltage magnitude
type Binding struct {
	FileName string  `json:"fileName"`
	Voltage  float64 `json:"voltage"`
}
