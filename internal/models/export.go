package models

import "time"

// TestFormData is the operator-entered metadata of a test
type TestFormData struct {
	ValveSerial string            `json:"valveSerial"`
	ValveModel  string            `json:"valveModel,omitempty"`
	Customer    string            `json:"customer,omitempty"`
	TestDate    string            `json:"testDate,omitempty"`
	Inspector   string            `json:"inspector,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// SystemParameters describe the test bench
type SystemParameters struct {
	MachineType   string  `json:"machineType"`
	SupplyVoltage float64 `json:"supplyVoltage,omitempty"`
	SampleRateHz  float64 `json:"sampleRateHz,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

// ExportPackage is the data handed to document generators
type ExportPackage struct {
	TestFormData      TestFormData      `json:"testFormData"`
	VoltageData       []VoltagePoint    `json:"voltageData"`
	SpeedCheckResults *RegressionResult `json:"speedCheckResults"`
	SystemParameters  SystemParameters  `json:"systemParameters"`
}

// Certification is an archived export
type Certification struct {
	ID             int64     `json:"id" db:"id"`
	SessionID      string    `json:"session_id" db:"session_id"`
	ValveSerial    string    `json:"valve_serial" db:"valve_serial"`
	MachineType    string    `json:"machine_type" db:"machine_type"`
	EffectiveSlope float64   `json:"effective_slope" db:"effective_slope"`
	Passed         bool      `json:"passed" db:"passed"`
	Quality        string    `json:"quality" db:"quality"`
	CreatedBy      string    `json:"created_by,omitempty" db:"created_by"`
	PackageJSON    string    `json:"package_json,omitempty" db:"package_json"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// CertificationFilter narrows certification listings
type CertificationFilter struct {
	ValveSerial string `form:"valve_serial"`
	MachineType string `form:"machine_type"`
	Passed      *bool  `form:"passed"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
}
