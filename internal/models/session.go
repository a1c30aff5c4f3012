package models

// SessionSnapshot is everything the UI needs to render one test session
type SessionSnapshot struct {
	ID              string            `json:"id"`
	Version         uint64            `json:"version"`
	Files           []string          `json:"files"` // Processing order
	SelectedFile    string            `json:"selectedFile,omitempty"`
	Results         []DualSlopeResult `json:"results"`
	Ledger          LedgerSnapshot    `json:"ledger"`
	VoltagePoints   []VoltagePoint    `json:"voltagePoints"`
	Regression      *RegressionResult `json:"regression,omitempty"`
	RegressionError string            `json:"regressionError,omitempty"`
	Curve           Curve             `json:"curve"`
	MachineType     string            `json:"machineType"`
	SlopeOverride   SlopeOverride     `json:"slopeOverride"`
	Warnings        []Warning         `json:"warnings"`
	Failures        []IngestFailure   `json:"failures"`
}

// IngestResult is returned after a batch of waveforms is processed
type IngestResult struct {
	Results  []DualSlopeResult `json:"results"`
	Warnings []Warning         `json:"warnings"`
	Failures []IngestFailure   `json:"failures"`
}

// ApproveResult is returned after an approval
type ApproveResult struct {
	Entry    LedgerEntry `json:"entry"`
	NextFile string      `json:"nextFile,omitempty"` // Empty when every file is approved
}
