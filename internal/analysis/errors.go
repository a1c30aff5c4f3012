package analysis

import "errors"

// Failure kinds surfaced to the operator. Wrap with fmt.Errorf("...: %w", err)
// and test with errors.Is.
var (
	// ErrInvalidWaveform means the sample sequence is not usable for detection
	ErrInvalidWaveform = errors.New("invalid waveform")

	// ErrInvalidIndices means a recalculation request was rejected; nothing changed
	ErrInvalidIndices = errors.New("invalid indices")

	// ErrInvalidVoltage means the voltage is already bound or not in the catalog
	ErrInvalidVoltage = errors.New("invalid voltage")

	// ErrUnknownFile means the file is not part of the session
	ErrUnknownFile = errors.New("unknown file")

	// ErrInsufficientData means fewer than two distinct voltages are available
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidSlope means the effective slope is non-positive or not finite
	ErrInvalidSlope = errors.New("invalid slope")

	// ErrUnknownMachineType means no tolerance band is registered for the machine type
	ErrUnknownMachineType = errors.New("unknown machine type")

	// ErrValidation means export preconditions are not met
	ErrValidation = errors.New("validation error")
)

// MinRampSamples is the smallest number of samples a ramp may span
const MinRampSamples = 5

// MinWaveformSamples is the smallest waveform accepted for detection
const MinWaveformSamples = 10
