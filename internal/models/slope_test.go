package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectionMethod_JSON(t *testing.T) {
	raw, err := json.Marshal(DualSlopeResult{FileName: "a.csv", DetectionMethod: DetectionManual})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"detectionMethod":"manual"`)

	var back DualSlopeResult
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, DetectionManual, back.DetectionMethod)

	var m DetectionMethod
	assert.Error(t, json.Unmarshal([]byte(`"guessed"`), &m))
}

func TestIndexRange_Span(t *testing.T) {
	assert.Equal(t, 5, IndexRange{StartIndex: 10, EndIndex: 14}.Span())
}
