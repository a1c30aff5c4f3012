package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCSV_LocatesColumnsByName(t *testing.T) {
	input := "index,Position [mm],Time (s)\n0,0.5,0.00\n1,0.7,0.01\n\n2,0.9,0.02\n"

	w, err := decodeCSV("10V.csv", strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "10V.csv", w.FileName)
	require.Equal(t, 3, w.Len())
	assert.Equal(t, 0.01, w.Samples[1].Time)
	assert.Equal(t, 0.9, w.Samples[2].Position)
}

func TestDecodeCSV_Errors(t *testing.T) {
	_, err := decodeCSV("a.csv", strings.NewReader("t,x\n0,1\n"))
	assert.ErrorContains(t, err, "need time and position")

	_, err = decodeCSV("a.csv", strings.NewReader("time,position\n0,abc\n"))
	assert.ErrorContains(t, err, "invalid position")
}

func TestLoadWaveform_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "5V.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"samples":[{"time":0,"position":1},{"time":0.1,"position":2}]}`), 0o644))

	w, err := loadWaveform(path)
	require.NoError(t, err)
	assert.Equal(t, "5V.json", w.FileName)
	assert.Equal(t, 2, w.Len())
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments("data/10V.csv=10, 5V.csv=5V")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"10V.csv": 10, "5V.csv": 5}, got)

	empty, err := parseAssignments("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = parseAssignments("a.csv")
	assert.Error(t, err)
	_, err = parseAssignments("a.csv=ten")
	assert.Error(t, err)
}

func TestOptionalFloat(t *testing.T) {
	v, err := optionalFloat("")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = optionalFloat("2.5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, *v)
}
