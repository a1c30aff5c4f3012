package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jengzang/valvecheck-backend-go/internal/models"
)

// loadWaveform reads a CSV or JSON waveform file. The failure is returned in
// ingest-failure form so the batch can continue.
func loadWaveform(path string) (models.Waveform, error) {
	file, err := os.Open(path)
	if err != nil {
		return models.Waveform{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	name := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return decodeJSON(name, file)
	}
	return decodeCSV(name, file)
}

func decodeJSON(name string, r io.Reader) (models.Waveform, error) {
	var w models.Waveform
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return models.Waveform{}, fmt.Errorf("invalid JSON waveform: %w", err)
	}
	if w.FileName == "" {
		w.FileName = name
	}
	return w, nil
}

// decodeCSV reads a CSV with a header row. The time and position columns are
// located by name ("time", "Time (s)", "position", "Position [mm]", ...).
func decodeCSV(name string, r io.Reader) (models.Waveform, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return models.Waveform{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	timeCol, posCol := -1, -1
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		switch {
		case timeCol < 0 && strings.HasPrefix(h, "time"):
			timeCol = i
		case posCol < 0 && (strings.HasPrefix(h, "position") || strings.HasPrefix(h, "pos")):
			posCol = i
		}
	}
	if timeCol < 0 || posCol < 0 {
		return models.Waveform{}, fmt.Errorf("invalid CSV format: need time and position columns, got %v", header)
	}

	w := models.Waveform{FileName: name}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return models.Waveform{}, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if timeCol >= len(record) || posCol >= len(record) {
			return models.Waveform{}, fmt.Errorf("CSV line %d has %d columns", line, len(record))
		}

		t, err := strconv.ParseFloat(strings.TrimSpace(record[timeCol]), 64)
		if err != nil {
			return models.Waveform{}, fmt.Errorf("CSV line %d: invalid time: %w", line, err)
		}
		p, err := strconv.ParseFloat(strings.TrimSpace(record[posCol]), 64)
		if err != nil {
			return models.Waveform{}, fmt.Errorf("CSV line %d: invalid position: %w", line, err)
		}
		w.Samples = append(w.Samples, models.Sample{Time: t, Position: p})
	}
	return w, nil
}

// parseAssignments parses "a.csv=10,b.csv=5" into file -> voltage
func parseAssignments(raw string) (map[string]float64, error) {
	out := make(map[string]float64)
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid assignment %q, want file=voltage", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(value), "V"), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid voltage in %q: %w", pair, err)
		}
		out[filepath.Base(name)] = v
	}
	return out, nil
}
