package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/jengzang/valvecheck-backend-go/internal/analysis/regression"
	"github.com/jengzang/valvecheck-backend-go/internal/analysis/slope"
	"github.com/jengzang/valvecheck-backend-go/internal/config"
	"github.com/jengzang/valvecheck-backend-go/internal/models"
	"github.com/jengzang/valvecheck-backend-go/internal/render"
	"github.com/jengzang/valvecheck-backend-go/internal/service"
)

const usage = `Usage:
  speedcheck analyze [-machine standard] [-assign a.csv=10,b.csv=5] [-manual-slope S | -factor F] [-chart out.png] files...
  speedcheck token -operator NAME [-ttl 12h]`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		pterm.Error.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	for _, m := range cfg.Machines {
		if err := regression.RegisterMachine(m); err != nil {
			pterm.Error.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}

	switch os.Args[1] {
	case "analyze":
		err = runAnalyze(cfg, os.Args[2:])
	case "token":
		err = runToken(cfg, os.Args[2:])
	default:
		fmt.Println(usage)
		os.Exit(1)
	}
	if err != nil {
		pterm.Error.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func runAnalyze(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	machine := fs.String("machine", cfg.DefaultMachineType, "Machine type")
	assign := fs.String("assign", "", "Voltage per file: a.csv=10,b.csv=5")
	operator := fs.String("operator", "cli", "Operator recorded on approvals")
	manualSlope := fs.String("manual-slope", "", "Replace the calculated slope")
	factor := fs.String("factor", "", "Multiply the calculated slope")
	chartPath := fs.String("chart", "", "Write a PNG chart to this path")
	fs.Parse(args)

	if fs.NArg() == 0 {
		return errors.New("no waveform files given")
	}

	assignments, err := parseAssignments(*assign)
	if err != nil {
		return err
	}

	sessions := service.NewSessionService(slope.NewDetector(cfg.Detection), cfg.DefaultMachineType)
	id := sessions.Create().ID
	if err := sessions.SetMachineType(id, *machine); err != nil {
		return err
	}

	var override models.SlopeOverride
	if override.ManualSlope, err = optionalFloat(*manualSlope); err != nil {
		return fmt.Errorf("invalid -manual-slope: %w", err)
	}
	if override.ManualSlopeFactor, err = optionalFloat(*factor); err != nil {
		return fmt.Errorf("invalid -factor: %w", err)
	}
	if err := sessions.SetSlopeOverride(id, override); err != nil {
		return err
	}

	var waveforms []models.Waveform
	var failures []models.IngestFailure
	for _, path := range fs.Args() {
		w, err := loadWaveform(path)
		if err != nil {
			failures = append(failures, models.IngestFailure{FileName: filepath.Base(path), Error: err.Error()})
			continue
		}
		waveforms = append(waveforms, w)
	}
	pterm.Info.Printf("Loaded %d waveform file(s), %d unreadable\n", len(waveforms), len(failures))

	if _, err := sessions.Ingest(id, waveforms, failures); err != nil {
		return err
	}

	for _, w := range waveforms {
		v, ok := assignments[w.FileName]
		if !ok {
			continue
		}
		if _, err := sessions.Approve(id, w.FileName, v, *operator); err != nil {
			pterm.Error.Printf("Approve %s: %v\n", w.FileName, err)
		}
	}

	snap, err := sessions.Snapshot(id)
	if err != nil {
		return err
	}

	pterm.DefaultHeader.WithFullWidth().Println("Valve Speed Check")
	printIssues(snap)
	if err := printResults(snap); err != nil {
		return err
	}
	if len(snap.VoltagePoints) > 0 {
		if err := printPoints(snap.VoltagePoints); err != nil {
			return err
		}
	}
	printSpeedCheck(snap)

	if *chartPath != "" {
		if err := writeChart(*chartPath, snap); err != nil {
			return err
		}
		pterm.Success.Printf("Chart written to %s\n", *chartPath)
	}
	return nil
}

func runToken(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	operator := fs.String("operator", "", "Operator name")
	ttl := fs.Duration("ttl", cfg.TokenTTL, "Token lifetime")
	fs.Parse(args)

	token, err := service.NewTokenService(cfg.JWTSecret, *ttl).Issue(*operator)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func writeChart(path string, snap *models.SessionSnapshot) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer file.Close()

	title := fmt.Sprintf("Velocity vs. voltage (%s)", snap.MachineType)
	return render.VoltageChart(file, snap.VoltagePoints, snap.Regression, snap.Curve, render.ChartOptions{Title: title})
}

func optionalFloat(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

