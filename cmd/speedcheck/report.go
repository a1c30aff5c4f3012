package main

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/jengzang/valvecheck-backend-go/internal/models"
)

func printResults(snap *models.SessionSnapshot) error {
	pterm.DefaultSection.Println("Ramps")

	entries := make(map[string]models.LedgerEntry, len(snap.Ledger.Entries))
	for _, e := range snap.Ledger.Entries {
		entries[e.FileName] = e
	}

	data := pterm.TableData{{"File", "Method", "Up [idx]", "Up velocity", "Down [idx]", "Down velocity", "Voltage"}}
	for _, r := range snap.Results {
		voltage := "-"
		if e, ok := entries[r.FileName]; ok && e.Voltage != nil {
			voltage = fmt.Sprintf("%g V", *e.Voltage)
		}
		data = append(data, []string{
			r.FileName,
			r.DetectionMethod.String(),
			fmt.Sprintf("%d-%d", r.RampUp.StartIndex, r.RampUp.EndIndex),
			fmt.Sprintf("%.4f", r.RampUp.Velocity),
			fmt.Sprintf("%d-%d", r.RampDown.StartIndex, r.RampDown.EndIndex),
			fmt.Sprintf("%.4f", r.RampDown.Velocity),
			voltage,
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printIssues(snap *models.SessionSnapshot) {
	for _, w := range snap.Warnings {
		pterm.Warning.Printf("%s: %s\n", w.FileName, w.Message)
	}
	for _, f := range snap.Failures {
		pterm.Error.Printf("%s: %s\n", f.FileName, f.Error)
	}
}

func printPoints(points []models.VoltagePoint) error {
	pterm.DefaultSection.Println("Voltage points")

	data := pterm.TableData{{"Voltage", "Velocity", "File"}}
	for _, p := range points {
		data = append(data, []string{fmt.Sprintf("%+g", p.Voltage), fmt.Sprintf("%+.4f", p.Velocity), p.FileName})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printSpeedCheck(snap *models.SessionSnapshot) {
	pterm.DefaultSection.Println("Speed check")

	r := snap.Regression
	if r == nil {
		pterm.Error.Printf("No certifiable result: %s\n", snap.RegressionError)
		return
	}

	pterm.Info.Printf("Machine type: %s (%.3f / %.3f / %.3f)\n",
		r.MachineType, r.MachineParams.Lower, r.MachineParams.Middle, r.MachineParams.Upper)
	pterm.Info.Printf("Calculated slope: %.4f  intercept: %.4f  R²: %.4f  points: %d\n",
		r.CalculatedSlope, r.Intercept, r.RSquared, r.PointCount)
	if r.ManualSlope != nil {
		pterm.Info.Printf("Manual slope: %.4f\n", *r.ManualSlope)
	}

	verdict := fmt.Sprintf("Effective slope %.4f: %s (deviation %+.1f%%)",
		r.EffectiveSlope, r.Verdict.Quality, r.Verdict.Deviation*100)
	if r.Verdict.Passed {
		pterm.Success.Println(verdict)
	} else {
		pterm.Error.Println(verdict)
	}
}
