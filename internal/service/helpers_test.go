package service

import "github.com/jengzang/valvecheck-backend-go/internal/models"

// doubleRamp builds 100 samples at 10 ms that rise at slope from sample 10
// to 40, hold until 60 and fall back at the same slope until 90.
func doubleRamp(name string, slope float64) models.Waveform {
	const dt = 0.01
	top := slope * 30 * dt
	w := models.Waveform{FileName: name}
	for i := 0; i < 100; i++ {
		var pos float64
		switch {
		case i < 10:
			pos = 0
		case i <= 40:
			pos = slope * float64(i-10) * dt
		case i <= 60:
			pos = top
		case i <= 90:
			pos = top - slope*float64(i-60)*dt
		}
		w.Samples = append(w.Samples, models.Sample{Time: float64(i) * dt, Position: pos})
	}
	return w
}

func constant(name string, n int) models.Waveform {
	w := models.Waveform{FileName: name}
	for i := 0; i < n; i++ {
		w.Samples = append(w.Samples, models.Sample{Time: float64(i) * 0.01, Position: 1})
	}
	return w
}

func ptr(v float64) *float64 {
	return &v
}
