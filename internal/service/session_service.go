package service

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	"github.com/google/uuid"

	"github.com/jengzang/valvecheck-backend-go/internal/analysis"
	"github.com/jengzang/valvecheck-backend-go/internal/analysis/curve"
	"github.com/jengzang/valvecheck-backend-go/internal/analysis/ledger"
	"github.com/jengzang/valvecheck-backend-go/internal/analysis/regression"
	"github.com/jengzang/valvecheck-backend-go/internal/analysis/slope"
	"github.com/jengzang/valvecheck-backend-go/internal/analysis/voltage"
	"github.com/jengzang/valvecheck-backend-go/internal/models"
	"github.com/jengzang/valvecheck-backend-go/internal/stats"
)

// ErrSessionNotFound is returned for unknown session IDs
var ErrSessionNotFound = errors.New("session not found")

// CurvePadding is the fraction of the data range added around rendered curves
const CurvePadding = 0.05

// session is one valve test. All fields are guarded by mu.
type session struct {
	mu sync.Mutex

	id          string
	createdAt   time.Time
	version     uint64
	dataVersion uint64 // Bumped only by changes that affect derived views
	waveforms   map[string]models.Waveform
	results     map[string]models.DualSlopeResult
	ledger      *ledger.Ledger
	warnings    map[string]models.Warning
	failures    []models.IngestFailure
	selected    string
	machineType string
	override    models.SlopeOverride

	derived *derivedView
}

// derivedView is memoized on the session data version
type derivedView struct {
	version    uint64
	points     []models.VoltagePoint
	regression *models.RegressionResult
	regErr     error
	curve      models.Curve
}

// DerivedData is a copy of the views computed from a session's state
type DerivedData struct {
	SessionID       string
	MachineType     string
	VoltagePoints   []models.VoltagePoint
	Regression      *models.RegressionResult
	RegressionError error
	Curve           models.Curve
}

// CurveView is the smoothed curve in data space and, when a render area is
// given, in render space
type CurveView struct {
	Curve          models.Curve           `json:"curve"`
	Width          float64                `json:"width,omitempty"`
	Height         float64                `json:"height,omitempty"`
	RenderPoints   []models.RenderPoint   `json:"renderPoints,omitempty"`
	RenderSegments []models.RenderSegment `json:"renderSegments,omitempty"`
}

// SessionService owns the in-memory test sessions
type SessionService struct {
	mu             sync.RWMutex
	sessions       map[string]*session
	detector       *slope.Detector
	defaultMachine string
}

// NewSessionService creates a new session service
func NewSessionService(detector *slope.Detector, defaultMachine string) *SessionService {
	if detector == nil {
		detector = slope.NewDetector(slope.DefaultThresholds)
	}
	if defaultMachine == "" {
		defaultMachine = regression.DefaultMachineType
	}
	return &SessionService{
		sessions:       make(map[string]*session),
		detector:       detector,
		defaultMachine: defaultMachine,
	}
}

// Create starts an empty session
func (s *SessionService) Create() *models.SessionSnapshot {
	sess := &session{
		id:          uuid.NewString(),
		createdAt:   time.Now(),
		waveforms:   make(map[string]models.Waveform),
		results:     make(map[string]models.DualSlopeResult),
		ledger:      ledger.New(),
		warnings:    make(map[string]models.Warning),
		machineType: s.defaultMachine,
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	log.Printf("[SessionService] Created session %s (machine %s)", sess.id, sess.machineType)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshot()
}

// Delete drops a session
func (s *SessionService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(s.sessions, id)
	log.Printf("[SessionService] Deleted session %s", id)
	return nil
}

func (s *SessionService) lookup(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// withSession runs fn with the session locked
func (s *SessionService) withSession(id string, fn func(*session) error) error {
	sess, err := s.lookup(id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess)
}

// Ingest runs detection over a batch of waveforms in arrival order. Invalid
// waveforms join the failure list; re-ingesting a known file replaces its
// result and withdraws its approval. A failure for a file that already holds
// a result is reported back but not recorded: the last good result stands.
func (s *SessionService) Ingest(id string, waveforms []models.Waveform, failures []models.IngestFailure) (*models.IngestResult, error) {
	out := &models.IngestResult{
		Results:  []models.DualSlopeResult{},
		Warnings: []models.Warning{},
		Failures: []models.IngestFailure{},
	}

	err := s.withSession(id, func(sess *session) error {
		for _, f := range failures {
			sess.fail(f)
			out.Failures = append(out.Failures, f)
		}

		for _, w := range waveforms {
			result, err := s.detector.Detect(w)
			if err != nil {
				f := models.IngestFailure{FileName: w.FileName, Error: err.Error()}
				sess.fail(f)
				out.Failures = append(out.Failures, f)
				log.Printf("[SessionService] Session %s: rejected %q: %v", sess.id, w.FileName, err)
				continue
			}

			if sess.ledger.Has(w.FileName) {
				if err := sess.ledger.Reset(w.FileName); err != nil {
					return err
				}
			} else {
				sess.ledger.Register(w.FileName)
			}
			sess.waveforms[w.FileName] = w
			sess.results[w.FileName] = result
			sess.clearFailure(w.FileName)
			delete(sess.warnings, w.FileName)

			if result.DetectionMethod == models.DetectionFallback {
				warning := models.Warning{
					FileName: w.FileName,
					Code:     models.WarningDetectionDegraded,
					Message:  "no confident ramp pair found; fallback ranges used",
				}
				sess.warnings[w.FileName] = warning
				out.Warnings = append(out.Warnings, warning)
				log.Printf("[SessionService] Warning: session %s: detection degraded for %q", sess.id, w.FileName)
			}
			out.Results = append(out.Results, result)
		}

		if sess.selected == "" && len(out.Results) > 0 {
			sess.selected = out.Results[0].FileName
		}
		sess.touch()
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[SessionService] Session %s: ingested %d files, %d warnings, %d failures",
		id, len(out.Results), len(out.Warnings), len(out.Failures))
	return out, nil
}

// Recalculate measures operator-supplied ramp ranges. On success the result
// becomes manual and an approved file loses its approval; on failure nothing
// changes.
func (s *SessionService) Recalculate(id, fileName string, req models.RecalculateRequest) (*models.DualSlopeResult, error) {
	var result models.DualSlopeResult
	err := s.withSession(id, func(sess *session) error {
		w, ok := sess.waveforms[fileName]
		if !ok {
			return fmt.Errorf("%w: %s", analysis.ErrUnknownFile, fileName)
		}

		var err error
		result, err = slope.Recalculate(w, req)
		if err != nil {
			return err
		}

		if err := sess.ledger.MarkAdjusted(fileName); err != nil {
			return err
		}
		sess.results[fileName] = result
		delete(sess.warnings, fileName)
		sess.touch()
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[SessionService] Session %s: recalculated %q", id, fileName)
	return &result, nil
}

// Approve binds voltage to the file and returns the next file to review
func (s *SessionService) Approve(id, fileName string, volts float64, operator string) (*models.ApproveResult, error) {
	var out models.ApproveResult
	err := s.withSession(id, func(sess *session) error {
		next, err := sess.ledger.Approve(fileName, volts, operator)
		if err != nil {
			return err
		}
		out.Entry, _ = sess.ledger.Entry(fileName)
		out.NextFile = next
		sess.touch()
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[SessionService] Session %s: %s approved %q at %g V", id, operator, fileName, volts)
	return &out, nil
}

// Revoke withdraws the file's approval
func (s *SessionService) Revoke(id, fileName string) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	err := s.withSession(id, func(sess *session) error {
		if err := sess.ledger.Revoke(fileName); err != nil {
			return err
		}
		entry, _ = sess.ledger.Entry(fileName)
		sess.touch()
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[SessionService] Session %s: revoked %q", id, fileName)
	return &entry, nil
}

// Select records the file the operator is viewing and returns its result
func (s *SessionService) Select(id, fileName string) (*models.DualSlopeResult, error) {
	var result models.DualSlopeResult
	err := s.withSession(id, func(sess *session) error {
		r, ok := sess.results[fileName]
		if !ok {
			return fmt.Errorf("%w: %s", analysis.ErrUnknownFile, fileName)
		}
		result = r
		if sess.selected != fileName {
			sess.selected = fileName
			sess.version++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SetMachineType selects the tolerance band used by the speed check
func (s *SessionService) SetMachineType(id, machineType string) error {
	if _, err := regression.LookupMachine(machineType); err != nil {
		return err
	}
	return s.withSession(id, func(sess *session) error {
		sess.machineType = machineType
		sess.touch()
		return nil
	})
}

// SetSlopeOverride stores the operator's manual slope; nil fields clear it
func (s *SessionService) SetSlopeOverride(id string, override models.SlopeOverride) error {
	for name, v := range map[string]*float64{
		"manualSlope":       override.ManualSlope,
		"manualSlopeFactor": override.ManualSlopeFactor,
	} {
		if v != nil && (!stats.Finite(*v) || *v <= 0) {
			return fmt.Errorf("%w: %s must be a positive number", analysis.ErrInvalidSlope, name)
		}
	}

	return s.withSession(id, func(sess *session) error {
		sess.override = models.SlopeOverride{
			ManualSlope:       copyFloat(override.ManualSlope),
			ManualSlopeFactor: copyFloat(override.ManualSlopeFactor),
		}
		sess.touch()
		return nil
	})
}

// Snapshot returns the full serializable state of a session
func (s *SessionService) Snapshot(id string) (*models.SessionSnapshot, error) {
	var snap *models.SessionSnapshot
	err := s.withSession(id, func(sess *session) error {
		snap = sess.snapshot()
		return nil
	})
	return snap, err
}

// Derived returns voltage points, regression and curve for the current state
func (s *SessionService) Derived(id string) (*DerivedData, error) {
	var out *DerivedData
	err := s.withSession(id, func(sess *session) error {
		d := sess.derive()
		out = &DerivedData{
			SessionID:       sess.id,
			MachineType:     sess.machineType,
			VoltagePoints:   append([]models.VoltagePoint(nil), d.points...),
			Regression:      copyRegression(d.regression),
			RegressionError: d.regErr,
			Curve:           d.curve,
		}
		return nil
	})
	return out, err
}

// Curve returns the smoothed curve; width and height > 0 also map it into a
// width x height render area with y growing downwards
func (s *SessionService) Curve(id string, width, height float64) (*CurveView, error) {
	d, err := s.Derived(id)
	if err != nil {
		return nil, err
	}

	view := &CurveView{Curve: d.Curve}
	if width <= 0 || height <= 0 || len(d.VoltagePoints) == 0 {
		return view, nil
	}

	target := r2.Rect{X: r1.Interval{Lo: 0, Hi: width}, Y: r1.Interval{Lo: 0, Hi: height}}
	transform, err := curve.NewTransform(curve.DataBounds(d.VoltagePoints, CurvePadding), target, 1, 1, true)
	if err != nil {
		return nil, err
	}

	view.Width = width
	view.Height = height
	view.RenderPoints = transform.Points(d.Curve.Points)
	view.RenderSegments = transform.Segments(d.Curve.Segments)
	return view, nil
}

// touch records a change to results, ledger or fit inputs
func (sess *session) touch() {
	sess.version++
	sess.dataVersion++
}

// fail records f unless the file already holds a result
func (sess *session) fail(f models.IngestFailure) {
	if _, ok := sess.results[f.FileName]; ok {
		log.Printf("[SessionService] Session %s: kept previous result for %q: %s", sess.id, f.FileName, f.Error)
		return
	}
	sess.addFailure(f)
}

func (sess *session) addFailure(f models.IngestFailure) {
	sess.clearFailure(f.FileName)
	sess.failures = append(sess.failures, f)
}

func (sess *session) clearFailure(fileName string) {
	kept := sess.failures[:0]
	for _, f := range sess.failures {
		if f.FileName != fileName {
			kept = append(kept, f)
		}
	}
	sess.failures = kept
}

func (sess *session) derive() *derivedView {
	if sess.derived != nil && sess.derived.version == sess.dataVersion {
		return sess.derived
	}

	points := voltage.Map(sess.results, sess.ledger.Bindings())
	result, err := regression.Fit(points, regression.Options{
		MachineType: sess.machineType,
		Override:    sess.override,
	})

	sess.derived = &derivedView{
		version:    sess.dataVersion,
		points:     points,
		regression: result,
		regErr:     err,
		curve:      curve.Build(points),
	}
	return sess.derived
}

func (sess *session) snapshot() *models.SessionSnapshot {
	d := sess.derive()

	files := sess.ledger.Files()
	results := make([]models.DualSlopeResult, 0, len(files))
	warnings := make([]models.Warning, 0, len(sess.warnings))
	for _, name := range files {
		if r, ok := sess.results[name]; ok {
			results = append(results, r)
		}
		if w, ok := sess.warnings[name]; ok {
			warnings = append(warnings, w)
		}
	}

	snap := &models.SessionSnapshot{
		ID:            sess.id,
		Version:       sess.version,
		Files:         files,
		SelectedFile:  sess.selected,
		Results:       results,
		Ledger:        sess.ledger.Snapshot(),
		VoltagePoints: append([]models.VoltagePoint{}, d.points...),
		Regression:    copyRegression(d.regression),
		Curve:         d.curve,
		MachineType:   sess.machineType,
		SlopeOverride: models.SlopeOverride{
			ManualSlope:       copyFloat(sess.override.ManualSlope),
			ManualSlopeFactor: copyFloat(sess.override.ManualSlopeFactor),
		},
		Warnings: warnings,
		Failures: append([]models.IngestFailure{}, sess.failures...),
	}
	if d.regErr != nil {
		snap.RegressionError = d.regErr.Error()
	}
	return snap
}

// IDs lists the open session IDs
func (s *SessionService) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func copyRegression(r *models.RegressionResult) *models.RegressionResult {
	if r == nil {
		return nil
	}
	out := *r
	out.ManualSlope = copyFloat(r.ManualSlope)
	out.ManualSlopeFactor = copyFloat(r.ManualSlopeFactor)
	return &out
}
