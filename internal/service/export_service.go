package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/jengzang/valvecheck-backend-go/internal/analysis"
	"github.com/jengzang/valvecheck-backend-go/internal/database"
	"github.com/jengzang/valvecheck-backend-go/internal/models"
	"github.com/jengzang/valvecheck-backend-go/internal/repository"
	"github.com/jengzang/valvecheck-backend-go/internal/stats"
)

// ErrCertificationNotFound is returned for unknown certification IDs
var ErrCertificationNotFound = errors.New("certification not found")

// ExportService builds, validates and archives export packages
type ExportService struct {
	sessions *SessionService
	repo     *repository.CertificationRepository
}

// NewExportService creates a new export service
func NewExportService(sessions *SessionService, repo *repository.CertificationRepository) *ExportService {
	return &ExportService{sessions: sessions, repo: repo}
}

// ValidateExport checks the preconditions of document generation
func ValidateExport(pkg models.ExportPackage) error {
	if len(pkg.VoltageData) == 0 {
		return fmt.Errorf("%w: voltage data is empty", analysis.ErrValidation)
	}
	if pkg.SpeedCheckResults == nil {
		return fmt.Errorf("%w: speed check results are missing", analysis.ErrValidation)
	}

	calculated := pkg.SpeedCheckResults.CalculatedSlope
	if !stats.Finite(calculated) || calculated <= 0 {
		return fmt.Errorf("%w: calculated slope %g is not positive", analysis.ErrValidation, calculated)
	}
	effective := pkg.SpeedCheckResults.Effective()
	if !stats.Finite(effective) || effective <= 0 {
		return fmt.Errorf("%w: effective slope %g is not positive", analysis.ErrValidation, effective)
	}

	for i, p := range pkg.VoltageData {
		if !stats.Finite(p.Voltage, p.Velocity) {
			return fmt.Errorf("%w: voltage point %d is not a number", analysis.ErrValidation, i)
		}
	}
	return nil
}

// BuildPackage assembles the export package from the session's current state
func (s *ExportService) BuildPackage(sessionID string, form models.TestFormData, system models.SystemParameters) (*models.ExportPackage, error) {
	d, err := s.sessions.Derived(sessionID)
	if err != nil {
		return nil, err
	}

	if system.MachineType == "" {
		system.MachineType = d.MachineType
	}

	return &models.ExportPackage{
		TestFormData:      form,
		VoltageData:       d.VoltagePoints,
		SpeedCheckResults: d.Regression,
		SystemParameters:  system,
	}, nil
}

// Export validates the session's package and archives it as a certification
func (s *ExportService) Export(ctx context.Context, sessionID string, form models.TestFormData, system models.SystemParameters, operator string) (*models.Certification, error) {
	pkg, err := s.BuildPackage(sessionID, form, system)
	if err != nil {
		return nil, err
	}
	if err := ValidateExport(*pkg); err != nil {
		return nil, err
	}

	body, err := json.Marshal(pkg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export package: %w", err)
	}

	result := pkg.SpeedCheckResults
	cert := &models.Certification{
		SessionID:      sessionID,
		ValveSerial:    form.ValveSerial,
		MachineType:    result.MachineType,
		EffectiveSlope: result.EffectiveSlope,
		Passed:         result.Verdict.Passed,
		Quality:        result.Verdict.Quality,
		CreatedBy:      operator,
		PackageJSON:    string(body),
	}

	err = database.Transaction(ctx, s.repo.DB(), func(tx *sql.Tx) error {
		return s.repo.CreateTx(ctx, tx, cert)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[ExportService] Session %s: certification %d stored (serial %q, %s, passed=%t)",
		sessionID, cert.ID, cert.ValveSerial, cert.Quality, cert.Passed)
	return cert, nil
}

// GetCertification retrieves an archived certification
func (s *ExportService) GetCertification(ctx context.Context, id int64) (*models.Certification, error) {
	cert, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, fmt.Errorf("%w: %d", ErrCertificationNotFound, id)
	}
	return cert, nil
}

// ListCertifications lists archived certifications
func (s *ExportService) ListCertifications(ctx context.Context, filter models.CertificationFilter) ([]models.Certification, int64, error) {
	return s.repo.List(ctx, filter)
}
