package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/valvecheck-backend-go/internal/models"
)

// CertificationRepository handles database operations for archived exports
type CertificationRepository struct {
	db *sql.DB
}

// NewCertificationRepository creates a new certification repository
func NewCertificationRepository(db *sql.DB) *CertificationRepository {
	return &CertificationRepository{db: db}
}

// DB returns the underlying connection, for callers that need a transaction
func (r *CertificationRepository) DB() *sql.DB {
	return r.db
}

// CreateTx inserts a certification inside an open transaction and sets its ID
func (r *CertificationRepository) CreateTx(ctx context.Context, tx *sql.Tx, cert *models.Certification) error {
	if cert.CreatedAt.IsZero() {
		cert.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO certifications (session_id, valve_serial, machine_type, effective_slope,
		passed, quality, created_by, package_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := tx.ExecContext(ctx, query,
		cert.SessionID, cert.ValveSerial, cert.MachineType, cert.EffectiveSlope,
		cert.Passed, cert.Quality, cert.CreatedBy, cert.PackageJSON, cert.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create certification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get certification ID: %w", err)
	}

	cert.ID = id
	return nil
}

// GetByID retrieves a certification by ID; returns nil when none exists
func (r *CertificationRepository) GetByID(ctx context.Context, id int64) (*models.Certification, error) {
	query := `SELECT id, session_id, valve_serial, machine_type, effective_slope,
		passed, quality, created_by, package_json, created_at
		FROM certifications WHERE id = ?`

	var c models.Certification
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.SessionID, &c.ValveSerial, &c.MachineType, &c.EffectiveSlope,
		&c.Passed, &c.Quality, &c.CreatedBy, &c.PackageJSON, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get certification: %w", err)
	}

	return &c, nil
}

// List retrieves certifications with filtering and pagination, newest first.
// The stored package body is omitted from list rows.
func (r *CertificationRepository) List(ctx context.Context, filter models.CertificationFilter) ([]models.Certification, int64, error) {
	query := `SELECT id, session_id, valve_serial, machine_type, effective_slope,
		passed, quality, created_by, created_at
		FROM certifications`

	var conditions []string
	var args []interface{}

	if filter.ValveSerial != "" {
		conditions = append(conditions, "valve_serial = ?")
		args = append(args, filter.ValveSerial)
	}
	if filter.MachineType != "" {
		conditions = append(conditions, "machine_type = ?")
		args = append(args, filter.MachineType)
	}
	if filter.Passed != nil {
		conditions = append(conditions, "passed = ?")
		args = append(args, *filter.Passed)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM certifications"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count certifications: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	if filter.PageSize > 1000 {
		filter.PageSize = 1000
	}

	offset := (filter.Page - 1) * filter.PageSize
	query += where + " ORDER BY id DESC LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query certifications: %w", err)
	}
	defer rows.Close()

	certs := []models.Certification{}
	for rows.Next() {
		var c models.Certification
		if err := rows.Scan(
			&c.ID, &c.SessionID, &c.ValveSerial, &c.MachineType, &c.EffectiveSlope,
			&c.Passed, &c.Quality, &c.CreatedBy, &c.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan certification: %w", err)
		}
		certs = append(certs, c)
	}

	return certs, total, rows.Err()
}
