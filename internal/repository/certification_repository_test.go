package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/valvecheck-backend-go/internal/database"
	"github.com/jengzang/valvecheck-backend-go/internal/models"
)

func newTestRepo(t *testing.T) *CertificationRepository {
	t.Helper()
	conn, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "certs.db")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewCertificationRepository(conn)
}

func insert(t *testing.T, repo *CertificationRepository, cert *models.Certification) {
	t.Helper()
	err := database.Transaction(context.Background(), repo.DB(), func(tx *sql.Tx) error {
		return repo.CreateTx(context.Background(), tx, cert)
	})
	require.NoError(t, err)
}

func TestCertificationRepository_CreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	cert := &models.Certification{
		SessionID:      "sess-1",
		ValveSerial:    "SN-100",
		MachineType:    "standard",
		EffectiveSlope: 2.05,
		Passed:         true,
		Quality:        models.QualityOptimal,
		CreatedBy:      "alice",
		PackageJSON:    `{"testFormData":{"valveSerial":"SN-100"}}`,
	}
	insert(t, repo, cert)
	assert.NotZero(t, cert.ID)

	got, err := repo.GetByID(ctx, cert.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "SN-100", got.ValveSerial)
	assert.True(t, got.Passed)
	assert.InDelta(t, 2.05, got.EffectiveSlope, 1e-9)
	assert.Equal(t, cert.PackageJSON, got.PackageJSON)

	missing, err := repo.GetByID(ctx, cert.ID+100)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCertificationRepository_ListFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	insert(t, repo, &models.Certification{SessionID: "a", ValveSerial: "SN-1", MachineType: "standard", EffectiveSlope: 2, Passed: true, Quality: models.QualityOptimal, PackageJSON: "{}"})
	insert(t, repo, &models.Certification{SessionID: "b", ValveSerial: "SN-1", MachineType: "standard", EffectiveSlope: 3, Passed: false, Quality: models.QualityOutOfTolerance, PackageJSON: "{}"})
	insert(t, repo, &models.Certification{SessionID: "c", ValveSerial: "SN-2", MachineType: "compact", EffectiveSlope: 1, Passed: true, Quality: models.QualityOptimal, PackageJSON: "{}"})

	all, total, err := repo.List(ctx, models.CertificationFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].SessionID, "newest first")
	assert.Empty(t, all[0].PackageJSON)

	bySerial, total, err := repo.List(ctx, models.CertificationFilter{ValveSerial: "SN-1"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, bySerial, 2)

	passed := false
	failed, _, err := repo.List(ctx, models.CertificationFilter{Passed: &passed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "b", failed[0].SessionID)

	page, total, err := repo.List(ctx, models.CertificationFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "a", page[0].SessionID)
}
