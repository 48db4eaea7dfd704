package backup

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	infrabackup "github.com/pms/backend/internal/infrastructure/backup"
	"github.com/pms/backend/internal/infrastructure/config"
	"github.com/pms/backend/internal/infrastructure/persistence/models"
	"github.com/pms/backend/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type recordingUploader struct {
	names []string
	err   error
}

func (u *recordingUploader) Upload(ctx context.Context, name string, data []byte, contentType string) error {
	if u.err != nil {
		return u.err
	}
	u.names = append(u.names, name)
	return nil
}

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.OwnerModel{},
		&models.UserModel{},
		&models.PropertyModel{},
		&models.BookingModel{},
		&models.ExpenseModel{},
		&models.IssueModel{},
		&models.TaskModel{},
		&models.StatementModel{},
		&models.StatementLineModel{},
		&models.PayoutModel{},
		&models.OwnerWalletModel{},
		&models.WalletTransactionModel{},
		&models.SettingModel{},
		&models.NotificationModel{},
	)
	require.NoError(t, err)
	return db
}

func newBackupService(t *testing.T, db *gorm.DB, uploader ArchiveUploader) *BackupService {
	t.Helper()
	logger := zaptest.NewLogger(t)
	cfg := &config.BackupConfig{
		Dir:            t.TempDir(),
		UploadDir:      t.TempDir(),
		CommandTimeout: time.Minute,
		RestoreTimeout: time.Minute,
	}
	local, err := storage.NewLocalStorage(cfg.Dir)
	require.NoError(t, err)

	return NewBackupService(
		infrabackup.NewExporter(db, logger),
		infrabackup.NewRestorer(db, logger),
		nil,
		local,
		uploader,
		cfg,
		logger,
	)
}

func seedServiceData(t *testing.T, db *gorm.DB) {
	t.Helper()
	owner := models.OwnerModel{
		Code:              "OWN-001",
		Name:              "Kwame Asante",
		Email:             "kwame@example.com",
		PreferredCurrency: "GHS",
		PayoutMethod:      "MOBILE_MONEY",
	}
	owner.ID = uuid.New()
	require.NoError(t, db.Create(&owner).Error)

	property := models.PropertyModel{
		Code:        "PROP-001",
		Name:        "Sea View Apartment",
		City:        "Accra",
		Type:        "APARTMENT",
		OwnerID:     owner.ID,
		NightlyRate: decimal.NewFromInt(120),
		Currency:    "USD",
		Status:      "ACTIVE",
	}
	property.ID = uuid.New()
	require.NoError(t, db.Create(&property).Error)
}

func TestBackupServiceExportJSONRoundTrip(t *testing.T) {
	db := setupServiceDB(t)
	seedServiceData(t, db)
	service := newBackupService(t, db, nil)
	ctx := context.Background()

	resp, data, err := service.Export(ctx, ExportRequest{Format: "json"})
	require.NoError(t, err)
	assert.Equal(t, "json", resp.Format)
	assert.Equal(t, infrabackup.FormatVersion, resp.Version)
	assert.Equal(t, int64(len(data)), resp.SizeBytes)

	// wipe and restore into the same schema
	require.NoError(t, db.Exec("DELETE FROM properties").Error)
	require.NoError(t, db.Exec("DELETE FROM owners").Error)

	restore, err := service.Restore(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, "json", restore.Format)
	assert.Equal(t, 1, restore.Restored["owners"])
	assert.Equal(t, 1, restore.Restored["properties"])

	var count int64
	require.NoError(t, db.Model(&models.PropertyModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestBackupServiceExportArchiveFallsBackToJSON(t *testing.T) {
	db := setupServiceDB(t)
	seedServiceData(t, db)
	service := newBackupService(t, db, nil)
	ctx := context.Background()

	resp, data, err := service.Export(ctx, ExportRequest{Format: "archive"})
	require.NoError(t, err)
	assert.Equal(t, infrabackup.ArchiveVersion, resp.Version)
	assert.True(t, infrabackup.IsGzip(data), "archive export is a tar.gz")

	require.NoError(t, db.Exec("DELETE FROM properties").Error)
	require.NoError(t, db.Exec("DELETE FROM owners").Error)

	restore, err := service.Restore(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, "archive", restore.Format)
	assert.Equal(t, 1, restore.Restored["owners"])
}

func TestBackupServiceExportUploadsToRemote(t *testing.T) {
	db := setupServiceDB(t)
	service := newBackupService(t, db, &recordingUploader{})
	uploader := service.uploader.(*recordingUploader)

	resp, _, err := service.Export(context.Background(), ExportRequest{})
	require.NoError(t, err)
	assert.True(t, resp.S3Uploaded)
	assert.Equal(t, []string{resp.FileName}, uploader.names)
}

func TestBackupServiceUploadFailureIsNotFatal(t *testing.T) {
	db := setupServiceDB(t)
	service := newBackupService(t, db, &recordingUploader{err: context.DeadlineExceeded})

	resp, _, err := service.Export(context.Background(), ExportRequest{})
	require.NoError(t, err, "local backup survives a failed remote upload")
	assert.False(t, resp.S3Uploaded)
}

func TestBackupServiceList(t *testing.T) {
	db := setupServiceDB(t)
	service := newBackupService(t, db, nil)
	ctx := context.Background()

	_, _, err := service.Export(ctx, ExportRequest{Format: "json"})
	require.NoError(t, err)

	infos, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Contains(t, infos[0].Name, "backup-")
	assert.Greater(t, infos[0].SizeBytes, int64(0))
}

func TestBackupServiceRestoresPlainSQLArchiveViaPSQL(t *testing.T) {
	db := setupServiceDB(t)
	service := newBackupService(t, db, nil)

	// stand-in psql that records the script it is fed
	dir := t.TempDir()
	received := filepath.Join(dir, "received.sql")
	psql := filepath.Join(dir, "psql")
	require.NoError(t, os.WriteFile(psql, []byte("#!/bin/sh\ncat > "+received+"\n"), 0o755))

	service.pgTool = infrabackup.NewPGTool(
		&config.DatabaseConfig{Host: "localhost", Port: 5432, User: "pms", DBName: "pms"},
		&config.BackupConfig{
			PSQLPath:       psql,
			PGDumpPath:     filepath.Join(dir, "missing-pg_dump"),
			CommandTimeout: time.Minute,
			RestoreTimeout: time.Minute,
		},
		zaptest.NewLogger(t),
	)

	script := []byte("-- PostgreSQL database dump\nSELECT 1;\n")
	var buf bytes.Buffer
	require.NoError(t, infrabackup.WriteArchive(&buf, script, nil, ""))

	resp, err := service.Restore(context.Background(), buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "archive", resp.Format)

	replayed, err := os.ReadFile(received)
	require.NoError(t, err)
	assert.Equal(t, script, replayed)
}

func TestBackupServiceRestoreRejectsGarbage(t *testing.T) {
	db := setupServiceDB(t)
	service := newBackupService(t, db, nil)

	_, err := service.Restore(context.Background(), []byte("definitely not a backup"))
	assert.Error(t, err)
}

func TestBackupServiceRestoreRejectsEmptyUpload(t *testing.T) {
	db := setupServiceDB(t)
	service := newBackupService(t, db, nil)

	_, err := service.Restore(context.Background(), nil)
	assert.Error(t, err)
}
