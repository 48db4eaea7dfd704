// Package integration provides end-to-end tests that wire real
// repositories and services against an in-memory database.
package integration

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pms/backend/internal/infrastructure/persistence/models"
)

// NewTestDB opens a fresh in-memory database with the full schema.
// Each call returns an isolated database; nothing is shared between
// tests.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Failed to open in-memory database")

	err = db.AutoMigrate(
		&models.UserModel{},
		&models.OwnerModel{},
		&models.OwnerWalletModel{},
		&models.WalletTransactionModel{},
		&models.PropertyModel{},
		&models.BookingModel{},
		&models.ExpenseModel{},
		&models.FXRateModel{},
		&models.StatementModel{},
		&models.StatementLineModel{},
		&models.PayoutModel{},
		&models.IssueModel{},
		&models.TaskModel{},
		&models.NotificationModel{},
		&models.SettingModel{},
	)
	require.NoError(t, err, "Failed to migrate schema")

	return db
}

// NewTestLogger returns a zap logger that writes through testing.T.
func NewTestLogger(t *testing.T) *zap.Logger {
	t.Helper()
	return zaptest.NewLogger(t)
}
