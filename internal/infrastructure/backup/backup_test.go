package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupBackupTestDB(t *testing.T) *gorm.DB {
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

func seedOwner(t *testing.T, db *gorm.DB, code string) models.OwnerModel {
	t.Helper()
	m := models.OwnerModel{
		Code:              code,
		Name:              "Kwame Asante",
		Email:             "kwame@example.com",
		Phone:             "+233201234567",
		PreferredCurrency: "GHS",
		PayoutMethod:      "MOBILE_MONEY",
		WhatsAppOptIn:     true,
	}
	m.ID = uuid.New()
	require.NoError(t, db.Create(&m).Error)
	return m
}

func seedProperty(t *testing.T, db *gorm.DB, ownerID uuid.UUID, code string) models.PropertyModel {
	t.Helper()
	m := models.PropertyModel{
		Code:        code,
		Name:        "Sea View Apartment",
		City:        "Accra",
		Type:        "APARTMENT",
		Bedrooms:    2,
		OwnerID:     ownerID,
		NightlyRate: decimal.NewFromInt(120),
		Currency:    "USD",
		Status:      "ACTIVE",
	}
	m.ID = uuid.New()
	require.NoError(t, db.Create(&m).Error)
	return m
}

func TestParseDocumentVersions(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"version":"1.1","createdAt":"2026-01-01T00:00:00Z","data":{}}`))
	require.NoError(t, err)
	assert.Equal(t, "1.1", doc.Version)

	doc, err = ParseDocument([]byte(`{"version":"1.0","createdAt":"2025-01-01T00:00:00Z","data":{}}`))
	require.NoError(t, err)
	assert.Equal(t, "1.0", doc.Version)

	_, err = ParseDocument([]byte(`{"version":"9.9","data":{}}`))
	assert.ErrorContains(t, err, "unsupported document version")

	_, err = ParseDocument([]byte(`not json`))
	assert.ErrorContains(t, err, "invalid JSON")
}

func TestExportExcludesCredentials(t *testing.T) {
	db := setupBackupTestDB(t)

	user := models.UserModel{
		Email:        "admin@example.com",
		Name:         "Admin",
		Role:         "ADMIN",
		PasswordHash: "$2a$10$secrethash",
		Active:       true,
	}
	user.ID = uuid.New()
	require.NoError(t, db.Create(&user).Error)

	secret := models.SettingModel{Key: "ai.openai_key", Value: "sk-secret", Group: "AI"}
	secret.ID = uuid.New()
	require.NoError(t, db.Create(&secret).Error)
	public := models.SettingModel{Key: "ai.provider", Value: "openai", Group: "AI"}
	public.ID = uuid.New()
	require.NoError(t, db.Create(&public).Error)

	doc, err := NewExporter(db, nil).Export(context.Background())
	require.NoError(t, err)

	require.Len(t, doc.Data.Users, 1)
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secrethash")
	assert.NotContains(t, string(raw), "sk-secret")

	require.Len(t, doc.Data.Settings, 1)
	assert.Equal(t, "ai.provider", doc.Data.Settings[0].Key)
}

func TestExportRestoreRoundTrip(t *testing.T) {
	src := setupBackupTestDB(t)
	owner := seedOwner(t, src, "OWN-001")
	prop := seedProperty(t, src, owner.ID, "PROP-001")

	bk := models.BookingModel{
		Code:        "BK-001",
		PropertyID:  prop.ID,
		GuestName:   "Ama Mensah",
		CheckIn:     time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:    time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC),
		Nights:      4,
		GrossAmount: decimal.NewFromInt(480),
		Currency:    "USD",
		ChannelFee:  decimal.NewFromInt(48),
		Source:      "AIRBNB",
		Status:      "CONFIRMED",
	}
	bk.ID = uuid.New()
	require.NoError(t, src.Create(&bk).Error)

	wallet := models.OwnerWalletModel{OwnerID: owner.ID, Balance: decimal.NewFromInt(250)}
	wallet.ID = uuid.New()
	require.NoError(t, src.Create(&wallet).Error)

	doc, err := NewExporter(src, nil).Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, FormatVersion, doc.Version)

	// the document survives a serialization cycle
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	doc, err = ParseDocument(raw)
	require.NoError(t, err)

	dst := setupBackupTestDB(t)
	result, err := NewRestorer(dst, nil).Restore(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Restored["owners"])
	assert.Equal(t, 1, result.Restored["properties"])
	assert.Equal(t, 1, result.Restored["bookings"])
	assert.Equal(t, 1, result.Restored["wallets"])

	var got models.BookingModel
	require.NoError(t, dst.First(&got, "code = ?", "BK-001").Error)
	assert.Equal(t, prop.ID, got.PropertyID)
	assert.True(t, got.GrossAmount.Equal(decimal.NewFromInt(480)))
}

func TestRestoreNullsDanglingReferences(t *testing.T) {
	doc := &Document{Version: FormatVersion, CreatedAt: time.Now().UTC()}

	ghostProperty := uuid.New()
	ghostUser := uuid.New()
	task := TaskRow{
		Title:      "Replace AC filter",
		PropertyID: &ghostProperty,
		AssigneeID: &ghostUser,
		Priority:   "MEDIUM",
		Status:     "TODO",
	}
	task.ID = uuid.New()
	doc.Data.Tasks = []TaskRow{task}

	db := setupBackupTestDB(t)
	result, err := NewRestorer(db, nil).Restore(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Restored["tasks"])

	var got models.TaskModel
	require.NoError(t, db.First(&got, "title = ?", "Replace AC filter").Error)
	assert.Nil(t, got.PropertyID)
	assert.Nil(t, got.AssigneeID)
}

func TestRestoreSkipsRowsWithMissingParents(t *testing.T) {
	doc := &Document{Version: FormatVersion, CreatedAt: time.Now().UTC()}

	ownerRow := OwnerRow{Code: "OWN-001", Name: "Kwame", PreferredCurrency: "GHS", PayoutMethod: "CASH"}
	ownerRow.ID = uuid.New()
	doc.Data.Owners = []OwnerRow{ownerRow}

	kept := PropertyRow{Code: "PROP-OK", Name: "Kept", Type: "HOUSE", OwnerID: ownerRow.ID, NightlyRate: decimal.NewFromInt(100), Currency: "USD", Status: "ACTIVE"}
	kept.ID = uuid.New()
	orphan := PropertyRow{Code: "PROP-ORPHAN", Name: "Orphan", Type: "HOUSE", OwnerID: uuid.New(), NightlyRate: decimal.NewFromInt(100), Currency: "USD", Status: "ACTIVE"}
	orphan.ID = uuid.New()
	doc.Data.Properties = []PropertyRow{kept, orphan}

	db := setupBackupTestDB(t)
	result, err := NewRestorer(db, nil).Restore(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Restored["properties"])
	assert.Equal(t, 1, result.Skipped["properties"])
}

func TestRestorePreservesExistingPasswordHash(t *testing.T) {
	db := setupBackupTestDB(t)

	existing := models.UserModel{
		Email:        "admin@example.com",
		Name:         "Admin",
		Role:         "ADMIN",
		PasswordHash: "$2a$10$livehash",
		Active:       true,
	}
	existing.ID = uuid.New()
	require.NoError(t, db.Create(&existing).Error)

	row := UserRow{Email: "admin@example.com", Name: "Admin Renamed", Role: "ADMIN", Active: true}
	row.ID = existing.ID
	doc := &Document{Version: FormatVersion, CreatedAt: time.Now().UTC()}
	doc.Data.Users = []UserRow{row}

	_, err := NewRestorer(db, nil).Restore(context.Background(), doc)
	require.NoError(t, err)

	var got models.UserModel
	require.NoError(t, db.First(&got, "id = ?", existing.ID).Error)
	assert.Equal(t, "$2a$10$livehash", got.PasswordHash)
	assert.Equal(t, "Admin Renamed", got.Name)
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "receipts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "receipts", "jan.pdf"), []byte("%PDF-1.4"), 0o644))

	files, err := CollectFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "receipts/jan.pdf", files[0].Path)
	assert.Equal(t, "jan.pdf", files[0].Name)
	assert.Equal(t, "application/pdf", files[0].MimeType)

	files, err = CollectFiles(filepath.Join(dir, "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestArchiveRoundTrip(t *testing.T) {
	uploadDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(uploadDir, "photo.jpg"), []byte("jpegbytes"), 0o644))

	docJSON := []byte(`{"version":"1.1","createdAt":"2026-01-01T00:00:00Z","data":{}}`)
	var buf bytes.Buffer
	require.NoError(t, WriteArchive(&buf, nil, docJSON, uploadDir))
	assert.True(t, IsGzip(buf.Bytes()))

	contents, err := ExtractArchive(buf.Bytes())
	require.NoError(t, err)
	require.NotNil(t, contents.Manifest)
	assert.Equal(t, ArchiveVersion, contents.Manifest.Version)
	assert.Equal(t, "database.json", contents.Manifest.Database)
	assert.False(t, contents.HasSQLDump())
	assert.JSONEq(t, string(docJSON), string(contents.Document))
	assert.Equal(t, []byte("jpegbytes"), contents.Files["photo.jpg"])

	restoreDir := t.TempDir()
	n, err := contents.WriteFiles(restoreDir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	data, err := os.ReadFile(filepath.Join(restoreDir, "photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpegbytes"), data)
}

func TestArchiveCarriesSQLDump(t *testing.T) {
	dump := append([]byte("PGDMP"), bytes.Repeat([]byte{0x01}, 32)...)
	var buf bytes.Buffer
	require.NoError(t, WriteArchive(&buf, dump, nil, ""))

	contents, err := ExtractArchive(buf.Bytes())
	require.NoError(t, err)
	assert.True(t, contents.HasSQLDump())
	assert.Equal(t, dump, contents.SQLDump)
}

func TestArchiveCarriesPlainSQL(t *testing.T) {
	script := []byte("-- PostgreSQL database dump\nCREATE TABLE owners (id uuid primary key);\n")
	var buf bytes.Buffer
	require.NoError(t, WriteArchive(&buf, script, nil, ""))

	contents, err := ExtractArchive(buf.Bytes())
	require.NoError(t, err)
	require.True(t, contents.HasSQLDump())
	assert.False(t, IsPGDump(contents.SQLDump))
	assert.Equal(t, script, contents.SQLDump)
}

func TestExtractArchivePassThrough(t *testing.T) {
	dump := append([]byte("PGDMP"), 0x00)
	contents, err := ExtractArchive(dump)
	require.NoError(t, err)
	assert.True(t, contents.HasSQLDump())

	doc := []byte(`{"version":"1.0","data":{}}`)
	contents, err = ExtractArchive(doc)
	require.NoError(t, err)
	assert.Equal(t, doc, contents.Document)

	_, err = ExtractArchive([]byte("garbage"))
	assert.ErrorContains(t, err, "unrecognized archive format")
}

func TestPGDumpDetection(t *testing.T) {
	assert.True(t, IsPGDump([]byte("PGDMP\x01\x02")))
	assert.False(t, IsPGDump([]byte("-- plain sql")))
	assert.False(t, IsPGDump(nil))
}
