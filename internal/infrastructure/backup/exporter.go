package backup

import (
	"context"
	"encoding/base64"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pms/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// secretSettingKeys are setting keys whose values never leave the database
var secretSettingKeys = map[string]bool{
	"ai.openai_key":    true,
	"ai.anthropic_key": true,
	"ai.gemini_key":    true,
	"sms.password":     true,
	"whatsapp.token":   true,
	"mail.password":    true,
}

func isSecretSetting(key string) bool {
	if secretSettingKeys[key] {
		return true
	}
	lower := strings.ToLower(key)
	return strings.HasSuffix(lower, "_key") || strings.HasSuffix(lower, ".secret") ||
		strings.HasSuffix(lower, ".password") || strings.HasSuffix(lower, ".token")
}

// Exporter builds versioned JSON backup documents from the database
type Exporter struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewExporter creates an Exporter
func NewExporter(db *gorm.DB, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{db: db, logger: logger}
}

// Export reads every table into a version 1.1 document. Password hashes
// and secret-bearing settings are excluded.
func (e *Exporter) Export(ctx context.Context) (*Document, error) {
	doc := &Document{
		Version:   FormatVersion,
		CreatedAt: time.Now().UTC(),
	}

	if err := e.exportOwners(ctx, doc); err != nil {
		return nil, err
	}
	if err := e.exportUsers(ctx, doc); err != nil {
		return nil, err
	}
	if err := e.exportProperties(ctx, doc); err != nil {
		return nil, err
	}
	if err := e.exportBookings(ctx, doc); err != nil {
		return nil, err
	}
	if err := e.exportExpenses(ctx, doc); err != nil {
		return nil, err
	}
	if err := e.exportIssues(ctx, doc); err != nil {
		return nil, err
	}
	if err := e.exportTasks(ctx, doc); err != nil {
		return nil, err
	}
	if err := e.exportSettings(ctx, doc); err != nil {
		return nil, err
	}
	if err := e.exportNotifications(ctx, doc); err != nil {
		return nil, err
	}
	if err := e.exportStatements(ctx, doc); err != nil {
		return nil, err
	}
	if err := e.exportPayouts(ctx, doc); err != nil {
		return nil, err
	}
	if err := e.exportWallets(ctx, doc); err != nil {
		return nil, err
	}

	e.logger.Info("Database export complete",
		zap.Int("owners", len(doc.Data.Owners)),
		zap.Int("users", len(doc.Data.Users)),
		zap.Int("properties", len(doc.Data.Properties)),
		zap.Int("bookings", len(doc.Data.Bookings)))

	return doc, nil
}

// ExportWithFiles builds a document and mirrors the upload directory into it
func (e *Exporter) ExportWithFiles(ctx context.Context, uploadDir string) (*Document, error) {
	doc, err := e.Export(ctx)
	if err != nil {
		return nil, err
	}

	files, err := CollectFiles(uploadDir)
	if err != nil {
		return nil, err
	}
	doc.Files = files
	return doc, nil
}

func (e *Exporter) exportOwners(ctx context.Context, doc *Document) error {
	var rows []models.OwnerModel
	if err := e.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return fmt.Errorf("backup: export owners: %w", err)
	}
	doc.Data.Owners = make([]OwnerRow, len(rows))
	for i, m := range rows {
		doc.Data.Owners[i] = OwnerRow{
			rowMeta:           rowMeta{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
			Code:              m.Code,
			Name:              m.Name,
			Email:             m.Email,
			Phone:             m.Phone,
			PreferredCurrency: string(m.PreferredCurrency),
			PayoutMethod:      string(m.PayoutMethod),
			PayoutDetails:     m.PayoutDetails,
			WhatsAppOptIn:     m.WhatsAppOptIn,
			Notes:             m.Notes,
		}
	}
	return nil
}

func (e *Exporter) exportUsers(ctx context.Context, doc *Document) error {
	var rows []models.UserModel
	if err := e.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return fmt.Errorf("backup: export users: %w", err)
	}
	doc.Data.Users = make([]UserRow, len(rows))
	for i, m := range rows {
		doc.Data.Users[i] = UserRow{
			rowMeta:     rowMeta{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
			Email:       m.Email,
			Name:        m.Name,
			Phone:       m.Phone,
			Role:        string(m.Role),
			Active:      m.Active,
			OwnerID:     m.OwnerID,
			LastLoginAt: m.LastLoginAt,
		}
	}
	return nil
}

func (e *Exporter) exportProperties(ctx context.Context, doc *Document) error {
	var rows []models.PropertyModel
	if err := e.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return fmt.Errorf("backup: export properties: %w", err)
	}
	doc.Data.Properties = make([]PropertyRow, len(rows))
	for i, m := range rows {
		doc.Data.Properties[i] = PropertyRow{
			rowMeta:        rowMeta{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
			Code:           m.Code,
			Name:           m.Name,
			Address:        m.Address,
			City:           m.City,
			Type:           string(m.Type),
			Bedrooms:       m.Bedrooms,
			OwnerID:        m.OwnerID,
			NightlyRate:    m.NightlyRate,
			Currency:       string(m.Currency),
			CommissionRate: m.CommissionRate,
			Status:         string(m.Status),
			Notes:          m.Notes,
		}
	}
	return nil
}

func (e *Exporter) exportBookings(ctx context.Context, doc *Document) error {
	var rows []models.BookingModel
	if err := e.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return fmt.Errorf("backup: export bookings: %w", err)
	}
	doc.Data.Bookings = make([]BookingRow, len(rows))
	for i, m := range rows {
		doc.Data.Bookings[i] = BookingRow{
			rowMeta:      rowMeta{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
			Code:         m.Code,
			PropertyID:   m.PropertyID,
			GuestName:    m.GuestName,
			GuestPhone:   m.GuestPhone,
			GuestEmail:   m.GuestEmail,
			CheckIn:      m.CheckIn,
			CheckOut:     m.CheckOut,
			Nights:       m.Nights,
			GrossAmount:  m.GrossAmount,
			Currency:     string(m.Currency),
			ChannelFee:   m.ChannelFee,
			Source:       string(m.Source),
			Status:       string(m.Status),
			Paid:         m.Paid,
			Notes:        m.Notes,
			ConfirmedAt:  m.ConfirmedAt,
			CheckedInAt:  m.CheckedInAt,
			CheckedOutAt: m.CheckedOutAt,
			CancelledAt:  m.CancelledAt,
			CancelReason: m.CancelReason,
		}
	}
	return nil
}

func (e *Exporter) exportExpenses(ctx context.Context, doc *Document) error {
	var rows []models.ExpenseModel
	if err := e.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return fmt.Errorf("backup: export expenses: %w", err)
	}
	doc.Data.Expenses = make([]ExpenseRow, len(rows))
	for i, m := range rows {
		doc.Data.Expenses[i] = ExpenseRow{
			rowMeta:     rowMeta{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
			PropertyID:  m.PropertyID,
			Category:    string(m.Category),
			Amount:      m.Amount,
			Currency:    string(m.Currency),
			IncurredAt:  m.IncurredAt,
			Description: m.Description,
			ReceiptURL:  m.ReceiptURL,
		}
	}
	return nil
}

func (e *Exporter) exportIssues(ctx context.Context, doc *Document) error {
	var rows []models.IssueModel
	if err := e.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return fmt.Errorf("backup: export issues: %w", err)
	}
	doc.Data.Issues = make([]IssueRow, len(rows))
	for i, m := range rows {
		doc.Data.Issues[i] = IssueRow{
			rowMeta:     rowMeta{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
			PropertyID:  m.PropertyID,
			Title:       m.Title,
			Description: m.Description,
			Severity:    string(m.Severity),
			Status:      string(m.Status),
			ReportedBy:  m.ReportedBy,
			AssigneeID:  m.AssigneeID,
			ResolvedAt:  m.ResolvedAt,
			ClosedAt:    m.ClosedAt,
			Resolution:  m.Resolution,
		}
	}
	return nil
}

func (e *Exporter) exportTasks(ctx context.Context, doc *Document) error {
	var rows []models.TaskModel
	if err := e.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return fmt.Errorf("backup: export tasks: %w", err)
	}
	doc.Data.Tasks = make([]TaskRow, len(rows))
	for i, m := range rows {
		doc.Data.Tasks[i] = TaskRow{
			rowMeta:     rowMeta{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
			Title:       m.Title,
			Notes:       m.Notes,
			PropertyID:  m.PropertyID,
			AssigneeID:  m.AssigneeID,
			DueDate:     m.DueDate,
			Priority:    string(m.Priority),
			Status:      string(m.Status),
			CompletedAt: m.CompletedAt,
		}
	}
	return nil
}

func (e *Exporter) exportSettings(ctx context.Context, doc *Document) error {
	var rows []models.SettingModel
	if err := e.db.WithContext(ctx).Order("key ASC").Find(&rows).Error; err != nil {
		return fmt.Errorf("backup: export settings: %w", err)
	}
	doc.Data.Settings = make([]SettingRow, 0, len(rows))
	for _, m := range rows {
		if isSecretSetting(m.Key) {
			continue
		}
		doc.Data.Settings = append(doc.Data.Settings, SettingRow{
			rowMeta: rowMeta{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
			Key:     m.Key,
			Value:   m.Value,
			Group:   string(m.Group),
		})
	}
	return nil
}

func (e *Exporter) exportNotifications(ctx context.Context, doc *Document) error {
	var rows []models.NotificationModel
	if err := e.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return fmt.Errorf("backup: export notifications: %w", err)
	}
	doc.Data.Notifications = make([]NotificationRow, len(rows))
	for i, m := range rows {
		doc.Data.Notifications[i] = NotificationRow{
			rowMeta:   rowMeta{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
			Event:     string(m.Event),
			Channel:   string(m.Channel),
			OwnerID:   m.OwnerID,
			UserID:    m.UserID,
			Recipient: m.Recipient,
			Subject:   m.Subject,
			Body:      m.Body,
			Status:    string(m.Status),
			Error:     m.Error,
			SentAt:    m.SentAt,
		}
	}
	return nil
}

func (e *Exporter) exportStatements(ctx context.Context, doc *Document) error {
	var rows []models.StatementModel
	if err := e.db.WithContext(ctx).Preload("Lines").Order("created_at ASC").Find(&rows).Error; err != nil {
		return fmt.Errorf("backup: export statements: %w", err)
	}
	doc.Data.Statements = make([]StatementRow, len(rows))
	for i, m := range rows {
		lines := make([]StatementLineRow, len(m.Lines))
		for j, l := range m.Lines {
			lines[j] = StatementLineRow{
				ID:             l.ID,
				StatementID:    l.StatementID,
				PropertyID:     l.PropertyID,
				PropertyName:   l.PropertyName,
				BookingCount:   l.BookingCount,
				NightsBooked:   l.NightsBooked,
				GrossRevenue:   l.GrossRevenue,
				ChannelFees:    l.ChannelFees,
				Expenses:       l.Expenses,
				CommissionRate: l.CommissionRate,
				Commission:     l.Commission,
				NetDue:         l.NetDue,
			}
		}
		doc.Data.Statements[i] = StatementRow{
			rowMeta:     rowMeta{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
			Code:        m.Code,
			OwnerID:     m.OwnerID,
			PeriodStart: m.PeriodStart,
			PeriodEnd:   m.PeriodEnd,
			Currency:    string(m.Currency),
			TotalGross:  m.TotalGross,
			TotalFees:   m.TotalFees,
			TotalExp:    m.TotalExp,
			TotalComm:   m.TotalComm,
			TotalNet:    m.TotalNet,
			Status:      string(m.Status),
			FinalizedAt: m.FinalizedAt,
			SentAt:      m.SentAt,
			Lines:       lines,
		}
	}
	return nil
}

func (e *Exporter) exportPayouts(ctx context.Context, doc *Document) error {
	var rows []models.PayoutModel
	if err := e.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return fmt.Errorf("backup: export payouts: %w", err)
	}
	doc.Data.Payouts = make([]PayoutRow, len(rows))
	for i, m := range rows {
		doc.Data.Payouts[i] = PayoutRow{
			rowMeta:     rowMeta{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
			OwnerID:     m.OwnerID,
			StatementID: m.StatementID,
			Amount:      m.Amount,
			Currency:    string(m.Currency),
			Method:      string(m.Method),
			Status:      string(m.Status),
			Reference:   m.Reference,
			Notes:       m.Notes,
			PaidAt:      m.PaidAt,
			FailedAt:    m.FailedAt,
			FailReason:  m.FailReason,
		}
	}
	return nil
}

func (e *Exporter) exportWallets(ctx context.Context, doc *Document) error {
	var wallets []models.OwnerWalletModel
	if err := e.db.WithContext(ctx).Order("created_at ASC").Find(&wallets).Error; err != nil {
		return fmt.Errorf("backup: export wallets: %w", err)
	}
	doc.Data.Wallets = make([]WalletRow, len(wallets))
	for i, m := range wallets {
		doc.Data.Wallets[i] = WalletRow{
			rowMeta: rowMeta{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
			OwnerID: m.OwnerID,
			Balance: m.Balance,
		}
	}

	var txs []models.WalletTransactionModel
	if err := e.db.WithContext(ctx).Order("created_at ASC").Find(&txs).Error; err != nil {
		return fmt.Errorf("backup: export wallet transactions: %w", err)
	}
	doc.Data.WalletTransactions = make([]WalletTransactionRow, len(txs))
	for i, m := range txs {
		doc.Data.WalletTransactions[i] = WalletTransactionRow{
			rowMeta:      rowMeta{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
			WalletID:     m.WalletID,
			OwnerID:      m.OwnerID,
			Type:         string(m.Type),
			Amount:       m.Amount,
			BalanceAfter: m.BalanceAfter,
			Reference:    m.Reference,
			Description:  m.Description,
		}
	}
	return nil
}

// CollectFiles mirrors the upload directory into the backup, base64-encoded.
// A missing directory yields an empty list.
func CollectFiles(uploadDir string) ([]File, error) {
	if uploadDir == "" {
		return nil, nil
	}
	if _, err := os.Stat(uploadDir); os.IsNotExist(err) {
		return nil, nil
	}

	var files []File
	err := filepath.WalkDir(uploadDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("backup: read upload %q: %w", p, err)
		}
		rel, err := filepath.Rel(uploadDir, p)
		if err != nil {
			return err
		}
		mimeType := mime.TypeByExtension(filepath.Ext(p))
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		files = append(files, File{
			Path:     filepath.ToSlash(rel),
			Name:     d.Name(),
			Data:     base64.StdEncoding.EncodeToString(data),
			MimeType: mimeType,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
