package backup

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pms/backend/internal/domain/booking"
	"github.com/pms/backend/internal/domain/finance"
	"github.com/pms/backend/internal/domain/identity"
	"github.com/pms/backend/internal/domain/notification"
	"github.com/pms/backend/internal/domain/ops"
	"github.com/pms/backend/internal/domain/portfolio"
	"github.com/pms/backend/internal/domain/settings"
	"github.com/pms/backend/internal/domain/shared/valueobject"
	"github.com/pms/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// restoredPasswordHash is written for users whose credentials were not in
// the dump. It never matches a bcrypt comparison, so the account needs a
// password reset before it can log in again.
const restoredPasswordHash = "!RESTORED"

// Result reports what a restore did per table
type Result struct {
	Restored map[string]int `json:"restored"`
	Skipped  map[string]int `json:"skipped,omitempty"`
}

func newResult() *Result {
	return &Result{Restored: map[string]int{}, Skipped: map[string]int{}}
}

// Restorer loads a backup document back into the database
type Restorer struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRestorer creates a Restorer
func NewRestorer(db *gorm.DB, logger *zap.Logger) *Restorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Restorer{db: db, logger: logger}
}

// refSet tracks the IDs present in the dump so dangling references can be
// detected before insert
type refSet map[uuid.UUID]bool

func (s refSet) has(id uuid.UUID) bool { return s[id] }

func collectRefs(doc *Document) (owners, users, properties, statements, wallets refSet) {
	owners = refSet{}
	for _, r := range doc.Data.Owners {
		owners[r.ID] = true
	}
	users = refSet{}
	for _, r := range doc.Data.Users {
		users[r.ID] = true
	}
	properties = refSet{}
	for _, r := range doc.Data.Properties {
		properties[r.ID] = true
	}
	statements = refSet{}
	for _, r := range doc.Data.Statements {
		statements[r.ID] = true
	}
	wallets = refSet{}
	for _, r := range doc.Data.Wallets {
		wallets[r.ID] = true
	}
	return
}

func nullUnless(id *uuid.UUID, refs refSet) *uuid.UUID {
	if id == nil || refs.has(*id) {
		return id
	}
	return nil
}

// Restore replays the document into the database inside one transaction.
// Tables load in dependency order so foreign keys resolve as rows arrive.
// If a table was non-empty in the dump but holds nothing afterwards the
// transaction rolls back.
func (r *Restorer) Restore(ctx context.Context, doc *Document) (*Result, error) {
	result := newResult()
	owners, users, properties, statements, wallets := collectRefs(doc)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.restoreOwners(tx, doc, result); err != nil {
			return err
		}
		if err := r.restoreUsers(tx, doc, owners, result); err != nil {
			return err
		}
		if err := r.restoreProperties(tx, doc, owners, result); err != nil {
			return err
		}
		if err := r.restoreBookings(tx, doc, properties, result); err != nil {
			return err
		}
		if err := r.restoreExpenses(tx, doc, properties, result); err != nil {
			return err
		}
		if err := r.restoreIssues(tx, doc, properties, users, result); err != nil {
			return err
		}
		if err := r.restoreTasks(tx, doc, properties, users, result); err != nil {
			return err
		}
		if err := r.restoreStatements(tx, doc, owners, result); err != nil {
			return err
		}
		if err := r.restorePayouts(tx, doc, owners, statements, result); err != nil {
			return err
		}
		if err := r.restoreWallets(tx, doc, owners, result); err != nil {
			return err
		}
		if err := r.restoreWalletTransactions(tx, doc, owners, wallets, result); err != nil {
			return err
		}
		if err := r.restoreSettings(tx, doc, result); err != nil {
			return err
		}
		if err := r.restoreNotifications(tx, doc, owners, users, result); err != nil {
			return err
		}
		return r.verifyCounts(tx, doc)
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("Restore complete",
		zap.Int("owners", result.Restored["owners"]),
		zap.Int("properties", result.Restored["properties"]),
		zap.Int("bookings", result.Restored["bookings"]))
	return result, nil
}

// RestoreFiles writes the document's mirrored uploads back under uploadDir
func (r *Restorer) RestoreFiles(doc *Document, uploadDir string) (int, error) {
	if len(doc.Files) == 0 {
		return 0, nil
	}
	written := 0
	for _, f := range doc.Files {
		rel := filepath.Clean("/" + filepath.FromSlash(f.Path))
		dst := filepath.Join(uploadDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return written, fmt.Errorf("backup: restore upload dir: %w", err)
		}
		data, err := base64.StdEncoding.DecodeString(f.Data)
		if err != nil {
			return written, fmt.Errorf("backup: decode upload %q: %w", f.Path, err)
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return written, fmt.Errorf("backup: write upload %q: %w", f.Path, err)
		}
		written++
	}
	return written, nil
}

func upsertAll(tx *gorm.DB, rows interface{}) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(rows).Error
}

func (r *Restorer) restoreOwners(tx *gorm.DB, doc *Document, result *Result) error {
	if len(doc.Data.Owners) == 0 {
		return nil
	}
	rows := make([]models.OwnerModel, len(doc.Data.Owners))
	for i, o := range doc.Data.Owners {
		m := models.OwnerModel{
			Code:              o.Code,
			Name:              o.Name,
			Email:             o.Email,
			Phone:             o.Phone,
			PreferredCurrency: valueobject.Currency(o.PreferredCurrency),
			PayoutMethod:      portfolio.PayoutMethod(o.PayoutMethod),
			PayoutDetails:     o.PayoutDetails,
			WhatsAppOptIn:     o.WhatsAppOptIn,
			Notes:             o.Notes,
		}
		m.ID = o.ID
		m.CreatedAt = o.CreatedAt
		m.UpdatedAt = o.UpdatedAt
		rows[i] = m
	}
	if err := upsertAll(tx, rows); err != nil {
		return fmt.Errorf("backup: restore owners: %w", err)
	}
	result.Restored["owners"] = len(rows)
	return nil
}

func (r *Restorer) restoreUsers(tx *gorm.DB, doc *Document, owners refSet, result *Result) error {
	if len(doc.Data.Users) == 0 {
		return nil
	}
	for _, u := range doc.Data.Users {
		m := models.UserModel{
			Email:       strings.ToLower(strings.TrimSpace(u.Email)),
			Name:        u.Name,
			Phone:       u.Phone,
			Role:        identity.Role(u.Role),
			Active:      u.Active,
			OwnerID:     nullUnless(u.OwnerID, owners),
			LastLoginAt: u.LastLoginAt,
		}
		m.ID = u.ID
		m.CreatedAt = u.CreatedAt
		m.UpdatedAt = u.UpdatedAt
		m.PasswordHash = restoredPasswordHash
		// keep the live hash when the account already exists
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"email", "name", "phone", "role", "active", "owner_id",
				"last_login_at", "updated_at",
			}),
		}).Create(&m).Error
		if err != nil {
			return fmt.Errorf("backup: restore users: %w", err)
		}
	}
	result.Restored["users"] = len(doc.Data.Users)
	return nil
}

func (r *Restorer) restoreProperties(tx *gorm.DB, doc *Document, owners refSet, result *Result) error {
	if len(doc.Data.Properties) == 0 {
		return nil
	}
	var rows []models.PropertyModel
	for _, p := range doc.Data.Properties {
		if !owners.has(p.OwnerID) {
			r.logger.Warn("Skipping property with unknown owner",
				zap.String("property", p.Code), zap.String("ownerId", p.OwnerID.String()))
			result.Skipped["properties"]++
			continue
		}
		m := models.PropertyModel{
			Code:           p.Code,
			Name:           p.Name,
			Address:        p.Address,
			City:           p.City,
			Type:           portfolio.PropertyType(p.Type),
			Bedrooms:       p.Bedrooms,
			OwnerID:        p.OwnerID,
			NightlyRate:    p.NightlyRate,
			Currency:       valueobject.Currency(p.Currency),
			CommissionRate: p.CommissionRate,
			Status:         portfolio.PropertyStatus(p.Status),
			Notes:          p.Notes,
		}
		m.ID = p.ID
		m.CreatedAt = p.CreatedAt
		m.UpdatedAt = p.UpdatedAt
		rows = append(rows, m)
	}
	if len(rows) > 0 {
		if err := upsertAll(tx, rows); err != nil {
			return fmt.Errorf("backup: restore properties: %w", err)
		}
	}
	result.Restored["properties"] = len(rows)
	return nil
}

func (r *Restorer) restoreBookings(tx *gorm.DB, doc *Document, properties refSet, result *Result) error {
	if len(doc.Data.Bookings) == 0 {
		return nil
	}
	var rows []models.BookingModel
	for _, b := range doc.Data.Bookings {
		if !properties.has(b.PropertyID) {
			result.Skipped["bookings"]++
			continue
		}
		m := models.BookingModel{
			Code:         b.Code,
			PropertyID:   b.PropertyID,
			GuestName:    b.GuestName,
			GuestPhone:   b.GuestPhone,
			GuestEmail:   b.GuestEmail,
			CheckIn:      b.CheckIn,
			CheckOut:     b.CheckOut,
			Nights:       b.Nights,
			GrossAmount:  b.GrossAmount,
			Currency:     valueobject.Currency(b.Currency),
			ChannelFee:   b.ChannelFee,
			Source:       booking.BookingSource(b.Source),
			Status:       booking.BookingStatus(b.Status),
			Paid:         b.Paid,
			Notes:        b.Notes,
			ConfirmedAt:  b.ConfirmedAt,
			CheckedInAt:  b.CheckedInAt,
			CheckedOutAt: b.CheckedOutAt,
			CancelledAt:  b.CancelledAt,
			CancelReason: b.CancelReason,
		}
		m.ID = b.ID
		m.CreatedAt = b.CreatedAt
		m.UpdatedAt = b.UpdatedAt
		rows = append(rows, m)
	}
	if len(rows) > 0 {
		if err := upsertAll(tx, rows); err != nil {
			return fmt.Errorf("backup: restore bookings: %w", err)
		}
	}
	result.Restored["bookings"] = len(rows)
	return nil
}

func (r *Restorer) restoreExpenses(tx *gorm.DB, doc *Document, properties refSet, result *Result) error {
	if len(doc.Data.Expenses) == 0 {
		return nil
	}
	rows := make([]models.ExpenseModel, len(doc.Data.Expenses))
	for i, e := range doc.Data.Expenses {
		m := models.ExpenseModel{
			PropertyID:  nullUnless(e.PropertyID, properties),
			Category:    finance.ExpenseCategory(e.Category),
			Amount:      e.Amount,
			Currency:    valueobject.Currency(e.Currency),
			IncurredAt:  e.IncurredAt,
			Description: e.Description,
			ReceiptURL:  e.ReceiptURL,
		}
		m.ID = e.ID
		m.CreatedAt = e.CreatedAt
		m.UpdatedAt = e.UpdatedAt
		rows[i] = m
	}
	if err := upsertAll(tx, rows); err != nil {
		return fmt.Errorf("backup: restore expenses: %w", err)
	}
	result.Restored["expenses"] = len(rows)
	return nil
}

func (r *Restorer) restoreIssues(tx *gorm.DB, doc *Document, properties, users refSet, result *Result) error {
	if len(doc.Data.Issues) == 0 {
		return nil
	}
	var rows []models.IssueModel
	for _, is := range doc.Data.Issues {
		if !properties.has(is.PropertyID) {
			result.Skipped["issues"]++
			continue
		}
		m := models.IssueModel{
			PropertyID:  is.PropertyID,
			Title:       is.Title,
			Description: is.Description,
			Severity:    ops.IssueSeverity(is.Severity),
			Status:      ops.IssueStatus(is.Status),
			ReportedBy:  is.ReportedBy,
			AssigneeID:  nullUnless(is.AssigneeID, users),
			ResolvedAt:  is.ResolvedAt,
			ClosedAt:    is.ClosedAt,
			Resolution:  is.Resolution,
		}
		m.ID = is.ID
		m.CreatedAt = is.CreatedAt
		m.UpdatedAt = is.UpdatedAt
		rows = append(rows, m)
	}
	if len(rows) > 0 {
		if err := upsertAll(tx, rows); err != nil {
			return fmt.Errorf("backup: restore issues: %w", err)
		}
	}
	result.Restored["issues"] = len(rows)
	return nil
}

func (r *Restorer) restoreTasks(tx *gorm.DB, doc *Document, properties, users refSet, result *Result) error {
	if len(doc.Data.Tasks) == 0 {
		return nil
	}
	rows := make([]models.TaskModel, len(doc.Data.Tasks))
	for i, t := range doc.Data.Tasks {
		m := models.TaskModel{
			Title:       t.Title,
			Notes:       t.Notes,
			PropertyID:  nullUnless(t.PropertyID, properties),
			AssigneeID:  nullUnless(t.AssigneeID, users),
			DueDate:     t.DueDate,
			Priority:    ops.TaskPriority(t.Priority),
			Status:      ops.TaskStatus(t.Status),
			CompletedAt: t.CompletedAt,
		}
		m.ID = t.ID
		m.CreatedAt = t.CreatedAt
		m.UpdatedAt = t.UpdatedAt
		rows[i] = m
	}
	if err := upsertAll(tx, rows); err != nil {
		return fmt.Errorf("backup: restore tasks: %w", err)
	}
	result.Restored["tasks"] = len(rows)
	return nil
}

func (r *Restorer) restoreStatements(tx *gorm.DB, doc *Document, owners refSet, result *Result) error {
	if len(doc.Data.Statements) == 0 {
		return nil
	}
	restored := 0
	for _, s := range doc.Data.Statements {
		if !owners.has(s.OwnerID) {
			result.Skipped["statements"]++
			continue
		}
		lines := make([]models.StatementLineModel, len(s.Lines))
		for j, l := range s.Lines {
			lines[j] = models.StatementLineModel{
				ID:             l.ID,
				StatementID:    s.ID,
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
		m := models.StatementModel{
			Code:        s.Code,
			OwnerID:     s.OwnerID,
			PeriodStart: s.PeriodStart,
			PeriodEnd:   s.PeriodEnd,
			Currency:    valueobject.Currency(s.Currency),
			TotalGross:  s.TotalGross,
			TotalFees:   s.TotalFees,
			TotalExp:    s.TotalExp,
			TotalComm:   s.TotalComm,
			TotalNet:    s.TotalNet,
			Status:      finance.StatementStatus(s.Status),
			FinalizedAt: s.FinalizedAt,
			SentAt:      s.SentAt,
		}
		m.ID = s.ID
		m.CreatedAt = s.CreatedAt
		m.UpdatedAt = s.UpdatedAt

		if err := tx.Where("statement_id = ?", s.ID).Delete(&models.StatementLineModel{}).Error; err != nil {
			return fmt.Errorf("backup: restore statements: %w", err)
		}
		if err := tx.Omit("Lines").Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&m).Error; err != nil {
			return fmt.Errorf("backup: restore statements: %w", err)
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return fmt.Errorf("backup: restore statement lines: %w", err)
			}
		}
		restored++
	}
	result.Restored["statements"] = restored
	return nil
}

func (r *Restorer) restorePayouts(tx *gorm.DB, doc *Document, owners, statements refSet, result *Result) error {
	if len(doc.Data.Payouts) == 0 {
		return nil
	}
	var rows []models.PayoutModel
	for _, p := range doc.Data.Payouts {
		if !owners.has(p.OwnerID) {
			result.Skipped["payouts"]++
			continue
		}
		m := models.PayoutModel{
			OwnerID:     p.OwnerID,
			StatementID: nullUnless(p.StatementID, statements),
			Amount:      p.Amount,
			Currency:    valueobject.Currency(p.Currency),
			Method:      finance.PayoutMethod(p.Method),
			Status:      finance.PayoutStatus(p.Status),
			Reference:   p.Reference,
			Notes:       p.Notes,
			PaidAt:      p.PaidAt,
			FailedAt:    p.FailedAt,
			FailReason:  p.FailReason,
		}
		m.ID = p.ID
		m.CreatedAt = p.CreatedAt
		m.UpdatedAt = p.UpdatedAt
		rows = append(rows, m)
	}
	if len(rows) > 0 {
		if err := upsertAll(tx, rows); err != nil {
			return fmt.Errorf("backup: restore payouts: %w", err)
		}
	}
	result.Restored["payouts"] = len(rows)
	return nil
}

func (r *Restorer) restoreWallets(tx *gorm.DB, doc *Document, owners refSet, result *Result) error {
	if len(doc.Data.Wallets) == 0 {
		return nil
	}
	var rows []models.OwnerWalletModel
	for _, w := range doc.Data.Wallets {
		if !owners.has(w.OwnerID) {
			result.Skipped["wallets"]++
			continue
		}
		m := models.OwnerWalletModel{OwnerID: w.OwnerID, Balance: w.Balance}
		m.ID = w.ID
		m.CreatedAt = w.CreatedAt
		m.UpdatedAt = w.UpdatedAt
		rows = append(rows, m)
	}
	if len(rows) > 0 {
		if err := upsertAll(tx, rows); err != nil {
			return fmt.Errorf("backup: restore wallets: %w", err)
		}
	}
	result.Restored["wallets"] = len(rows)
	return nil
}

func (r *Restorer) restoreWalletTransactions(tx *gorm.DB, doc *Document, owners, wallets refSet, result *Result) error {
	if len(doc.Data.WalletTransactions) == 0 {
		return nil
	}
	var rows []models.WalletTransactionModel
	for _, t := range doc.Data.WalletTransactions {
		if !wallets.has(t.WalletID) || !owners.has(t.OwnerID) {
			result.Skipped["wallet_transactions"]++
			continue
		}
		m := models.WalletTransactionModel{
			WalletID:     t.WalletID,
			OwnerID:      t.OwnerID,
			Type:         portfolio.WalletTransactionType(t.Type),
			Amount:       t.Amount,
			BalanceAfter: t.BalanceAfter,
			Reference:    t.Reference,
			Description:  t.Description,
		}
		m.ID = t.ID
		m.CreatedAt = t.CreatedAt
		m.UpdatedAt = t.UpdatedAt
		rows = append(rows, m)
	}
	if len(rows) > 0 {
		if err := upsertAll(tx, rows); err != nil {
			return fmt.Errorf("backup: restore wallet transactions: %w", err)
		}
	}
	result.Restored["wallet_transactions"] = len(rows)
	return nil
}

func (r *Restorer) restoreSettings(tx *gorm.DB, doc *Document, result *Result) error {
	if len(doc.Data.Settings) == 0 {
		return nil
	}
	for _, s := range doc.Data.Settings {
		m := models.SettingModel{
			Key:   s.Key,
			Value: s.Value,
			Group: settings.SettingGroup(s.Group),
		}
		m.ID = s.ID
		m.CreatedAt = s.CreatedAt
		m.UpdatedAt = s.UpdatedAt
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "group_name", "updated_at"}),
		}).Create(&m).Error
		if err != nil {
			return fmt.Errorf("backup: restore settings: %w", err)
		}
	}
	result.Restored["settings"] = len(doc.Data.Settings)
	return nil
}

func (r *Restorer) restoreNotifications(tx *gorm.DB, doc *Document, owners, users refSet, result *Result) error {
	if len(doc.Data.Notifications) == 0 {
		return nil
	}
	rows := make([]models.NotificationModel, len(doc.Data.Notifications))
	for i, n := range doc.Data.Notifications {
		m := models.NotificationModel{
			Event:     notification.EventKind(n.Event),
			Channel:   notification.Channel(n.Channel),
			OwnerID:   nullUnless(n.OwnerID, owners),
			UserID:    nullUnless(n.UserID, users),
			Recipient: n.Recipient,
			Subject:   n.Subject,
			Body:      n.Body,
			Status:    notification.Status(n.Status),
			Error:     n.Error,
			SentAt:    n.SentAt,
		}
		m.ID = n.ID
		m.CreatedAt = n.CreatedAt
		m.UpdatedAt = n.UpdatedAt
		rows[i] = m
	}
	if err := upsertAll(tx, rows); err != nil {
		return fmt.Errorf("backup: restore notifications: %w", err)
	}
	result.Restored["notifications"] = len(rows)
	return nil
}

// verifyCounts fails the transaction when a table present in the dump ended
// up empty, which would mean the restore silently dropped data
func (r *Restorer) verifyCounts(tx *gorm.DB, doc *Document) error {
	checks := []struct {
		name   string
		inDump int
		model  interface{}
	}{
		{"owners", len(doc.Data.Owners), &models.OwnerModel{}},
		{"users", len(doc.Data.Users), &models.UserModel{}},
		{"properties", len(doc.Data.Properties), &models.PropertyModel{}},
		{"bookings", len(doc.Data.Bookings), &models.BookingModel{}},
		{"expenses", len(doc.Data.Expenses), &models.ExpenseModel{}},
		{"issues", len(doc.Data.Issues), &models.IssueModel{}},
		{"tasks", len(doc.Data.Tasks), &models.TaskModel{}},
		{"statements", len(doc.Data.Statements), &models.StatementModel{}},
		{"payouts", len(doc.Data.Payouts), &models.PayoutModel{}},
		{"wallets", len(doc.Data.Wallets), &models.OwnerWalletModel{}},
		{"wallet_transactions", len(doc.Data.WalletTransactions), &models.WalletTransactionModel{}},
		{"settings", len(doc.Data.Settings), &models.SettingModel{}},
		{"notifications", len(doc.Data.Notifications), &models.NotificationModel{}},
	}
	for _, c := range checks {
		if c.inDump == 0 {
			continue
		}
		var count int64
		if err := tx.Model(c.model).Count(&count).Error; err != nil {
			return fmt.Errorf("backup: verify %s: %w", c.name, err)
		}
		if count == 0 {
			return fmt.Errorf("backup: table %s had %d rows in the dump but none after restore", c.name, c.inDump)
		}
	}
	return nil
}
