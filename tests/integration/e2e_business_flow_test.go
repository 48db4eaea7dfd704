// Package integration provides end-to-end business flow tests.
// The monthly settlement flow is exercised here with real repositories,
// services, and the in-process event bus.
package integration

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingapp "github.com/pms/backend/internal/application/booking"
	financeapp "github.com/pms/backend/internal/application/finance"
	portfolioapp "github.com/pms/backend/internal/application/portfolio"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/infrastructure/cache"
	"github.com/pms/backend/internal/infrastructure/event"
	"github.com/pms/backend/internal/infrastructure/persistence"
	"github.com/pms/backend/tests/testutil"
)

// settlementSetup wires the services behind the owner settlement flow.
type settlementSetup struct {
	Owners     *portfolioapp.OwnerService
	Properties *portfolioapp.PropertyService
	Wallets    *portfolioapp.WalletService
	Bookings   *bookingapp.BookingService
	Expenses   *financeapp.ExpenseService
	Statements *financeapp.StatementService
	Payouts    *financeapp.PayoutService
	FX         *financeapp.FXService

	Events *testutil.MockEventHandler
}

func newSettlementSetup(t *testing.T) *settlementSetup {
	t.Helper()

	db := NewTestDB(t)
	logger := NewTestLogger(t)

	bus := event.NewInMemoryEventBus(logger)
	events := testutil.NewMockEventHandler()
	bus.Subscribe(events)

	ownerRepo := persistence.NewGormOwnerRepository(db)
	walletRepo := persistence.NewGormWalletRepository(db)
	propertyRepo := persistence.NewGormPropertyRepository(db)
	bookingRepo := persistence.NewGormBookingRepository(db)
	expenseRepo := persistence.NewGormExpenseRepository(db)
	rateRepo := persistence.NewGormFXRateRepository(db)
	statementRepo := persistence.NewGormStatementRepository(db)
	payoutRepo := persistence.NewGormPayoutRepository(db)

	fxService := financeapp.NewFXService(rateRepo, cache.NewMemoryRateCache(time.Minute))

	return &settlementSetup{
		Owners:     portfolioapp.NewOwnerService(ownerRepo, walletRepo),
		Properties: portfolioapp.NewPropertyService(propertyRepo, ownerRepo),
		Wallets:    portfolioapp.NewWalletService(walletRepo, ownerRepo),
		Bookings:   bookingapp.NewBookingService(bookingRepo, propertyRepo, bus),
		Expenses:   financeapp.NewExpenseService(expenseRepo, propertyRepo),
		Statements: financeapp.NewStatementService(statementRepo, ownerRepo, propertyRepo, bookingRepo, expenseRepo, fxService, bus),
		Payouts:    financeapp.NewPayoutService(payoutRepo, statementRepo, ownerRepo, walletRepo, fxService, bus),
		FX:         fxService,
		Events:     events,
	}
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "want %s, got %s", want, got)
}

// TestMonthlyOwnerSettlementFlow walks the full month-end cycle: a
// stay is booked and completed, an expense is recorded, the statement
// is generated and sent, and the owner is paid out from the wallet.
func TestMonthlyOwnerSettlementFlow(t *testing.T) {
	setup := newSettlementSetup(t)
	ctx := context.Background()

	_, err := setup.FX.UpsertRate(ctx, financeapp.UpsertRateRequest{
		Currency:  "GHS",
		RateToUSD: decimal.RequireFromString("0.08"),
	})
	require.NoError(t, err)

	owner, err := setup.Owners.Create(ctx, portfolioapp.CreateOwnerRequest{
		Code:              "OWN-100",
		Name:              "Kofi Boateng",
		Email:             "kofi@example.com",
		PreferredCurrency: "GHS",
		PayoutMethod:      "MOBILE_MONEY",
		PayoutDetails:     "MTN 0244000111",
	})
	require.NoError(t, err)

	commission := decimal.NewFromFloat(0.20)
	property, err := setup.Properties.Create(ctx, portfolioapp.CreatePropertyRequest{
		Code:           "PROP-100",
		Name:           "East Legon Villa",
		City:           "Accra",
		Type:           "VILLA",
		Bedrooms:       4,
		OwnerID:        owner.ID,
		NightlyRate:    decimal.NewFromInt(1000),
		Currency:       "GHS",
		CommissionRate: &commission,
	})
	require.NoError(t, err)

	stay, err := setup.Bookings.Create(ctx, bookingapp.CreateBookingRequest{
		Code:        "BK-2026-0301",
		PropertyID:  property.ID,
		GuestName:   "Ama Serwaa",
		CheckIn:     time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
		CheckOut:    time.Date(2026, 3, 13, 11, 0, 0, 0, time.UTC),
		GrossAmount: decimal.NewFromInt(3000),
		Currency:    "GHS",
		ChannelFee:  decimal.NewFromInt(300),
		Source:      "AIRBNB",
	})
	require.NoError(t, err)

	_, err = setup.Bookings.Confirm(ctx, stay.ID)
	require.NoError(t, err)
	_, err = setup.Bookings.MarkPaid(ctx, stay.ID)
	require.NoError(t, err)

	// A cancelled booking in the same period must not reach the statement.
	cancelled, err := setup.Bookings.Create(ctx, bookingapp.CreateBookingRequest{
		Code:        "BK-2026-0302",
		PropertyID:  property.ID,
		GuestName:   "Yaw Darko",
		CheckIn:     time.Date(2026, 3, 20, 15, 0, 0, 0, time.UTC),
		CheckOut:    time.Date(2026, 3, 22, 11, 0, 0, 0, time.UTC),
		GrossAmount: decimal.NewFromInt(2000),
		Currency:    "GHS",
		ChannelFee:  decimal.NewFromInt(200),
		Source:      "BOOKING_COM",
	})
	require.NoError(t, err)
	_, err = setup.Bookings.Cancel(ctx, cancelled.ID, bookingapp.CancelBookingRequest{Reason: "Guest no-show"})
	require.NoError(t, err)

	_, err = setup.Expenses.Create(ctx, financeapp.CreateExpenseRequest{
		PropertyID:  &property.ID,
		Category:    "CLEANING",
		Amount:      decimal.NewFromInt(200),
		Currency:    "GHS",
		IncurredAt:  time.Date(2026, 3, 13, 12, 0, 0, 0, time.UTC),
		Description: "Post-checkout deep clean",
	})
	require.NoError(t, err)

	periodStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)

	statement, err := setup.Statements.Generate(ctx, financeapp.GenerateStatementRequest{
		OwnerID:     owner.ID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
	})
	require.NoError(t, err)

	assert.Equal(t, "DRAFT", statement.Status)
	assert.Equal(t, "GHS", statement.Currency)
	require.Len(t, statement.Lines, 1)

	line := statement.Lines[0]
	assert.Equal(t, property.ID, line.PropertyID)
	assert.Equal(t, 1, line.BookingCount)
	assert.Equal(t, 3, line.NightsBooked)
	requireDecimal(t, "3000", line.GrossRevenue)
	requireDecimal(t, "300", line.ChannelFees)
	requireDecimal(t, "200", line.Expenses)
	requireDecimal(t, "600", line.Commission)
	requireDecimal(t, "1900", line.NetDue)
	requireDecimal(t, "1900", statement.TotalNet)

	_, err = setup.Statements.Finalize(ctx, statement.ID)
	require.NoError(t, err)

	// A finalized statement cannot be regenerated.
	_, err = setup.Statements.Generate(ctx, financeapp.GenerateStatementRequest{
		OwnerID:     owner.ID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "STATEMENT_IMMUTABLE", domainErr.Code)

	sent, err := setup.Statements.Send(ctx, statement.ID)
	require.NoError(t, err)
	assert.Equal(t, "SENT", sent.Status)
	require.NotNil(t, sent.SentAt)

	// Fund the wallet with the settled amount in the USD base
	// (1900 GHS at 0.08) and pay the owner out in GHS.
	wallet, err := setup.Wallets.Adjust(ctx, owner.ID, portfolioapp.WalletAdjustmentRequest{
		Amount:      decimal.RequireFromString("152"),
		Direction:   "CREDIT",
		Reference:   statement.Code,
		Description: "March settlement",
	})
	require.NoError(t, err)
	requireDecimal(t, "152", wallet.Balance)

	payout, err := setup.Payouts.Create(ctx, financeapp.CreatePayoutRequest{
		OwnerID:     owner.ID,
		StatementID: &statement.ID,
		Amount:      decimal.RequireFromString("1900"),
		Currency:    "GHS",
		Method:      "MOBILE_MONEY",
	})
	require.NoError(t, err)
	assert.Equal(t, "PENDING", payout.Status)

	wallet, err = setup.Wallets.GetByOwner(ctx, owner.ID)
	require.NoError(t, err)
	requireDecimal(t, "0", wallet.Balance)

	// The drained wallet rejects a second payout.
	_, err = setup.Payouts.Create(ctx, financeapp.CreatePayoutRequest{
		OwnerID:  owner.ID,
		Amount:   decimal.NewFromInt(500),
		Currency: "GHS",
		Method:   "MOBILE_MONEY",
	})
	require.ErrorIs(t, err, shared.ErrInsufficientBalance)

	paid, err := setup.Payouts.MarkPaid(ctx, payout.ID, financeapp.MarkPayoutPaidRequest{Reference: "MTN-88271"})
	require.NoError(t, err)
	assert.Equal(t, "PAID", paid.Status)
	require.NotNil(t, paid.PaidAt)

	seen := make(map[string]bool)
	for _, evt := range setup.Events.Handled() {
		seen[evt.EventType()] = true
	}
	for _, want := range []string{"BookingCreated", "BookingConfirmed", "BookingCancelled", "StatementSent", "PayoutPaid"} {
		assert.True(t, seen[want], "expected event %s on the bus", want)
	}
}

// TestPayoutFailureRefundsWallet verifies that a failed disbursement
// returns the debited amount to the owner's wallet.
func TestPayoutFailureRefundsWallet(t *testing.T) {
	setup := newSettlementSetup(t)
	ctx := context.Background()

	owner, err := setup.Owners.Create(ctx, portfolioapp.CreateOwnerRequest{
		Code:              "OWN-200",
		Name:              "Abena Osei",
		PreferredCurrency: "GHS",
	})
	require.NoError(t, err)

	_, err = setup.FX.UpsertRate(ctx, financeapp.UpsertRateRequest{
		Currency:  "GHS",
		RateToUSD: decimal.RequireFromString("0.08"),
	})
	require.NoError(t, err)

	// 800 GHS at 0.08 is 64 in the USD wallet base.
	_, err = setup.Wallets.Adjust(ctx, owner.ID, portfolioapp.WalletAdjustmentRequest{
		Amount:    decimal.NewFromInt(64),
		Direction: "CREDIT",
		Reference: "manual-topup",
	})
	require.NoError(t, err)

	payout, err := setup.Payouts.Create(ctx, financeapp.CreatePayoutRequest{
		OwnerID:  owner.ID,
		Amount:   decimal.NewFromInt(800),
		Currency: "GHS",
		Method:   "BANK_TRANSFER",
	})
	require.NoError(t, err)

	wallet, err := setup.Wallets.GetByOwner(ctx, owner.ID)
	require.NoError(t, err)
	requireDecimal(t, "0", wallet.Balance)

	failed, err := setup.Payouts.MarkFailed(ctx, payout.ID, financeapp.MarkPayoutFailedRequest{Reason: "Account closed"})
	require.NoError(t, err)
	assert.Equal(t, "FAILED", failed.Status)
	assert.Equal(t, "Account closed", failed.FailReason)

	wallet, err = setup.Wallets.GetByOwner(ctx, owner.ID)
	require.NoError(t, err)
	requireDecimal(t, "64", wallet.Balance)
}

// TestGenerateAllSkipsOwnersWithoutProperties covers the path the
// monthly schedule takes.
func TestGenerateAllSkipsOwnersWithoutProperties(t *testing.T) {
	setup := newSettlementSetup(t)
	ctx := context.Background()

	withProperty, err := setup.Owners.Create(ctx, portfolioapp.CreateOwnerRequest{
		Code:              "OWN-300",
		Name:              "Kwesi Appiah",
		PreferredCurrency: "USD",
	})
	require.NoError(t, err)

	_, err = setup.Owners.Create(ctx, portfolioapp.CreateOwnerRequest{
		Code:              "OWN-301",
		Name:              "Efua Mensima",
		PreferredCurrency: "USD",
	})
	require.NoError(t, err)

	property, err := setup.Properties.Create(ctx, portfolioapp.CreatePropertyRequest{
		Code:        "PROP-300",
		Name:        "Osu Studio",
		Type:        "STUDIO",
		OwnerID:     withProperty.ID,
		NightlyRate: decimal.NewFromInt(90),
		Currency:    "USD",
	})
	require.NoError(t, err)

	stay, err := setup.Bookings.Create(ctx, bookingapp.CreateBookingRequest{
		Code:        "BK-2026-0401",
		PropertyID:  property.ID,
		GuestName:   "Nana Adjei",
		CheckIn:     time.Date(2026, 4, 2, 15, 0, 0, 0, time.UTC),
		CheckOut:    time.Date(2026, 4, 5, 11, 0, 0, 0, time.UTC),
		GrossAmount: decimal.NewFromInt(270),
		Currency:    "USD",
		Source:      "DIRECT",
	})
	require.NoError(t, err)
	_, err = setup.Bookings.Confirm(ctx, stay.ID)
	require.NoError(t, err)

	periodStart := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2026, 4, 30, 23, 59, 59, 0, time.UTC)

	generated, failed, err := setup.Statements.GenerateAll(ctx, periodStart, periodEnd)
	require.NoError(t, err)
	assert.Equal(t, 1, generated)
	assert.Equal(t, 0, failed)

	statements, total, err := setup.Statements.List(ctx, financeapp.StatementListFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, statements, 1)
	assert.Equal(t, withProperty.ID, statements[0].OwnerID)
}
