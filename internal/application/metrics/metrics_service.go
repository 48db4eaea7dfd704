package metrics

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/pms/backend/internal/application/finance"
	"github.com/pms/backend/internal/domain/booking"
	domainfinance "github.com/pms/backend/internal/domain/finance"
	"github.com/pms/backend/internal/domain/ops"
	"github.com/pms/backend/internal/domain/portfolio"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// MetricsService aggregates the admin dashboard numbers. All amounts
// are converted to the requested display currency at current rates.
type MetricsService struct {
	bookingRepo  booking.BookingRepository
	expenseRepo  domainfinance.ExpenseRepository
	propertyRepo portfolio.PropertyRepository
	issueRepo    ops.IssueRepository
	fxService    *finance.FXService
}

// NewMetricsService creates a new metrics service
func NewMetricsService(
	bookingRepo booking.BookingRepository,
	expenseRepo domainfinance.ExpenseRepository,
	propertyRepo portfolio.PropertyRepository,
	issueRepo ops.IssueRepository,
	fxService *finance.FXService,
) *MetricsService {
	return &MetricsService{
		bookingRepo:  bookingRepo,
		expenseRepo:  expenseRepo,
		propertyRepo: propertyRepo,
		issueRepo:    issueRepo,
		fxService:    fxService,
	}
}

// Overview computes the headline dashboard block for a date range
func (s *MetricsService) Overview(ctx context.Context, query MetricsQuery) (*OverviewResponse, error) {
	from, to, currency, err := s.parseQuery(query)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.FindInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	properties, err := s.propertyRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	propertyByID := indexProperties(properties)

	revenue := decimal.Zero
	fees := decimal.Zero
	commission := decimal.Zero
	bookingCount := 0
	nights := 0
	for i := range bookings {
		b := &bookings[i]
		if !b.Status.CountsAsRevenue() {
			continue
		}
		gross, err := s.fxService.ConvertAmount(ctx, b.GrossAmount, b.Currency, currency)
		if err != nil {
			return nil, err
		}
		fee, err := s.fxService.ConvertAmount(ctx, b.ChannelFee, b.Currency, currency)
		if err != nil {
			return nil, err
		}
		revenue = revenue.Add(gross)
		fees = fees.Add(fee)
		bookingCount++
		nights += b.Nights

		rate := decimal.NewFromFloat(0.15)
		if p, ok := propertyByID[b.PropertyID.String()]; ok {
			rate = p.EffectiveCommissionRate()
		}
		commission = commission.Add(gross.Mul(rate))
	}

	expenses, err := s.sumExpenses(ctx, from, to, currency, nil)
	if err != nil {
		return nil, err
	}

	openStatus := ops.IssueStatusOpen
	_, openIssues, err := s.issueRepo.FindAll(ctx, ops.IssueFilter{Status: &openStatus, Page: 1, PageSize: 1})
	if err != nil {
		return nil, err
	}

	return &OverviewResponse{
		Currency:         currency.String(),
		Revenue:          revenue.Round(2),
		ChannelFees:      fees.Round(2),
		Expenses:         expenses.Round(2),
		CommissionIncome: commission.Round(2),
		Net:              revenue.Sub(expenses).Round(2),
		Bookings:         bookingCount,
		Nights:           nights,
		ActiveProperties: len(properties),
		OpenIssues:       openIssues,
		OccupancyRate:    occupancy(nights, len(properties), from, to),
	}, nil
}

// Daily builds the zero-filled per-day revenue series grouped by check-in day
func (s *MetricsService) Daily(ctx context.Context, query MetricsQuery) (*DailyResponse, error) {
	from, to, currency, err := s.parseQuery(query)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.FindInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*DailyPoint)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		key := day.Format(dateLayout)
		byDay[key] = &DailyPoint{Date: key, Revenue: decimal.Zero}
	}

	for i := range bookings {
		b := &bookings[i]
		if !b.Status.CountsAsRevenue() {
			continue
		}
		point, ok := byDay[b.CheckIn.Format(dateLayout)]
		if !ok {
			continue
		}
		gross, err := s.fxService.ConvertAmount(ctx, b.GrossAmount, b.Currency, currency)
		if err != nil {
			return nil, err
		}
		point.Revenue = point.Revenue.Add(gross).Round(2)
		point.Bookings++
	}

	points := make([]DailyPoint, 0, len(byDay))
	for _, p := range byDay {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })

	return &DailyResponse{Currency: currency.String(), Points: points}, nil
}

// Properties ranks properties by net result over the range
func (s *MetricsService) Properties(ctx context.Context, query MetricsQuery) (*PropertiesResponse, error) {
	from, to, currency, err := s.parseQuery(query)
	if err != nil {
		return nil, err
	}

	properties, _, err := s.propertyRepo.FindAll(ctx, portfolio.PropertyFilter{Page: 1, PageSize: 1000})
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookingRepo.FindInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.FindInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	rows := make(map[string]*PropertyMetrics, len(properties))
	for i := range properties {
		p := &properties[i]
		rows[p.ID.String()] = &PropertyMetrics{
			PropertyID:   p.ID,
			PropertyCode: p.Code,
			PropertyName: p.Name,
			Revenue:      decimal.Zero,
			Expenses:     decimal.Zero,
			Net:          decimal.Zero,
		}
	}

	for i := range bookings {
		b := &bookings[i]
		if !b.Status.CountsAsRevenue() {
			continue
		}
		row, ok := rows[b.PropertyID.String()]
		if !ok {
			continue
		}
		gross, err := s.fxService.ConvertAmount(ctx, b.GrossAmount, b.Currency, currency)
		if err != nil {
			return nil, err
		}
		row.Revenue = row.Revenue.Add(gross)
		row.Bookings++
		row.Nights += b.Nights
	}

	for i := range expenses {
		e := &expenses[i]
		if e.PropertyID == nil {
			continue
		}
		row, ok := rows[e.PropertyID.String()]
		if !ok {
			continue
		}
		amount, err := s.fxService.ConvertAmount(ctx, e.Amount, e.Currency, currency)
		if err != nil {
			return nil, err
		}
		row.Expenses = row.Expenses.Add(amount)
	}

	ranked := make([]PropertyMetrics, 0, len(rows))
	for _, row := range rows {
		row.Revenue = row.Revenue.Round(2)
		row.Expenses = row.Expenses.Round(2)
		row.Net = row.Revenue.Sub(row.Expenses)
		ranked = append(ranked, *row)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].Net.Equal(ranked[j].Net) {
			return ranked[i].Net.GreaterThan(ranked[j].Net)
		}
		return ranked[i].PropertyCode < ranked[j].PropertyCode
	})

	return &PropertiesResponse{Currency: currency.String(), Properties: ranked}, nil
}

func (s *MetricsService) sumExpenses(ctx context.Context, from, to time.Time, currency valueobject.Currency, propertyID *string) (decimal.Decimal, error) {
	expenses, err := s.expenseRepo.FindInRange(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for i := range expenses {
		e := &expenses[i]
		if propertyID != nil && (e.PropertyID == nil || e.PropertyID.String() != *propertyID) {
			continue
		}
		amount, err := s.fxService.ConvertAmount(ctx, e.Amount, e.Currency, currency)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(amount)
	}
	return total, nil
}

func (s *MetricsService) parseQuery(query MetricsQuery) (from, to time.Time, currency valueobject.Currency, err error) {
	from, err = time.Parse(dateLayout, query.From)
	if err != nil {
		return from, to, currency, shared.NewDomainError("INVALID_DATE", "From date must be YYYY-MM-DD")
	}
	to, err = time.Parse(dateLayout, query.To)
	if err != nil {
		return from, to, currency, shared.NewDomainError("INVALID_DATE", "To date must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return from, to, currency, shared.NewDomainError("INVALID_RANGE", "To date must not be before from date")
	}

	currency = valueobject.DefaultCurrency
	if query.Currency != "" {
		currency = valueobject.Currency(query.Currency)
		if !currency.IsValid() {
			return from, to, currency, shared.NewDomainError("INVALID_CURRENCY", "Currency is not supported")
		}
	}
	return from, to, currency, nil
}

// occupancy is booked nights over available nights. Divisions that
// would produce NaN or Inf report 0 instead.
func occupancy(nights, activeProperties int, from, to time.Time) float64 {
	days := int(to.Sub(from).Hours()/24) + 1
	available := float64(activeProperties * days)
	rate := float64(nights) / available
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0
	}
	return math.Round(rate*10000) / 10000
}

func indexProperties(properties []portfolio.Property) map[string]*portfolio.Property {
	byID := make(map[string]*portfolio.Property, len(properties))
	for i := range properties {
		byID[properties[i].ID.String()] = &properties[i]
	}
	return byID
}
