package metrics

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MetricsQuery carries the common range and display-currency filters
type MetricsQuery struct {
	From     string `form:"from" binding:"required"`
	To       string `form:"to" binding:"required"`
	Currency string `form:"currency" binding:"omitempty,oneof=USD EUR GBP GHS NGN ZAR"`
}

// OverviewResponse is the admin dashboard headline block
type OverviewResponse struct {
	Currency         string          `json:"currency"`
	Revenue          decimal.Decimal `json:"revenue"`
	ChannelFees      decimal.Decimal `json:"channel_fees"`
	Expenses         decimal.Decimal `json:"expenses"`
	CommissionIncome decimal.Decimal `json:"commission_income"`
	Net              decimal.Decimal `json:"net"`
	Bookings         int             `json:"bookings"`
	Nights           int             `json:"nights"`
	ActiveProperties int             `json:"active_properties"`
	OpenIssues       int64           `json:"open_issues"`
	OccupancyRate    float64         `json:"occupancy_rate"`
}

// DailyPoint is one day in the daily series, zero-filled for quiet days
type DailyPoint struct {
	Date     string          `json:"date"`
	Revenue  decimal.Decimal `json:"revenue"`
	Bookings int             `json:"bookings"`
}

// DailyResponse is the zero-filled per-day series
type DailyResponse struct {
	Currency string       `json:"currency"`
	Points   []DailyPoint `json:"points"`
}

// PropertyMetrics ranks one property by net result
type PropertyMetrics struct {
	PropertyID   uuid.UUID       `json:"property_id"`
	PropertyCode string          `json:"property_code"`
	PropertyName string          `json:"property_name"`
	Revenue      decimal.Decimal `json:"revenue"`
	Expenses     decimal.Decimal `json:"expenses"`
	Net          decimal.Decimal `json:"net"`
	Bookings     int             `json:"bookings"`
	Nights       int             `json:"nights"`
}

// PropertiesResponse is the per-property ranking
type PropertiesResponse struct {
	Currency   string            `json:"currency"`
	Properties []PropertyMetrics `json:"properties"`
}
