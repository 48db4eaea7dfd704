package finance

import (
	"fmt"

	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// FXRate stores one currency's multiplier to USD.
// amount_in_usd = amount * RateToUSD.
type FXRate struct {
	shared.BaseEntity
	Currency  valueobject.Currency `json:"currency"`
	RateToUSD decimal.Decimal      `json:"rate_to_usd"`
}

// NewFXRate creates a rate row for one currency
func NewFXRate(currency valueobject.Currency, rateToUSD decimal.Decimal) (*FXRate, error) {
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency is not supported")
	}
	if rateToUSD.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_RATE", "Rate must be positive")
	}
	return &FXRate{
		BaseEntity: shared.NewBaseEntity(),
		Currency:   currency,
		RateToUSD:  rateToUSD,
	}, nil
}

// SetRate replaces the stored multiplier
func (r *FXRate) SetRate(rateToUSD decimal.Decimal) error {
	if rateToUSD.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_RATE", "Rate must be positive")
	}
	r.RateToUSD = rateToUSD
	r.Touch()
	return nil
}

// RateTable is an in-memory snapshot of per-currency USD multipliers
// used for conversion. USD is implicit at 1.
type RateTable map[valueobject.Currency]decimal.Decimal

// Rate returns the stored multiplier for a currency. Missing or
// non-positive entries both count as missing.
func (t RateTable) Rate(c valueobject.Currency) (decimal.Decimal, error) {
	if c == valueobject.USD {
		return decimal.NewFromInt(1), nil
	}
	r, ok := t[c]
	if !ok || r.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.NewDomainError("MISSING_FX_RATE", fmt.Sprintf("No exchange rate on file for %s", c))
	}
	return r, nil
}

// Convert converts an amount between currencies through USD.
// Same-currency conversion is exact and needs no rate on file.
func (t RateTable) Convert(amount decimal.Decimal, from, to valueobject.Currency) (decimal.Decimal, error) {
	if !from.IsValid() || !to.IsValid() {
		return decimal.Zero, shared.NewDomainError("INVALID_CURRENCY", "Currency is not supported")
	}
	if from == to {
		return amount, nil
	}

	fromRate, err := t.Rate(from)
	if err != nil {
		return decimal.Zero, err
	}
	toRate, err := t.Rate(to)
	if err != nil {
		return decimal.Zero, err
	}

	return amount.Mul(fromRate).DivRound(toRate, 8), nil
}

// ConvertMoney converts a Money value to the target currency
func (t RateTable) ConvertMoney(m valueobject.Money, to valueobject.Currency) (valueobject.Money, error) {
	amount, err := t.Convert(m.Amount(), m.Currency(), to)
	if err != nil {
		return valueobject.Money{}, err
	}
	return valueobject.NewMoney(amount, to)
}
