package finance

import (
	"context"
	"errors"

	"github.com/pms/backend/internal/domain/finance"
	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/domain/shared/valueobject"
	"github.com/pms/backend/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
)

// FXService converts amounts between currencies using the stored rate
// table, cached between calls.
type FXService struct {
	rateRepo  finance.FXRateRepository
	rateCache cache.RateCache
}

// NewFXService creates a new FX service
func NewFXService(rateRepo finance.FXRateRepository, rateCache cache.RateCache) *FXService {
	return &FXService{
		rateRepo:  rateRepo,
		rateCache: rateCache,
	}
}

// ListRates returns all stored exchange rates
func (s *FXService) ListRates(ctx context.Context) ([]RateResponse, error) {
	rates, err := s.rateRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]RateResponse, len(rates))
	for i := range rates {
		responses[i] = *ToRateResponse(&rates[i])
	}
	return responses, nil
}

// UpsertRate creates or replaces a currency's rate and invalidates the cache
func (s *FXService) UpsertRate(ctx context.Context, req UpsertRateRequest) (*RateResponse, error) {
	currency := valueobject.Currency(req.Currency)

	rate, err := s.rateRepo.FindByCurrency(ctx, currency)
	switch {
	case err == nil:
		if err := rate.SetRate(req.RateToUSD); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrNotFound):
		rate, err = finance.NewFXRate(currency, req.RateToUSD)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.rateRepo.Save(ctx, rate); err != nil {
		return nil, err
	}
	s.rateCache.Invalidate(ctx)

	return ToRateResponse(rate), nil
}

// Convert converts an amount from one currency to another via USD
func (s *FXService) Convert(ctx context.Context, req ConvertRequest) (*ConvertResponse, error) {
	from := valueobject.Currency(req.From)
	to := valueobject.Currency(req.To)

	converted, err := s.ConvertAmount(ctx, req.Amount, from, to)
	if err != nil {
		return nil, err
	}
	return &ConvertResponse{
		Amount:    req.Amount,
		From:      string(from),
		To:        string(to),
		Converted: converted,
	}, nil
}

// ConvertAmount is the conversion primitive used by other services.
// Same-currency conversion is the identity and needs no rate table.
func (s *FXService) ConvertAmount(ctx context.Context, amount decimal.Decimal, from, to valueobject.Currency) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	table, err := s.RateTable(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return table.Convert(amount, from, to)
}

// ConvertMoney converts a money value to the target currency
func (s *FXService) ConvertMoney(ctx context.Context, m valueobject.Money, to valueobject.Currency) (valueobject.Money, error) {
	if m.Currency() == to {
		return m, nil
	}
	table, err := s.RateTable(ctx)
	if err != nil {
		return valueobject.Money{}, err
	}
	return table.ConvertMoney(m, to)
}

// RateTable returns the current rate snapshot, loading it from the
// repository on a cache miss.
func (s *FXService) RateTable(ctx context.Context) (finance.RateTable, error) {
	if table, ok := s.rateCache.Get(ctx); ok {
		return table, nil
	}

	rates, err := s.rateRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	table := make(finance.RateTable, len(rates))
	for _, r := range rates {
		table[r.Currency] = r.RateToUSD
	}
	s.rateCache.Set(ctx, table)
	return table, nil
}
