package finance

import (
	"testing"

	"github.com/pms/backend/internal/domain/shared"
	"github.com/pms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRates() RateTable {
	return RateTable{
		valueobject.EUR: decimal.NewFromFloat(1.08),
		valueobject.GHS: decimal.NewFromFloat(0.064),
	}
}

func TestConvertIdentity(t *testing.T) {
	// Same-currency conversion is exact even with an empty table.
	empty := RateTable{}
	amount := decimal.NewFromFloat(123.456789)

	for _, c := range valueobject.SupportedCurrencies {
		got, err := empty.Convert(amount, c, c)
		require.NoError(t, err, "identity conversion for %s", c)
		assert.True(t, got.Equal(amount), "identity conversion for %s must be exact", c)
	}
}

func TestConvertThroughUSD(t *testing.T) {
	rates := testRates()

	t.Run("to USD", func(t *testing.T) {
		got, err := rates.Convert(decimal.NewFromInt(100), valueobject.EUR, valueobject.USD)
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.NewFromInt(108)))
	})

	t.Run("from USD", func(t *testing.T) {
		got, err := rates.Convert(decimal.NewFromInt(108), valueobject.USD, valueobject.EUR)
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.NewFromInt(100)))
	})

	t.Run("cross rate", func(t *testing.T) {
		got, err := rates.Convert(decimal.NewFromInt(100), valueobject.GHS, valueobject.EUR)
		require.NoError(t, err)
		want := decimal.NewFromFloat(0.064).Mul(decimal.NewFromInt(100)).DivRound(decimal.NewFromFloat(1.08), 8)
		assert.True(t, got.Equal(want))
	})
}

func TestConvertMissingRate(t *testing.T) {
	rates := testRates()

	_, err := rates.Convert(decimal.NewFromInt(10), valueobject.NGN, valueobject.USD)
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "MISSING_FX_RATE", derr.Code)
}

func TestConvertNonPositiveStoredRate(t *testing.T) {
	rates := RateTable{valueobject.ZAR: decimal.Zero}

	_, err := rates.Convert(decimal.NewFromInt(10), valueobject.ZAR, valueobject.USD)
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "MISSING_FX_RATE", derr.Code, "zero rate treated as missing")
}

func TestNewFXRateValidation(t *testing.T) {
	_, err := NewFXRate(valueobject.Currency("XXX"), decimal.NewFromInt(1))
	assert.Error(t, err)

	_, err = NewFXRate(valueobject.EUR, decimal.NewFromInt(-1))
	assert.Error(t, err)

	r, err := NewFXRate(valueobject.EUR, decimal.NewFromFloat(1.08))
	require.NoError(t, err)
	assert.Error(t, r.SetRate(decimal.Zero))
}
