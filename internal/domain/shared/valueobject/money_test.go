package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("valid money", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(100), USD)
		require.NoError(t, err)
		assert.Equal(t, USD, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))
	})

	t.Run("empty currency rejected", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(100), "")
		assert.Error(t, err)
	})

	t.Run("from string", func(t *testing.T) {
		m, err := NewMoneyFromString("99.95", GHS)
		require.NoError(t, err)
		assert.Equal(t, "99.95 GHS", m.String())
	})

	t.Run("invalid string rejected", func(t *testing.T) {
		_, err := NewMoneyFromString("abc", USD)
		assert.Error(t, err)
	})
}

func TestMoneyArithmetic(t *testing.T) {
	a := NewMoneyUSD(decimal.NewFromInt(100))
	b := NewMoneyUSD(decimal.NewFromInt(30))

	t.Run("add", func(t *testing.T) {
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromInt(130)))
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.True(t, diff.Amount().Equal(decimal.NewFromInt(70)))
	})

	t.Run("multiply", func(t *testing.T) {
		commission := a.Multiply(decimal.NewFromFloat(0.15))
		assert.True(t, commission.Amount().Equal(decimal.NewFromInt(15)))
	})

	t.Run("mismatched currency add fails", func(t *testing.T) {
		eur := Zero(EUR)
		_, err := a.Add(eur)
		assert.Error(t, err)
	})
}

func TestCurrencyIsValid(t *testing.T) {
	for _, c := range SupportedCurrencies {
		assert.True(t, c.IsValid(), "expected %s to be valid", c)
	}
	assert.False(t, Currency("XXX").IsValid())
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	m, err := NewMoneyFromString("1234.5678", EUR)
	require.NoError(t, err)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}
