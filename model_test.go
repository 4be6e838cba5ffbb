package currency_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	currency "github.com/malusev998/currency-converter"
)

func TestNewRateTable(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	rates := map[string]float64{"pkr": 278.5, "EUR": 0.92}
	table := currency.NewRateTable(currency.USD, currency.ExchangeRateAPIProvider, "2024-01-01", rates)

	rates["EUR"] = 100

	assert.False(table.IsEmpty())
	assert.Equal(3, table.Len())

	rate, ok := table.Rate(currency.EUR)
	assert.True(ok)
	assert.Equal(0.92, rate)

	rate, ok = table.Rate(currency.PKR)
	assert.True(ok)
	assert.Equal(278.5, rate)

	rate, ok = table.Rate(currency.USD)
	assert.True(ok)
	assert.Equal(1.0, rate)

	_, ok = table.Rate(currency.INR)
	assert.False(ok)

	assert.Equal([]string{"EUR", "PKR", "USD"}, table.Codes())
}

func TestNewRateTable_Empty(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	table := currency.NewRateTable(currency.USD, currency.ExchangeRateAPIProvider, "", nil)

	assert.True(table.IsEmpty())
	_, ok := table.Rate(currency.USD)
	assert.False(ok)
}

func TestRateTable_CurrenciesRoundTrip(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	fetchedAt := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	table := currency.NewRateTable(currency.USD, currency.ExchangeRateAPIProvider, "2024-03-10", map[string]float64{
		"USD": 1,
		"GBP": 0.79,
	})
	table.FetchedAt = fetchedAt

	currencies := table.Currencies()
	assert.Len(currencies, 2)
	assert.Equal("USD_GBP", currencies[0].Pair())
	assert.Equal(fetchedAt, currencies[0].CreatedAt)
	assert.Equal(currency.ExchangeRateAPIProvider, currencies[1].Provider)

	restored, err := currency.RateTableFromCurrencies(currencies)
	assert.NoError(err)
	assert.Equal(table.Rates, restored.Rates)
	assert.Equal(currency.USD, restored.Base)
	assert.Equal("2024-03-10", restored.Date)
	assert.Equal(fetchedAt, restored.FetchedAt)
}

func TestRateTableFromCurrencies_MixedBase(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	_, err := currency.RateTableFromCurrencies([]currency.Currency{
		{From: "USD", To: "EUR", Rate: 0.9},
		{From: "EUR", To: "USD", Rate: 1.1},
	})

	assert.Error(err)
}
