package session_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/services"
	"github.com/malusev998/currency-converter/session"
)

func amount(value string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(value), Valid: true}
}

func table(values map[string]float64) currency.RateTable {
	return currency.NewRateTable(currency.USD, currency.ExchangeRateAPIProvider, "2024-05-01", values)
}

func TestInitial(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	state := session.Initial()

	asserts.Equal(session.StatusIdle, state.Status)
	asserts.Equal(currency.USD, state.Source)
	asserts.Equal(currency.PKR, state.Target)
	asserts.Equal("0.00", state.Result)
	asserts.False(state.Amount.Valid)
	asserts.True(state.Rates.IsEmpty())
}

func TestState_FetchTransitions(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	loading := session.Initial().Loading()
	asserts.True(loading.IsLoading())
	asserts.False(loading.FormVisible())
	asserts.Empty(loading.Error)

	loaded := loading.Loaded(table(map[string]float64{"PKR": 278.5}))
	asserts.False(loaded.IsLoading())
	asserts.True(loaded.FormVisible())
	asserts.Empty(loaded.Error)
	asserts.False(loaded.Rates.IsEmpty())

	failed := loading.Failed()
	asserts.False(failed.IsLoading())
	asserts.False(failed.FormVisible())
	asserts.Equal(session.FetchErrorMessage, failed.Error)
	asserts.True(failed.Rates.IsEmpty())

	// earlier snapshots are untouched
	asserts.True(loading.IsLoading())
	asserts.Equal(session.StatusReady, loaded.Status)

	retried := failed.Loading()
	asserts.Empty(retried.Error)
}

func TestState_Convert(t *testing.T) {
	t.Parallel()

	t.Run("Base to target", func(t *testing.T) {
		asserts := require.New(t)
		state := session.Initial().
			Loaded(table(map[string]float64{"USD": 1, "PKR": 278.5, "EUR": 0.92})).
			WithAmount(amount("100"))

		converted, err := state.Convert()

		asserts.NoError(err)
		asserts.Equal("27850.00", converted.Result)
		asserts.Equal("0.00", state.Result)
	})

	t.Run("Cross rate", func(t *testing.T) {
		asserts := require.New(t)
		state := session.Initial().
			Loaded(table(map[string]float64{"USD": 1, "EUR": 0.92, "GBP": 0.79})).
			WithAmount(amount("50")).
			WithSource(currency.EUR).
			WithTarget(currency.GBP)

		converted, err := state.Convert()

		asserts.NoError(err)
		asserts.Equal("42.93", converted.Result)
	})

	t.Run("Incomplete input keeps previous result", func(t *testing.T) {
		asserts := require.New(t)
		converted, err := session.Initial().
			Loaded(table(map[string]float64{"USD": 1, "EUR": 0.92})).
			WithAmount(amount("10")).
			WithTarget(currency.EUR).
			Convert()
		asserts.NoError(err)
		asserts.Equal("9.20", converted.Result)

		noAmount := converted.WithAmount(decimal.NullDecimal{})
		again, err := noAmount.Convert()
		asserts.True(errors.Is(err, services.ErrIncompleteInput))
		asserts.Equal(noAmount, again)
		asserts.Equal("9.20", again.Result)

		missing := converted.WithTarget(currency.INR)
		again, err = missing.Convert()
		asserts.True(errors.Is(err, services.ErrRateNotFound))
		asserts.Equal("9.20", again.Result)
	})

	t.Run("Rates not loaded", func(t *testing.T) {
		asserts := require.New(t)
		state := session.Initial().Loading().WithAmount(amount("10"))

		converted, err := state.Convert()

		asserts.True(errors.Is(err, services.ErrIncompleteInput))
		asserts.Equal("0.00", converted.Result)
	})
}

func TestStatus_String(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	asserts.Equal("idle", session.StatusIdle.String())
	asserts.Equal("loading", session.StatusLoading.String())
	asserts.Equal("ready", session.StatusReady.String())
	asserts.Equal("failed", session.StatusFailed.String())
}
