package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	currency "github.com/malusev998/currency-converter"
)

// DefaultResult is shown until the first successful conversion.
const DefaultResult = "0.00"

const resultPlaces = 2

var (
	ErrIncompleteInput   = errors.New("amount, currencies and rates are required to convert")
	ErrRateNotFound      = errors.New("rate for the currency is not found")
	ErrNegativeAmount    = errors.New("amount must not be negative")
	ErrNoStorageProvided = errors.New("no storage provided")
	ErrTimeRanOut        = errors.New("time has run out")
)

type (
	ConversionRequest struct {
		Amount decimal.NullDecimal
		From   currency.Code
		To     currency.Code
	}

	ConversionService struct {
		Storages []currency.Storage
	}

	latestTable struct {
		table currency.RateTable
		error error
	}
)

func NewConversionRequest(amount decimal.Decimal, from, to currency.Code) ConversionRequest {
	return ConversionRequest{
		Amount: decimal.NullDecimal{Decimal: amount, Valid: true},
		From:   from,
		To:     to,
	}
}

// Rate returns how many units of to one unit of from buys. Rates are quoted against
// the table base, so any other pair is a cross rate through it.
func Rate(from, to currency.Code, rates currency.RateTable) (decimal.Decimal, error) {
	if rates.IsEmpty() {
		return decimal.Zero, ErrIncompleteInput
	}

	toRate, ok := rates.Rate(to)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrRateNotFound, to)
	}

	if from == rates.Base {
		return decimal.NewFromFloat(toRate), nil
	}

	fromRate, ok := rates.Rate(from)
	if !ok || fromRate == 0 {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrRateNotFound, from)
	}

	return decimal.NewFromFloat(toRate).Div(decimal.NewFromFloat(fromRate)), nil
}

// Convert computes the converted amount formatted with two decimal places.
func Convert(req ConversionRequest, rates currency.RateTable) (string, error) {
	if !req.Amount.Valid || req.From == currency.EmptyCode || req.To == currency.EmptyCode {
		return "", ErrIncompleteInput
	}

	if req.Amount.Decimal.IsNegative() {
		return "", ErrNegativeAmount
	}

	rate, err := Rate(req.From, req.To, rates)
	if err != nil {
		return "", err
	}

	return req.Amount.Decimal.Mul(rate).StringFixed(resultPlaces), nil
}

// RateTable returns the latest stored snapshot for provider. With several storages the
// first one to answer without an error wins; if all of them fail the last error is returned.
func (c ConversionService) RateTable(ctx context.Context, provider currency.Provider) (currency.RateTable, error) {
	if len(c.Storages) == 0 {
		return currency.RateTable{}, ErrNoStorageProvided
	}

	if len(c.Storages) == 1 {
		table, err := c.Storages[0].Latest(ctx, provider)
		if err != nil && ctx.Err() != nil {
			return currency.RateTable{}, ErrTimeRanOut
		}

		return table, err
	}

	// Buffered so storages answering after the winner do not block.
	tables := make(chan latestTable, len(c.Storages))

	for _, storage := range c.Storages {
		go func(storage currency.Storage) {
			table, err := storage.Latest(ctx, provider)
			tables <- latestTable{table: table, error: err}
		}(storage)
	}

	var lastErr error

	for range c.Storages {
		select {
		case <-ctx.Done():
			return currency.RateTable{}, ErrTimeRanOut
		case data := <-tables:
			if data.error == nil {
				return data.table, nil
			}

			lastErr = data.error
		}
	}

	return currency.RateTable{}, lastErr
}
