package services

import (
	"context"

	currency "github.com/malusev998/currency-converter"
)

// StoredFetcher serves the newest saved snapshot instead of calling a rate API.
type StoredFetcher struct {
	Conversion ConversionService
	Provider   currency.Provider
}

func (s StoredFetcher) Fetch(ctx context.Context) (currency.RateTable, error) {
	return s.Conversion.RateTable(ctx, s.Provider)
}
