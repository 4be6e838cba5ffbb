package fetchers

import (
	"context"
	"fmt"
	"time"

	currency "github.com/malusev998/currency-converter"
)

// ExchangeRatesAPIFetcher reads rates from exchangeratesapi.io, which takes the base
// and the wanted symbols as query parameters.
type ExchangeRatesAPIFetcher struct {
	URL     string
	APIKey  string
	Base    currency.Code
	Symbols []currency.Code
	Timeout time.Duration
}

func (e ExchangeRatesAPIFetcher) Fetch(ctx context.Context) (currency.RateTable, error) {
	url := e.URL

	if url == "" {
		url = ExchangeRatesAPIURL
	}

	base := e.Base

	if base == currency.EmptyCode {
		base = currency.BaseCurrency
	}

	var data exchangeRateAPIResponse

	req := newClient(e.Timeout).R().
		SetContext(ctx).
		SetResult(&data).
		SetQueryParam("base", base.String())

	if len(e.Symbols) != 0 {
		req.SetQueryParam("symbols", formatSymbols(e.Symbols))
	}

	if e.APIKey != "" {
		req.SetQueryParam("access_key", e.APIKey)
	}

	res, err := req.Get(url)
	if err != nil {
		return currency.RateTable{}, fmt.Errorf("send latest %s rates request: %w", base, err)
	}

	if err := handleHTTPStatusCodeError(res.StatusCode()); err != nil {
		return currency.RateTable{}, err
	}

	return data.rateTable(base, currency.ExchangeRatesAPIProvider)
}
