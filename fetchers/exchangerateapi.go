package fetchers

import (
	"context"
	"fmt"
	"strings"
	"time"

	currency "github.com/malusev998/currency-converter"
)

// ExchangeRateAPIFetcher reads the full table for one base currency from
// exchangerate-api.com (GET {URL}/{Base}).
type ExchangeRateAPIFetcher struct {
	URL     string
	Base    currency.Code
	Timeout time.Duration
}

func (e ExchangeRateAPIFetcher) Fetch(ctx context.Context) (currency.RateTable, error) {
	url := e.URL

	if url == "" {
		url = ExchangeRateAPIURL
	}

	base := e.Base

	if base == currency.EmptyCode {
		base = currency.BaseCurrency
	}

	var data exchangeRateAPIResponse

	res, err := newClient(e.Timeout).R().
		SetContext(ctx).
		SetResult(&data).
		Get(strings.TrimRight(url, "/") + "/" + base.String())
	if err != nil {
		return currency.RateTable{}, fmt.Errorf("send latest %s rates request: %w", base, err)
	}

	if err := handleHTTPStatusCodeError(res.StatusCode()); err != nil {
		return currency.RateTable{}, err
	}

	return data.rateTable(base, currency.ExchangeRateAPIProvider)
}
