package fetchers

import (
	"fmt"
	"time"

	currency "github.com/malusev998/currency-converter"
)

type (
	BaseConfig struct {
		URL     string
		Base    currency.Code
		Timeout time.Duration
	}
	ExchangeRateAPIConfig struct {
		BaseConfig
	}
	ExchangeRatesAPIConfig struct {
		BaseConfig
		APIKey  string
		Symbols []currency.Code
	}
)

func NewRateFetcher(provider currency.Provider, config interface{}) (currency.Fetcher, error) {
	switch provider {
	case currency.ExchangeRateAPIProvider:
		c, ok := config.(ExchangeRateAPIConfig)
		if !ok {
			return nil, fmt.Errorf("expected ExchangeRateAPIConfig for %s, got %T", provider, config)
		}

		return ExchangeRateAPIFetcher{
			URL:     c.URL,
			Base:    c.Base,
			Timeout: c.Timeout,
		}, nil
	case currency.ExchangeRatesAPIProvider:
		c, ok := config.(ExchangeRatesAPIConfig)
		if !ok {
			return nil, fmt.Errorf("expected ExchangeRatesAPIConfig for %s, got %T", provider, config)
		}

		return ExchangeRatesAPIFetcher{
			URL:     c.URL,
			APIKey:  c.APIKey,
			Base:    c.Base,
			Symbols: c.Symbols,
			Timeout: c.Timeout,
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
}
