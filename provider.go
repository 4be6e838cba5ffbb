package currency

import (
	"errors"
	"fmt"
	"strings"
)

// Provider names the upstream service a rate table came from. Stored snapshots are
// keyed by it.
type Provider string

const (
	ExchangeRateAPIProvider  Provider = "ExchangeRateAPI"
	ExchangeRatesAPIProvider Provider = "ExchangeRatesAPI"
	EmptyProvider            Provider = ""
)

var ErrInvalidProvider = errors.New("rate provider is not valid")

var providerAliases = map[string]Provider{
	"exchangerateapi":      ExchangeRateAPIProvider,
	"exchangerate-api":     ExchangeRateAPIProvider,
	"exchangerate-api.com": ExchangeRateAPIProvider,
	"exchangeratesapi":     ExchangeRatesAPIProvider,
	"exchangeratesapi.io":  ExchangeRatesAPIProvider,
}

func (p Provider) String() string {
	return string(p)
}

func ConvertToProvidersFromStringSlice(strs []string) ([]Provider, error) {
	providers := make([]Provider, 0, len(strs))

	for _, str := range strs {
		provider, err := ConvertToProviderFromString(str)
		if err != nil {
			return nil, err
		}

		providers = append(providers, provider)
	}

	return providers, nil
}

// ConvertToProviderFromString accepts the provider name or the API host name, in any case.
func ConvertToProviderFromString(str string) (Provider, error) {
	if provider, ok := providerAliases[strings.ToLower(strings.TrimSpace(str))]; ok {
		return provider, nil
	}

	return EmptyProvider, fmt.Errorf("%w: %q", ErrInvalidProvider, str)
}

func (p *Provider) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var str string
	if err := unmarshal(&str); err != nil {
		return err
	}

	provider, err := ConvertToProviderFromString(str)
	if err != nil {
		return err
	}

	*p = provider

	return nil
}

func (p Provider) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}
