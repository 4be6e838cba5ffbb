package fetchers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"resty.dev/v3"

	currency "github.com/malusev998/currency-converter"
)

const (
	ExchangeRateAPIURL  = "https://api.exchangerate-api.com/v4/latest"
	ExchangeRatesAPIURL = "https://api.exchangeratesapi.io/latest"
)

type (
	exchangeRateAPIResponse struct {
		Base  string             `json:"base,omitempty"`
		Rates map[string]float64 `json:"rates,omitempty"`
		Date  string             `json:"date,omitempty"`
	}
)

var (
	ErrClient              = errors.New("client error")
	ErrServer              = errors.New("server error")
	ErrUnknown             = errors.New("unknown error")
	ErrMalformedResponse   = errors.New("malformed rates response")
	ErrUnsupportedProvider = errors.New("rate provider is not supported")
)

func handleHTTPStatusCodeError(statusCode int) error {
	switch {
	case statusCode == http.StatusOK:
		return nil
	case statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d", ErrClient, statusCode)
	case statusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d", ErrServer, statusCode)
	default:
		return fmt.Errorf("%w: status %d", ErrUnknown, statusCode)
	}
}

func newClient(timeout time.Duration) *resty.Client {
	client := resty.New().
		SetHeader("Accept", "application/json")

	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return client
}

func formatSymbols(codes []currency.Code) string {
	var builder strings.Builder

	for _, c := range codes {
		builder.WriteString(c.String())
		builder.WriteRune(',')
	}

	return strings.TrimRight(builder.String(), ",")
}

func (r exchangeRateAPIResponse) rateTable(base currency.Code, provider currency.Provider) (currency.RateTable, error) {
	if len(r.Rates) == 0 {
		return currency.RateTable{}, fmt.Errorf("%w: no rates", ErrMalformedResponse)
	}

	if r.Base != "" && !strings.EqualFold(r.Base, base.String()) {
		return currency.RateTable{}, fmt.Errorf("%w: requested base %s, got %s", ErrMalformedResponse, base, r.Base)
	}

	return currency.NewRateTable(base, provider, r.Date, r.Rates), nil
}
