package fetchers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/fetchers"
)

type (
	latestHandler struct {
		status      int
		contentType string
		body        string
	}
	slowHandler struct {
		delay time.Duration
	}
)

const latestUSD = `{"base":"USD","date":"2024-05-01","time_last_updated":1714521601,"rates":{"USD":1,"EUR":0.92,"PKR":278.5,"GBP":0.79}}`

func (h latestHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	contentType := h.contentType
	if contentType == "" {
		contentType = "application/json"
	}

	writer.Header().Set("Content-Type", contentType)
	writer.WriteHeader(h.status)
	_, _ = writer.Write([]byte(h.body))
}

func (h slowHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	select {
	case <-time.After(h.delay):
	case <-request.Context().Done():
	}

	writer.WriteHeader(http.StatusOK)
}

func TestExchangeRateAPIFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("Retrieves table from API", func(t *testing.T) {
		asserts := require.New(t)
		var path string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			latestHandler{status: http.StatusOK, body: latestUSD}.ServeHTTP(w, r)
		}))
		defer server.Close()

		fetcher := fetchers.ExchangeRateAPIFetcher{URL: server.URL + "/v4/latest"}
		table, err := fetcher.Fetch(context.Background())

		asserts.NoError(err)
		asserts.Equal("/v4/latest/USD", path)
		asserts.Equal(currency.USD, table.Base)
		asserts.Equal(currency.ExchangeRateAPIProvider, table.Provider)
		asserts.Equal("2024-05-01", table.Date)
		asserts.Equal(4, table.Len())

		rate, ok := table.Rate(currency.PKR)
		asserts.True(ok)
		asserts.Equal(278.5, rate)
	})

	t.Run("Status codes", func(t *testing.T) {
		values := []struct {
			status int
			err    error
		}{
			{http.StatusBadRequest, fetchers.ErrClient},
			{http.StatusNotFound, fetchers.ErrClient},
			{http.StatusInternalServerError, fetchers.ErrServer},
			{http.StatusBadGateway, fetchers.ErrServer},
			{http.StatusNoContent, fetchers.ErrUnknown},
		}

		for _, value := range values {
			asserts := require.New(t)
			server := httptest.NewServer(latestHandler{status: value.status, body: `{"result":"error"}`})

			table, err := fetchers.ExchangeRateAPIFetcher{URL: server.URL}.Fetch(context.Background())
			server.Close()

			asserts.True(errors.Is(err, value.err), "status %d: %v", value.status, err)
			asserts.True(table.IsEmpty())
		}
	})

	t.Run("Missing rates", func(t *testing.T) {
		asserts := require.New(t)
		server := httptest.NewServer(latestHandler{status: http.StatusOK, body: `{"base":"USD"}`})
		defer server.Close()

		table, err := fetchers.ExchangeRateAPIFetcher{URL: server.URL}.Fetch(context.Background())

		asserts.True(errors.Is(err, fetchers.ErrMalformedResponse))
		asserts.True(table.IsEmpty())
	})

	t.Run("Non JSON body", func(t *testing.T) {
		asserts := require.New(t)
		server := httptest.NewServer(latestHandler{status: http.StatusOK, contentType: "text/html", body: "<html>maintenance</html>"})
		defer server.Close()

		table, err := fetchers.ExchangeRateAPIFetcher{URL: server.URL}.Fetch(context.Background())

		asserts.Error(err)
		asserts.True(table.IsEmpty())
	})

	t.Run("Base mismatch", func(t *testing.T) {
		asserts := require.New(t)
		server := httptest.NewServer(latestHandler{status: http.StatusOK, body: strings.Replace(latestUSD, `"base":"USD"`, `"base":"EUR"`, 1)})
		defer server.Close()

		_, err := fetchers.ExchangeRateAPIFetcher{URL: server.URL}.Fetch(context.Background())

		asserts.True(errors.Is(err, fetchers.ErrMalformedResponse))
	})

	t.Run("Network error", func(t *testing.T) {
		asserts := require.New(t)
		server := httptest.NewServer(latestHandler{status: http.StatusOK, body: latestUSD})
		url := server.URL
		server.Close()

		table, err := fetchers.ExchangeRateAPIFetcher{URL: url}.Fetch(context.Background())

		asserts.Error(err)
		asserts.True(table.IsEmpty())
	})

	t.Run("Timeout", func(t *testing.T) {
		asserts := require.New(t)
		server := httptest.NewServer(slowHandler{delay: 2 * time.Second})
		defer server.Close()

		_, err := fetchers.ExchangeRateAPIFetcher{URL: server.URL, Timeout: 50 * time.Millisecond}.Fetch(context.Background())

		asserts.Error(err)
	})
}

func TestExchangeRatesAPIFetcher_Fetch(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	var query map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{
			"base":       r.URL.Query().Get("base"),
			"symbols":    r.URL.Query().Get("symbols"),
			"access_key": r.URL.Query().Get("access_key"),
		}
		latestHandler{status: http.StatusOK, body: latestUSD}.ServeHTTP(w, r)
	}))
	defer server.Close()

	fetcher := fetchers.ExchangeRatesAPIFetcher{
		URL:     server.URL,
		APIKey:  "1234567890",
		Symbols: []currency.Code{currency.EUR, currency.PKR, currency.GBP},
	}

	table, err := fetcher.Fetch(context.Background())

	asserts.NoError(err)
	asserts.Equal("USD", query["base"])
	asserts.Equal("EUR,PKR,GBP", query["symbols"])
	asserts.Equal("1234567890", query["access_key"])
	asserts.Equal(currency.ExchangeRatesAPIProvider, table.Provider)

	rate, ok := table.Rate(currency.GBP)
	asserts.True(ok)
	asserts.Equal(0.79, rate)
}
