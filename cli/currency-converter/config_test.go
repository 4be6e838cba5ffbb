package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/cli/cmd"
	"github.com/malusev998/currency-converter/fetchers"
	"github.com/malusev998/currency-converter/storage"
)

const configYAML = `
logger:
  level: warn
  pretty: false
fetcher:
  provider: exchangeratesapi
  base: usd
  timeout: 3s
  exchangeratesapi:
    url: http://rates.local/latest
    apikey: secret
    symbols: [eur, pkr]
storage:
  - mysql
  - redis
migrate: true
databases:
  mysql:
    user: root
    password: pass
    addr: 127.0.0.1:3306
    db: currency
  redis:
    addr: 127.0.0.1:6379
    db: 2
server:
  addr: :9000
  origins: [http://localhost:3000]
`

func TestGetConfig_Defaults(t *testing.T) {
	asserts := require.New(t)

	v, err := newViper("")
	asserts.NoError(err)

	config, err := getConfig(v, false)
	asserts.NoError(err)

	asserts.Equal(currency.ExchangeRateAPIProvider, config.Provider)
	asserts.Equal(fetchers.ExchangeRateAPIConfig{
		BaseConfig: fetchers.BaseConfig{URL: fetchers.ExchangeRateAPIURL, Base: currency.USD},
	}, config.FetcherConfig)
	asserts.Empty(config.Storage)
	asserts.Equal("info", config.Logger.Level)
	asserts.Equal(":8080", config.Server.Addr)
}

func TestGetConfig_FromFile(t *testing.T) {
	asserts := require.New(t)

	v, err := newViper("")
	asserts.NoError(err)
	v.SetConfigType("yaml")
	asserts.NoError(v.ReadConfig(bytes.NewBufferString(configYAML)))

	config, err := getConfig(v, true)
	asserts.NoError(err)

	asserts.Equal(currency.ExchangeRatesAPIProvider, config.Provider)
	asserts.Equal(fetchers.ExchangeRatesAPIConfig{
		BaseConfig: fetchers.BaseConfig{
			URL:     "http://rates.local/latest",
			Base:    currency.USD,
			Timeout: 3 * time.Second,
		},
		APIKey:  "secret",
		Symbols: []currency.Code{currency.EUR, currency.PKR},
	}, config.FetcherConfig)
	asserts.Equal([]storage.Provider{storage.MySQL, storage.Redis}, config.Storage)
	asserts.Equal("debug", config.Logger.Level)

	mysqlConfig := config.StorageConfig[storage.MySQL].(storage.MySQLConfig)
	asserts.True(mysqlConfig.Migrate)
	asserts.Equal(storage.MySQLDSN("root", "pass", "127.0.0.1:3306", "currency"), mysqlConfig.ConnectionString)
	asserts.Equal("currency_rates", mysqlConfig.TableName)

	redisConfig := config.StorageConfig[storage.Redis].(storage.RedisConfig)
	asserts.Equal(2, redisConfig.DB)
	asserts.Equal("currency", redisConfig.Prefix)

	asserts.Equal(cmd.ServerConfig{Addr: ":9000", Origins: []string{"http://localhost:3000"}}, config.Server)
}

func TestGetConfig_Environment(t *testing.T) {
	asserts := require.New(t)
	t.Setenv("CURRENCY_CONVERTER_FETCHER_BASE", "EUR")
	t.Setenv("CURRENCY_CONVERTER_SERVER_ADDR", ":7000")

	v, err := newViper("")
	asserts.NoError(err)

	config, err := getConfig(v, false)
	asserts.NoError(err)

	fetcherConfig := config.FetcherConfig.(fetchers.ExchangeRateAPIConfig)
	asserts.Equal(currency.EUR, fetcherConfig.Base)
	asserts.Equal(":7000", config.Server.Addr)
}

func TestGetConfig_Invalid(t *testing.T) {
	asserts := require.New(t)

	v, err := newViper("")
	asserts.NoError(err)
	v.Set("fetcher.provider", "freecurrconv")

	_, err = getConfig(v, false)
	asserts.Error(err)

	v.Set("fetcher.provider", "exchangerateapi")
	v.Set("storage", []string{"postgres"})

	_, err = getConfig(v, false)
	asserts.Error(err)
}

func TestLoad(t *testing.T) {
	asserts := require.New(t)

	missing := filepath.Join(t.TempDir(), "config.yml")
	config, err := load(context.Background(), cmd.Options{ConfigFile: missing})
	asserts.NoError(err)
	asserts.NotNil(config.Fetcher)
	asserts.NotNil(config.Logger)
	asserts.Empty(config.Storages)

	broken := filepath.Join(t.TempDir(), "config.yml")
	asserts.NoError(os.WriteFile(broken, []byte("fetcher: [unterminated"), 0o600))

	_, err = load(context.Background(), cmd.Options{ConfigFile: broken})
	asserts.Error(err)
}
