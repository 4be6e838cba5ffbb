package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/cli/cmd"
	"github.com/malusev998/currency-converter/fetchers"
	"github.com/malusev998/currency-converter/logger"
	"github.com/malusev998/currency-converter/storage"
)

const envPrefix = "CURRENCY_CONVERTER"

type (
	StorageConfig map[storage.Provider]interface{}
	Config        struct {
		Provider      currency.Provider
		FetcherConfig interface{}
		Storage       []storage.Provider
		StorageConfig StorageConfig
		Logger        logger.Options
		Server        cmd.ServerConfig
	}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.pretty", true)
	v.SetDefault("fetcher.provider", string(currency.ExchangeRateAPIProvider))
	v.SetDefault("fetcher.base", currency.BaseCurrency.String())
	v.SetDefault("fetcher.timeout", time.Duration(0))
	v.SetDefault("fetcher.exchangerateapi.url", fetchers.ExchangeRateAPIURL)
	v.SetDefault("fetcher.exchangeratesapi.url", fetchers.ExchangeRatesAPIURL)
	v.SetDefault("storage", []string{})
	v.SetDefault("migrate", false)
	v.SetDefault("databases.mysql.table", "currency_rates")
	v.SetDefault("databases.mongodb.database", "currency")
	v.SetDefault("databases.mongodb.collection", "currency_rates")
	v.SetDefault("databases.redis.prefix", "currency")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.origins", []string{"*"})
}

func newViper(file string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file == "" {
		return v, nil
	}

	v.SetConfigFile(file)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file leaves defaults and environment in place.
		if errors.Is(err, os.ErrNotExist) {
			return v, nil
		}

		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}

		return nil, fmt.Errorf("error while reading in the config file: %w", err)
	}

	return v, nil
}

func getConfig(v *viper.Viper, debug bool) (*Config, error) {
	provider, err := currency.ConvertToProviderFromString(v.GetString("fetcher.provider"))
	if err != nil {
		return nil, err
	}

	base, err := currency.ConvertToCodeFromString(v.GetString("fetcher.base"))
	if err != nil {
		return nil, fmt.Errorf("fetcher.base: %w", err)
	}

	storages, err := storage.ConvertToProvidersFromStringSlice(v.GetStringSlice("storage"))
	if err != nil {
		return nil, err
	}

	baseConfig := fetchers.BaseConfig{
		Base:    base,
		Timeout: v.GetDuration("fetcher.timeout"),
	}

	var fetcherConfig interface{}

	switch provider {
	case currency.ExchangeRateAPIProvider:
		baseConfig.URL = v.GetString("fetcher.exchangerateapi.url")
		fetcherConfig = fetchers.ExchangeRateAPIConfig{BaseConfig: baseConfig}
	case currency.ExchangeRatesAPIProvider:
		baseConfig.URL = v.GetString("fetcher.exchangeratesapi.url")
		symbols, err := currency.ConvertToCodesFromStringSlice(v.GetStringSlice("fetcher.exchangeratesapi.symbols"))
		if err != nil {
			return nil, fmt.Errorf("fetcher.exchangeratesapi.symbols: %w", err)
		}
		fetcherConfig = fetchers.ExchangeRatesAPIConfig{
			BaseConfig: baseConfig,
			APIKey:     v.GetString("fetcher.exchangeratesapi.apikey"),
			Symbols:    symbols,
		}
	}

	storageBaseConfig := storage.BaseConfig{
		Migrate: v.GetBool("migrate"),
	}

	level := v.GetString("logger.level")
	if debug {
		level = "debug"
	}

	return &Config{
		Provider:      provider,
		FetcherConfig: fetcherConfig,
		Storage:       storages,
		StorageConfig: StorageConfig{
			storage.MySQL: storage.MySQLConfig{
				BaseConfig: storageBaseConfig,
				ConnectionString: storage.MySQLDSN(
					v.GetString("databases.mysql.user"),
					v.GetString("databases.mysql.password"),
					v.GetString("databases.mysql.addr"),
					v.GetString("databases.mysql.db"),
				),
				TableName: v.GetString("databases.mysql.table"),
			},
			storage.MongoDB: storage.MongoDBConfig{
				BaseConfig:       storageBaseConfig,
				ConnectionString: v.GetString("databases.mongodb.uri"),
				Database:         v.GetString("databases.mongodb.database"),
				Collection:       v.GetString("databases.mongodb.collection"),
			},
			storage.Redis: storage.RedisConfig{
				BaseConfig: storageBaseConfig,
				Addr:       v.GetString("databases.redis.addr"),
				Password:   v.GetString("databases.redis.password"),
				DB:         v.GetInt("databases.redis.db"),
				Prefix:     v.GetString("databases.redis.prefix"),
			},
		},
		Logger: logger.Options{
			Level:  level,
			File:   v.GetString("logger.file"),
			Pretty: v.GetBool("logger.pretty"),
		},
		Server: cmd.ServerConfig{
			Addr:    v.GetString("server.addr"),
			Origins: v.GetStringSlice("server.origins"),
		},
	}, nil
}

func load(ctx context.Context, opts cmd.Options) (*cmd.Config, error) {
	v, err := newViper(opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	config, err := getConfig(v, opts.Debug)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(config.Logger)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	fetcher, err := fetchers.NewRateFetcher(config.Provider, config.FetcherConfig)
	if err != nil {
		return nil, err
	}

	storages, err := createStorages(ctx, config)
	if err != nil {
		return nil, err
	}

	return &cmd.Config{
		Fetcher:  fetcher,
		Provider: config.Provider,
		Storages: storages,
		Logger:   log,
		Server:   config.Server,
	}, nil
}
