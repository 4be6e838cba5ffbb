package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	currency "github.com/malusev998/currency-converter"
)

type (
	Provider   string
	BaseConfig struct {
		Migrate bool
	}
	MySQLConfig struct {
		BaseConfig
		ConnectionString string
		TableName        string
		IDGenerator      IDGenerator
	}
	MongoDBConfig struct {
		BaseConfig
		ConnectionString string
		Database         string
		Collection       string
	}
	RedisConfig struct {
		BaseConfig
		Addr     string
		Password string
		DB       int
		Prefix   string
	}
)

const (
	MySQL   Provider = "mysql"
	MongoDB Provider = "mongodb"
	Redis   Provider = "redis"
)

var (
	ErrStorageNotFound  = errors.New("storage is not found")
	ErrSnapshotNotFound = errors.New("no rate snapshot stored for provider")
)

func ConvertToProvidersFromStringSlice(strings []string) ([]Provider, error) {
	providers := make([]Provider, 0, len(strings))

	for _, str := range strings {
		provider, err := ConvertToProviderFromString(str)
		if err != nil {
			return nil, err
		}

		providers = append(providers, provider)
	}

	return providers, nil
}

func ConvertToProviderFromString(str string) (Provider, error) {
	switch strings.ToLower(str) {
	case "mysql":
		return MySQL, nil
	case "mongodb", "mongo":
		return MongoDB, nil
	case "redis":
		return Redis, nil
	}

	return "", fmt.Errorf("value %s is not valid Provider", str)
}

func NewStorage(ctx context.Context, provider Provider, config interface{}) (currency.Storage, error) {
	var (
		st  currency.Storage
		err error
		mig bool
	)

	switch provider {
	case MySQL:
		c, ok := config.(MySQLConfig)
		if !ok {
			return nil, fmt.Errorf("expected MySQLConfig for %s, got %T", provider, config)
		}
		st, err = NewMySQLStorage(c)
		mig = c.Migrate
	case MongoDB:
		c, ok := config.(MongoDBConfig)
		if !ok {
			return nil, fmt.Errorf("expected MongoDBConfig for %s, got %T", provider, config)
		}
		st, err = NewMongoStorage(ctx, c)
		mig = c.Migrate
	case Redis:
		c, ok := config.(RedisConfig)
		if !ok {
			return nil, fmt.Errorf("expected RedisConfig for %s, got %T", provider, config)
		}
		st, err = NewRedisStorage(c)
		mig = c.Migrate
	default:
		return nil, fmt.Errorf("%w: %q", ErrStorageNotFound, provider)
	}

	if err != nil {
		return nil, err
	}

	if mig {
		if err := st.Migrate(ctx); err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("migrate %s: %w", provider, err)
		}
	}

	return st, nil
}
