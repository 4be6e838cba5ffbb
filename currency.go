package currency

import (
	"context"
	"io"
)

type (
	Fetcher interface {
		Fetch(ctx context.Context) (RateTable, error)
	}

	Storage interface {
		io.Closer
		Store(ctx context.Context, currencies []Currency) ([]CurrencyWithID, error)
		Latest(ctx context.Context, provider Provider) (RateTable, error)
		GetStorageProviderName() string
		Migrate(ctx context.Context) error
		Drop(ctx context.Context) error
	}

	Service interface {
		Save(ctx context.Context) (map[string][]CurrencyWithID, error)
	}
)
