package main

import (
	"context"
	"fmt"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/storage"
)

func createStorages(ctx context.Context, config *Config) ([]currency.Storage, error) {
	storages := make([]currency.Storage, 0, len(config.Storage))

	for _, s := range config.Storage {
		c, ok := config.StorageConfig[s]
		if !ok {
			closeStorages(storages)
			return nil, fmt.Errorf("%w: %s", storage.ErrStorageNotFound, s)
		}

		st, err := storage.NewStorage(ctx, s, c)
		if err != nil {
			closeStorages(storages)
			return nil, err
		}

		storages = append(storages, st)
	}

	return storages, nil
}

func closeStorages(storages []currency.Storage) {
	for _, st := range storages {
		_ = st.Close()
	}
}
