package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	currency "github.com/malusev998/currency-converter"
)

type (
	MockFetcher struct {
		mock.Mock
	}

	MockStorage struct {
		mock.Mock
		name  string
		delay time.Duration
	}
)

func (m *MockFetcher) Fetch(ctx context.Context) (currency.RateTable, error) {
	args := m.Called(ctx)
	return args.Get(0).(currency.RateTable), args.Error(1)
}

func (m *MockStorage) Store(ctx context.Context, currencies []currency.Currency) ([]currency.CurrencyWithID, error) {
	args := m.Called(ctx, currencies)

	return1 := args.Get(0)

	if return1 == nil {
		return nil, args.Error(1)
	}

	return return1.([]currency.CurrencyWithID), args.Error(1)
}

func (m *MockStorage) Latest(ctx context.Context, provider currency.Provider) (currency.RateTable, error) {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	args := m.Called(ctx, provider)

	return args.Get(0).(currency.RateTable), args.Error(1)
}

func (m *MockStorage) GetStorageProviderName() string {
	if m.name == "" {
		return "MockStorage"
	}

	return m.name
}

func (m *MockStorage) Migrate(context.Context) error {
	return nil
}

func (m *MockStorage) Drop(context.Context) error {
	return nil
}

func (m *MockStorage) Close() error {
	return nil
}
