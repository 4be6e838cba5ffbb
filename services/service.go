package services

import (
	"context"
	"sync"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/logger"
)

// Service fetches one rate table and saves it to every storage.
type Service struct {
	Fetcher currency.Fetcher
	Storage []currency.Storage
	Logger  *logger.Logger
}

func saveToStorage(
	ctx context.Context,
	wg *sync.WaitGroup,
	currencies []currency.Currency,
	data map[string][]currency.CurrencyWithID,
	storage currency.Storage,
	errorChannel chan<- error,
	mutex sync.Locker,
) {
	defer wg.Done()
	c, err := storage.Store(ctx, currencies)

	if err != nil {
		errorChannel <- err
		return
	}

	mutex.Lock()
	data[storage.GetStorageProviderName()] = c
	mutex.Unlock()
}

func (f Service) Save(ctx context.Context) (map[string][]currency.CurrencyWithID, error) {
	var wg sync.WaitGroup
	mutex := &sync.Mutex{}

	log := f.Logger
	if log == nil {
		log = logger.Nop()
	}

	table, err := f.Fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("provider", string(table.Provider)).
		Int("rates", table.Len()).
		Msg("rates fetched")

	currencies := table.Currencies()
	errorChannel := make(chan error, len(f.Storage))
	data := make(map[string][]currency.CurrencyWithID)

	wg.Add(len(f.Storage))
	for _, storage := range f.Storage {
		go saveToStorage(ctx, &wg, currencies, data, storage, errorChannel, mutex)
	}

	wg.Wait()
	close(errorChannel)

	if err, more := <-errorChannel; more {
		return nil, err
	}

	for storage, saved := range data {
		log.Info().
			Str("storage", storage).
			Int("count", len(saved)).
			Msg("rate snapshot saved")
	}

	return data, nil
}
