package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	currency "github.com/malusev998/currency-converter"
)

// redisStorage keeps only the newest snapshot per provider: a hash of code -> rate and
// a hash with the snapshot metadata.
type redisStorage struct {
	client *redis.Client
	prefix string
}

func NewRedisStorage(config RedisConfig) (currency.Storage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	return NewRedisStorageFromClient(client, config.Prefix), nil
}

func NewRedisStorageFromClient(client *redis.Client, prefix string) currency.Storage {
	if prefix == "" {
		prefix = "currency-converter"
	}

	return redisStorage{
		client: client,
		prefix: prefix,
	}
}

func (r redisStorage) ratesKey(provider currency.Provider) string {
	return fmt.Sprintf("%s:%s:rates", r.prefix, provider)
}

func (r redisStorage) metaKey(provider currency.Provider) string {
	return fmt.Sprintf("%s:%s:meta", r.prefix, provider)
}

func (r redisStorage) Store(ctx context.Context, currencies []currency.Currency) ([]currency.CurrencyWithID, error) {
	byProvider := make(map[currency.Provider][]currency.Currency)

	for _, c := range currencies {
		if c.CreatedAt.IsZero() {
			c.CreatedAt = time.Now().UTC()
		}

		byProvider[c.Provider] = append(byProvider[c.Provider], c)
	}

	saved := make([]currency.CurrencyWithID, 0, len(currencies))

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for provider, group := range byProvider {
			rates := make(map[string]interface{}, len(group))

			for _, c := range group {
				rates[c.To] = strconv.FormatFloat(c.Rate, 'f', -1, 64)
				saved = append(saved, currency.CurrencyWithID{Currency: c, ID: r.ratesKey(provider) + ":" + c.To})
			}

			pipe.Del(ctx, r.ratesKey(provider))
			pipe.HSet(ctx, r.ratesKey(provider), rates)
			pipe.HSet(ctx, r.metaKey(provider), map[string]interface{}{
				"base":      group[0].From,
				"createdAt": group[0].CreatedAt.Format(time.RFC3339Nano),
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return saved, nil
}

func (r redisStorage) Latest(ctx context.Context, provider currency.Provider) (currency.RateTable, error) {
	meta, err := r.client.HGetAll(ctx, r.metaKey(provider)).Result()
	if err != nil {
		return currency.RateTable{}, err
	}

	values, err := r.client.HGetAll(ctx, r.ratesKey(provider)).Result()
	if err != nil {
		return currency.RateTable{}, err
	}

	if len(meta) == 0 || len(values) == 0 {
		return currency.RateTable{}, fmt.Errorf("%w: %s", ErrSnapshotNotFound, provider)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, meta["createdAt"])
	if err != nil {
		return currency.RateTable{}, fmt.Errorf("parse snapshot time: %w", err)
	}

	currencies := make([]currency.Currency, 0, len(values))

	for to, value := range values {
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return currency.RateTable{}, fmt.Errorf("parse %s rate: %w", to, err)
		}

		currencies = append(currencies, currency.Currency{
			From:      meta["base"],
			To:        to,
			Provider:  provider,
			Rate:      rate,
			CreatedAt: createdAt,
		})
	}

	return currency.RateTableFromCurrencies(currencies)
}

func (r redisStorage) Migrate(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r redisStorage) Drop(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.prefix+":*", 100).Iterator()

	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
	}

	return iter.Err()
}

func (r redisStorage) Close() error {
	return r.client.Close()
}

func (r redisStorage) GetStorageProviderName() string {
	return string(Redis)
}
