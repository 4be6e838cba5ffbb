package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	currency "github.com/malusev998/currency-converter"
)

type (
	mongoStorage struct {
		client     *mongo.Client
		collection *mongo.Collection
	}

	mongoCurrency struct {
		ID        primitive.ObjectID `bson:"_id,omitempty"`
		Currency  string             `bson:"currency"`
		From      string             `bson:"from"`
		To        string             `bson:"to"`
		Provider  string             `bson:"provider"`
		Rate      float64            `bson:"rate"`
		CreatedAt time.Time          `bson:"createdAt"`
	}
)

func NewMongoStorage(ctx context.Context, config MongoDBConfig) (currency.Storage, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.ConnectionString))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	return NewMongoStorageFromCollection(client, client.Database(config.Database).Collection(config.Collection)), nil
}

func NewMongoStorageFromCollection(client *mongo.Client, collection *mongo.Collection) currency.Storage {
	return mongoStorage{
		client:     client,
		collection: collection,
	}
}

func (m mongoStorage) Store(ctx context.Context, currencies []currency.Currency) ([]currency.CurrencyWithID, error) {
	if len(currencies) == 0 {
		return []currency.CurrencyWithID{}, nil
	}

	// Copied so the caller's slice, shared with other storages, is never written.
	items := make([]currency.Currency, len(currencies))
	copy(items, currencies)
	currencies = items

	documents := make([]interface{}, 0, len(currencies))

	for i := range currencies {
		if currencies[i].CreatedAt.IsZero() {
			currencies[i].CreatedAt = time.Now().UTC()
		}

		// BSON dates keep millisecond precision, truncate so reads compare equal.
		currencies[i].CreatedAt = currencies[i].CreatedAt.Truncate(time.Millisecond)

		c := currencies[i]
		documents = append(documents, mongoCurrency{
			Currency:  c.Pair(),
			From:      c.From,
			To:        c.To,
			Provider:  string(c.Provider),
			Rate:      c.Rate,
			CreatedAt: c.CreatedAt,
		})
	}

	result, err := m.collection.InsertMany(ctx, documents)
	if err != nil {
		return nil, err
	}

	saved := make([]currency.CurrencyWithID, 0, len(currencies))

	for i, id := range result.InsertedIDs {
		saved = append(saved, currency.CurrencyWithID{
			Currency: currencies[i],
			ID:       id,
		})
	}

	return saved, nil
}

func (m mongoStorage) Latest(ctx context.Context, provider currency.Provider) (currency.RateTable, error) {
	var newest mongoCurrency

	err := m.collection.FindOne(
		ctx,
		bson.M{"provider": string(provider)},
		options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	).Decode(&newest)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return currency.RateTable{}, fmt.Errorf("%w: %s", ErrSnapshotNotFound, provider)
	}

	if err != nil {
		return currency.RateTable{}, err
	}

	cursor, err := m.collection.Find(ctx, bson.M{
		"provider":  string(provider),
		"createdAt": newest.CreatedAt,
	})
	if err != nil {
		return currency.RateTable{}, err
	}

	defer cursor.Close(ctx)

	var documents []mongoCurrency
	if err := cursor.All(ctx, &documents); err != nil {
		return currency.RateTable{}, err
	}

	currencies := make([]currency.Currency, 0, len(documents))

	for _, d := range documents {
		currencies = append(currencies, currency.Currency{
			From:      d.From,
			To:        d.To,
			Provider:  currency.Provider(d.Provider),
			Rate:      d.Rate,
			CreatedAt: d.CreatedAt,
		})
	}

	return currency.RateTableFromCurrencies(currencies)
}

func (m mongoStorage) Migrate(ctx context.Context) error {
	_, err := m.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "provider", Value: 1},
			{Key: "createdAt", Value: -1},
		},
	})

	return err
}

func (m mongoStorage) Drop(ctx context.Context) error {
	return m.collection.Drop(ctx)
}

func (m mongoStorage) Close() error {
	if m.client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return m.client.Disconnect(ctx)
}

func (m mongoStorage) GetStorageProviderName() string {
	return string(MongoDB)
}
