package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	currency "github.com/malusev998/currency-converter"
)

const MySQLTimeFormat = "2006-01-02 15:04:05.000000"

var ErrNotEnoughBytesInGenerator = errors.New("id generator must return 16 bytes")

type (
	// IDGenerator returns the 16 raw bytes of a row id.
	IDGenerator interface {
		Generate() []byte
	}

	uuidGenerator struct{}

	mysqlStorage struct {
		db          *sql.DB
		idGenerator IDGenerator
		tableName   string
	}
)

func (uuidGenerator) Generate() []byte {
	id := uuid.New()
	return id[:]
}

// MySQLDSN builds a connection string with time parsing enabled.
func MySQLDSN(user, password, addr, db string) string {
	config := mysql.NewConfig()
	config.User = user
	config.Passwd = password
	config.Addr = addr
	config.Net = "tcp"
	config.DBName = db
	config.ParseTime = true
	config.Loc = time.UTC

	return config.FormatDSN()
}

func NewMySQLStorage(config MySQLConfig) (currency.Storage, error) {
	db, err := sql.Open("mysql", config.ConnectionString)
	if err != nil {
		return nil, err
	}

	return NewSQLStorage(db, config.IDGenerator, config.TableName), nil
}

func NewSQLStorage(db *sql.DB, idGenerator IDGenerator, tableName string) currency.Storage {
	if idGenerator == nil {
		idGenerator = uuidGenerator{}
	}

	if tableName == "" {
		tableName = "currency_rates"
	}

	return mysqlStorage{
		db:          db,
		idGenerator: idGenerator,
		tableName:   tableName,
	}
}

func (m mysqlStorage) nextID() (uuid.UUID, error) {
	id, err := uuid.FromBytes(m.idGenerator.Generate())
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrNotEnoughBytesInGenerator, err)
	}

	return id, nil
}

func (m mysqlStorage) Store(ctx context.Context, currencies []currency.Currency) ([]currency.CurrencyWithID, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s(id, currency, provider, rate, created_at) VALUES (?,?,?,?,?);", m.tableName))
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	defer stmt.Close()

	saved := make([]currency.CurrencyWithID, 0, len(currencies))

	for _, c := range currencies {
		if c.CreatedAt.IsZero() {
			c.CreatedAt = time.Now().UTC()
		}

		id, err := m.nextID()
		if err != nil {
			_ = tx.Rollback()
			return nil, err
		}

		if _, err := stmt.ExecContext(ctx, id.String(), c.Pair(), string(c.Provider), c.Rate, c.CreatedAt); err != nil {
			_ = tx.Rollback()
			return nil, err
		}

		saved = append(saved, currency.CurrencyWithID{Currency: c, ID: id})
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return saved, nil
}

func (m mysqlStorage) Latest(ctx context.Context, provider currency.Provider) (currency.RateTable, error) {
	query := fmt.Sprintf(
		"SELECT currency, rate, created_at FROM %[1]s WHERE provider = ? AND created_at = (SELECT MAX(created_at) FROM %[1]s WHERE provider = ?);",
		m.tableName,
	)

	rows, err := m.db.QueryContext(ctx, query, string(provider), string(provider))
	if err != nil {
		return currency.RateTable{}, err
	}

	defer rows.Close()

	currencies := make([]currency.Currency, 0)

	for rows.Next() {
		var (
			pair      string
			rate      float64
			createdAt time.Time
		)

		if err := rows.Scan(&pair, &rate, &createdAt); err != nil {
			return currency.RateTable{}, err
		}

		iso := strings.SplitN(pair, "_", 2)
		if len(iso) != 2 {
			return currency.RateTable{}, fmt.Errorf("malformed currency pair %q", pair)
		}

		currencies = append(currencies, currency.Currency{
			From:      iso[0],
			To:        iso[1],
			Provider:  provider,
			Rate:      rate,
			CreatedAt: createdAt,
		})
	}

	if err := rows.Err(); err != nil {
		return currency.RateTable{}, err
	}

	if len(currencies) == 0 {
		return currency.RateTable{}, fmt.Errorf("%w: %s", ErrSnapshotNotFound, provider)
	}

	return currency.RateTableFromCurrencies(currencies)
}

func (m mysqlStorage) Migrate(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s(
	id CHAR(36) PRIMARY KEY,
	currency VARCHAR(7) NOT NULL,
	provider VARCHAR(32) NOT NULL,
	rate DOUBLE NOT NULL,
	created_at DATETIME(6) NOT NULL,
	INDEX %[1]s_provider_created_at (provider, created_at)
);`, m.tableName))

	return err
}

func (m mysqlStorage) Drop(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s;", m.tableName))
	return err
}

func (m mysqlStorage) Close() error {
	return m.db.Close()
}

func (m mysqlStorage) GetStorageProviderName() string {
	return string(MySQL)
}
