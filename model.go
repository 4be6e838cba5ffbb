package currency

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type (
	Currency struct {
		From      string
		To        string
		Provider  Provider
		Rate      float64
		CreatedAt time.Time
	}

	CurrencyWithID struct {
		Currency
		ID interface{}
	}

	// RateTable maps a currency code to the units of that currency per one unit of Base.
	// The map is owned by the table and must not be modified after NewRateTable returns.
	RateTable struct {
		Base      Code
		Provider  Provider
		Date      string
		FetchedAt time.Time
		Rates     map[string]float64
	}
)

func NewRateTable(base Code, provider Provider, date string, rates map[string]float64) RateTable {
	copied := make(map[string]float64, len(rates))
	for code, rate := range rates {
		copied[strings.ToUpper(code)] = rate
	}

	// The base is always worth exactly one of itself.
	if _, ok := copied[base.String()]; !ok && len(copied) != 0 {
		copied[base.String()] = 1
	}

	return RateTable{
		Base:      base,
		Provider:  provider,
		Date:      date,
		FetchedAt: time.Now().UTC(),
		Rates:     copied,
	}
}

func (t RateTable) IsEmpty() bool {
	return len(t.Rates) == 0
}

func (t RateTable) Len() int {
	return len(t.Rates)
}

func (t RateTable) Rate(code Code) (float64, bool) {
	rate, ok := t.Rates[code.String()]
	return rate, ok
}

// Codes returns every code present in the table, sorted.
func (t RateTable) Codes() []string {
	codes := make([]string, 0, len(t.Rates))
	for code := range t.Rates {
		codes = append(codes, code)
	}

	sort.Strings(codes)

	return codes
}

// Currencies flattens the table into Base_X pairs, the shape storages persist.
func (t RateTable) Currencies() []Currency {
	createdAt := t.FetchedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	currencies := make([]Currency, 0, len(t.Rates))

	for _, to := range t.Codes() {
		currencies = append(currencies, Currency{
			From:      t.Base.String(),
			To:        to,
			Provider:  t.Provider,
			Rate:      t.Rates[to],
			CreatedAt: createdAt,
		})
	}

	return currencies
}

// RateTableFromCurrencies rebuilds a table from one stored snapshot. Every row must share
// the same base currency.
func RateTableFromCurrencies(currencies []Currency) (RateTable, error) {
	if len(currencies) == 0 {
		return RateTable{}, nil
	}

	base := currencies[0].From
	rates := make(map[string]float64, len(currencies))

	for _, c := range currencies {
		if c.From != base {
			return RateTable{}, fmt.Errorf("snapshot mixes base currencies %s and %s", base, c.From)
		}

		rates[c.To] = c.Rate
	}

	table := NewRateTable(Code(base), currencies[0].Provider, currencies[0].CreatedAt.Format("2006-01-02"), rates)
	table.FetchedAt = currencies[0].CreatedAt

	return table, nil
}

func (c Currency) Pair() string {
	return fmt.Sprintf("%s_%s", c.From, c.To)
}
