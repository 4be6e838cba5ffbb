package session

import (
	"github.com/shopspring/decimal"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/services"
)

// FetchErrorMessage replaces the form when the rate table could not be loaded.
const FetchErrorMessage = "Error Fetching Exchange rates."

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// State is one immutable snapshot of a converter. Transitions return a new State and
// never touch the receiver; the rate table is shared between snapshots read-only.
type State struct {
	Status Status
	Error  string
	Rates  currency.RateTable
	Amount decimal.NullDecimal
	Source currency.Code
	Target currency.Code
	Result string
}

func Initial() State {
	return State{
		Status: StatusIdle,
		Source: currency.USD,
		Target: currency.PKR,
		Result: services.DefaultResult,
	}
}

func (s State) IsLoading() bool {
	return s.Status == StatusLoading
}

// FormVisible reports whether the conversion inputs should be offered.
func (s State) FormVisible() bool {
	return s.Status != StatusLoading && s.Error == ""
}

func (s State) Loading() State {
	s.Status = StatusLoading
	s.Error = ""

	return s
}

func (s State) Loaded(rates currency.RateTable) State {
	s.Status = StatusReady
	s.Error = ""
	s.Rates = rates

	return s
}

func (s State) Failed() State {
	s.Status = StatusFailed
	s.Error = FetchErrorMessage
	s.Rates = currency.RateTable{}

	return s
}

func (s State) WithAmount(amount decimal.NullDecimal) State {
	s.Amount = amount
	return s
}

func (s State) WithSource(code currency.Code) State {
	s.Source = code
	return s
}

func (s State) WithTarget(code currency.Code) State {
	s.Target = code
	return s
}

func (s State) Request() services.ConversionRequest {
	return services.ConversionRequest{
		Amount: s.Amount,
		From:   s.Source,
		To:     s.Target,
	}
}

// Convert recomputes Result from the current selections. When the conversion cannot be
// computed the returned State equals the receiver and the reason is returned alongside.
func (s State) Convert() (State, error) {
	result, err := services.Convert(s.Request(), s.Rates)
	if err != nil {
		return s, err
	}

	s.Result = result

	return s, nil
}
