package session

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/logger"
)

// Session owns the state of one converter for its lifetime: the rate table is fetched
// once on Mount and dropped on Unmount.
type Session struct {
	fetcher currency.Fetcher
	log     *logger.Logger

	mu        sync.RWMutex
	state     State
	mounted   bool
	unmounted bool
	settled   chan struct{}
	once      sync.Once
}

func New(fetcher currency.Fetcher, log *logger.Logger) *Session {
	if log == nil {
		log = logger.Nop()
	}

	return &Session{
		fetcher: fetcher,
		log:     log,
		state:   Initial(),
		settled: make(chan struct{}),
	}
}

// Mount starts the rate fetch. Only the first call has an effect; the returned channel
// is closed once the fetch settled, successfully or not.
func (s *Session) Mount(ctx context.Context) <-chan struct{} {
	s.once.Do(func() {
		s.mu.Lock()
		if s.unmounted {
			s.mu.Unlock()
			close(s.settled)

			return
		}

		s.mounted = true
		s.state = s.state.Loading()
		s.mu.Unlock()

		s.log.Debug().Msg("fetching exchange rates")

		go s.fetch(ctx)
	})

	return s.settled
}

func (s *Session) fetch(ctx context.Context) {
	defer close(s.settled)

	table, err := s.fetcher.Fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unmounted {
		s.log.Debug().Msg("session unmounted before rates arrived, discarding result")
		return
	}

	if err != nil {
		s.log.Error().Err(err).Msg("fetching exchange rates failed")
		s.state = s.state.Failed()

		return
	}

	s.log.Info().
		Str("provider", string(table.Provider)).
		Str("base", table.Base.String()).
		Int("rates", table.Len()).
		Msg("exchange rates loaded")

	s.state = s.state.Loaded(table)
}

// Unmount discards the rate table; a fetch still in flight is ignored when it settles.
func (s *Session) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.unmounted = true
	s.state = Initial()
}

// Wait blocks until the fetch settled or ctx is done.
func (s *Session) Wait(ctx context.Context) (State, error) {
	s.mu.RLock()
	mounted := s.mounted
	s.mu.RUnlock()

	if mounted {
		select {
		case <-s.settled:
		case <-ctx.Done():
			return s.Snapshot(), ctx.Err()
		}
	}

	return s.Snapshot(), nil
}

func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

func (s *Session) update(transition func(State) State) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = transition(s.state)

	return s.state
}

func (s *Session) SetAmount(amount decimal.NullDecimal) State {
	return s.update(func(st State) State { return st.WithAmount(amount) })
}

func (s *Session) SetSource(code currency.Code) State {
	return s.update(func(st State) State { return st.WithSource(code) })
}

func (s *Session) SetTarget(code currency.Code) State {
	return s.update(func(st State) State { return st.WithTarget(code) })
}

// Convert applies the current selections. On incomplete input the displayed result is
// kept and the reason is returned for callers that want to surface it.
func (s *Session) Convert() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.state.Convert()
	if err != nil {
		s.log.Debug().Err(err).Msg("conversion skipped")
		return s.state, err
	}

	s.state = next

	return s.state, nil
}

// ConvertWith applies amount and the non-empty codes, then converts, as one transition.
// Selections are kept even when the conversion is skipped.
func (s *Session) ConvertWith(amount decimal.NullDecimal, from, to currency.Code) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.WithAmount(amount)

	if from != currency.EmptyCode {
		next = next.WithSource(from)
	}

	if to != currency.EmptyCode {
		next = next.WithTarget(to)
	}

	converted, err := next.Convert()
	if err != nil {
		s.log.Debug().Err(err).Msg("conversion skipped")
		s.state = next

		return s.state, err
	}

	s.state = converted

	return s.state, nil
}
