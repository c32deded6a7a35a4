package events

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-events-client/api"
	"github.com/jrsteele09/go-events-client/internal/errors"
	"github.com/jrsteele09/go-events-client/internal/paging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrSuperseded is returned for a fetch whose result was dropped because a newer fetch started.
var ErrSuperseded = errors.New("superseded by a newer request")

// Store holds the event list a view renders. Only the response to the most
// recently started fetch is applied.
type Store struct {
	svc    *Service
	gen    api.Generation
	logger zerolog.Logger

	mu      sync.RWMutex
	page    *paging.Page[Event]
	err     error
	loading bool
}

type StoreOption func(*Store)

func WithStoreLogger(l zerolog.Logger) StoreOption {
	return func(st *Store) {
		st.logger = l
	}
}

func NewStore(svc *Service, opts ...StoreOption) *Store {
	st := &Store{svc: svc, logger: log.Logger}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

func (st *Store) Load(ctx context.Context, p paging.Params) error {
	return st.fetch(func() (*paging.Page[Event], error) {
		return st.svc.List(ctx, p)
	})
}

func (st *Store) Search(ctx context.Context, title string, p paging.Params) error {
	return st.fetch(func() (*paging.Page[Event], error) {
		return st.svc.SearchByTitle(ctx, title, p)
	})
}

func (st *Store) LoadByOrganizer(ctx context.Context, organizerID int64, p paging.Params) error {
	return st.fetch(func() (*paging.Page[Event], error) {
		return st.svc.ByOrganizer(ctx, organizerID, p)
	})
}

func (st *Store) fetch(get func() (*paging.Page[Event], error)) error {
	st.mu.Lock()
	ticket := st.gen.Next()
	st.loading = true
	st.mu.Unlock()

	page, err := get()

	st.mu.Lock()
	defer st.mu.Unlock()
	if !st.gen.IsLatest(ticket) {
		st.logger.Debug().Uint64("ticket", ticket).Msg("events: dropping superseded response")
		return ErrSuperseded
	}
	st.loading = false
	st.err = err
	if err != nil {
		return err
	}
	st.page = page
	return nil
}

// Page is the last applied page, or nil before the first successful fetch.
func (st *Store) Page() *paging.Page[Event] {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.page
}

func (st *Store) Events() []Event {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if st.page == nil {
		return nil
	}
	return append([]Event(nil), st.page.Content...)
}

// Err is the error of the latest fetch, if it failed.
func (st *Store) Err() error {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.err
}

func (st *Store) Loading() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.loading
}
