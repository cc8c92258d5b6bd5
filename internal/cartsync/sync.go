// Package cartsync keeps the cart lifecycle subordinate to the auth
// lifecycle, so neither store has to import the other.
package cartsync

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Skotchmaster/storefront/internal/session"
)

// CartLifecycle is the part of the cart store the synchronizer drives.
type CartLifecycle interface {
	Fetch(ctx context.Context)
	Reset()
}

// Source publishes auth state changes. *session.Store satisfies it.
type Source interface {
	State() session.State
	Subscribe(fn func(session.State)) (cancel func())
}

type Option func(*Synchronizer)

func WithLogger(l *slog.Logger) Option {
	return func(s *Synchronizer) { s.log = l.With("component", "cartsync") }
}

type Synchronizer struct {
	cart CartLifecycle
	log  *slog.Logger

	mu       sync.Mutex
	observed bool
	last     bool
}

func New(cart CartLifecycle, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		cart: cart,
		log:  slog.Default().With("component", "cartsync"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Observe reacts to the authenticated flag. Only the first observation and
// actual changes do anything: true fetches the cart once, false discards it
// locally without a server call.
func (s *Synchronizer) Observe(ctx context.Context, authenticated bool) {
	s.mu.Lock()
	if s.observed && s.last == authenticated {
		s.mu.Unlock()
		return
	}
	s.observed = true
	s.last = authenticated
	s.mu.Unlock()

	if authenticated {
		s.log.Debug("auth_entered", "action", "fetch")
		s.cart.Fetch(ctx)
		return
	}
	s.log.Debug("auth_left", "action", "reset")
	s.cart.Reset()
}

// Attach feeds every state of src into Observe, starting with the current
// one. Loading states are skipped: the flag is only meaningful once the
// session has settled.
func (s *Synchronizer) Attach(ctx context.Context, src Source) (detach func()) {
	cancel := src.Subscribe(func(st session.State) {
		if st.Loading {
			return
		}
		s.Observe(ctx, st.Authenticated)
	})
	if st := src.State(); !st.Loading {
		s.Observe(ctx, st.Authenticated)
	}
	return cancel
}
