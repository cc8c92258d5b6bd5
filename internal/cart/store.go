// Package cart holds the client-side cart snapshot. The Store is the only
// writer of the snapshot and every write is a wholesale replacement by the
// server's answer.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Skotchmaster/storefront/pkg/apiclient"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrCouponUnsupported = errors.New("coupon codes are not supported yet")
)

// Remote is the server-side cart resource. *apiclient.Client satisfies it.
type Remote interface {
	GetCart(ctx context.Context) (*apiclient.Cart, error)
	AddCartItem(ctx context.Context, variantID int64, quantity int) (*apiclient.Cart, error)
	UpdateCartItem(ctx context.Context, itemID int64, quantity int) (*apiclient.Cart, error)
	RemoveCartItem(ctx context.Context, itemID int64) error
	ClearCart(ctx context.Context) error
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l.With("component", "cart") }
}

// WithOrderedResponses makes the store discard a response that was issued
// before the response it last applied. Without it the last response to
// arrive wins, even if its request was older.
func WithOrderedResponses() Option {
	return func(s *Store) { s.ordered = true }
}

type Store struct {
	remote  Remote
	log     *slog.Logger
	ordered bool

	mu           sync.Mutex
	snap         Snapshot
	issued       uint64
	applied      uint64
	lastFetchErr error
	listeners    map[int]func(Snapshot)
	nextListener int
}

func New(remote Remote, opts ...Option) *Store {
	s := &Store{
		remote:    remote,
		log:       slog.Default().With("component", "cart"),
		listeners: make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.clone()
}

// LastFetchError tells an empty-because-new cart from an
// empty-because-fetch-failed one. It is nil after a successful fetch.
func (s *Store) LastFetchError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFetchErr
}

// Subscribe registers fn to run after every snapshot change. fn runs on the
// goroutine that made the change, outside the store lock.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Fetch replaces the snapshot with the server cart. Any failure, including
// "no cart yet", leaves an empty snapshot and is not returned.
func (s *Store) Fetch(ctx context.Context) {
	seq := s.issue()
	c, err := s.remote.GetCart(ctx)
	if err != nil {
		if errors.Is(err, apiclient.ErrNotFound) {
			s.log.Debug("fetch_cart_no_cart")
		} else {
			s.log.Warn("fetch_cart_failed", "error", err)
		}
		s.apply(seq, Snapshot{}, err, true)
		return
	}
	s.apply(seq, fromRemote(c), nil, true)
}

func (s *Store) AddItem(ctx context.Context, variantID int64, quantity int) error {
	if variantID <= 0 || quantity < 1 {
		return fmt.Errorf("add item: variant %d quantity %d: %w", variantID, quantity, ErrInvalidInput)
	}
	seq := s.issue()
	c, err := s.remote.AddCartItem(ctx, variantID, quantity)
	if err != nil {
		s.log.Warn("add_cart_item_failed", "variant_id", variantID, "quantity", quantity, "error", err)
		return fmt.Errorf("add item: %w", err)
	}
	s.apply(seq, fromRemote(c), nil, false)
	return nil
}

// UpdateQuantity sets the quantity of a line. Callers keep quantity >= 1;
// removing a line goes through RemoveItem.
func (s *Store) UpdateQuantity(ctx context.Context, itemID int64, quantity int) error {
	if itemID <= 0 || quantity < 1 {
		return fmt.Errorf("update quantity: item %d quantity %d: %w", itemID, quantity, ErrInvalidInput)
	}
	seq := s.issue()
	c, err := s.remote.UpdateCartItem(ctx, itemID, quantity)
	if err != nil {
		s.log.Warn("update_cart_item_failed", "item_id", itemID, "quantity", quantity, "error", err)
		return fmt.Errorf("update quantity: %w", err)
	}
	s.apply(seq, fromRemote(c), nil, false)
	return nil
}

// RemoveItem never reports failure. The remote remove answers without a
// body, so the store re-fetches in both outcomes and adopts whatever the
// server holds, even when the line is still there.
func (s *Store) RemoveItem(ctx context.Context, itemID int64) {
	if err := s.remote.RemoveCartItem(ctx, itemID); err != nil {
		s.log.Warn("remove_cart_item_failed", "item_id", itemID, "error", err)
	}
	s.Fetch(ctx)
}

// Clear empties the server cart. A failure is returned and the snapshot is
// kept, since callers such as checkout depend on knowing the outcome.
func (s *Store) Clear(ctx context.Context) error {
	seq := s.issue()
	if err := s.remote.ClearCart(ctx); err != nil {
		s.log.Warn("clear_cart_failed", "error", err)
		return fmt.Errorf("clear cart: %w", err)
	}
	s.apply(seq, Snapshot{}, nil, false)
	return nil
}

// Reset discards the snapshot locally without calling the server. It is a
// no-op on an empty snapshot.
func (s *Store) Reset() {
	seq := s.issue()
	s.apply(seq, Snapshot{}, nil, false)
}

func (s *Store) ApplyCoupon(_ context.Context, code string) error {
	return fmt.Errorf("apply coupon %q: %w", code, ErrCouponUnsupported)
}

func (s *Store) RemoveCoupon(_ context.Context) error {
	return fmt.Errorf("remove coupon: %w", ErrCouponUnsupported)
}

func (s *Store) issue() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// apply installs next unless ordering is on and a newer response was already
// applied. fetch marks results that update LastFetchError.
func (s *Store) apply(seq uint64, next Snapshot, fetchErr error, fetch bool) {
	s.mu.Lock()
	if s.ordered && seq < s.applied {
		s.mu.Unlock()
		s.log.Debug("stale_cart_response_dropped", "seq", seq, "applied", s.applied)
		return
	}
	if seq > s.applied {
		s.applied = seq
	}
	if fetch {
		s.lastFetchErr = fetchErr
	}
	if next.Empty() && s.snap.Empty() {
		s.mu.Unlock()
		return
	}
	s.snap = next
	listeners := make([]func(Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next.clone())
	}
}
