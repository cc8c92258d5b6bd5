// Package checkout places an order from the current cart. Order creation and
// cart clearing are two separate phases: the cart is only cleared after the
// order call has returned successfully, and a failed clear never undoes the
// order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrUnknownAddress   = errors.New("shipping address not found")
	ErrOrderFailed      = errors.New("order could not be placed")
	ErrSubmitInProgress = errors.New("checkout already in progress")
)

type Cart interface {
	Snapshot() cart.Snapshot
	Clear(ctx context.Context) error
	Fetch(ctx context.Context)
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, req apiclient.CreateOrderRequest) (*apiclient.Order, error)
}

type AddressBook interface {
	Owns(ctx context.Context, id int64) (bool, error)
}

type Request struct {
	ShippingAddressID int64
	CouponCode        string
	Notes             string
}

type Result struct {
	Order *apiclient.Order
	// ClearErr is set when the order was placed but the cart could not be
	// cleared. The order stands; the cart shows stale lines until the next
	// fetch.
	ClearErr error
}

func (r *Result) CartCleared() bool { return r.ClearErr == nil }

type Option func(*Flow)

func WithLogger(l *slog.Logger) Option {
	return func(f *Flow) { f.log = l.With("component", "checkout") }
}

type Flow struct {
	cart      Cart
	orders    OrderCreator
	addresses AddressBook
	log       *slog.Logger

	mu         sync.Mutex
	submitting bool
	justPlaced *apiclient.Order
}

func New(c Cart, orders OrderCreator, addresses AddressBook, opts ...Option) *Flow {
	f := &Flow{
		cart:      c,
		orders:    orders,
		addresses: addresses,
		log:       slog.Default().With("component", "checkout"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Ready reports ErrEmptyCart when there is nothing to check out and no order
// has just been placed; callers leave the checkout screen in that case.
func (f *Flow) Ready() error {
	f.mu.Lock()
	placed := f.justPlaced != nil
	f.mu.Unlock()

	if f.cart.Snapshot().TotalItems == 0 && !placed {
		return ErrEmptyCart
	}
	return nil
}

// JustPlaced returns the order placed by the last successful Submit.
func (f *Flow) JustPlaced() *apiclient.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.justPlaced
}

// Forget drops the just-placed order, e.g. when the user leaves the
// confirmation screen.
func (f *Flow) Forget() {
	f.mu.Lock()
	f.justPlaced = nil
	f.mu.Unlock()
}

// Submit creates the order, then clears the cart, then refreshes it. No
// idempotency key is sent: resubmitting after a lost response may create a
// duplicate order.
func (f *Flow) Submit(ctx context.Context, req Request) (*Result, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	f.submitting = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	l := f.log.With("shipping_address_id", req.ShippingAddressID)

	if f.cart.Snapshot().TotalItems == 0 {
		return nil, ErrEmptyCart
	}
	if err := f.checkAddress(ctx, req.ShippingAddressID); err != nil {
		l.Warn("checkout_rejected", "error", err)
		return nil, err
	}

	order, err := f.orders.CreateOrder(ctx, apiclient.CreateOrderRequest{
		ShippingAddressID: req.ShippingAddressID,
		CouponCode:        strings.TrimSpace(req.CouponCode),
		Notes:             strings.TrimSpace(req.Notes),
	})
	if err != nil {
		l.Warn("create_order_failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrOrderFailed, err)
	}
	l = l.With("order_number", order.OrderNumber)
	l.Info("order_created", "total", order.Total)

	f.mu.Lock()
	f.justPlaced = order
	f.mu.Unlock()

	res := &Result{Order: order}
	if err := f.cart.Clear(ctx); err != nil {
		l.Warn("clear_cart_after_order_failed", "error", err)
		res.ClearErr = err
		return res, nil
	}
	f.cart.Fetch(ctx)
	return res, nil
}

// checkAddress rejects addresses the user does not own before any order call.
// If the address book cannot be read the server makes the decision.
func (f *Flow) checkAddress(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("address %d: %w", id, ErrUnknownAddress)
	}
	if f.addresses == nil {
		return nil
	}
	owned, err := f.addresses.Owns(ctx, id)
	if err != nil {
		f.log.Warn("address_lookup_failed", "address_id", id, "error", err)
		return nil
	}
	if !owned {
		return fmt.Errorf("address %d: %w", id, ErrUnknownAddress)
	}
	return nil
}
