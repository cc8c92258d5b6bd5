package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type callLog struct{ calls []string }

func (l *callLog) add(c string) { l.calls = append(l.calls, c) }

type fakeCart struct {
	log      *callLog
	snap     cart.Snapshot
	clearErr error
}

func (c *fakeCart) Snapshot() cart.Snapshot { return c.snap }

func (c *fakeCart) Clear(context.Context) error {
	c.log.add("clear")
	if c.clearErr != nil {
		return c.clearErr
	}
	c.snap = cart.Snapshot{}
	return nil
}

func (c *fakeCart) Fetch(context.Context) { c.log.add("fetch") }

type fakeOrders struct {
	log   *callLog
	order *apiclient.Order
	err   error
	got   apiclient.CreateOrderRequest
}

func (o *fakeOrders) CreateOrder(_ context.Context, req apiclient.CreateOrderRequest) (*apiclient.Order, error) {
	o.log.add("create_order")
	o.got = req
	return o.order, o.err
}

type fakeBook struct {
	owned map[int64]bool
	err   error
}

func (b *fakeBook) Owns(_ context.Context, id int64) (bool, error) {
	return b.owned[id], b.err
}

func filledSnapshot() cart.Snapshot {
	return cart.Snapshot{
		CartID:     "c1",
		Items:      []cart.LineItem{{ID: 1, VariantID: 42, Quantity: 3, UnitPrice: 1500, TotalPrice: 4500}},
		TotalItems: 3,
		Subtotal:   4500,
		Total:      4500,
	}
}

type fixture struct {
	log    *callLog
	cart   *fakeCart
	orders *fakeOrders
	book   *fakeBook
	flow   *Flow
}

func newFixture() *fixture {
	log := &callLog{}
	f := &fixture{
		log:    log,
		cart:   &fakeCart{log: log, snap: filledSnapshot()},
		orders: &fakeOrders{log: log, order: &apiclient.Order{ID: 1, OrderNumber: "ORD-1001", Total: 4500}},
		book:   &fakeBook{owned: map[int64]bool{3: true}},
	}
	f.flow = New(f.cart, f.orders, f.book, WithLogger(logging.Discard()))
	return f
}

func TestSubmit_OrderThenClearThenFetch(t *testing.T) {
	f := newFixture()

	res, err := f.flow.Submit(context.Background(), Request{ShippingAddressID: 3, Notes: "  leave at door "})

	require.NoError(t, err)
	assert.Equal(t, "ORD-1001", res.Order.OrderNumber)
	assert.True(t, res.CartCleared())
	assert.Equal(t, []string{"create_order", "clear", "fetch"}, f.log.calls)
	assert.True(t, f.cart.snap.Empty())
	assert.Equal(t, "leave at door", f.orders.got.Notes)
	assert.Equal(t, int64(3), f.orders.got.ShippingAddressID)
	assert.Same(t, res.Order, f.flow.JustPlaced())
}

func TestSubmit_OrderFailureNeverClears(t *testing.T) {
	f := newFixture()
	f.orders.err = &apiclient.StatusError{Code: 502}

	res, err := f.flow.Submit(context.Background(), Request{ShippingAddressID: 3})

	require.ErrorIs(t, err, ErrOrderFailed)
	require.ErrorIs(t, err, apiclient.ErrServer)
	assert.Nil(t, res)
	assert.Equal(t, []string{"create_order"}, f.log.calls)
	assert.Equal(t, filledSnapshot(), f.cart.snap)
	assert.Nil(t, f.flow.JustPlaced())
}

func TestSubmit_ClearFailureKeepsOrder(t *testing.T) {
	f := newFixture()
	f.cart.clearErr = errors.New("timeout")

	res, err := f.flow.Submit(context.Background(), Request{ShippingAddressID: 3})

	require.NoError(t, err)
	assert.Equal(t, "ORD-1001", res.Order.OrderNumber)
	assert.False(t, res.CartCleared())
	assert.EqualError(t, res.ClearErr, "timeout")
	assert.Equal(t, []string{"create_order", "clear"}, f.log.calls)
	assert.Equal(t, filledSnapshot(), f.cart.snap)
	assert.NotNil(t, f.flow.JustPlaced())
}

func TestSubmit_EmptyCart(t *testing.T) {
	f := newFixture()
	f.cart.snap = cart.Snapshot{}

	_, err := f.flow.Submit(context.Background(), Request{ShippingAddressID: 3})

	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, f.log.calls)
}

func TestSubmit_AddressValidation(t *testing.T) {
	f := newFixture()

	_, err := f.flow.Submit(context.Background(), Request{ShippingAddressID: 0})
	require.ErrorIs(t, err, ErrUnknownAddress)

	_, err = f.flow.Submit(context.Background(), Request{ShippingAddressID: 99})
	require.ErrorIs(t, err, ErrUnknownAddress)

	assert.Empty(t, f.log.calls)
}

func TestSubmit_AddressLookupFailureDefersToServer(t *testing.T) {
	f := newFixture()
	f.book.err = errors.New("offline")

	_, err := f.flow.Submit(context.Background(), Request{ShippingAddressID: 77})

	require.NoError(t, err)
	assert.Equal(t, int64(77), f.orders.got.ShippingAddressID)
}

func TestSubmit_RejectsConcurrentSubmit(t *testing.T) {
	f := newFixture()
	f.flow.submitting = true

	_, err := f.flow.Submit(context.Background(), Request{ShippingAddressID: 3})

	require.ErrorIs(t, err, ErrSubmitInProgress)
	assert.Empty(t, f.log.calls)
}

func TestReady(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.flow.Ready())

	_, err := f.flow.Submit(context.Background(), Request{ShippingAddressID: 3})
	require.NoError(t, err)

	// cart is empty now but the confirmation is still showing
	assert.NoError(t, f.flow.Ready())

	f.flow.Forget()
	assert.ErrorIs(t, f.flow.Ready(), ErrEmptyCart)
}

func TestSubmit_CouponPassedThrough(t *testing.T) {
	f := newFixture()

	_, err := f.flow.Submit(context.Background(), Request{ShippingAddressID: 3, CouponCode: " SPRING "})

	require.NoError(t, err)
	assert.Equal(t, "SPRING", f.orders.got.CouponCode)
}
