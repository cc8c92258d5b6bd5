package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/stubapi/db"
	"github.com/Skotchmaster/storefront/internal/stubapi/events"
	"github.com/Skotchmaster/storefront/internal/stubapi/models"
	"github.com/Skotchmaster/storefront/internal/stubapi/repo"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	auth    *AuthService
	cart    *CartService
	orders  *OrderService
	catalog *CatalogService
	pub     *recordingPublisher
	userID  int64
	addrID  int64
	tee     int64
	tote    int64
	beanie  int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	gdb, err := db.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := &repo.GormRepo{DB: gdb}
	pub := &recordingPublisher{}
	f := &fixture{
		auth:    &AuthService{Repo: r, JWTSecret: []byte("access-secret"), RefreshSecret: []byte("refresh-secret")},
		cart:    &CartService{Repo: r, Events: pub},
		orders:  &OrderService{Repo: r, Events: pub},
		catalog: &CatalogService{Repo: r, Events: pub},
		pub:     pub,
	}
	require.NoError(t, Seed(ctx, f.auth))

	user, err := r.FindUserByEmail(ctx, DemoEmail)
	require.NoError(t, err)
	f.userID = user.ID

	addrs, err := r.ListAddresses(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	f.addrID = addrs[0].ID

	var variants []models.Variant
	require.NoError(t, gdb.Order("id").Find(&variants).Error)
	for _, v := range variants {
		switch v.SKU {
		case "TEE-BLK-M":
			f.tee = v.ID
		case "TOTE-NAT":
			f.tote = v.ID
		case "BEANIE-GRY":
			f.beanie = v.ID
		}
	}
	return f
}

func TestSeed_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, f.auth))
	n, err := f.auth.Repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestAuth_LoginRefreshLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Login(ctx, DemoEmail, "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)

	pair, err := f.auth.Login(ctx, "  DEMO@storefront.local ", DemoPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.False(t, pair.IsAdmin)

	next, err := f.auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	_, err = f.auth.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized, "rotated token must not be reusable")

	require.NoError(t, f.auth.Logout(ctx, f.userID))
	_, err = f.auth.Refresh(ctx, next.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuth_RegisterDuplicate(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Register(context.Background(), DemoEmail, "x", "")
	require.ErrorIs(t, err, ErrConflict)

	_, err = f.auth.Register(context.Background(), "", "x", "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestCart_AddMergesAndPrices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.cart.GetCart(ctx, f.userID)
	require.ErrorIs(t, err, ErrNotFound)

	c, err := f.cart.AddToCart(ctx, f.userID, f.tee, 2)
	require.NoError(t, err)
	c, err = f.cart.AddToCart(ctx, f.userID, f.tee, 1)
	require.NoError(t, err)
	c, err = f.cart.AddToCart(ctx, f.userID, f.tote, 1)
	require.NoError(t, err)

	require.Len(t, c.Items, 2)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, int64(4500), c.Items[0].TotalPrice)
	assert.Equal(t, int64(4500+2200), c.Subtotal)
	assert.Equal(t, 4, c.TotalItems)
	assert.Equal(t, []string{"cart.item_added", "cart.item_added", "cart.item_added"}, f.pub.types())
}

func TestCart_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.cart.AddToCart(ctx, f.userID, f.tee, 0)
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.cart.AddToCart(ctx, f.userID, f.tote, 6)
	require.ErrorIs(t, err, ErrConflict)
	require.ErrorIs(t, err, repo.ErrOutOfStock)

	_, err = f.cart.AddToCart(ctx, f.userID, f.beanie, 1)
	require.ErrorIs(t, err, ErrConflict)

	_, err = f.cart.AddToCart(ctx, f.userID, 9999, 1)
	require.ErrorIs(t, err, ErrNotFound)

	assert.Empty(t, f.pub.types())
}

func TestCart_UpdateRemoveClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.cart.AddToCart(ctx, f.userID, f.tee, 1)
	require.NoError(t, err)
	itemID := c.Items[0].ID

	c, err = f.cart.UpdateCartItem(ctx, f.userID, itemID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Items[0].Quantity)

	_, err = f.cart.UpdateCartItem(ctx, f.userID, itemID, 0)
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.cart.UpdateCartItem(ctx, f.userID+1, itemID, 2)
	require.ErrorIs(t, err, ErrNotFound, "another user's line is invisible")

	require.NoError(t, f.cart.RemoveCartItem(ctx, f.userID, itemID))
	require.ErrorIs(t, f.cart.RemoveCartItem(ctx, f.userID, itemID), ErrNotFound)

	_, err = f.cart.AddToCart(ctx, f.userID, f.tote, 1)
	require.NoError(t, err)
	require.NoError(t, f.cart.ClearCart(ctx, f.userID))
	require.NoError(t, f.cart.ClearCart(ctx, f.userID))

	c, err = f.cart.GetCart(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.Zero(t, c.Subtotal)
}

func TestOrder_CreateFromCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.cart.AddToCart(ctx, f.userID, f.tote, 2)
	require.NoError(t, err)

	order, err := f.orders.CreateOrder(ctx, f.userID, apiclient.CreateOrderRequest{
		ShippingAddressID: f.addrID,
		Notes:             "  leave at door ",
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD-1001", order.OrderNumber)
	assert.Equal(t, "leave at door", order.Notes)
	assert.Equal(t, int64(4400), order.Total)
	require.Len(t, order.Items, 1)

	v, err := f.catalog.GetVariant(ctx, f.tote)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Stock)

	c, err := f.cart.GetCart(ctx, f.userID)
	require.NoError(t, err)
	assert.Len(t, c.Items, 1, "order creation leaves the cart alone")

	list, err := f.orders.ListOrders(ctx, f.userID, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, order.OrderNumber, list[0].OrderNumber)
	assert.Contains(t, f.pub.types(), "order.created")
}

func TestOrder_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.orders.CreateOrder(ctx, f.userID, apiclient.CreateOrderRequest{ShippingAddressID: f.addrID})
	require.ErrorIs(t, err, ErrNotFound, "no cart yet")

	_, err = f.cart.AddToCart(ctx, f.userID, f.tee, 1)
	require.NoError(t, err)
	require.NoError(t, f.cart.ClearCart(ctx, f.userID))
	_, err = f.orders.CreateOrder(ctx, f.userID, apiclient.CreateOrderRequest{ShippingAddressID: f.addrID})
	require.ErrorIs(t, err, ErrUnprocessable)

	_, err = f.orders.CreateOrder(ctx, f.userID, apiclient.CreateOrderRequest{})
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.orders.CreateOrder(ctx, f.userID, apiclient.CreateOrderRequest{ShippingAddressID: f.addrID, CouponCode: "SAVE10"})
	require.ErrorIs(t, err, ErrUnprocessable)

	_, err = f.orders.CreateOrder(ctx, f.userID+1, apiclient.CreateOrderRequest{ShippingAddressID: f.addrID})
	require.ErrorIs(t, err, ErrNotFound, "address belongs to someone else")
}

func TestOrder_OutOfStockRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.cart.AddToCart(ctx, f.userID, f.tee, 1)
	require.NoError(t, err)
	_, err = f.cart.AddToCart(ctx, f.userID, f.tote, 5)
	require.NoError(t, err)
	_, err = f.catalog.SetStock(ctx, f.tote, 1, true)
	require.NoError(t, err)

	_, err = f.orders.CreateOrder(ctx, f.userID, apiclient.CreateOrderRequest{ShippingAddressID: f.addrID})
	require.ErrorIs(t, err, ErrConflict)

	v, err := f.catalog.GetVariant(ctx, f.tee)
	require.NoError(t, err)
	assert.Equal(t, 25, v.Stock, "stock decrement rolled back")

	list, err := f.orders.ListOrders(ctx, f.userID, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCatalog_SetStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v, err := f.catalog.SetStock(ctx, f.beanie, 3, true)
	require.NoError(t, err)
	assert.True(t, v.Active)
	assert.Equal(t, 3, v.Stock)

	_, err = f.cart.AddToCart(ctx, f.userID, f.beanie, 3)
	require.NoError(t, err)

	_, err = f.catalog.SetStock(ctx, f.beanie, -1, true)
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.catalog.SetStock(ctx, 9999, 1, true)
	require.ErrorIs(t, err, ErrNotFound)
}
