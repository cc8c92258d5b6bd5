// Package storefront assembles the client: one API client, the auth and cart
// stores, the synchronizer between them and the checkout flow. The App owns
// their lifetime; nothing here is a package-level singleton.
package storefront

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/cartsync"
	"github.com/Skotchmaster/storefront/internal/checkout"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
	"github.com/Skotchmaster/storefront/pkg/config"
)

const addressTTL = 5 * time.Minute

type App struct {
	API       *apiclient.Client
	Session   *session.Store
	Cart      *cart.Store
	Addresses *checkout.AddressCache
	Checkout  *checkout.Flow

	sync *cartsync.Synchronizer
	log  *slog.Logger

	mu      sync.Mutex
	stopFns []func()
}

type Options struct {
	// OrderedCartResponses drops cart responses older than the last applied one.
	OrderedCartResponses bool
	HTTPClientOptions    []apiclient.Option
}

func New(cfg config.Config, log *slog.Logger, opts Options) (*App, error) {
	// The configured timeout goes last so an injected http.Client still honors it.
	clientOpts := append(append([]apiclient.Option(nil), opts.HTTPClientOptions...), apiclient.WithTimeout(cfg.RequestTimeout))
	api, err := apiclient.NewClient(cfg.APIURL, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("api client: %w", err)
	}

	cartOpts := []cart.Option{cart.WithLogger(log)}
	if opts.OrderedCartResponses {
		cartOpts = append(cartOpts, cart.WithOrderedResponses())
	}
	cartStore := cart.New(api, cartOpts...)
	addresses := checkout.NewAddressCache(api, addressTTL)

	return &App{
		API:       api,
		Session:   session.New(api, session.WithLogger(log)),
		Cart:      cartStore,
		Addresses: addresses,
		Checkout:  checkout.New(cartStore, api, addresses, checkout.WithLogger(log)),
		sync:      cartsync.New(cartStore, cartsync.WithLogger(log)),
		log:       log,
	}, nil
}

// Start attaches the synchronizer to the session and drops cached addresses
// whenever the session ends. ctx bounds the cart fetches triggered by login.
func (a *App) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopFns = append(a.stopFns,
		a.sync.Attach(ctx, a.Session),
		a.Session.Subscribe(func(st session.State) {
			if !st.Authenticated && !st.Loading {
				a.Addresses.Invalidate()
				a.Checkout.Forget()
			}
		}),
	)
	a.log.Debug("storefront_started")
}

func (a *App) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, stop := range a.stopFns {
		stop()
	}
	a.stopFns = nil
	a.log.Debug("storefront_stopped")
}
