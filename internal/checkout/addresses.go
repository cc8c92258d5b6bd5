package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Skotchmaster/storefront/pkg/apiclient"
)

var ErrNoAddresses = errors.New("no saved addresses")

type AddressLister interface {
	ListAddresses(ctx context.Context) ([]apiclient.Address, error)
}

// AddressCache keeps the user's saved addresses in memory for ttl.
type AddressCache struct {
	lister AddressLister
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	addresses []apiclient.Address
	fetchedAt time.Time
	loaded    bool
}

func NewAddressCache(lister AddressLister, ttl time.Duration) *AddressCache {
	return &AddressCache{lister: lister, ttl: ttl, now: time.Now}
}

func (c *AddressCache) List(ctx context.Context) ([]apiclient.Address, error) {
	c.mu.Lock()
	if c.loaded && c.now().Sub(c.fetchedAt) < c.ttl {
		out := append([]apiclient.Address(nil), c.addresses...)
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	addresses, err := c.lister.ListAddresses(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.addresses = addresses
	c.fetchedAt = c.now()
	c.loaded = true
	c.mu.Unlock()
	return append([]apiclient.Address(nil), addresses...), nil
}

func (c *AddressCache) Owns(ctx context.Context, id int64) (bool, error) {
	addresses, err := c.List(ctx)
	if err != nil {
		return false, err
	}
	for _, a := range addresses {
		if a.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// Default returns the address flagged as default, or the first one.
func (c *AddressCache) Default(ctx context.Context) (*apiclient.Address, error) {
	addresses, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(addresses) == 0 {
		return nil, ErrNoAddresses
	}
	for i := range addresses {
		if addresses[i].IsDefault {
			return &addresses[i], nil
		}
	}
	return &addresses[0], nil
}

func (c *AddressCache) Invalidate() {
	c.mu.Lock()
	c.addresses = nil
	c.loaded = false
	c.mu.Unlock()
}
