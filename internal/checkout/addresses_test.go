package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/pkg/apiclient"
)

type countingLister struct {
	addresses []apiclient.Address
	err       error
	calls     int
}

func (l *countingLister) ListAddresses(context.Context) ([]apiclient.Address, error) {
	l.calls++
	return l.addresses, l.err
}

func TestAddressCache_TTL(t *testing.T) {
	lister := &countingLister{addresses: []apiclient.Address{{ID: 3}, {ID: 4, IsDefault: true}}}
	c := NewAddressCache(lister, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	owned, err := c.Owns(ctx, 3)
	require.NoError(t, err)
	assert.True(t, owned)

	owned, err = c.Owns(ctx, 5)
	require.NoError(t, err)
	assert.False(t, owned)
	assert.Equal(t, 1, lister.calls)

	now = now.Add(2 * time.Minute)
	_, err = c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, lister.calls)

	c.Invalidate()
	_, err = c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, lister.calls)
}

func TestAddressCache_Default(t *testing.T) {
	ctx := context.Background()

	c := NewAddressCache(&countingLister{addresses: []apiclient.Address{{ID: 3}, {ID: 4, IsDefault: true}}}, time.Minute)
	def, err := c.Default(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), def.ID)

	c = NewAddressCache(&countingLister{addresses: []apiclient.Address{{ID: 8}}}, time.Minute)
	def, err = c.Default(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(8), def.ID)

	c = NewAddressCache(&countingLister{}, time.Minute)
	_, err = c.Default(ctx)
	assert.ErrorIs(t, err, ErrNoAddresses)
}

func TestAddressCache_ErrorNotCached(t *testing.T) {
	lister := &countingLister{err: errors.New("offline")}
	c := NewAddressCache(lister, time.Minute)

	_, err := c.List(context.Background())
	require.Error(t, err)

	lister.err = nil
	lister.addresses = []apiclient.Address{{ID: 1}}
	got, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
