package storefront

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/pkg/apiclient"
	"github.com/Skotchmaster/storefront/pkg/config"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

func slowServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNew_InjectedHTTPClientKeepsRequestTimeout(t *testing.T) {
	srv := slowServer(t)
	hc := &http.Client{}
	cfg := config.Config{APIURL: srv.URL + "/api", RequestTimeout: 50 * time.Millisecond}

	app, err := New(cfg, logging.Discard(), Options{
		HTTPClientOptions: []apiclient.Option{apiclient.WithHTTPClient(hc)},
	})
	require.NoError(t, err)

	start := time.Now()
	_, err = app.API.GetCart(context.Background())
	require.Error(t, err)

	var ne net.Error
	require.ErrorAs(t, err, &ne)
	assert.True(t, ne.Timeout())
	assert.Less(t, time.Since(start), time.Second)
	assert.Zero(t, hc.Timeout, "caller's client must not be mutated")
}

func TestNew_RejectsRelativeAPIURL(t *testing.T) {
	_, err := New(config.Config{APIURL: "localhost/api"}, logging.Discard(), Options{})
	assert.Error(t, err)
}
