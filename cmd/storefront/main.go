// Command storefront is a terminal shopping client: it logs in, edits the
// server cart and places orders against the storefront API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Skotchmaster/storefront/pkg/config"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

func main() {
	cfg := config.Load()
	config.MustURL(cfg.APIURL, "STOREFRONT_API_URL")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.NewWriter(os.Stderr, cfg.LogLevel).With("service", cfg.ServiceName)
	if err := run(ctx, cfg, logger, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "storefront:", err)
		os.Exit(1)
	}
}
