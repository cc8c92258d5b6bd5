// Package stubapi is a small storefront backend for local development and
// tests: auth, a server-side cart, addresses, variants and orders.
package stubapi

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/stubapi/events"
	"github.com/Skotchmaster/storefront/internal/stubapi/httpserver"
	"github.com/Skotchmaster/storefront/internal/stubapi/repo"
	"github.com/Skotchmaster/storefront/internal/stubapi/service"
	loggingmw "github.com/Skotchmaster/storefront/pkg/middleware/logging"
)

type Options struct {
	JWTSecret     []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	Events        events.Publisher
	Log           *slog.Logger
}

type Server struct {
	Echo *echo.Echo
	Auth *service.AuthService
}

func New(db *gorm.DB, opts Options) *Server {
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	if opts.Events == nil {
		opts.Events = events.LogPublisher{Log: opts.Log}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(middleware.Recover(), middleware.Secure())
	e.Use(loggingmw.RequestLogger(opts.Log))

	r := &repo.GormRepo{DB: db}
	auth := &service.AuthService{
		Repo:          r,
		JWTSecret:     opts.JWTSecret,
		RefreshSecret: opts.RefreshSecret,
		AccessTTL:     opts.AccessTTL,
	}

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: auth},
		CartHandler:    &httpserver.CartHTTP{Svc: &service.CartService{Repo: r, Events: opts.Events}},
		OrderHandler:   &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: r, Events: opts.Events}},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: r, Events: opts.Events}},
		JWTSecret:      opts.JWTSecret,
	})

	return &Server{Echo: e, Auth: auth}
}
