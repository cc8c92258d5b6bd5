package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CartHandler    *CartHTTP
	OrderHandler   *OrderHTTP
	CatalogHandler *CatalogHTTP
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := middleware.NewBearerAuth(d.JWTSecret)

	auth := e.Group("/auth")
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.LogOut, authMW.RequireAuth)

	cart := e.Group("/cart")
	cart.Use(authMW.RequireAuth)
	cart.GET("", d.CartHandler.GetCart)
	cart.DELETE("", d.CartHandler.ClearCart)
	cart.POST("/items", d.CartHandler.AddToCart)
	cart.PATCH("/items/:id", d.CartHandler.UpdateItem)
	cart.DELETE("/items/:id", d.CartHandler.DeleteItem)

	e.POST("/orders", d.OrderHandler.CreateOrder, authMW.RequireAuth)
	e.GET("/orders", d.OrderHandler.ListOrders, authMW.RequireAuth)
	e.GET("/addresses", d.OrderHandler.ListAddresses, authMW.RequireAuth)

	e.GET("/variants/:id", d.CatalogHandler.GetVariant)
	e.PATCH("/variants/:id/stock", d.CatalogHandler.SetStock, authMW.RequireAdmin)
}
