package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/stubapi/paging"
	"github.com/Skotchmaster/storefront/internal/stubapi/service"
	"github.com/Skotchmaster/storefront/internal/stubapi/transport"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create.order")

	id, err := userID(c)
	if err != nil {
		return err
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.CreateOrder(ctx, id, apiclient.CreateOrderRequest{
		ShippingAddressID: req.ShippingAddressID,
		CouponCode:        req.CouponCode,
		Notes:             req.Notes,
	})
	if err != nil {
		return fail(l, "create_order_error", err)
	}

	l.Info("order created", "order_number", order.OrderNumber, "total", order.Total)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "list.orders")

	id, err := userID(c)
	if err != nil {
		return err
	}
	offset, limit := paging.FromQuery(c.QueryParam("page"), c.QueryParam("size"))
	orders, err := h.Svc.ListOrders(ctx, id, offset, limit)
	if err != nil {
		return fail(l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) ListAddresses(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "list.addresses")

	id, err := userID(c)
	if err != nil {
		return err
	}
	addresses, err := h.Svc.ListAddresses(ctx, id)
	if err != nil {
		return fail(l, "list_addresses_error", err)
	}
	return c.JSON(http.StatusOK, addresses)
}
