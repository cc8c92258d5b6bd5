package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/stubapi/service"
	"github.com/Skotchmaster/storefront/internal/stubapi/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.cart")

	id, err := userID(c)
	if err != nil {
		return err
	}

	cart, err := h.Svc.GetCart(ctx, id)
	if err != nil {
		return fail(l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.cart")

	id, err := userID(c)
	if err != nil {
		return err
	}

	var req transport.AddItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cart, err := h.Svc.AddToCart(ctx, id, req.VariantID, req.Quantity)
	if err != nil {
		return fail(l, "add_to_cart_error", err)
	}

	l.Info("item added successfully to cart", "variant_id", req.VariantID)
	return c.JSON(http.StatusCreated, cart)
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update.cart.item")

	id, err := userID(c)
	if err != nil {
		return err
	}
	itemID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req transport.UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_cart_item_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cart, err := h.Svc.UpdateCartItem(ctx, id, itemID, req.Quantity)
	if err != nil {
		return fail(l, "update_cart_item_error", err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete.cart.item")

	id, err := userID(c)
	if err != nil {
		return err
	}
	itemID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.Svc.RemoveCartItem(ctx, id, itemID); err != nil {
		return fail(l, "delete_cart_item_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "clear.cart")

	id, err := userID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.ClearCart(ctx, id); err != nil {
		return fail(l, "clear_cart_error", err)
	}

	l.Info("cart successfully cleared")
	return c.NoContent(http.StatusNoContent)
}
