package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/stubapi/service"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetVariant(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.variant")

	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	v, err := h.Svc.GetVariant(ctx, id)
	if err != nil {
		return fail(l, "get_variant_error", err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *CatalogHTTP) SetStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "set.variant.stock")

	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Stock  int  `json:"stock"`
		Active bool `json:"active"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("set_stock_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	v, err := h.Svc.SetStock(ctx, id, req.Stock, req.Active)
	if err != nil {
		return fail(l, "set_stock_error", err)
	}
	l.Info("variant stock changed", "variant_id", id, "stock", req.Stock)
	return c.JSON(http.StatusOK, v)
}
