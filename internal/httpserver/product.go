package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/order_shop/internal/models"
	"github.com/Skotchmaster/order_shop/internal/service"
	"github.com/Skotchmaster/order_shop/internal/transport"
	"github.com/Skotchmaster/order_shop/internal/util"
	"github.com/Skotchmaster/order_shop/pkg/logging"
	"github.com/labstack/echo/v4"
)

type ProductHTTP struct {
	Svc *service.CatalogService
}

func (h *ProductHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list_products")

	products, err := h.Svc.ListProducts(ctx)
	if err != nil {
		return respondError(c, l, "list_products", err)
	}

	l.Debug("list_products_success", "count", len(products))
	return c.JSON(http.StatusOK, transport.ProductsResponse{Products: products})
}

func (h *ProductHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search_products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	total, items, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return respondError(c, l, "search_products", err)
	}

	offset, limit := util.Calculate(page, size)
	if items == nil {
		items = []models.Product{}
	}

	l.Info("search_products_success", "total", total)
	return c.JSON(http.StatusOK, transport.SearchResponse{
		Total:    total,
		Page:     offset/limit + 1,
		Size:     limit,
		Products: items,
	})
}
