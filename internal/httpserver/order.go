package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/Skotchmaster/order_shop/internal/service"
	"github.com/Skotchmaster/order_shop/internal/transport"
	"github.com/Skotchmaster/order_shop/pkg/logging"
	"github.com/labstack/echo/v4"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

var errInvalidID = errors.New("order id is not an integer")

func orderID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}

// decodeBody decodes a JSON object body into dst with numbers kept as
// json.Number, and returns the object's top-level keys. Keys dst does not
// know are ignored; trailing data after the object is rejected.
func decodeBody(c echo.Context, dst any) ([]string, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("%w: request body must be a JSON object", service.ErrMissingFields)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return nil, fmt.Errorf("%w: malformed request body: %v", service.ErrMissingFields, err)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	return keys, nil
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	var req transport.CreateOrderRequest
	keys, err := decodeBody(c, &req)
	if err != nil {
		return respondError(c, l, "create_order", err)
	}
	if len(keys) != 1 || keys[0] != "product" {
		l.Warn("create_order_error", "status", http.StatusUnprocessableEntity, "reason", "body must hold exactly one product", "keys", keys)
		return writeError(c, http.StatusUnprocessableEntity, scopeOrder, "missing-fields", "An order must contain exactly one product")
	}

	order, err := h.Svc.CreateOrder(ctx, req)
	if err != nil {
		return respondError(c, l, "create_order", err)
	}

	l.Info("create_order_success", "order_id", order.ID)
	return c.Redirect(http.StatusFound, fmt.Sprintf("/order/%d", order.ID))
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	id, err := orderID(c)
	if err != nil {
		l.Warn("get_order_error", "status", http.StatusNotFound, "reason", "invalid id", "id", c.Param("id"))
		return writeError(c, http.StatusNotFound, scopeOrder, "not-found", msgOrderNotFound)
	}

	order, err := h.Svc.GetOrder(ctx, id)
	if err != nil {
		return respondError(c, l, "get_order", err)
	}

	return c.JSON(http.StatusOK, transport.OrderResponse{Order: transport.NewOrderView(order)})
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	orders, err := h.Svc.ListOrders(ctx)
	if err != nil {
		return respondError(c, l, "list_orders", err)
	}

	return c.JSON(http.StatusOK, transport.NewOrdersResponse(orders))
}

func (h *OrderHTTP) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_order")

	id, err := orderID(c)
	if err != nil {
		l.Warn("update_order_error", "status", http.StatusNotFound, "reason", "invalid id", "id", c.Param("id"))
		return writeError(c, http.StatusNotFound, scopeOrder, "not-found", msgOrderNotFound)
	}

	// An unknown order is a 404 whatever the body holds.
	if _, err := h.Svc.GetOrder(ctx, id); err != nil {
		return respondError(c, l, "update_order", err)
	}

	var req transport.UpdateOrderRequest
	if _, err := decodeBody(c, &req); err != nil {
		return respondError(c, l, "update_order", err)
	}

	order, err := h.Svc.UpdateOrder(ctx, id, req)
	if err != nil {
		return respondError(c, l, "update_order", err)
	}

	l.Info("update_order_success", "order_id", order.ID, "stage", order.Stage())
	return c.JSON(http.StatusOK, transport.OrderResponse{Order: transport.NewOrderView(order)})
}
