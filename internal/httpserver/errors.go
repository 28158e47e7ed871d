package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Skotchmaster/order_shop/internal/service"
	"github.com/Skotchmaster/order_shop/internal/transport"
	"github.com/Skotchmaster/order_shop/pkg/logging"
	"github.com/Skotchmaster/order_shop/pkg/payclient"
	"github.com/labstack/echo/v4"
)

// Business errors (missing-fields, out-of-inventory, already-paid,
// not-found) are reported under "order" whatever the request was about.
const (
	scopeOrder  = "order"
	scopeServer = "server"

	msgNotFound      = "The requested resource could not be found"
	msgOrderNotFound = "Order not found"
	msgInternal      = "An internal error occurred"
)

func writeError(c echo.Context, status int, scope, code, name string) error {
	return c.JSON(status, transport.NewErrorResponse(scope, code, name))
}

// detail drops the leading sentinel text from a wrapped service error.
func detail(err error, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error())
	msg = strings.TrimPrefix(msg, ": ")
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}

// respondError maps a service error onto the HTTP error body.
func respondError(c echo.Context, l *slog.Logger, op string, err error) error {
	event := op + "_error"

	var payErr *payclient.Error
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		// Raised by middleware while reading the request (body limit).
		return err

	case errors.As(err, &payErr):
		l.Warn(event, "status", http.StatusUnprocessableEntity, "reason", "payment refused", "network", payErr.Network(), "error", err)
		return c.JSONBlob(http.StatusUnprocessableEntity, payErr.Body)

	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", http.StatusNotFound, "reason", "not found", "error", err)
		return writeError(c, http.StatusNotFound, scopeOrder, "not-found", msgOrderNotFound)

	case errors.Is(err, service.ErrMissingFields):
		l.Warn(event, "status", http.StatusUnprocessableEntity, "reason", "missing fields", "error", err)
		return writeError(c, http.StatusUnprocessableEntity, scopeOrder, "missing-fields", detail(err, service.ErrMissingFields))

	case errors.Is(err, service.ErrOutOfInventory):
		l.Warn(event, "status", http.StatusUnprocessableEntity, "reason", "out of inventory", "error", err)
		return writeError(c, http.StatusUnprocessableEntity, scopeOrder, "out-of-inventory", detail(err, service.ErrOutOfInventory))

	case errors.Is(err, service.ErrAlreadyPaid):
		l.Warn(event, "status", http.StatusUnprocessableEntity, "reason", "already paid", "error", err)
		return writeError(c, http.StatusUnprocessableEntity, scopeOrder, "already-paid", detail(err, service.ErrAlreadyPaid))

	default:
		l.Error(event, "status", http.StatusInternalServerError, "reason", "internal error", "error", err)
		return writeError(c, http.StatusInternalServerError, scopeServer, "internal-error", msgInternal)
	}
}

// HTTPErrorHandler renders errors that never reached a handler (unknown
// routes, wrong methods, panics caught by Recover) in the same body shape the
// handlers use.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
	}

	var werr error
	switch {
	case status == http.StatusNotFound:
		werr = writeError(c, status, scopeOrder, "not-found", msgNotFound)
	case status >= 500:
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "status", status, "error", err)
		werr = writeError(c, status, scopeServer, "internal-error", msgInternal)
	default:
		code := strings.ReplaceAll(strings.ToLower(http.StatusText(status)), " ", "-")
		werr = writeError(c, status, scopeOrder, code, http.StatusText(status))
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).Error("write_error_response", "error", werr)
	}
}
