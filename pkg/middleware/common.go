package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"

	loggingmw "github.com/Skotchmaster/order_shop/pkg/middleware/logging"
)

// MaxBodySize caps request bodies; order payloads are a few hundred bytes.
const MaxBodySize = "64K"

// Common is the middleware stack shared by every route. Recover sits inside
// the request logger so recovered panics are still logged as 500s.
func Common(logger *slog.Logger) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		ecM.RequestID(),
		loggingmw.RequestLogger(logger),
		ecM.Recover(),
		ecM.Secure(),
		ecM.BodyLimit(MaxBodySize),
	}
}
