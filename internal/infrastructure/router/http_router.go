package router

import (
	"net/http"

	"flightwatch-service/internal/interface/webhook"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the echo instance serving the webhook ingestion path, the
// presentation query interface and the operational endpoints.
func NewRouter(handler *webhook.Handler, webhookPath string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.POST(webhookPath, handler.HandleFlightEvent)
	e.GET("/flights", handler.HandleReconciledState)
	e.GET("/flights/:ident/events", handler.HandleEventHistory)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
