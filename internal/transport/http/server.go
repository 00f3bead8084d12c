// Package http provides the HTTP server for the intake service.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/metrics"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/service"
	v1 "github.com/GeorgeJbara/prod-comp-assistant/internal/transport/http/v1"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/transport/ws"
)

// NewExternalServer creates and configures the customer-facing HTTP server.
// The chat socket is mounted at /ws when chat is non-nil.
func NewExternalServer(svc *service.Service, chat *ws.Server, m *metrics.Metrics, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(requestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	v1.NewHandler(svc).RegisterRoutes(e)

	if chat != nil {
		e.GET("/ws", chat.HandleWebSocket)
	}
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
