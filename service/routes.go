package service

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewServer builds the shared echo instance with the middleware and
// operability endpoints both services carry.
func NewServer() *echo.Echo {
	server := echo.New()
	server.HideBanner = true

	server.Use(middleware.Recover())
	server.Use(middleware.RequestID())
	server.Use(middleware.BodyLimit("10M"))

	server.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	server.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return server
}

// RegisterIntakeRoutes mounts the batch upload and status endpoints.
func RegisterIntakeRoutes(server *echo.Echo, h *IntakeHandler) {
	server.POST("/api/process-csv", h.ProcessCSV)
	server.GET("/api/job-status/:id", h.JobStatus)
}

// RegisterPushRoutes mounts the broker push endpoint.
func RegisterPushRoutes(server *echo.Echo, h *PushHandler) {
	server.POST("/pubsub/push", h.Receive)
}
