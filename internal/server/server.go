package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mohammad-safakhou/contentagent/config"
	"github.com/mohammad-safakhou/contentagent/internal/agent"
	"github.com/mohammad-safakhou/contentagent/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run builds the pipeline from configuration and serves it until the
// listener fails.
func Run(cfg *config.Config) error {
	if err := cfg.Sources.Validate(); err != nil {
		return err
	}

	tele := telemetry.New(cfg.Telemetry)
	orch, err := agent.NewOrchestrator(cfg, tele)
	if err != nil {
		return err
	}

	e := NewEcho(cfg, orch)
	return e.Start(cfg.Server.Address)
}

// NewEcho wires routes and middleware around a content agent.
func NewEcho(cfg *config.Config, ca ContentAgent) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	if cfg.Telemetry.Enabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	gh := &GenerateHandler{Agent: ca}
	gh.Register(e.Group("/api"))

	return e
}
