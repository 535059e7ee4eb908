package web

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"openguard.tv/ingest/cmd/web/handlers/api/video_api"
	"openguard.tv/ingest/internal/config"
	"openguard.tv/ingest/internal/ingest"
)

type Webserver struct {
	*echo.Echo
	cfg *config.Config
	svc *ingest.Service
}

// NewWebserver wires the ingestion API. svc may be nil when required
// configuration is missing; the handler's env guard answers before any
// dependency is touched.
func NewWebserver(cfg *config.Config, svc *ingest.Service) (*Webserver, error) {
	e := echo.New()

	webserver := &Webserver{
		Echo: e,
		cfg:  cfg,
		svc:  svc,
	}

	webserver.registerRoutes()
	webserver.setupMiddleware()

	return webserver, nil
}

func (s *Webserver) setupMiddleware() {
	s.HideBanner = true
	s.HidePort = true
	s.Use(middleware.BodyLimit("1M"))
	s.Use(middleware.Recover())
	s.Use(middleware.RequestID())
	s.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"*"},
	}))
	s.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  false,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				fields = append(fields, "error", v.Error)
			}
			slog.Info("request", fields...)
			return nil
		},
	}))
}

func (s *Webserver) registerRoutes() {
	s.POST("/api/upload-to-mux", video_api.HandleUploadToMux(s.cfg, s.svc))
	s.OPTIONS("/api/upload-to-mux", func(c echo.Context) error {
		return c.NoContent(200)
	})

	// Health check
	s.GET("/healthz", func(c echo.Context) error {
		return c.String(200, "ok")
	})
}
