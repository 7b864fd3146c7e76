// Package router builds the Echo instance and registers every route.
package router

import (
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/autopro/internal/config"
	"github.com/iliyamo/autopro/internal/handler"
	"github.com/iliyamo/autopro/internal/metrics"
	"github.com/iliyamo/autopro/internal/middleware"
	"github.com/iliyamo/autopro/internal/repository"
	"github.com/iliyamo/autopro/internal/service"
)

// Deps is everything the HTTP surface needs.  Redis and Publisher may be
// nil: caching and rate limiting then pass through and events are dropped.
type Deps struct {
	Cfg       config.Config
	Stores    repository.Stores
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Publisher service.AppointmentPublisher
}

// New returns a configured Echo with all routes registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(!d.Cfg.IsProduction())

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOriginFunc:  func(string) (bool, error) { return true, nil },
		AllowCredentials: true,
	}))
	e.Use(middleware.Metrics())
	e.Use(middleware.RequestLogger())

	RegisterRoutes(e)
	RegisterUsers(e, handler.NewUserHandler(d.Cfg, d.Stores.Users), d)
	RegisterProducts(e, handler.NewProductHandler(d.Cfg, d.Stores.Products), d)
	RegisterAppointments(e, handler.NewAppointmentHandler(d.Cfg, d.Stores.Appointments, d.Publisher), d)
	return e
}

// RegisterRoutes registers the unauthenticated service endpoints.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/", handler.Root)
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}

// session is the Session middleware bound to d.
func session(d Deps) echo.MiddlewareFunc {
	return middleware.Session(d.Cfg.JWTSecret, d.Stores.Users, d.Cfg.StoreTimeout)
}
