package server

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nguyentranbao-ct/price-tracker/internal/config"
	pkgmdw "github.com/nguyentranbao-ct/price-tracker/internal/server/middleware"
	"github.com/nguyentranbao-ct/price-tracker/pkg/logger"
	log "github.com/nguyentranbao-ct/price-tracker/pkg/logger/log"
	"go.uber.org/fx"
)

// NewEcho builds the HTTP API with its middleware chain and routes.
func NewEcho(conf *config.Config, handler Controller) *echo.Echo {
	httpLog := logger.MustNamed("http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = pkgmdw.NewValidator()
	e.HTTPErrorHandler = pkgmdw.ErrorHandler(httpLog)

	e.Use(pkgmdw.Metrics())
	e.Use(pkgmdw.RequestID())
	e.Use(pkgmdw.CORS(pkgmdw.CORSConfig{
		Origins: regexp.MustCompile(conf.Server.CORSOriginPattern),
		Methods: conf.Server.CORSAllowMethods,
	}))
	e.Use(pkgmdw.LogRequest(pkgmdw.LogRequestConfig{
		Logger: httpLog,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/health" || path == pkgmdw.MetricsPath
		},
		// product listings are large; only log bodies of mutating calls
		Bodies: func(c echo.Context) bool {
			return c.Request().Method != http.MethodGet
		},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Errorw(c.Request().Context(), "PANIC RECOVER", "error", err, "stack", string(stack))
			return err
		},
	}))

	e.GET("/health", handler.Health)

	api := e.Group("/api/v1")
	api.GET("/products", pkgmdw.WrapHandler(handler.ListProducts))
	api.GET("/products/search", pkgmdw.WrapHandler(handler.SearchProducts))
	api.GET("/products/category/:category", pkgmdw.WrapHandler(handler.ProductsByCategory))
	api.GET("/products/available", pkgmdw.WrapHandler(handler.AvailableProducts))
	api.GET("/categories", pkgmdw.WrapHandler(handler.Categories))
	api.GET("/status", pkgmdw.WrapHandler(handler.Status))
	api.POST("/refresh", pkgmdw.WrapHandler(handler.Refresh))
	api.GET("/changes", pkgmdw.WrapHandler(handler.Changes))
	api.POST("/changes/clear", pkgmdw.WrapHandler(handler.ClearChanges))
	api.GET("/changes/archive", pkgmdw.WrapHandler(handler.ArchivedChanges))
	api.GET("/analysis", pkgmdw.WrapHandler(handler.Analysis))

	return e
}

func StartServer(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	e *echo.Echo,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			addr := conf.Server.Addr()
			go func() {
				log.Infow(context.Background(), "starting HTTP server", "addr", addr)
				if err := e.Start(addr); !errors.Is(err, http.ErrServerClosed) {
					log.Errorw(context.Background(), "HTTP server stopped", "error", err)
					_ = sd.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}
