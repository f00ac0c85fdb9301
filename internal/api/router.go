package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/essentialtimes/newsroom/docs"
	"github.com/essentialtimes/newsroom/internal/api/handler"
	"github.com/essentialtimes/newsroom/internal/api/middleware"
	"github.com/essentialtimes/newsroom/internal/core/domain"
	"github.com/essentialtimes/newsroom/internal/core/ports"
	"github.com/essentialtimes/newsroom/internal/infrastructure/http/handlers"
)

// multipartOverhead is added on top of the image limit for the text fields.
const multipartOverhead = 1 << 20

// Deps groups everything the router wires into handlers.
type Deps struct {
	Auth       ports.AuthService
	Articles   ports.ArticleService
	Categories ports.CategoryService
	Health     *handlers.HealthHandler
	Readiness  *handlers.HealthDependenciesHandler

	// UploadDir is served under /uploads.
	UploadDir string
	// ClientDir holds the single-page client; empty disables it.
	ClientDir      string
	MaxUploadBytes int64
	Log            zerolog.Logger
	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.BodyLimit(bodyLimit(d.MaxUploadBytes)))
	if d.Registry != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "newsroom",
			Registerer: d.Registry,
		}))
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Registry}))
	} else {
		e.Use(echoprometheus.NewMiddleware("newsroom"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Operational endpoints ---
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authHandler := handler.NewAuthHandler(d.Auth)
	articleHandler := handler.NewArticleHandler(d.Articles)
	categoryHandler := handler.NewCategoryHandler(d.Categories)

	requireAuth := middleware.Auth(d.Auth)
	writers := middleware.RBAC(domain.RoleReporter, domain.RoleAdmin)
	admins := middleware.RBAC(domain.RoleAdmin)

	api := e.Group("/api")

	// --- Health checks (no auth required) ---
	api.GET("/health", d.Health.Liveness)            // liveness  – is the process alive?
	api.GET("/health/ready", d.Readiness.Readiness) // readiness – are dependencies up?

	// --- Auth ---
	api.POST("/login", authHandler.Login)
	api.POST("/register", authHandler.Register)

	// --- Public reads ---
	api.GET("/categories", categoryHandler.List)
	api.GET("/categories/:slug/articles", articleHandler.ListByCategory)
	api.GET("/articles", articleHandler.List)
	api.GET("/articles/:id", articleHandler.Get)

	// --- Authenticated article routes ---
	// Creating an article needs the reporter or admin role; a plain user gets
	// 403 even though reads and edits of one's own articles only need a token.
	api.POST("/articles", articleHandler.Create, requireAuth, writers)
	api.PUT("/articles/:id", articleHandler.Update, requireAuth)
	api.DELETE("/articles/:id", articleHandler.Delete, requireAuth)
	api.GET("/my-articles", articleHandler.ListMine, requireAuth)

	// --- Admin ---
	admin := api.Group("/admin", requireAuth, admins)
	admin.GET("/articles", articleHandler.ListAll)
	admin.GET("/categories", categoryHandler.List)
	admin.POST("/categories", categoryHandler.Create)
	admin.PUT("/categories/:id", categoryHandler.Update)
	admin.DELETE("/categories/:id", categoryHandler.Delete)

	// --- Static assets ---
	if d.UploadDir != "" {
		e.Static("/uploads", d.UploadDir)
	}
	if d.ClientDir != "" {
		e.Use(echomiddleware.StaticWithConfig(echomiddleware.StaticConfig{
			Root:    d.ClientDir,
			Index:   "index.html",
			HTML5:   true,
			Skipper: skipNonClient,
		}))
	}

	return e
}

// skipNonClient keeps the client fallback away from API and asset routes.
func skipNonClient(c echo.Context) bool {
	p := c.Request().URL.Path
	for _, prefix := range []string{"/api", "/uploads", "/metrics", "/swagger"} {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return c.Request().Method != http.MethodGet && c.Request().Method != http.MethodHead
}

func bodyLimit(maxUpload int64) string {
	if maxUpload <= 0 {
		maxUpload = 5 << 20
	}
	return fmt.Sprintf("%dK", (maxUpload+multipartOverhead)/1024)
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				evt = log.Error().Err(v.Error)
			case v.Error != nil:
				evt = log.Warn().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
