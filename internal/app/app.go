package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"whatsflow/internal/config"
	apierrors "whatsflow/internal/errors"
	"whatsflow/internal/demo"
	"whatsflow/internal/infrastructure"
	customMiddleware "whatsflow/internal/middleware"
	"whatsflow/internal/services"
	"whatsflow/internal/store"
	handlers "whatsflow/internal/transport/http"
	ws "whatsflow/internal/websocket"
)

// AppName is the product name used in logs.
const AppName = "WhatsFlow"

// sessionPurgeInterval is how often expired admin sessions are dropped.
const sessionPurgeInterval = 10 * time.Minute

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Store         *store.Store
	Hub           *ws.Hub
	Logger        *slog.Logger
	Services      *ServiceContainer
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	ErrorHandler  *apierrors.ErrorHandler
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Submissions *services.SubmissionService
	Tables      *services.TableService
	Exports     *services.ExportService
	Pricing     *services.PricingService
	Auth        *services.AuthService
	Health      *services.HealthService
}

// New wires the application from cfg. The database is opened and migrated
// and the default pricing plans are seeded into an empty database.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.InfoContext(ctx, "Application starting",
		slog.String("name", AppName),
		slog.String("version", infrastructure.ServiceVersion))

	paths, err := cfg.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	db, err := store.Open(ctx, paths.DatabaseFile, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if _, err := db.SeedDefaultPlans(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed pricing plans: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Paths:         paths,
		Store:         db,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  handlers.RegisterErrors(apierrors.NewErrorHandler(logger, false)),
	}

	a.initializeServices()
	a.setupRouter()
	a.createServer()

	return a, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() {
	a.Hub = ws.NewHub(a.Metrics, a.Logger)

	notifier := services.NewNotifier(a.Config.Mail, a.Logger)
	submissions := services.NewSubmissionService(a.Store, notifier, a.Metrics, a.Logger)
	tables := services.NewTableService(a.Store, a.Metrics, a.Logger)
	submissions.OnChange(tables.RefreshQuietly)

	a.Services = &ServiceContainer{
		Submissions: submissions,
		Tables:      tables,
		Exports:     services.NewExportService(a.Store, a.Metrics, a.Paths.ExportsDir, a.Logger),
		Pricing:     services.NewPricingService(a.Store, a.Logger),
		Auth:        services.NewAuthService(a.Store, a.Config.Admin.SessionTTL, a.Metrics, a.Logger),
		Health:      services.NewHealthService(infrastructure.ServiceVersion, a.Store, a.Hub, a.Logger),
	}
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	// The demo stream hijacks the connection, so it stays clear of the
	// response-wrapping middleware below.
	if a.Config.Demo.Enabled {
		player := demo.NewPlayer(a.Logger, demo.WithTypingDuration(a.Config.Demo.TypingDuration))
		demoHandler := ws.NewDemoHandler(a.Hub, player, demo.DefaultScript(), a.Config.Security.AllowedOrigins, a.Logger)
		r.With(
			customMiddleware.WebSocketTraceMiddleware(a.Logger),
			customMiddleware.StructuredLogger(a.Logger),
			customMiddleware.Recoverer(a.Logger),
		).Handle("/ws/demo", demoHandler)
	}

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
		r.Use(apierrors.NewErrorMiddleware(a.ErrorHandler, a.Logger).Handler)
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.CORS(a.getCORSConfig()))

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	health := handlers.NewHealthHandler(a.Services.Health, a.Logger)
	public := handlers.NewPublicHandler(a.Services.Submissions, a.Services.Pricing, a.Logger, a.ErrorHandler)
	auth := handlers.NewAuthHandler(a.Services.Auth, handlers.CookieSettings{
		Name:   a.Config.Admin.CookieName,
		Secure: a.Config.Admin.SecureCookie,
	}, a.Logger, a.ErrorHandler)
	admin := handlers.NewAdminHandler(a.Services.Submissions, a.Services.Exports, a.Services.Pricing, a.Logger, a.ErrorHandler)
	tables := handlers.NewTableHandler(a.Services.Tables, a.Metrics, a.Logger, a.ErrorHandler)
	clientLog := handlers.NewClientLogHandler(a.Logger, a.ErrorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.ReadTimeout, a.Logger))
		r.Use(customMiddleware.MaxBodySize(a.Config.Server.MaxBodyBytes))
		r.Use(customMiddleware.ContentTypeValidator(
			"application/json",
			"application/x-www-form-urlencoded",
			"multipart/form-data",
			"text/html",
		))

		r.Get("/health", health.HealthCheck)
		r.Get("/health/ready", health.ReadinessCheck)
		r.Get("/version", health.Version)
		r.Post("/client-log", clientLog.Handle)

		public.Routes(r)
		r.Route("/table", tables.ToolRoutes)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", auth.Login)
			r.Post("/logout", auth.Logout)

			r.Group(func(r chi.Router) {
				r.Use(customMiddleware.RequireAdmin(a.Logger, a.Services.Auth, a.Config.Admin.CookieName))

				admin.Routes(r)
				tables.AdminRoutes(r)
				r.Post("/settings/email", auth.ChangeEmail)
				r.Post("/settings/password", auth.ChangePassword)
			})
		})
	})
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	cfg := customMiddleware.CORSConfig{
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
		Logger:           a.Logger,
	}
	if a.Config.Security.EnableCORS {
		cfg.AllowedOrigins = a.Config.Security.AllowedOrigins
	} else {
		cfg.AllowedOrigins = []string{fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)}
	}
	return cfg
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run serves until ctx is cancelled or the server fails, then shuts down.
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "HTTP server listening", slog.String("address", ln.Addr().String()))
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(sessionPurgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := a.Services.Auth.PurgeExpired(); n > 0 {
					a.Logger.DebugContext(gctx, "Purged expired sessions", slog.Int("count", n))
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.WithoutCancel(ctx))
	})

	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	// Hijacked demo connections are not tracked by the server.
	a.Hub.Shutdown(shutdownCtx)

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	if err := a.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("database close error: %w", err))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}
