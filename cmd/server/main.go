package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	webhookapp "github.com/van-william/carbon-sub017/internal/application/webhook"
	"github.com/van-william/carbon-sub017/internal/bootstrap"
	"github.com/van-william/carbon-sub017/internal/infrastructure/auth"
	"github.com/van-william/carbon-sub017/internal/infrastructure/cache"
	"github.com/van-william/carbon-sub017/internal/infrastructure/config"
	"github.com/van-william/carbon-sub017/internal/infrastructure/logger"
	"github.com/van-william/carbon-sub017/internal/infrastructure/telemetry"
	"github.com/van-william/carbon-sub017/internal/interfaces/http/handler"
	"github.com/van-william/carbon-sub017/internal/interfaces/http/middleware"
	"github.com/van-william/carbon-sub017/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Carbon API
//	@version		1.0
//	@description	Manufacturing ERP backend: parts, quotes, orders, purchasing and production jobs

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: "carbon-api",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Carbon API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	shipper, err := telemetry.NewLogShipper(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize log shipping", zap.Error(err))
	}
	log = shipper.Attach(log)
	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracer.EnableSpanProfiles()
	}

	c, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize services", zap.Error(err))
	}
	log.Info("Database connected successfully")

	replay, err := cache.NewReplayStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create webhook replay store", zap.Error(err))
	}

	engine := newEngine(cfg, c, webhookapp.NewService(cfg.Webhooks, replay, c.Dispatcher), log)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := replay.Close(); err != nil {
		log.Error("Error closing replay store", zap.Error(err))
	}
	if err := c.Close(); err != nil {
		log.Error("Error releasing resources", zap.Error(err))
	}
	if err := tracer.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer", zap.Error(err))
	}
	if err := shipper.Shutdown(shutdownCtx); err != nil {
		log.Error("Error flushing logs", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	log.Info("Server exited")
}

func newEngine(cfg *config.Config, c *bootstrap.Container, webhooks *webhookapp.Service, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Invalid trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log, "/health", "/ready", cfg.Metrics.Path))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	metricsConfig := middleware.DefaultHTTPMetricsConfig()
	metricsConfig.Enabled = cfg.Metrics.Enabled
	engine.Use(middleware.HTTPMetrics(metricsConfig))

	var validator *auth.Validator
	if cfg.JWT.Enabled {
		validator = auth.NewValidator(cfg.JWT)
	} else {
		log.Warn("JWT disabled, the company is taken from the X-Company-ID header")
	}
	authConfig := middleware.DefaultAuthConfig(validator)
	authConfig.Logger = log
	if cfg.Metrics.Path != "" {
		authConfig.SkipPaths = append(authConfig.SkipPaths, cfg.Metrics.Path)
	}
	engine.Use(middleware.Auth(authConfig))

	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)))
	}
	engine.Use(middleware.SpanAttributes())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.Profiling(cfg.Telemetry.ProfilingEnabled))

	checks := map[string]handler.CheckFunc{"database": c.Database.Ping}
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	system := handler.NewSystemHandler(cfg.App.Name, version, checks)
	system.Register(engine, metricsPath)
	engine.NoRoute(system.NoRoute)

	s := c.Services
	documents := handler.NewDocumentHandler(s.Documents)
	handlers := &handler.Handlers{
		Customers:      handler.NewCustomerHandler(s.Customers),
		Suppliers:      handler.NewSupplierHandler(s.Suppliers),
		Parts:          handler.NewPartHandler(s.Parts),
		Quotes:         handler.NewQuoteHandler(s.Quotes, s.Customers, documents),
		SalesOrders:    handler.NewSalesOrderHandler(s.SalesOrders, s.Customers, documents),
		PurchaseOrders: handler.NewPurchaseOrderHandler(s.PurchaseOrders, s.Suppliers, documents),
		Jobs:           handler.NewJobHandler(s.Jobs, documents),
		Sequences:      handler.NewSequenceHandler(s.Sequences),
		Webhooks:       handler.NewWebhookHandler(webhooks),
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	handlers.Register(r)
	r.Setup()

	return engine
}
