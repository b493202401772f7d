package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	blogapp "github.com/shopfront/backend/internal/application/blog"
	cartapp "github.com/shopfront/backend/internal/application/cart"
	catalogapp "github.com/shopfront/backend/internal/application/catalog"
	identityapp "github.com/shopfront/backend/internal/application/identity"
	inventoryapp "github.com/shopfront/backend/internal/application/inventory"
	orderapp "github.com/shopfront/backend/internal/application/order"
	promotionapp "github.com/shopfront/backend/internal/application/promotion"
	"github.com/shopfront/backend/internal/domain/promotion"
	"github.com/shopfront/backend/internal/infrastructure/auth"
	"github.com/shopfront/backend/internal/infrastructure/cache"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/shopfront/backend/internal/infrastructure/event"
	"github.com/shopfront/backend/internal/infrastructure/i18n"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"github.com/shopfront/backend/internal/infrastructure/messaging"
	"github.com/shopfront/backend/internal/infrastructure/persistence"
	"github.com/shopfront/backend/internal/infrastructure/storage"
	"github.com/shopfront/backend/internal/infrastructure/telemetry"
	"github.com/shopfront/backend/internal/interfaces/http/handler"
	"github.com/shopfront/backend/internal/interfaces/http/middleware"
	"github.com/shopfront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is stamped at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Shopfront API
//	@version		1.0
//	@description	Online shop backend: catalog, cart, orders, inventory, promotions and blog.

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

	ctx := context.Background()

	// The OTLP log pipeline has to exist before the logger so zap can tee into it.
	bootLog, err := logger.New(logger.FromLogConfig(cfg.Log))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsFromConfig(cfg.Telemetry), bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log export", zap.Error(err))
	}

	log, err := logger.New(logger.FromLogConfig(cfg.Log), logProvider.ZapCore(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting shop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.FromConfig(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsFromConfig(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer shutdownTelemetry(log, meterProvider, tracerProvider, logProvider)

	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", db.Driver))

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
		log.Info("Database schema migrated")
	}

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBSystem:        dbSystem(db.Driver),
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}

	meter := meterProvider.Meter("shop-backend")
	if sqlDB, err := db.DB.DB(); err == nil {
		if err := telemetry.RegisterDBPoolMetrics(meter, sqlDB); err != nil {
			log.Warn("Failed to register database pool metrics", zap.Error(err))
		}
	}

	var businessMetrics *telemetry.BusinessMetrics
	if meterProvider.IsEnabled() {
		businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:             meter,
			Logger:            log,
			InventoryProvider: telemetry.NewGormInventoryMetricsProvider(db.DB),
		})
		if err != nil {
			log.Warn("Failed to create business metrics", zap.Error(err))
		}
	}

	// Redis backs token revocation and idempotency keys when enabled
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("Redis unreachable, falling back to in-memory stores",
				zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
		} else {
			defer func() {
				_ = redisClient.Close()
			}()
		}
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	mediaRepo := persistence.NewGormProductMediaRepository(db.DB)
	inventoryRepo := persistence.NewGormInventoryRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	promotionRepo := persistence.NewGormPromotionRepository(db.DB)
	postRepo := persistence.NewGormPostRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Application services
	ledgerService := inventoryapp.NewLedgerService(inventoryRepo, txScope)
	ledgerService.SetEventPublisher(eventBus)
	ledgerService.SetBusinessMetrics(businessMetrics)

	productCreatedHandler := inventoryapp.NewProductCreatedHandler(ledgerService, log)
	eventBus.Subscribe(productCreatedHandler)

	if cfg.Events.KafkaEnabled {
		serializer := event.NewEventSerializer()
		event.RegisterAllEvents(serializer)
		forwarder := messaging.NewKafkaForwarder(messaging.NewKafkaWriter(messaging.KafkaConfig{
			Brokers:      cfg.Events.KafkaBrokers,
			Topic:        cfg.Events.KafkaTopic,
			WriteTimeout: cfg.Events.WriteTimeout,
		}), serializer, log)
		eventBus.Subscribe(forwarder)
		defer func() {
			if err := forwarder.Close(); err != nil {
				log.Error("Error closing Kafka writer", zap.Error(err))
			}
		}()
		log.Info("Forwarding domain events to Kafka",
			zap.Strings("brokers", cfg.Events.KafkaBrokers),
			zap.String("topic", cfg.Events.KafkaTopic))
	}

	log.Info("Event handlers registered",
		zap.Strings("product_created_events", productCreatedHandler.EventTypes()))

	categoryService := catalogapp.NewCategoryService(categoryRepo)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, mediaRepo, ledgerService)
	productService.SetEventPublisher(eventBus)
	if cfg.Storage.Enabled {
		imageStorage, err := storage.NewS3ImageStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to configure image storage", zap.Error(err))
		}
		bucketCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := imageStorage.EnsureBucket(bucketCtx); err != nil {
			log.Warn("Image bucket check failed, uploads may fail", zap.Error(err))
		}
		cancel()
		productService.SetImageStorage(imageStorage, cfg.Storage.MaxImageSize)
		log.Info("Image uploads enabled", zap.String("bucket", imageStorage.Bucket()))
	}

	cartService := cartapp.NewCartService(cartRepo, productRepo, ledgerService)

	orderService := orderapp.NewOrderService(txScope, orderRepo, productRepo, userRepo)
	if cfg.Promotions.ApplyAtCheckout {
		orderService.SetDiscountApplier(promotion.NewBestOfApplier(promotionRepo))
		log.Info("Promotions applied at checkout")
	}
	orderService.SetStockNotifier(ledgerService)
	orderService.SetEventPublisher(eventBus)
	orderService.SetBusinessMetrics(businessMetrics)
	if cfg.Idempotency.Enabled {
		factoryOpts := []cache.IdempotencyStoreFactoryOption{cache.WithLogger(log)}
		if redisClient != nil {
			factoryOpts = append(factoryOpts, cache.WithRedisClient(redisClient))
		}
		store, err := cache.NewIdempotencyStoreFactory(cfg.Redis, factoryOpts...).CreateStore(ctx)
		if err != nil {
			log.Fatal("Failed to create idempotency store", zap.Error(err))
		}
		defer func() {
			_ = store.Close()
		}()
		orderService.SetIdempotencyStore(store, cfg.Idempotency.TTL)
	}

	promotionService := promotionapp.NewPromotionService(promotionRepo)
	blogService := blogapp.NewBlogService(postRepo)

	jwtService := auth.NewJWTService(cfg.JWT)
	tokenBlacklist := newTokenBlacklist(redisClient, log)
	authService := identityapp.NewAuthService(userRepo, jwtService, tokenBlacklist, log)
	authService.SetEventPublisher(eventBus)

	// HTTP
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetricsWithMeter(meter))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Locale(i18n.NewTranslator(), middleware.ParseLocale(cfg.App.DefaultLocale)))
	engine.Use(middleware.SecureWithConfig(middleware.DefaultSecurityConfig()))
	engine.Use(middleware.CORSWithConfig(middleware.CORSFromConfig(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		Logger:         log,
	}
	guards := router.Guards{
		Optional: middleware.OptionalJWTAuthMiddleware(jwtConfig),
		Required: middleware.JWTAuthMiddlewareWithConfig(jwtConfig),
		Staff:    middleware.RequireStaff(),
	}
	if cfg.HTTP.AuthRateLimit > 0 {
		guards.AuthLimit = middleware.RateLimit(middleware.NewRateLimiter(cfg.HTTP.AuthRateLimit, time.Minute))
	}

	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Category:  handler.NewCategoryHandler(categoryService),
		Product:   handler.NewProductHandler(productService),
		Cart:      handler.NewCartHandler(cartService),
		Order:     handler.NewOrderHandler(orderService),
		Inventory: handler.NewInventoryHandler(ledgerService),
		Promotion: handler.NewPromotionHandler(promotionService),
		Blog:      handler.NewBlogHandler(blogService),
		System:    handler.NewSystemHandler(cfg.App.Name, version, db),
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(router.ShopRoutes(handlers, guards)...).Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr), zap.String("base_path", r.BasePath()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// newTokenBlacklist keeps revocations in Redis when a client is available so
// that every instance sees them.
func newTokenBlacklist(client *redis.Client, log *zap.Logger) auth.TokenBlacklist {
	if client != nil {
		log.Info("Using Redis token blacklist")
		return auth.NewRedisTokenBlacklist(client)
	}
	log.Info("Using in-memory token blacklist")
	return auth.NewInMemoryTokenBlacklist()
}

func dbSystem(driver string) string {
	if driver == "sqlite" {
		return "sqlite"
	}
	return "postgresql"
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// shutdownTelemetry flushes providers in order. Logs go last so the
// shutdown of the others is still exported.
func shutdownTelemetry(log *zap.Logger, providers ...shutdowner) {
	ctx := context.Background()
	for _, p := range providers {
		if err := p.Shutdown(ctx); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}
}
