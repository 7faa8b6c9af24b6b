package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"shopsphere/internal/config"
	"shopsphere/internal/handlers"
	"shopsphere/internal/logger"
	"shopsphere/internal/middleware"
	"shopsphere/internal/repositories"
	"shopsphere/internal/services"
	"shopsphere/pkg/rabbitmq"
	"shopsphere/pkg/storeapi"
)

// App is the wired storefront client: the Fiber app plus the resources it
// must release on shutdown.
type App struct {
	Fiber    *fiber.App
	Cart     *services.CartService
	Checkout *services.CheckoutService
	Auth     *services.AuthService

	closers []func() error
}

// NewApp builds repositories, services and handlers from cfg and restores
// the persisted cart.
func NewApp(cfg *config.Config, log *logrus.Logger) (*App, error) {
	app := &App{}

	// --- Cart persistence ---
	cartRepo, err := app.openCartRepository(cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	// --- Notifications ---
	feed := services.NewFeedNotifier(cfg.FeedSize)
	notifier := services.MultiNotifier{services.NewLogNotifier(log), feed}
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.NotifyQueue})
		if err != nil {
			// Notifications still reach the log and the feed.
			log.WithError(err).Warn("RabbitMQ unavailable, notifications will not be published")
		} else {
			app.closers = append(app.closers, mqClient.Close)
			notifier = append(notifier, services.NewAMQPNotifier(mqClient, log))
		}
	}

	// --- Backend client ---
	backend := storeapi.NewClient(storeapi.Config{
		BaseURL:     cfg.BackendURL,
		Timeout:     cfg.BackendTimeout,
		MaxFailures: cfg.BreakerMaxFailures,
		OpenTimeout: cfg.BreakerOpenTimeout,
	})

	// --- Services ---
	app.Auth = services.NewAuthService(cfg.JWTSecret, log)
	app.Cart = services.NewCartService(cartRepo, log)
	app.Cart.Restore(context.Background())
	app.Checkout = services.NewCheckoutService(app.Cart, app.Auth, backend, notifier, log)
	productService := services.NewProductService(backend, app.Cart, notifier, log)
	orderService := services.NewOrderService(backend, app.Auth)

	// --- Handlers ---
	cartHandler := handlers.NewCartHandler(app.Cart, productService, log)
	checkoutHandler := handlers.NewCheckoutHandler(app.Checkout)
	sessionHandler := handlers.NewSessionHandler(app.Auth, log)
	orderHandler := handlers.NewOrderHandler(orderService, log)
	notificationHandler := handlers.NewNotificationHandler(feed)

	app.Fiber = fiber.New(fiber.Config{DisableStartupMessage: true})

	// --- Middleware ---
	app.Fiber.Use(fiberlogger.New(fiberlogger.Config{Output: log.Writer()}))

	// --- API Routes ---
	apiV1 := app.Fiber.Group("/api/v1", middleware.BearerSession(app.Auth, log))
	sessionHandler.RegisterRoutes(apiV1)
	cartHandler.RegisterRoutes(apiV1)
	checkoutHandler.RegisterRoutes(apiV1)
	orderHandler.RegisterRoutes(apiV1)
	notificationHandler.RegisterRoutes(apiV1)

	// --- Health Check Endpoint ---
	app.Fiber.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":     "healthy",
			"time":       time.Now().Format(time.RFC3339),
			"cart_store": cfg.CartStore,
			"checkout":   app.Checkout.State(),
		})
	})

	return app, nil
}

func (a *App) openCartRepository(cfg *config.Config) (repositories.CartRepository, error) {
	switch cfg.CartStore {
	case config.StoreMemory:
		return repositories.NewMockCartRepository(), nil
	case config.StoreSQLite, config.StorePostgres:
		dsn := cfg.DatabaseDSN
		if cfg.CartStore == config.StoreSQLite {
			dsn = cfg.SQLitePath
		}
		db, err := repositories.OpenDatabase(cfg.CartStore, dsn)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		a.closers = append(a.closers, sqlDB.Close)
		return repositories.NewGORMCartRepository(db, cfg.SessionKey), nil
	case config.StoreRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client, err := repositories.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return repositories.NewRedisCartRepository(client, cfg.SessionKey, cfg.CartTTL), nil
	}
	return nil, fmt.Errorf("unsupported cart store %q", cfg.CartStore)
}

// Close releases database, cache and broker connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func main() {
	// --- Configuration ---
	cfg, err := config.Load(viper.New())
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	app, err := NewApp(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// --- Start HTTP Server ---
	log.Infof("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Fiber.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Info("Shutting down server...")

	if err := app.Fiber.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Error("Error during Fiber shutdown")
	}
	if err := app.Close(); err != nil {
		log.WithError(err).Error("Error closing resources")
	}

	log.Info("Server gracefully stopped")
}
