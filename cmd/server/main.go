package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"

	"acornAdmin/internal/config"
	customersapp "acornAdmin/internal/modules/customers/application"
	customers "acornAdmin/internal/modules/customers/domain"
	"acornAdmin/internal/modules/listview/application/handler"
	"acornAdmin/internal/modules/listview/application/usecase"
	"acornAdmin/internal/modules/listview/infrastructure"
	transport "acornAdmin/internal/modules/listview/interface"
	productsapp "acornAdmin/internal/modules/products/application"
	products "acornAdmin/internal/modules/products/domain"
	"acornAdmin/internal/platform/broker"
	"acornAdmin/internal/shared/auth"
	"acornAdmin/internal/shared/clock"
	"acornAdmin/internal/shared/logging"
	"acornAdmin/internal/shared/normalization"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "acorn admin: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Attempt to load variables from .env so local runs honour configuration tweaks.
	if err := godotenv.Overload(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	logFile, logWriter, err := logging.Setup(logging.Config{
		Directory: cfg.Logging.Directory,
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: true,
	}, time.Now())
	if err != nil {
		return fmt.Errorf("logging setup: %w", err)
	}
	defer logFile.Close()
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))
	slog.Info("backend resolved", slog.String("baseUrl", cfg.REST.BaseURL), slog.Duration("timeout", cfg.REST.Timeout))
	slog.Info("kafka config resolved", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("group", cfg.Kafka.GroupID))

	validator, err := auth.NewJWTValidator(cfg.Security.JWTSecret, cfg.Security.JWTPublicKey)
	if err != nil {
		return err
	}
	if !validator.Enabled() {
		slog.Warn("jwt validation disabled: no JWT_SECRET or JWT_PUBLIC_KEY configured")
	}

	rest := infrastructure.NewRESTClient(cfg.REST.BaseURL, cfg.REST.Timeout)
	hub := infrastructure.NewHub()
	broadcastUC := usecase.NewBroadcastUseCase(hub)
	clk := clock.NewRealClock()

	customerAPI, err := infrastructure.NewCollectionHTTPClient[customers.Customer, customers.Registration](rest, customers.Entity)
	if err != nil {
		return err
	}
	productAPI, err := infrastructure.NewCollectionHTTPClient[products.Product, products.ProductRegistration](rest, products.ProductEntity)
	if err != nil {
		return err
	}
	categoryAPI, err := infrastructure.NewCollectionHTTPClient[products.Category, products.CategoryRegistration](rest, products.CategoryEntity)
	if err != nil {
		return err
	}

	customerScreen := usecase.NewScreenService(customersapp.NewScreen(customerAPI, customerAPI, cfg.Views.CustomerPageSize), cfg.Views.SessionTTL, clk, broadcastUC)
	productScreen := usecase.NewScreenService(productsapp.NewProductScreen(productAPI, productAPI, cfg.Views.ProductPageSize), cfg.Views.SessionTTL, clk, broadcastUC)
	categoryScreen := usecase.NewScreenService(productsapp.NewCategoryScreen(categoryAPI, categoryAPI), cfg.Views.SessionTTL, clk, broadcastUC)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetOutput(logWriter)
	e.Logger.SetLevel(logging.EchoLevel(cfg.Logging.Level))
	e.Use(middleware.RequestID(), middleware.Recover())
	renderer, err := transport.NewRenderer()
	if err != nil {
		return err
	}
	e.Renderer = renderer

	console := transport.NewConsole(e, hub, validator, cfg.Views.SessionTTL, cfg.Websocket.SendBuffer)
	transport.RegisterScreen(console, customerScreen)
	transport.RegisterScreen(console, productScreen)
	transport.RegisterScreen(console, categoryScreen)

	// Backend change events invalidate the matching screen.
	invalidators := map[string]usecase.Invalidator{
		normalization.ScreenCustomers:  customerScreen,
		normalization.ScreenProducts:   productScreen,
		normalization.ScreenCategories: categoryScreen,
	}
	registry := infrastructure.NewHandlerRegistry()
	for screen, topics := range cfg.Kafka.Topics {
		invalidator, ok := invalidators[normalization.NormalizeScreen(screen)]
		if !ok {
			slog.Warn("kafka topics for unknown screen ignored", slog.String("screen", screen))
			continue
		}
		for _, topic := range topics {
			registry.Register(handler.NewInvalidationHandler(topic, invalidator, cfg.Websocket.AllowedActions))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return broker.StartKafkaConsumers(gctx, registry, cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	})
	g.Go(func() error {
		usecase.RunSessionSweeper(gctx, cfg.Views.SweepInterval, customerScreen, productScreen, categoryScreen)
		return nil
	})
	g.Go(func() error {
		slog.Info("http server starting", slog.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
