package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/order_shop/internal/catalog"
	shopcfg "github.com/Skotchmaster/order_shop/internal/config"
	"github.com/Skotchmaster/order_shop/internal/httpserver"
	"github.com/Skotchmaster/order_shop/internal/repo"
	"github.com/Skotchmaster/order_shop/internal/search"
	"github.com/Skotchmaster/order_shop/internal/service"
	"github.com/Skotchmaster/order_shop/pkg/config"
	pkgdb "github.com/Skotchmaster/order_shop/pkg/db"
	"github.com/Skotchmaster/order_shop/pkg/events"
	"github.com/Skotchmaster/order_shop/pkg/logging"
	shopmw "github.com/Skotchmaster/order_shop/pkg/middleware"
	"github.com/Skotchmaster/order_shop/pkg/payclient"
)

const usage = `usage: shop [command]

commands:
  serve     run the HTTP API (default)
  init-db   create the tables, load the remote catalog and exit`

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	cfg := shopcfg.Load(config.EnvDefault("ENV_FILE", ".env"))

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	var err error
	switch cmd {
	case "serve":
		err = serve(cfg, logger)
	case "init-db":
		err = initDB(cfg, logger)
	case "-h", "--help", "help":
		fmt.Println(usage)
		return
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

func openDB(cfg shopcfg.ServiceConfig) (*gorm.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if err := repo.Migrate(db); err != nil {
		_ = pkgdb.Close(db)
		return nil, fmt.Errorf("db migrate: %w", err)
	}
	return db, nil
}

func newCatalogService(cfg shopcfg.ServiceConfig, r *repo.GormRepo, logger *slog.Logger) *service.CatalogService {
	return &service.CatalogService{
		Repo:     r,
		Remote:   catalog.NewClient(cfg.ProductsURL),
		Searcher: newSearcher(cfg, r, logger),
	}
}

func syncCatalog(svc *service.CatalogService, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(logging.IntoContext(context.Background(), logger), 30*time.Second)
	defer cancel()

	_, err := svc.Sync(ctx)
	return err
}

// initDB creates the tables and fills the product table from the remote
// catalog.
func initDB(cfg shopcfg.ServiceConfig, logger *slog.Logger) error {
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer pkgdb.Close(db)

	r := &repo.GormRepo{DB: db}
	if err := syncCatalog(newCatalogService(cfg, r, logger), logger); err != nil {
		return fmt.Errorf("catalog sync: %w", err)
	}

	logger.Info("init_db_success", "postgres", pkgdb.IsPostgres(cfg.DatabaseURL))
	return nil
}

func newSearcher(cfg shopcfg.ServiceConfig, r *repo.GormRepo, logger *slog.Logger) search.Searcher {
	if !cfg.SearchEnabled() {
		return &search.DBSearcher{Repo: r}
	}
	es, err := search.NewESSearcher(search.ESConfig{
		URL:      cfg.ESURL,
		User:     cfg.ESUser,
		Password: cfg.ESPassword,
		Index:    cfg.ESIndex,
	})
	if err != nil {
		logger.Error("search_init_error", "reason", "falling back to database search", "error", err)
		return &search.DBSearcher{Repo: r}
	}
	return es
}

func newPublisher(cfg shopcfg.ServiceConfig) events.Publisher {
	if !cfg.EventsEnabled() {
		return events.Nop{}
	}
	return events.NewKafkaProducer(cfg.KafkaBrokers)
}

func serve(cfg shopcfg.ServiceConfig, logger *slog.Logger) error {
	db, err := openDB(cfg)
	if err != nil {
		return err
	}

	r := &repo.GormRepo{DB: db}
	publisher := newPublisher(cfg)

	catalogSvc := newCatalogService(cfg, r, logger)
	orderSvc := &service.OrderService{
		Repo:     r,
		Products: r,
		Payments: payclient.NewClient(cfg.PaymentURL, cfg.PaymentTimeout),
		Events:   publisher,
		Topic:    cfg.OrderTopic,
	}

	if err := syncCatalog(catalogSvc, logger); err != nil {
		logger.Error("catalog_sync_error", "reason", "serving the cached catalog", "error", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.HTTPErrorHandler
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(shopmw.Common(logger)...)

	httpserver.Register(e, &httpserver.Deps{
		ProductHandler: &httpserver.ProductHTTP{Svc: catalogSvc},
		OrderHandler:   &httpserver.OrderHTTP{Svc: orderSvc},
		DB:             r,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.PaymentTimeout + 15*time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var serveErr error
	select {
	case <-stop:
	case serveErr = <-errCh:
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_error", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("event_producer_close_error", "error", err)
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close_error", "error", err)
	}

	logger.Info("stopped")
	return serveErr
}
