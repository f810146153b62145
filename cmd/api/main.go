package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/infra/restapi"
	"storefront/internal/logger"
	repo "storefront/internal/repository"
	"storefront/internal/retry"
	"storefront/internal/server"
	"storefront/internal/shutdown"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	//.envは無くてもよい
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Service: "storefront",
		Env:     cfg.GoEnv,
		Level:   cfg.LogLevel,
	})

	policy, err := usecase.ParseMissingProductPolicy(cfg.MissingProductPolicy)
	if err != nil {
		return err
	}

	kv, err := newKVStore(cfg, log)
	if err != nil {
		return err
	}

	//REST APIクライアント（読み取りだけリトライ）
	api := restapi.NewClient(restapi.Options{
		BaseURL: cfg.CatalogAPIURL,
		Timeout: cfg.HTTPTimeout,
		ReadPolicy: retry.Policy{
			MaxAttempts: cfg.RetryMaxAttempts,
			Backoff:     retry.Fixed(cfg.RetryDelay),
		},
		Logger: log,
	})
	catalog := restapi.NewCatalogClient(api)
	orders := restapi.NewOrderClient(api)
	reviews := restapi.NewReviewClient(api)

	//Usecase生成
	carts := usecase.NewCartStore(kv, log)
	checkout := usecase.NewCheckoutUsecase(carts, catalog, orders, &realClock{}, &uuidGenerator{}, policy, log)
	dispatcher := usecase.NewDispatcher(carts, checkout, catalog, log)
	orderUC := usecase.NewOrderUsecase(orders, catalog, log)
	productUC := usecase.NewProductUsecase(catalog)
	reviewUC := usecase.NewReviewUsecase(reviews, orders, &realClock{}, log)

	//Handler生成
	e := server.New(cfg, log, server.Handlers{
		Cart:    handler.NewCartHandler(dispatcher),
		Order:   handler.NewOrderHandler(dispatcher, orderUC),
		Product: handler.NewProductHandler(productUC),
		Review:  handler.NewReviewHandler(reviewUC),
	})

	ctx, stop := shutdown.WithSignals(context.Background())
	defer stop()

	log.Info("server starting", "addr", cfg.Addr(), "cart_store", cfg.CartStore, "catalog_api", cfg.CatalogAPIURL)
	if err := server.Start(ctx, e, cfg.Addr()); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

func newKVStore(cfg config.Config, log *slog.Logger) (repo.KeyValueStore, error) {
	if cfg.CartStore != config.CartStorePostgres {
		return infraRepo.NewMemoryKVStore(), nil
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info("cart store connected", "backend", "postgres")
	return infraRepo.NewKVGormRepository(gormDB), nil
}
