// Package app assembles the storefront from configuration: drivers, use cases, and transports.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-storefront-service/config"
	"github.com/fekuna/omnipos-storefront-service/internal/category"
	catRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-storefront-service/internal/category/usecase"
	"github.com/fekuna/omnipos-storefront-service/internal/docstore"
	"github.com/fekuna/omnipos-storefront-service/internal/docstore/appwrite"
	"github.com/fekuna/omnipos-storefront-service/internal/docstore/postgres"
	"github.com/fekuna/omnipos-storefront-service/internal/notification"
	notifListenerPkg "github.com/fekuna/omnipos-storefront-service/internal/notification/listener"
	notifPollerPkg "github.com/fekuna/omnipos-storefront-service/internal/notification/poller"
	notifRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/notification/repository"
	notifUCPkg "github.com/fekuna/omnipos-storefront-service/internal/notification/usecase"
	"github.com/fekuna/omnipos-storefront-service/internal/product"
	prodRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-storefront-service/internal/product/usecase"
	"github.com/fekuna/omnipos-storefront-service/pkg/broker"
	"github.com/fekuna/omnipos-storefront-service/pkg/cache"
	"github.com/fekuna/omnipos-storefront-service/pkg/logger"
	"github.com/fekuna/omnipos-storefront-service/pkg/search"
	"go.uber.org/zap"
)

type App struct {
	Config *config.Config
	Logger logger.ZapLogger

	CategoryUC     category.UseCase
	ProductUC      product.UseCase
	NotificationUC notification.UseCase

	Poller   *notifPollerPkg.Poller
	Listener *notifListenerPkg.StockListener

	closers []func() error
}

// New connects every backing service and builds the use cases. Elasticsearch and Kafka are
// optional; the document store and redis are required.
func New(ctx context.Context, cfg *config.Config, log logger.ZapLogger) (*App, error) {
	a := &App{Config: cfg, Logger: log}

	client, storage, err := a.openDocStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, redisClient.Close)
	log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	var es prodUCPkg.SearchIndex
	if len(cfg.Elastic.Addresses) > 0 {
		esClient, err := search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			log.Warn("Could not connect to Elasticsearch, search falls back to the document store", zap.Error(err))
		} else {
			es = esClient
			log.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	var (
		publisher notifUCPkg.EventPublisher
		consumer  *broker.KafkaConsumer
	)
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.NotificationTopic,
		})
		a.closers = append(a.closers, producer.Close)
		publisher = producer

		consumer = broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.StockTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		a.closers = append(a.closers, consumer.Close)
		log.Info("Kafka enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("stock_topic", cfg.Kafka.StockTopic))
	}

	catRepo := catRepoPkg.NewDocstoreRepository(client, storage, cfg.Collections.Categories, cfg.Collections.ImageBucket)
	prodRepo := prodRepoPkg.NewDocstoreRepository(client, cfg.Collections.Products)
	notifRepo := notifRepoPkg.NewDocstoreRepository(client, cfg.Collections.Notifications)

	a.CategoryUC = catUCPkg.NewCategoryUseCase(catRepo, redisClient, cfg.Catalog.CategoryCacheTTL, log)
	a.ProductUC = prodUCPkg.NewProductUseCase(prodRepo, es, cfg.Elastic.ProductIndex, cfg.Catalog.BestSellerBatchSize, log)
	a.NotificationUC = notifUCPkg.NewNotificationUseCase(notifRepo, prodRepo, redisClient, publisher, notifUCPkg.Config{
		LockTTL:   cfg.Notification.LockTTL,
		BatchSize: cfg.Notification.BatchSize,
	}, log)
	a.Poller = notifPollerPkg.NewPoller(a.NotificationUC, cfg.Notification.PollInterval, log)
	if consumer != nil {
		a.Listener = notifListenerPkg.NewStockListener(consumer, a.NotificationUC, log)
	}

	return a, nil
}

func (a *App) openDocStore(ctx context.Context) (docstore.Client, docstore.Storage, error) {
	cfg := a.Config
	switch cfg.DocStore.Driver {
	case config.DriverAppwrite:
		if cfg.DocStore.ProjectID == "" || cfg.DocStore.DatabaseID == "" {
			return nil, nil, errors.New("appwrite driver needs APPWRITE_PROJECT_ID and APPWRITE_DATABASE_ID")
		}
		c := appwrite.New(appwrite.Config{
			Endpoint:   cfg.DocStore.Endpoint,
			ProjectID:  cfg.DocStore.ProjectID,
			APIKey:     cfg.DocStore.APIKey,
			DatabaseID: cfg.DocStore.DatabaseID,
			Timeout:    cfg.DocStore.Timeout,
			RPS:        cfg.DocStore.RPS,
			Burst:      cfg.DocStore.Burst,
		}, a.Logger)
		a.Logger.Info("Using Appwrite document store", zap.String("endpoint", cfg.DocStore.Endpoint))
		return c, c, nil

	case config.DriverPostgres:
		db, err := postgres.NewPostgres(&postgres.Config{
			Host:            cfg.Postgres.Host,
			Port:            cfg.Postgres.Port,
			User:            cfg.Postgres.User,
			Password:        cfg.Postgres.Password,
			DBName:          cfg.Postgres.DBName,
			SSLMode:         cfg.Postgres.SSLMode,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
			ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
		})
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, db.Close)

		store := postgres.NewStore(db)
		if err := store.Migrate(ctx); err != nil {
			return nil, nil, fmt.Errorf("migrate documents table: %w", err)
		}
		a.Logger.Info("Connected to PostgreSQL document store", zap.String("db_name", cfg.Postgres.DBName))
		return store, postgres.FileStorage{BaseURL: cfg.DocStore.FileBaseURL}, nil
	}
	return nil, nil, fmt.Errorf("unknown docstore driver %q", cfg.DocStore.Driver)
}

// Close releases connections in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
}
