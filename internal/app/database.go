package app

import (
	"context"
	"fmt"

	"github.com/guttosm/cart-service/config"
	"github.com/guttosm/cart-service/internal/circuitbreaker"
	"github.com/guttosm/cart-service/internal/repository"
	"github.com/guttosm/cart-service/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// DatabaseComponents holds the remote stores and the breakers guarding them.
type DatabaseComponents struct {
	Mongo    *repository.MongoDB
	Postgres *pgxpool.Pool

	// Products is nil for the memory backend.
	Products repository.ProductRepository
	// Orders and Logging are nil without MongoDB.
	Orders  repository.OrderRepository
	Logging service.LoggingService

	Breakers []*circuitbreaker.CircuitBreaker
	Checkers map[string]repository.HealthChecker

	closers closerList
}

// InitializeDatabase connects the stores cfg asks for. MongoDB failing to
// connect is tolerated unless it backs the catalog; the service then runs
// without checkout and audit. A configured Postgres catalog must connect.
func InitializeDatabase(ctx context.Context, cfg config.Config) (*DatabaseComponents, error) {
	db := &DatabaseComponents{Checkers: make(map[string]repository.HealthChecker)}

	if cfg.Mongo.Enabled {
		if err := db.connectMongo(ctx, cfg); err != nil {
			if cfg.Catalog.Backend == config.CatalogBackendMongo {
				return nil, err
			}
			log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without checkout and audit log")
		}
	}

	switch cfg.Catalog.Backend {
	case config.CatalogBackendMongo:
		cb := db.newBreaker(cfg.CircuitBreaker, "mongodb-products")
		db.Products = repository.NewProductRepositoryWithCircuitBreaker(repository.NewMongoProductRepository(db.Mongo), cb)
	case config.CatalogBackendPostgres:
		if err := db.connectPostgres(ctx, cfg); err != nil {
			db.closers.closeAll(ctx)
			return nil, err
		}
	}

	return db, nil
}

func (db *DatabaseComponents) connectMongo(ctx context.Context, cfg config.Config) error {
	mongoDB, err := repository.NewMongoDB(cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("Connected to MongoDB")

	if err := mongoDB.SetLogsTTL(ctx, cfg.Mongo.LogsTTL); err != nil {
		log.Warn().Err(err).Msg("Failed to set logs TTL index")
	}

	db.Mongo = mongoDB
	db.closers.add("mongodb", mongoDB.Close)
	db.Checkers["mongodb"] = mongoDB

	ordersCB := db.newBreaker(cfg.CircuitBreaker, "mongodb-orders")
	db.Orders = repository.NewOrderRepositoryWithCircuitBreaker(repository.NewMongoOrderRepository(mongoDB), ordersCB)

	logsCB := db.newBreaker(cfg.CircuitBreaker, "mongodb-logs")
	logsRepo := repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(mongoDB), logsCB)
	db.Logging = service.NewLoggingService(logsRepo)
	return nil
}

func (db *DatabaseComponents) connectPostgres(ctx context.Context, cfg config.Config) error {
	if cfg.Postgres.AutoMigrate {
		if err := repository.MigratePostgres(cfg.Postgres.DSN); err != nil {
			return fmt.Errorf("migrate postgres: %w", err)
		}
		log.Info().Msg("Postgres migrations applied")
	}

	pool, err := repository.NewPostgresPool(ctx, repository.PostgresConfig{
		DSN:             cfg.Postgres.DSN,
		MaxConns:        cfg.Postgres.MaxConns,
		MaxConnLifetime: cfg.Postgres.MaxConnLifetime,
	})
	if err != nil {
		return err
	}
	log.Info().Int32("max_conns", cfg.Postgres.MaxConns).Msg("Connected to Postgres")

	db.Postgres = pool
	db.closers.add("postgres", func(context.Context) error {
		pool.Close()
		return nil
	})

	products := repository.NewPostgresProductRepository(pool)
	db.Checkers["postgres"] = products
	cb := db.newBreaker(cfg.CircuitBreaker, "postgres-products")
	db.Products = repository.NewProductRepositoryWithCircuitBreaker(products, cb)
	return nil
}

func (db *DatabaseComponents) newBreaker(cfg config.CircuitBreakerConfig, name string) *circuitbreaker.CircuitBreaker {
	cb := circuitbreaker.New(circuitbreaker.Config{
		Name:             name,
		FailureThreshold: cfg.FailureThreshold,
		HalfOpenRequests: cfg.HalfOpenRequests,
		Timeout:          cfg.Timeout,
		Interval:         cfg.Interval,
		IsSuccessful:     repository.IsBreakerSuccess,
	})
	db.Breakers = append(db.Breakers, cb)
	return cb
}

// Close disconnects every store opened by InitializeDatabase.
func (db *DatabaseComponents) Close(ctx context.Context) {
	db.closers.closeAll(ctx)
	db.closers = nil
}
