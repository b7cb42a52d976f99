package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/guttosm/cart-service/config"
	"github.com/guttosm/cart-service/internal/catalogio"
	"github.com/guttosm/cart-service/internal/logger"
	"github.com/guttosm/cart-service/internal/repository"
	"github.com/guttosm/cart-service/internal/service"
	"github.com/guttosm/cart-service/internal/service/cache"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	eventPublishTimeout = 2 * time.Second
	seedConcurrency     = 8
)

// ServiceComponents holds the business services.
type ServiceComponents struct {
	Catalog  *service.CatalogServiceImpl
	Carts    *service.CartService
	Checkout *service.CheckoutService
	Store    *service.CartStore
	// Audit is nil without MongoDB. A nil writer discards entries.
	Audit     *service.AuditWriter
	Publisher service.EventPublisher
	// Auth is nil when admin authentication is disabled.
	Auth *service.AdminAuthenticator

	Checkers map[string]repository.HealthChecker

	closers closerList
}

// InitializeServices builds the cache, event publisher, audit writer and the
// cart, catalog and checkout services on top of db.
func InitializeServices(ctx context.Context, cfg config.Config, db *DatabaseComponents) (*ServiceComponents, error) {
	s := &ServiceComponents{Checkers: make(map[string]repository.HealthChecker)}

	productCache, err := s.initCache(cfg)
	if err != nil {
		return nil, err
	}

	products := db.Products
	if products == nil {
		products = repository.NewMemoryProductRepository()
	}
	s.Catalog = service.NewCatalogService(products, productCache)

	if cfg.Catalog.Backend == config.CatalogBackendMemory && cfg.Catalog.SeedFile != "" {
		if err := seedCatalog(ctx, s.Catalog, cfg.Catalog.SeedFile); err != nil {
			s.closers.closeAll(ctx)
			return nil, err
		}
	}

	s.Publisher = s.initPublisher(cfg.NATS)

	if db.Logging != nil {
		s.Audit = service.NewAuditWriter(db.Logging, service.DefaultAuditWriterConfig())
		audit := s.Audit
		s.closers.add("audit writer", func(context.Context) error {
			audit.Stop()
			return nil
		})
	}

	observers := []service.CartObserver{service.MetricsObserver()}
	if _, noop := s.Publisher.(service.NoopPublisher); !noop {
		observers = append(observers, service.EventObserver(s.Publisher, eventPublishTimeout))
	}
	if s.Audit != nil {
		observers = append(observers, service.AuditObserver(s.Audit))
	}
	s.Store = service.NewCartStore(service.CartStoreConfig{
		SessionTTL:      cfg.Cart.SessionTTL,
		CleanupInterval: cfg.Cart.CleanupInterval,
		MaxQuantity:     cfg.Cart.MaxQuantity,
	}, observers...)
	s.closers.add("cart store", func(context.Context) error {
		s.Store.Stop()
		return nil
	})

	s.Carts = service.NewCartService(s.Store, s.Catalog, cfg.Cart.MaxQuantity)

	s.Checkout = service.NewCheckoutService(s.Store, db.Orders, s.Publisher, s.Audit)

	if cfg.Auth.Enabled {
		s.Auth = service.NewAdminAuthenticator(service.AdminAuthConfig{
			APIKeys:      cfg.Auth.APIKeys,
			APIKeyHashes: cfg.Auth.APIKeyHashes,
			JWTSecret:    cfg.Auth.JWTSecret,
			JWTIssuer:    cfg.Auth.JWTIssuer,
		})
	}

	return s, nil
}

func (s *ServiceComponents) initCache(cfg config.Config) (cache.ProductCache, error) {
	cacheCfg := cache.Config{Size: cfg.Cache.Size, TTL: cfg.Cache.TTL}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		redisCache := cache.NewRedis(client, cacheCfg)
		s.Checkers["redis"] = redisCache
		s.closers.add("redis cache", func(context.Context) error { return redisCache.Close() })
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Using Redis product cache")
		return redisCache, nil
	}

	local, err := cache.NewRistretto(cacheCfg)
	if err != nil {
		return nil, fmt.Errorf("create product cache: %w", err)
	}
	s.closers.add("product cache", func(context.Context) error { return local.Close() })
	return local, nil
}

// initPublisher connects to NATS when configured. An unreachable server is
// logged and events are dropped.
func (s *ServiceComponents) initPublisher(cfg config.NATSConfig) service.EventPublisher {
	if cfg.URL == "" {
		return service.NoopPublisher{}
	}

	conn, err := service.ConnectNATS(cfg.URL, logger.ServiceName)
	if err != nil {
		log.Error().Err(err).Str("url", cfg.URL).Msg("Failed to connect to NATS - events disabled")
		return service.NoopPublisher{}
	}
	log.Info().Str("url", conn.ConnectedUrl()).Str("prefix", cfg.SubjectPrefix).Msg("Connected to NATS")

	publisher := service.NewNATSPublisher(conn, cfg.SubjectPrefix)
	s.Checkers["nats"] = natsChecker{conn: conn}
	s.closers.add("nats", func(context.Context) error { return publisher.Close() })
	return publisher
}

type natsChecker struct {
	conn *nats.Conn
}

func (n natsChecker) HealthCheck(context.Context) error {
	if !n.conn.IsConnected() {
		return errors.New("nats " + n.conn.Status().String())
	}
	return nil
}

func seedCatalog(ctx context.Context, sink catalogio.ProductSink, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open catalog seed: %w", err)
	}
	defer f.Close()

	products, err := catalogio.Read(f)
	if err != nil {
		return fmt.Errorf("read catalog seed %s: %w", path, err)
	}
	n, err := catalogio.Import(ctx, sink, products, seedConcurrency)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	log.Info().Int("products", n).Str("file", path).Msg("Catalog seeded")
	return nil
}
