package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cart-service/config"
	"github.com/guttosm/cart-service/internal/http"
	"github.com/guttosm/cart-service/internal/middleware"
)

// RouterComponents holds the engine and the handlers shutdown needs.
type RouterComponents struct {
	Engine *gin.Engine
	Cart   *http.CartHandler
	Health *http.HealthHandler

	closers closerList
}

// InitializeRouter builds handlers, health checks and the gin engine.
func InitializeRouter(cfg config.Config, db *DatabaseComponents, services *ServiceComponents) (*RouterComponents, error) {
	rc := &RouterComponents{}

	rc.Health = http.NewHealthHandler()
	for name, checker := range db.Checkers {
		rc.Health.AddChecker(name, checker)
	}
	for name, checker := range services.Checkers {
		rc.Health.AddChecker(name, checker)
	}
	for _, cb := range db.Breakers {
		rc.Health.RegisterCircuitBreaker(cb)
	}

	idempotency, err := middleware.NewIdempotency(cfg.Server.IdempotencyTTL)
	if err != nil {
		return nil, err
	}
	rc.closers.add("idempotency cache", func(context.Context) error {
		idempotency.Close()
		return nil
	})

	routerCfg := http.RouterConfig{
		RateWindow:     cfg.Server.RateWindow,
		RequestTimeout: cfg.Server.RequestTimeout,
		CORSOrigins:    cfg.Server.CORSOrigins,
		SwaggerUser:    cfg.Server.SwaggerUser,
		SwaggerPass:    cfg.Server.SwaggerPass,
		Idempotency:    idempotency,
	}
	if cfg.Server.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow)
		routerCfg.RateLimiter = limiter
		rc.closers.add("rate limiter", func(context.Context) error {
			limiter.Stop()
			return nil
		})
	}
	// Assigned only when set: a nil *AdminAuthenticator in the interface would not read as disabled.
	if services.Auth != nil {
		routerCfg.AdminAuth = services.Auth
	}

	rc.Cart = http.NewCartHandler(services.Carts, cfg.Server.SSEHeartbeat)
	handlers := http.Handlers{
		Cart:     rc.Cart,
		Catalog:  http.NewCatalogHandler(services.Catalog, services.Audit),
		Checkout: http.NewCheckoutHandler(services.Checkout),
		Health:   rc.Health,
	}
	if db.Logging != nil {
		handlers.Audit = http.NewAuditHandler(db.Logging)
	}

	rc.Engine = http.NewRouter(handlers, routerCfg)
	return rc, nil
}
