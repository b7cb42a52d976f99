package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cart-service/internal/metrics"
	"github.com/guttosm/cart-service/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// APIBasePath prefixes every business route.
const APIBasePath = "/api/v1"

const eventsPath = APIBasePath + "/cart/events"

// RouterConfig holds router configuration options.
type RouterConfig struct {
	RateLimit      int
	RateWindow     time.Duration
	RequestTimeout time.Duration
	CORSOrigins    []string
	SwaggerUser    string
	SwaggerPass    string

	// AdminAuth guards catalog writes. Nil leaves them open.
	AdminAuth middleware.AdminVerifier
	// Idempotency deduplicates checkout retries. Nil disables it.
	Idempotency *middleware.Idempotency
	// RateLimiter overrides the limiter built from RateLimit and RateWindow.
	RateLimiter *middleware.RateLimiter
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateWindow:     time.Minute,
		RequestTimeout: 10 * time.Second,
		CORSOrigins:    []string{"http://localhost:3000", "http://127.0.0.1:3000"},
	}
}

// Handlers groups the API handlers.
type Handlers struct {
	Cart     *CartHandler
	Catalog  *CatalogHandler
	Checkout *CheckoutHandler
	Health   *HealthHandler
	// Audit is optional; it needs the audit log store.
	Audit *AuditHandler
}

// NewRouter builds the gin engine with middleware, infrastructure and API routes.
func NewRouter(h Handlers, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.RequestLogger(),
		metrics.PrometheusMiddleware(),
		middleware.CORS(cfg.CORSOrigins),
		middleware.Compression(eventsPath),
	)

	limiter := cfg.RateLimiter
	if limiter == nil && cfg.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	}
	if limiter != nil {
		router.Use(limiter.Middleware())
	}
	router.Use(middleware.ErrorHandler())

	registerInfrastructureRoutes(router, h.Health, &cfg)

	api := router.Group(APIBasePath)
	registerCatalogRoutes(api, h.Catalog, h.Audit, &cfg)
	registerCartRoutes(api, h.Cart, h.Checkout, &cfg)

	return router
}

func registerInfrastructureRoutes(router *gin.Engine, health *HealthHandler, cfg *RouterConfig) {
	if health != nil {
		health.Register(router)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.SwaggerUser != "" && cfg.SwaggerPass != "" {
		docs := router.Group("/swagger", gin.BasicAuth(gin.Accounts{cfg.SwaggerUser: cfg.SwaggerPass}))
		docs.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		return
	}
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func registerCatalogRoutes(api *gin.RouterGroup, catalog *CatalogHandler, audit *AuditHandler, cfg *RouterConfig) {
	timed := api.Group("", middleware.Timeout(cfg.RequestTimeout))
	admin := timed.Group("/admin", middleware.AdminAuth(cfg.AdminAuth))
	if audit != nil {
		admin.GET("/audit", audit.ListEntries)
	}
	if catalog == nil {
		return
	}

	timed.GET("/products", catalog.ListProducts)
	timed.GET("/products/:id", catalog.GetProduct)
	admin.PUT("/products/:id", catalog.UpsertProduct)
	admin.DELETE("/products/:id", catalog.DeleteProduct)
}

func registerCartRoutes(api *gin.RouterGroup, cart *CartHandler, checkout *CheckoutHandler, cfg *RouterConfig) {
	if cart == nil {
		return
	}
	session := api.Group("", middleware.CartSession())

	// The event stream outlives any request timeout.
	session.GET("/cart/events", cart.Events)

	timed := session.Group("", middleware.Timeout(cfg.RequestTimeout))
	timed.GET("/cart", cart.GetCart)
	timed.GET("/cart/count", cart.GetCount)
	timed.POST("/cart/items", cart.AddItem)
	timed.PATCH("/cart/items/:productId", cart.UpdateQuantity)
	timed.DELETE("/cart/items/:productId", cart.RemoveItem)
	timed.DELETE("/cart", cart.ClearCart)

	if checkout == nil {
		return
	}
	if cfg.Idempotency != nil {
		timed.POST("/checkout", cfg.Idempotency.Handler(), checkout.Checkout)
		return
	}
	timed.POST("/checkout", checkout.Checkout)
}
