package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/seyifunmi-idowu/express-sub000/internal/handler"
	"github.com/seyifunmi-idowu/express-sub000/internal/middleware"
	"github.com/seyifunmi-idowu/express-sub000/internal/redis"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	OrderHandler    *handler.OrderHandler
	RiderHandler    *handler.RiderHandler
	CustomerHandler *handler.CustomerHandler
	WalletHandler   *handler.WalletHandler
	PaymentHandler  *handler.PaymentHandler
	KeyStore        redis.KeyStoreInterface
	NewRelicApp     *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.Idempotency(deps.KeyStore))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Customer routes.
		customers := v1.Group("/customers")
		{
			customers.POST("/register", deps.CustomerHandler.Register)
			customers.GET("/:id", deps.CustomerHandler.Get)
		}

		// Order routes.
		orders := v1.Group("/orders")
		{
			orders.POST("", deps.OrderHandler.PlaceOrder)
			orders.GET("", deps.OrderHandler.ListOrders)
			orders.GET("/:code", deps.OrderHandler.GetOrder)
			orders.POST("/:code/status", deps.OrderHandler.UpdateStatus)
			orders.POST("/:code/cancel", deps.OrderHandler.CancelOrder)
			orders.POST("/:code/tip", deps.OrderHandler.AddTip)
			orders.POST("/:code/dispatch", deps.OrderHandler.Dispatch)
			orders.GET("/:code/timeline", deps.OrderHandler.GetTimeline)
			orders.GET("/:code/receipt", deps.OrderHandler.GetReceipt)
			orders.GET("/:code/activity", deps.OrderHandler.GetActivity)
		}

		// Rider routes.
		riders := v1.Group("/riders")
		{
			riders.POST("/register", deps.RiderHandler.Register)
			riders.GET("", deps.RiderHandler.GetAll)
			riders.POST("/:id/location", deps.RiderHandler.UpdateLocation)
			riders.POST("/:id/availability", deps.RiderHandler.SetAvailability)
		}

		// Wallet routes.
		wallets := v1.Group("/wallets")
		{
			wallets.GET("/me", deps.WalletHandler.GetWallet)
			wallets.GET("/me/transactions", deps.WalletHandler.ListTransactions)
			wallets.POST("/me/fund", deps.WalletHandler.FundWallet)
			wallets.POST("/me/withdraw", deps.WalletHandler.Withdraw)
		}

		// Payment provider callbacks.
		payments := v1.Group("/payments")
		{
			payments.POST("/webhook", deps.PaymentHandler.Webhook)
		}
	}

	return router
}
