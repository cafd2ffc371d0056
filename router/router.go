package router

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-floor/controllers"
	"github.com/yeremiapane/restaurant-floor/middlewares"
	"github.com/yeremiapane/restaurant-floor/services"
)

const defaultGSTRate = "0.05"

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Rate limiter global per IP (50 request per detik)
	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	// Inisialisasi core services
	gstRate := gstRateFromEnv()
	registry := services.NewTableRegistry(db)
	ledger := services.NewOrderLedger(db, gstRate)
	lifecycle := services.NewLifecycleController(registry, ledger)

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(registry, lifecycle)
	orderCtrl := controllers.NewOrderController(ledger, lifecycle)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.GET("/profile", userCtrl.GetProfile)
		auth.POST("/logout", userCtrl.Logout)

		// TABLES
		auth.GET("/tables", tableCtrl.GetAllTables)
		auth.POST("/tables/seed", tableCtrl.SeedTables)
		auth.GET("/tables/:table_number", tableCtrl.GetTableByNumber)
		auth.POST("/tables/:table_number/claim", tableCtrl.ClaimTable)
		auth.PATCH("/tables/:table_number/status", tableCtrl.UpdateTableStatus)

		// ORDERS
		auth.GET("/orders", orderCtrl.GetAllOrders)
		auth.POST("/orders", orderCtrl.CreateOrder)
		auth.GET("/orders/by-table/:table_number", orderCtrl.GetOrderByTable)
		auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		auth.PATCH("/orders/:order_id/items", orderCtrl.UpdateOrderItems)
		auth.POST("/orders/:order_id/finalize", orderCtrl.FinalizeOrder)
	}

	// WebSocket endpoint dengan middleware khusus (token via query)
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/floor", controllers.FloorHandler)
	}

	return r
}

func gstRateFromEnv() decimal.Decimal {
	raw := os.Getenv("GST_RATE")
	if raw == "" {
		raw = defaultGSTRate
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		rate, _ = decimal.NewFromString(defaultGSTRate)
	}
	return rate
}
