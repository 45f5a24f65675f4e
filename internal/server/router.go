package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/greenloop/greenloop-backend/internal/handlers"
	"github.com/greenloop/greenloop-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler           *handlers.AuthHandler
	AuthMiddleware        *middleware.AuthMiddleware
	UserHandler           *handlers.UserHandler
	OrganizationHandler   *handlers.OrganizationHandler
	StoreHandler          *handlers.StoreHandler
	BinHandler            *handlers.BinHandler
	MaterialHandler       *handlers.MaterialHandler
	CouponHandler         *handlers.CouponHandler
	RecycleHistoryHandler *handlers.RecycleHistoryHandler
	StatsHandler          *handlers.StatsHandler
	AllowedOrigins        []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.POST("/register", cfg.AuthHandler.Register)
	api.POST("/login", cfg.AuthHandler.Login)
	api.POST("/refresh", cfg.AuthHandler.Refresh)

	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	protected.POST("/logout", cfg.AuthHandler.Logout)
	protected.GET("/users/me", cfg.UserHandler.GetMe)

	// Submission pipeline
	protected.POST("/recycle-histories/submit", cfg.RecycleHistoryHandler.Submit)
	protected.GET("/recycle-histories", cfg.RecycleHistoryHandler.List)

	admin := protected.Group("/")
	admin.Use(cfg.AuthMiddleware.RequireAdmin())

	admin.GET("/users", cfg.UserHandler.List)

	admin.GET("/organizations", cfg.OrganizationHandler.List)
	admin.POST("/organizations", cfg.OrganizationHandler.Create)
	admin.GET("/organizations/:id", cfg.OrganizationHandler.Get)
	admin.PUT("/organizations/:id", cfg.OrganizationHandler.Update)
	admin.DELETE("/organizations/:id", cfg.OrganizationHandler.Delete)

	admin.GET("/stores", cfg.StoreHandler.List)
	admin.POST("/stores", cfg.StoreHandler.Create)
	admin.GET("/stores/:id", cfg.StoreHandler.Get)
	admin.PUT("/stores/:id", cfg.StoreHandler.Update)
	admin.DELETE("/stores/:id", cfg.StoreHandler.Delete)

	admin.GET("/bins", cfg.BinHandler.List)
	admin.POST("/bins", cfg.BinHandler.Create)
	admin.GET("/bins/:id", cfg.BinHandler.Get)
	admin.PUT("/bins/:id", cfg.BinHandler.Update)
	admin.DELETE("/bins/:id", cfg.BinHandler.Delete)

	admin.GET("/materials", cfg.MaterialHandler.List)
	admin.POST("/materials", cfg.MaterialHandler.Create)
	admin.GET("/materials/:id", cfg.MaterialHandler.Get)
	admin.PUT("/materials/:id", cfg.MaterialHandler.Update)
	admin.DELETE("/materials/:id", cfg.MaterialHandler.Delete)

	admin.GET("/coupons", cfg.CouponHandler.List)
	admin.POST("/coupons", cfg.CouponHandler.Create)
	admin.GET("/coupons/:id", cfg.CouponHandler.Get)
	admin.PUT("/coupons/:id", cfg.CouponHandler.Update)
	admin.DELETE("/coupons/:id", cfg.CouponHandler.Delete)

	admin.GET("/dashboard/stats", cfg.StatsHandler.GetDashboardStats)

	return router
}
