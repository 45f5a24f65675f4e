package app

import (
	"github.com/gin-gonic/gin"

	"github.com/greenloop/greenloop-backend/internal/server"
)

func wireRouter(cfg Config, h Handlers, m Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:           h.Auth,
		AuthMiddleware:        m.Auth,
		UserHandler:           h.User,
		OrganizationHandler:   h.Organization,
		StoreHandler:          h.Store,
		BinHandler:            h.Bin,
		MaterialHandler:       h.Material,
		CouponHandler:         h.Coupon,
		RecycleHistoryHandler: h.RecycleHistory,
		StatsHandler:          h.Stats,
		AllowedOrigins:        cfg.AllowedOrigins,
	})
}
