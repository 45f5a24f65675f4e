package app

import (
	"github.com/greenloop/greenloop-backend/internal/handlers"
	"github.com/greenloop/greenloop-backend/internal/logger"
)

type Handlers struct {
	Auth           *handlers.AuthHandler
	User           *handlers.UserHandler
	Organization   *handlers.OrganizationHandler
	Store          *handlers.StoreHandler
	Bin            *handlers.BinHandler
	Material       *handlers.MaterialHandler
	Coupon         *handlers.CouponHandler
	RecycleHistory *handlers.RecycleHistoryHandler
	Stats          *handlers.StatsHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:           handlers.NewAuthHandler(s.Auth),
		User:           handlers.NewUserHandler(s.User),
		Organization:   handlers.NewOrganizationHandler(s.Organization),
		Store:          handlers.NewStoreHandler(s.Store),
		Bin:            handlers.NewBinHandler(s.Bin),
		Material:       handlers.NewMaterialHandler(s.Material),
		Coupon:         handlers.NewCouponHandler(s.Coupon),
		RecycleHistory: handlers.NewRecycleHistoryHandler(log, s.History, s.Submission),
		Stats:          handlers.NewStatsHandler(s.Stats),
	}
}
