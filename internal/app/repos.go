package app

import (
	"gorm.io/gorm"

	"github.com/greenloop/greenloop-backend/internal/logger"
	"github.com/greenloop/greenloop-backend/internal/repos"
)

type Repos struct {
	User           repos.UserRepo
	UserToken      repos.UserTokenRepo
	Organization   repos.OrganizationRepo
	Store          repos.StoreRepo
	Material       repos.MaterialRepo
	RewardRule     repos.RewardRuleRepo
	Bin            repos.BinRepo
	Coupon         repos.CouponRepo
	RecycleHistory repos.RecycleHistoryRepo
	UserTotalPoint repos.UserTotalPointRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:           repos.NewUserRepo(db, log),
		UserToken:      repos.NewUserTokenRepo(db, log),
		Organization:   repos.NewOrganizationRepo(db, log),
		Store:          repos.NewStoreRepo(db, log),
		Material:       repos.NewMaterialRepo(db, log),
		RewardRule:     repos.NewRewardRuleRepo(db, log),
		Bin:            repos.NewBinRepo(db, log),
		Coupon:         repos.NewCouponRepo(db, log),
		RecycleHistory: repos.NewRecycleHistoryRepo(db, log),
		UserTotalPoint: repos.NewUserTotalPointRepo(db, log),
	}
}
