package app

import (
	"gorm.io/gorm"

	"github.com/greenloop/greenloop-backend/internal/logger"
	"github.com/greenloop/greenloop-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	Avatar       services.AvatarService
	User         services.UserService
	Organization services.OrganizationService
	Store        services.StoreService
	Bin          services.BinService
	Material     services.MaterialService
	Coupon       services.CouponService
	History      services.HistoryService
	Media        services.MediaService
	Submission   services.SubmissionService
	Stats        services.StatsService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients) (Services, error) {
	log.Info("Wiring services...")

	// Avatar generation is optional: registration proceeds without one when
	// the font is not configured.
	avatarService, err := services.NewAvatarService(log, c.Bucket)
	if err != nil {
		log.Warn("Avatar service unavailable, users will register without avatars", "error", err)
		avatarService = nil
	}

	mediaService := services.NewMediaService(log, c.Bucket)

	return Services{
		Auth: services.NewAuthService(
			db, log,
			r.User, r.UserToken,
			avatarService,
			cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
		),
		Avatar:       avatarService,
		User:         services.NewUserService(db, log, r.User, r.UserTotalPoint),
		Organization: services.NewOrganizationService(db, log, r.Organization),
		Store:        services.NewStoreService(db, log, r.Store, r.Organization),
		Bin:          services.NewBinService(db, log, r.Bin, r.Store, r.Material),
		Material:     services.NewMaterialService(db, log, r.Material, r.RewardRule),
		Coupon:       services.NewCouponService(db, log, r.Coupon),
		History:      services.NewHistoryService(db, log, r.RecycleHistory),
		Media:        mediaService,
		Submission: services.NewSubmissionService(
			db, log,
			r.Bin, r.RecycleHistory, r.UserTotalPoint,
			mediaService, c.Analyzer,
			cfg.MinConfidence,
		),
		Stats: services.NewStatsService(db, log, r.RecycleHistory, r.UserTotalPoint, c.Cache, cfg.StatsCacheTTL),
	}, nil
}
