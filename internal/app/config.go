package app

import (
	"strings"
	"time"

	"github.com/greenloop/greenloop-backend/internal/logger"
	"github.com/greenloop/greenloop-backend/internal/utils"
)

type Config struct {
	JWTSecretKey         string
	AccessTokenTTL       time.Duration
	RefreshTokenTTL      time.Duration
	MinConfidence        float64
	AnalyzerProvider     string
	StatsCacheTTL        time.Duration
	ReconcileSchedule    string
	ReconcileGraceWindow time.Duration
	AllowedOrigins       []string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	minConfidence := utils.GetEnvAsFloat("ANALYZER_MIN_CONFIDENCE", 0.7, log)
	analyzerProvider := utils.GetEnv("ANALYZER_PROVIDER", "http", log)
	statsCacheTTLSeconds := utils.GetEnvAsInt("STATS_CACHE_TTL", 60, log)
	reconcileSchedule := utils.GetEnv("MEDIA_RECONCILE_SCHEDULE", "@hourly", log)
	reconcileGraceHours := utils.GetEnvAsInt("MEDIA_RECONCILE_GRACE_HOURS", 24, log)

	var origins []string
	if raw := utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return Config{
		JWTSecretKey:         jwtSecretKey,
		AccessTokenTTL:       time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL:      time.Duration(refreshTokenTTLSeconds) * time.Second,
		MinConfidence:        minConfidence,
		AnalyzerProvider:     analyzerProvider,
		StatsCacheTTL:        time.Duration(statsCacheTTLSeconds) * time.Second,
		ReconcileSchedule:    reconcileSchedule,
		ReconcileGraceWindow: time.Duration(reconcileGraceHours) * time.Hour,
		AllowedOrigins:       origins,
	}
}
