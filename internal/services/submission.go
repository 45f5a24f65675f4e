package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenloop/greenloop-backend/internal/clients/analyzer"
	"github.com/greenloop/greenloop-backend/internal/logger"
	"github.com/greenloop/greenloop-backend/internal/repos"
	"github.com/greenloop/greenloop-backend/internal/types"
)

// retrySuffix is appended to every analyzer failure message surfaced to
// the caller.
const retrySuffix = " Please adjust the photo and try again."

const (
	ErrorTypeReverifyRequired = "reverify_required"
	ErrorTypeClaimRejected    = "claim_rejected"
)

// SubmissionError is a terminal verdict for one submission attempt. The
// handler maps it directly onto the wire taxonomy; anything else that
// escapes Submit is an internal error.
type SubmissionError struct {
	Status    int
	ErrorType string
	Message   string
}

func (e *SubmissionError) Error() string { return e.Message }

var (
	ErrBinNotFound  = &SubmissionError{Status: http.StatusNotFound, ErrorType: "bin_not_found", Message: "Bin not found"}
	ErrBinNotActive = &SubmissionError{Status: http.StatusBadRequest, ErrorType: "bin_not_active", Message: "Bin is not active"}
)

type SubmitInput struct {
	BinID      uuid.UUID
	TotalCount int
	MediaURL   string
}

type SubmitResult struct {
	History *types.RecycleHistory
	Bin     *types.Bin
}

type SubmissionService interface {
	Submit(ctx context.Context, userID uuid.UUID, in SubmitInput) (*SubmitResult, error)
}

type submissionService struct {
	db            *gorm.DB
	log           *logger.Logger
	binRepo       repos.BinRepo
	historyRepo   repos.RecycleHistoryRepo
	totalRepo     repos.UserTotalPointRepo
	mediaService  MediaService
	claimAnalyzer analyzer.Analyzer
	minConfidence float64
}

func NewSubmissionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	binRepo repos.BinRepo,
	historyRepo repos.RecycleHistoryRepo,
	totalRepo repos.UserTotalPointRepo,
	mediaService MediaService,
	claimAnalyzer analyzer.Analyzer,
	minConfidence float64,
) SubmissionService {
	return &submissionService{
		db:            db,
		log:           baseLog.With("service", "SubmissionService"),
		binRepo:       binRepo,
		historyRepo:   historyRepo,
		totalRepo:     totalRepo,
		mediaService:  mediaService,
		claimAnalyzer: claimAnalyzer,
		minConfidence: minConfidence,
	}
}

// Submit runs the scoring and crediting pipeline for one claim. Stages
// run sequentially on the request context; every rejection after the
// media relay deletes the uploaded object before returning.
func (ss *submissionService) Submit(ctx context.Context, userID uuid.UUID, in SubmitInput) (*SubmitResult, error) {
	bin, err := ss.binRepo.GetWithContext(ctx, nil, in.BinID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBinNotFound
		}
		return nil, fmt.Errorf("load bin context: %w", err)
	}
	if bin.Status != types.BinStatusActive {
		return nil, ErrBinNotActive
	}
	if bin.Material == nil {
		return nil, fmt.Errorf("bin %s has no material loaded", bin.ID)
	}

	media, err := ss.mediaService.Relay(ctx, in.MediaURL)
	if err != nil {
		// Nothing was created yet, so there is nothing to compensate.
		return nil, fmt.Errorf("media relay: %w", err)
	}

	verdict, err := ss.claimAnalyzer.AnalyzeClaim(ctx, analyzer.ClaimRequest{
		ImageURL:      media.URL,
		MaterialName:  bin.Material.Name,
		ClaimedCount:  in.TotalCount,
		MinConfidence: ss.minConfidence,
	})
	if err != nil {
		ss.cleanupMedia(ctx, media.Key)
		return nil, fmt.Errorf("claim analyzer: %w", err)
	}

	if rejection := interpretVerdict(verdict, bin.Material.Name); rejection != nil {
		ss.log.Info("Submission rejected",
			"user_id", userID,
			"bin_id", bin.ID,
			"error_type", rejection.ErrorType,
		)
		ss.cleanupMedia(ctx, media.Key)
		return nil, rejection
	}

	points := CalculatePoints(bin.Material.RewardRule, in.TotalCount)

	history := &types.RecycleHistory{
		ID:         uuid.New(),
		UserID:     userID,
		BinID:      bin.ID,
		Points:     points,
		TotalCount: in.TotalCount,
		MediaURL:   media.URL,
		RecycledAt: time.Now(),
	}

	err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ss.historyRepo.Create(ctx, tx, history); err != nil {
			return fmt.Errorf("create recycle history: %w", err)
		}
		if points > 0 {
			if err := ss.totalRepo.IncrementOrCreate(ctx, tx, userID, points); err != nil {
				return fmt.Errorf("increment user total points: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		ss.cleanupMedia(ctx, media.Key)
		return nil, fmt.Errorf("persist submission: %w", err)
	}

	ss.log.Info("Submission accepted",
		"user_id", userID,
		"bin_id", bin.ID,
		"points", points,
		"total_count", in.TotalCount,
	)
	return &SubmitResult{History: history, Bin: bin}, nil
}

// cleanupMedia is the compensating action for every failure path after
// the relay. Failures here are logged but never surfaced to the caller;
// the reconciliation sweep picks up anything left behind.
func (ss *submissionService) cleanupMedia(ctx context.Context, key string) {
	if err := ss.mediaService.Delete(ctx, key); err != nil {
		ss.log.Error("Failed to delete relayed media after rejection", "key", key, "error", err)
	}
}

// interpretVerdict maps an analyzer result onto the rejection taxonomy.
// Returns nil when the claim is accepted.
func interpretVerdict(verdict *analyzer.ClaimResult, materialName string) *SubmissionError {
	if verdict == nil {
		return rejection(ErrorTypeClaimRejected, "")
	}
	if verdict.ReverifyRequired {
		return rejection(ErrorTypeReverifyRequired, verdict.FailureMessage)
	}
	switch verdict.StatusReason {
	case analyzer.ReasonCountDiscrepancy,
		analyzer.ReasonLowConfidence,
		analyzer.ReasonMaterialMismatch,
		analyzer.ReasonNoItemsDetected,
		analyzer.ReasonImageNotClear:
		return rejection(verdict.StatusReason, verdict.FailureMessage)
	}
	if verdict.Status == analyzer.StatusAccept && strings.EqualFold(verdict.ItemName, materialName) {
		return nil
	}
	return rejection(ErrorTypeClaimRejected, verdict.FailureMessage)
}

func rejection(errorType, failureMessage string) *SubmissionError {
	msg := strings.TrimSpace(failureMessage)
	if msg == "" {
		msg = "The submitted photo could not be verified."
	}
	return &SubmissionError{
		Status:    http.StatusBadRequest,
		ErrorType: errorType,
		Message:   msg + retrySuffix,
	}
}

// CalculatePoints converts a claimed count to points with the material's
// linear unit-to-point rule. A material without a rule earns zero points;
// the history row is still recorded. Rules are validated to have a
// positive unit when they are created, so unit is not re-checked here.
func CalculatePoints(rule *types.RewardRule, totalCount int) int {
	if rule == nil {
		return 0
	}
	return int(math.Floor(float64(totalCount) / rule.Unit * float64(rule.Point)))
}
