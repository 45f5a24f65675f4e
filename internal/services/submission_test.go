package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/greenloop/greenloop-backend/internal/clients/analyzer"
	"github.com/greenloop/greenloop-backend/internal/logger"
	"github.com/greenloop/greenloop-backend/internal/repos"
	"github.com/greenloop/greenloop-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

type fakeBinRepo struct {
	bin *types.Bin
	err error
}

func (f *fakeBinRepo) Create(ctx context.Context, tx *gorm.DB, bin *types.Bin) (*types.Bin, error) {
	return bin, nil
}

func (f *fakeBinRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Bin, error) {
	return f.GetWithContext(ctx, tx, id)
}

func (f *fakeBinRepo) GetWithContext(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Bin, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bin, nil
}

func (f *fakeBinRepo) List(ctx context.Context, tx *gorm.DB, filter repos.BinFilter, limit, offset int) ([]*types.Bin, int64, error) {
	return nil, 0, nil
}

func (f *fakeBinRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	return nil
}

func (f *fakeBinRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return nil
}

type fakeHistoryRepo struct {
	created   []*types.RecycleHistory
	createErr error
}

func (f *fakeHistoryRepo) Create(ctx context.Context, tx *gorm.DB, history *types.RecycleHistory) (*types.RecycleHistory, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, history)
	return history, nil
}

func (f *fakeHistoryRepo) List(ctx context.Context, tx *gorm.DB, filter repos.HistoryFilter, limit, offset int) ([]*types.RecycleHistory, int64, error) {
	return f.created, int64(len(f.created)), nil
}

func (f *fakeHistoryRepo) SumPointsByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var sum int64
	for _, h := range f.created {
		if h.UserID == userID {
			sum += int64(h.Points)
		}
	}
	return sum, nil
}

func (f *fakeHistoryRepo) ListMediaURLs(ctx context.Context, tx *gorm.DB) ([]string, error) {
	urls := make([]string, 0, len(f.created))
	for _, h := range f.created {
		urls = append(urls, h.MediaURL)
	}
	return urls, nil
}

func (f *fakeHistoryRepo) CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error) {
	return int64(len(f.created)), nil
}

type fakeTotalRepo struct {
	increments map[uuid.UUID]int64
	err        error
}

func (f *fakeTotalRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserTotalPoint, error) {
	total, ok := f.increments[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &types.UserTotalPoint{UserID: userID, TotalPoints: total}, nil
}

func (f *fakeTotalRepo) IncrementOrCreate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, points int) error {
	if f.err != nil {
		return f.err
	}
	if f.increments == nil {
		f.increments = map[uuid.UUID]int64{}
	}
	f.increments[userID] += int64(points)
	return nil
}

func (f *fakeTotalRepo) SumAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	var sum int64
	for _, v := range f.increments {
		sum += v
	}
	return sum, nil
}

type fakeMediaService struct {
	relayErr   error
	relayCalls int
	deleted    []string
}

func (f *fakeMediaService) Relay(ctx context.Context, sourceURL string) (*RelayedMedia, error) {
	f.relayCalls++
	if f.relayErr != nil {
		return nil, f.relayErr
	}
	key := fmt.Sprintf("%srelay-%d", MediaKeyPrefix, f.relayCalls)
	return &RelayedMedia{Key: key, URL: "https://media.example.com/" + key}, nil
}

func (f *fakeMediaService) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeMediaService) KeyFromURL(mediaURL string) string {
	idx := strings.LastIndex(mediaURL, "/")
	if idx < 0 {
		return ""
	}
	return mediaURL[idx+1:]
}

type fakeAnalyzer struct {
	result *analyzer.ClaimResult
	err    error
	gotReq analyzer.ClaimRequest
}

func (f *fakeAnalyzer) AnalyzeClaim(ctx context.Context, req analyzer.ClaimRequest) (*analyzer.ClaimResult, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func activeBin(unit float64, point int) *types.Bin {
	ruleID := uuid.New()
	return &types.Bin{
		ID:     uuid.New(),
		Status: types.BinStatusActive,
		Material: &types.Material{
			ID:           uuid.New(),
			Name:         "Plastic",
			RewardRuleID: &ruleID,
			RewardRule:   &types.RewardRule{ID: ruleID, Unit: unit, Point: point, UnitType: "piece"},
		},
		Store: &types.Store{ID: uuid.New(), Name: "Downtown Mart"},
	}
}

type submissionFixture struct {
	service   SubmissionService
	binRepo   *fakeBinRepo
	histories *fakeHistoryRepo
	totals    *fakeTotalRepo
	media     *fakeMediaService
	analyzer  *fakeAnalyzer
}

func newSubmissionFixture(t *testing.T, bin *types.Bin, verdict *analyzer.ClaimResult) *submissionFixture {
	t.Helper()
	f := &submissionFixture{
		binRepo:   &fakeBinRepo{bin: bin},
		histories: &fakeHistoryRepo{},
		totals:    &fakeTotalRepo{},
		media:     &fakeMediaService{},
		analyzer:  &fakeAnalyzer{result: verdict},
	}
	f.service = NewSubmissionService(
		newTestDB(t),
		newTestLogger(t),
		f.binRepo,
		f.histories,
		f.totals,
		f.media,
		f.analyzer,
		0.7,
	)
	return f
}

func TestSubmitBinNotFound(t *testing.T) {
	f := newSubmissionFixture(t, nil, nil)
	f.binRepo.err = gorm.ErrRecordNotFound

	_, err := f.service.Submit(context.Background(), uuid.New(), SubmitInput{
		BinID:      uuid.New(),
		TotalCount: 1,
		MediaURL:   "https://photos.example.com/a.jpg",
	})

	var subErr *SubmissionError
	if !errors.As(err, &subErr) || subErr != ErrBinNotFound {
		t.Fatalf("want ErrBinNotFound, got %v", err)
	}
	if f.media.relayCalls != 0 {
		t.Fatalf("media relayed before bin validation: %d calls", f.media.relayCalls)
	}
}

func TestSubmitBinNotActive(t *testing.T) {
	for _, status := range []string{types.BinStatusInactive, types.BinStatusMaintenance} {
		t.Run(status, func(t *testing.T) {
			bin := activeBin(1, 1)
			bin.Status = status
			f := newSubmissionFixture(t, bin, nil)

			_, err := f.service.Submit(context.Background(), uuid.New(), SubmitInput{
				BinID:      bin.ID,
				TotalCount: 1,
				MediaURL:   "https://photos.example.com/a.jpg",
			})

			var subErr *SubmissionError
			if !errors.As(err, &subErr) || subErr != ErrBinNotActive {
				t.Fatalf("want ErrBinNotActive, got %v", err)
			}
			if f.media.relayCalls != 0 {
				t.Fatalf("media relayed for inactive bin")
			}
			if len(f.histories.created) != 0 {
				t.Fatalf("history created for inactive bin")
			}
		})
	}
}

func TestSubmitRejectedClaims(t *testing.T) {
	cases := []struct {
		name          string
		verdict       *analyzer.ClaimResult
		wantErrorType string
		wantMessage   string
	}{
		{
			name: "count discrepancy",
			verdict: &analyzer.ClaimResult{
				Status:         analyzer.StatusReject,
				StatusReason:   analyzer.ReasonCountDiscrepancy,
				FailureMessage: "Counted 2 item(s) in the photo but 5 were claimed.",
			},
			wantErrorType: analyzer.ReasonCountDiscrepancy,
			wantMessage:   "Counted 2 item(s) in the photo but 5 were claimed." + retrySuffix,
		},
		{
			name: "low confidence",
			verdict: &analyzer.ClaimResult{
				Status:         analyzer.StatusReject,
				StatusReason:   analyzer.ReasonLowConfidence,
				FailureMessage: "Could not verify the items with enough confidence.",
			},
			wantErrorType: analyzer.ReasonLowConfidence,
			wantMessage:   "Could not verify the items with enough confidence." + retrySuffix,
		},
		{
			name: "material mismatch",
			verdict: &analyzer.ClaimResult{
				Status:         analyzer.StatusReject,
				StatusReason:   analyzer.ReasonMaterialMismatch,
				FailureMessage: "The items look like glass, not Plastic.",
			},
			wantErrorType: analyzer.ReasonMaterialMismatch,
			wantMessage:   "The items look like glass, not Plastic." + retrySuffix,
		},
		{
			name: "no items detected",
			verdict: &analyzer.ClaimResult{
				Status:         analyzer.StatusReject,
				StatusReason:   analyzer.ReasonNoItemsDetected,
				FailureMessage: "No recyclable items were detected in the photo.",
			},
			wantErrorType: analyzer.ReasonNoItemsDetected,
			wantMessage:   "No recyclable items were detected in the photo." + retrySuffix,
		},
		{
			name: "image not clear",
			verdict: &analyzer.ClaimResult{
				Status:         analyzer.StatusReject,
				StatusReason:   analyzer.ReasonImageNotClear,
				FailureMessage: "The photo is too blurry to verify the items.",
			},
			wantErrorType: analyzer.ReasonImageNotClear,
			wantMessage:   "The photo is too blurry to verify the items." + retrySuffix,
		},
		{
			name: "reverify required",
			verdict: &analyzer.ClaimResult{
				Status:           analyzer.StatusReject,
				ReverifyRequired: true,
				FailureMessage:   "The photo needs to be retaken.",
			},
			wantErrorType: ErrorTypeReverifyRequired,
			wantMessage:   "The photo needs to be retaken." + retrySuffix,
		},
		{
			name: "accepted item does not match bin material",
			verdict: &analyzer.ClaimResult{
				Status:   analyzer.StatusAccept,
				ItemName: "Glass",
			},
			wantErrorType: ErrorTypeClaimRejected,
			wantMessage:   "The submitted photo could not be verified." + retrySuffix,
		},
		{
			name: "rejection without a reason",
			verdict: &analyzer.ClaimResult{
				Status: analyzer.StatusReject,
			},
			wantErrorType: ErrorTypeClaimRejected,
			wantMessage:   "The submitted photo could not be verified." + retrySuffix,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bin := activeBin(1, 1)
			f := newSubmissionFixture(t, bin, tc.verdict)

			_, err := f.service.Submit(context.Background(), uuid.New(), SubmitInput{
				BinID:      bin.ID,
				TotalCount: 5,
				MediaURL:   "https://photos.example.com/a.jpg",
			})

			var subErr *SubmissionError
			if !errors.As(err, &subErr) {
				t.Fatalf("want SubmissionError, got %v", err)
			}
			if subErr.Status != http.StatusBadRequest {
				t.Errorf("status: want=%d got=%d", http.StatusBadRequest, subErr.Status)
			}
			if subErr.ErrorType != tc.wantErrorType {
				t.Errorf("errorType: want=%q got=%q", tc.wantErrorType, subErr.ErrorType)
			}
			if subErr.Message != tc.wantMessage {
				t.Errorf("message: want=%q got=%q", tc.wantMessage, subErr.Message)
			}
			if len(f.media.deleted) != 1 {
				t.Fatalf("relayed media should be deleted exactly once, got %d", len(f.media.deleted))
			}
			if len(f.histories.created) != 0 {
				t.Errorf("no history row should be written for a rejection")
			}
			if len(f.totals.increments) != 0 {
				t.Errorf("no points should be credited for a rejection")
			}
		})
	}
}

func TestSubmitAccepted(t *testing.T) {
	bin := activeBin(5, 10)
	verdict := &analyzer.ClaimResult{Status: analyzer.StatusAccept, ItemName: "plastic", Confidence: 0.92}
	f := newSubmissionFixture(t, bin, verdict)
	userID := uuid.New()

	result, err := f.service.Submit(context.Background(), userID, SubmitInput{
		BinID:      bin.ID,
		TotalCount: 12,
		MediaURL:   "https://photos.example.com/a.jpg",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// floor(12 / 5 * 10) = 24
	if result.History.Points != 24 {
		t.Errorf("points: want=24 got=%d", result.History.Points)
	}
	if result.History.UserID != userID {
		t.Errorf("history user: want=%s got=%s", userID, result.History.UserID)
	}
	if result.History.BinID != bin.ID {
		t.Errorf("history bin: want=%s got=%s", bin.ID, result.History.BinID)
	}
	if result.History.TotalCount != 12 {
		t.Errorf("history total count: want=12 got=%d", result.History.TotalCount)
	}
	if !strings.HasPrefix(f.media.KeyFromURL(result.History.MediaURL), MediaKeyPrefix) {
		t.Errorf("history media url should point at a relayed object, got %q", result.History.MediaURL)
	}
	if len(f.histories.created) != 1 {
		t.Fatalf("want exactly one history row, got %d", len(f.histories.created))
	}
	if got := f.totals.increments[userID]; got != 24 {
		t.Errorf("credited points: want=24 got=%d", got)
	}
	if len(f.media.deleted) != 0 {
		t.Errorf("accepted submission must keep its media, deleted %v", f.media.deleted)
	}
	if f.analyzer.gotReq.MaterialName != "Plastic" {
		t.Errorf("analyzer material: want=Plastic got=%q", f.analyzer.gotReq.MaterialName)
	}
	if f.analyzer.gotReq.ClaimedCount != 12 {
		t.Errorf("analyzer claimed count: want=12 got=%d", f.analyzer.gotReq.ClaimedCount)
	}
	if f.analyzer.gotReq.MinConfidence != 0.7 {
		t.Errorf("analyzer min confidence: want=0.7 got=%v", f.analyzer.gotReq.MinConfidence)
	}
}

func TestSubmitAcceptedWithoutRewardRule(t *testing.T) {
	bin := activeBin(1, 1)
	bin.Material.RewardRule = nil
	bin.Material.RewardRuleID = nil
	verdict := &analyzer.ClaimResult{Status: analyzer.StatusAccept, ItemName: "Plastic"}
	f := newSubmissionFixture(t, bin, verdict)
	userID := uuid.New()

	result, err := f.service.Submit(context.Background(), userID, SubmitInput{
		BinID:      bin.ID,
		TotalCount: 3,
		MediaURL:   "https://photos.example.com/a.jpg",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if result.History.Points != 0 {
		t.Errorf("points without rule: want=0 got=%d", result.History.Points)
	}
	if len(f.histories.created) != 1 {
		t.Fatalf("history row should still be recorded, got %d", len(f.histories.created))
	}
	if len(f.totals.increments) != 0 {
		t.Errorf("zero-point submission must not touch the running total")
	}
}

func TestSubmitAnalyzerFailureCleansUpMedia(t *testing.T) {
	bin := activeBin(1, 1)
	f := newSubmissionFixture(t, bin, nil)
	f.analyzer.err = errors.New("analyzer unreachable")

	_, err := f.service.Submit(context.Background(), uuid.New(), SubmitInput{
		BinID:      bin.ID,
		TotalCount: 1,
		MediaURL:   "https://photos.example.com/a.jpg",
	})

	if err == nil {
		t.Fatal("want error")
	}
	var subErr *SubmissionError
	if errors.As(err, &subErr) {
		t.Fatalf("transport failure must not map to a verdict, got %v", subErr)
	}
	if len(f.media.deleted) != 1 {
		t.Fatalf("relayed media should be deleted after analyzer failure, got %d deletes", len(f.media.deleted))
	}
}

func TestSubmitPersistFailureCleansUpMedia(t *testing.T) {
	bin := activeBin(1, 1)
	verdict := &analyzer.ClaimResult{Status: analyzer.StatusAccept, ItemName: "Plastic"}
	f := newSubmissionFixture(t, bin, verdict)
	f.histories.createErr = errors.New("insert failed")

	_, err := f.service.Submit(context.Background(), uuid.New(), SubmitInput{
		BinID:      bin.ID,
		TotalCount: 1,
		MediaURL:   "https://photos.example.com/a.jpg",
	})

	if err == nil {
		t.Fatal("want error")
	}
	if len(f.media.deleted) != 1 {
		t.Fatalf("relayed media should be deleted after persist failure, got %d deletes", len(f.media.deleted))
	}
	if len(f.totals.increments) != 0 {
		t.Errorf("no points should be credited when the history insert fails")
	}
}

func TestSubmitRepeatedSubmissionsAccumulate(t *testing.T) {
	bin := activeBin(2, 3)
	verdict := &analyzer.ClaimResult{Status: analyzer.StatusAccept, ItemName: "Plastic"}
	f := newSubmissionFixture(t, bin, verdict)
	userID := uuid.New()

	var wantTotal int64
	for _, count := range []int{2, 4, 7} {
		result, err := f.service.Submit(context.Background(), userID, SubmitInput{
			BinID:      bin.ID,
			TotalCount: count,
			MediaURL:   "https://photos.example.com/a.jpg",
		})
		if err != nil {
			t.Fatalf("Submit(count=%d): %v", count, err)
		}
		wantTotal += int64(result.History.Points)
	}

	sum, err := f.histories.SumPointsByUserID(context.Background(), nil, userID)
	if err != nil {
		t.Fatalf("SumPointsByUserID: %v", err)
	}
	if sum != wantTotal {
		t.Errorf("ledger sum: want=%d got=%d", wantTotal, sum)
	}
	if got := f.totals.increments[userID]; got != wantTotal {
		t.Errorf("running total diverged from ledger: want=%d got=%d", wantTotal, got)
	}
}

func TestCalculatePoints(t *testing.T) {
	cases := []struct {
		name  string
		rule  *types.RewardRule
		count int
		want  int
	}{
		{"no rule", nil, 10, 0},
		{"exact multiple", &types.RewardRule{Unit: 5, Point: 10}, 10, 20},
		{"floors partial units", &types.RewardRule{Unit: 5, Point: 10}, 12, 24},
		{"below one unit", &types.RewardRule{Unit: 10, Point: 3}, 3, 0},
		{"unit of one", &types.RewardRule{Unit: 1, Point: 7}, 4, 28},
		{"fractional unit", &types.RewardRule{Unit: 0.5, Point: 1}, 3, 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CalculatePoints(tc.rule, tc.count); got != tc.want {
				t.Errorf("CalculatePoints(%+v, %d): want=%d got=%d", tc.rule, tc.count, tc.want, got)
			}
		})
	}
}
