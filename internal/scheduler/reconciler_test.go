package scheduler

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenloop/greenloop-backend/internal/clients/gcp"
	"github.com/greenloop/greenloop-backend/internal/logger"
	"github.com/greenloop/greenloop-backend/internal/repos"
	"github.com/greenloop/greenloop-backend/internal/services"
	"github.com/greenloop/greenloop-backend/internal/types"
)

type fakeBucket struct {
	objects []gcp.BucketObject
	deleted []string
	listErr error
}

func (f *fakeBucket) UploadObject(ctx context.Context, key, contentType string, body io.Reader) error {
	return nil
}

func (f *fakeBucket) DeleteObject(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeBucket) ListKeys(ctx context.Context, prefix string) ([]gcp.BucketObject, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []gcp.BucketObject
	for _, obj := range f.objects {
		if strings.HasPrefix(obj.Key, prefix) {
			out = append(out, obj)
		}
	}
	return out, nil
}

func (f *fakeBucket) GetPublicURL(key string) string {
	return "https://media.example.com/" + key
}

type fakeHistoryRepo struct {
	mediaURLs []string
}

func (f *fakeHistoryRepo) Create(ctx context.Context, tx *gorm.DB, history *types.RecycleHistory) (*types.RecycleHistory, error) {
	return history, nil
}

func (f *fakeHistoryRepo) List(ctx context.Context, tx *gorm.DB, filter repos.HistoryFilter, limit, offset int) ([]*types.RecycleHistory, int64, error) {
	return nil, 0, nil
}

func (f *fakeHistoryRepo) SumPointsByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakeHistoryRepo) ListMediaURLs(ctx context.Context, tx *gorm.DB) ([]string, error) {
	return f.mediaURLs, nil
}

func (f *fakeHistoryRepo) CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error) {
	return 0, nil
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func TestMediaReconcilerDeletesOnlyExpiredOrphans(t *testing.T) {
	now := time.Now()
	referencedKey := services.MediaKeyPrefix + "referenced"
	oldOrphanKey := services.MediaKeyPrefix + "old-orphan"
	freshOrphanKey := services.MediaKeyPrefix + "fresh-orphan"

	bucket := &fakeBucket{
		objects: []gcp.BucketObject{
			{Key: referencedKey, Created: now.Add(-48 * time.Hour)},
			{Key: oldOrphanKey, Created: now.Add(-48 * time.Hour)},
			{Key: freshOrphanKey, Created: now.Add(-1 * time.Hour)},
			{Key: "avatar_someone.png", Created: now.Add(-48 * time.Hour)},
		},
	}
	histories := &fakeHistoryRepo{
		mediaURLs: []string{"https://media.example.com/" + referencedKey},
	}
	log := newTestLogger(t)
	mediaService := services.NewMediaService(log, bucket)

	reconciler := NewMediaReconciler(log, bucket, histories, mediaService, 24*time.Hour)
	reconciler.Run()

	if len(bucket.deleted) != 1 {
		t.Fatalf("deleted keys: want exactly 1, got %v", bucket.deleted)
	}
	if bucket.deleted[0] != oldOrphanKey {
		t.Errorf("deleted: want=%q got=%q", oldOrphanKey, bucket.deleted[0])
	}
}

func TestMediaReconcilerListFailureDeletesNothing(t *testing.T) {
	bucket := &fakeBucket{listErr: errors.New("bucket unavailable")}
	log := newTestLogger(t)
	mediaService := services.NewMediaService(log, bucket)

	reconciler := NewMediaReconciler(log, bucket, &fakeHistoryRepo{}, mediaService, 24*time.Hour)
	reconciler.Run()

	if len(bucket.deleted) != 0 {
		t.Errorf("nothing should be deleted when listing fails, got %v", bucket.deleted)
	}
}

func TestMediaReconcilerEmptyBucket(t *testing.T) {
	bucket := &fakeBucket{}
	log := newTestLogger(t)
	mediaService := services.NewMediaService(log, bucket)

	reconciler := NewMediaReconciler(log, bucket, &fakeHistoryRepo{}, mediaService, 24*time.Hour)
	reconciler.Run()

	if len(bucket.deleted) != 0 {
		t.Errorf("empty bucket sweep must be a no-op, got %v", bucket.deleted)
	}
}
