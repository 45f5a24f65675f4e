package scheduler

import (
	"context"
	"time"

	"github.com/greenloop/greenloop-backend/internal/clients/gcp"
	"github.com/greenloop/greenloop-backend/internal/logger"
	"github.com/greenloop/greenloop-backend/internal/repos"
	"github.com/greenloop/greenloop-backend/internal/services"
)

// MediaReconciler sweeps the media bucket for submission objects that no
// recycle history row references and deletes them once they are older than
// the grace window. Objects younger than the window are skipped so an
// in-flight submission never loses its photo between upload and commit.
type MediaReconciler struct {
	log          *logger.Logger
	bucket       gcp.BucketService
	historyRepo  repos.RecycleHistoryRepo
	mediaService services.MediaService
	graceWindow  time.Duration
	runTimeout   time.Duration
}

func NewMediaReconciler(
	baseLog *logger.Logger,
	bucket gcp.BucketService,
	historyRepo repos.RecycleHistoryRepo,
	mediaService services.MediaService,
	graceWindow time.Duration,
) *MediaReconciler {
	return &MediaReconciler{
		log:          baseLog.With("job", "MediaReconciler"),
		bucket:       bucket,
		historyRepo:  historyRepo,
		mediaService: mediaService,
		graceWindow:  graceWindow,
		runTimeout:   10 * time.Minute,
	}
}

// Run executes a single reconciliation sweep. Delete failures are logged and
// left for the next sweep.
func (mr *MediaReconciler) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), mr.runTimeout)
	defer cancel()

	objects, err := mr.bucket.ListKeys(ctx, services.MediaKeyPrefix)
	if err != nil {
		mr.log.Error("Failed to list media objects", "error", err)
		return
	}
	if len(objects) == 0 {
		return
	}

	urls, err := mr.historyRepo.ListMediaURLs(ctx, nil)
	if err != nil {
		mr.log.Error("Failed to list referenced media urls", "error", err)
		return
	}
	referenced := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if key := mr.mediaService.KeyFromURL(u); key != "" {
			referenced[key] = struct{}{}
		}
	}

	cutoff := time.Now().Add(-mr.graceWindow)
	var deleted, skipped int
	for _, obj := range objects {
		if _, ok := referenced[obj.Key]; ok {
			continue
		}
		if obj.Created.After(cutoff) {
			skipped++
			continue
		}
		if err := mr.bucket.DeleteObject(ctx, obj.Key); err != nil {
			mr.log.Error("Failed to delete orphaned media object", "key", obj.Key, "error", err)
			continue
		}
		deleted++
	}
	if deleted > 0 || skipped > 0 {
		mr.log.Info("Media reconciliation sweep finished",
			"scanned", len(objects),
			"deleted", deleted,
			"withinGraceWindow", skipped,
		)
	}
}
