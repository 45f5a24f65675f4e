package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/greenloop/greenloop-backend/internal/clients/gcp"
	"github.com/greenloop/greenloop-backend/internal/logger"
)

// MediaKeyPrefix tags every relayed submission photo in the bucket. The
// reconciliation sweep only ever looks under this prefix.
const MediaKeyPrefix = "recycle_"

const maxMediaBytes = 20 << 20

type RelayedMedia struct {
	Key string
	URL string
}

// MediaService re-uploads client-supplied media into the managed bucket
// under a freshly generated key, producing the canonical URL that the
// rest of the pipeline (and any later compensation) refers to.
type MediaService interface {
	Relay(ctx context.Context, sourceURL string) (*RelayedMedia, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(mediaURL string) string
}

type mediaService struct {
	log        *logger.Logger
	bucket     gcp.BucketService
	httpClient *http.Client
}

func NewMediaService(log *logger.Logger, bucket gcp.BucketService) MediaService {
	return &mediaService{
		log:        log.With("service", "MediaService"),
		bucket:     bucket,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (ms *mediaService) Relay(ctx context.Context, sourceURL string) (*RelayedMedia, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build media fetch request: %w", err)
	}
	resp, err := ms.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch source media: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch source media: unexpected status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || !strings.HasPrefix(contentType, "image/") {
		contentType = "image/jpeg"
	}

	key := MediaKeyPrefix + uuid.New().String()
	body := io.LimitReader(resp.Body, maxMediaBytes)
	if err := ms.bucket.UploadObject(ctx, key, contentType, body); err != nil {
		return nil, fmt.Errorf("upload relayed media: %w", err)
	}

	url := ms.bucket.GetPublicURL(key)
	ms.log.Info("Relayed submission media", "key", key, "content_type", contentType)
	return &RelayedMedia{Key: key, URL: url}, nil
}

func (ms *mediaService) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return ms.bucket.DeleteObject(ctx, key)
}

// KeyFromURL recovers the bucket key from a canonical media URL. Returns
// "" for URLs that do not point at a relayed submission object.
func (ms *mediaService) KeyFromURL(mediaURL string) string {
	idx := strings.LastIndex(mediaURL, "/")
	if idx < 0 || idx == len(mediaURL)-1 {
		return ""
	}
	key := mediaURL[idx+1:]
	if !strings.HasPrefix(key, MediaKeyPrefix) {
		return ""
	}
	return key
}
