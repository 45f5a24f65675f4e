package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/greenloop/greenloop-backend/internal/clients/gcp"
)

type fakeBucket struct {
	uploads map[string]string // key -> content type
	deleted []string
	objects []gcp.BucketObject
}

func (f *fakeBucket) UploadObject(ctx context.Context, key, contentType string, body io.Reader) error {
	if f.uploads == nil {
		f.uploads = map[string]string{}
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return err
	}
	f.uploads[key] = contentType
	return nil
}

func (f *fakeBucket) DeleteObject(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeBucket) ListKeys(ctx context.Context, prefix string) ([]gcp.BucketObject, error) {
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

func TestMediaRelay(t *testing.T) {
	source := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("not really a png"))
	}))
	defer source.Close()

	bucket := &fakeBucket{}
	ms := NewMediaService(newTestLogger(t), bucket)

	media, err := ms.Relay(context.Background(), source.URL+"/photo.png")
	if err != nil {
		t.Fatalf("Relay: %v", err)
	}
	if !strings.HasPrefix(media.Key, MediaKeyPrefix) {
		t.Errorf("key must carry the submission prefix, got %q", media.Key)
	}
	if media.URL != bucket.GetPublicURL(media.Key) {
		t.Errorf("url: want=%q got=%q", bucket.GetPublicURL(media.Key), media.URL)
	}
	if ct := bucket.uploads[media.Key]; ct != "image/png" {
		t.Errorf("content type: want=image/png got=%q", ct)
	}
}

func TestMediaRelayNonImageContentTypeDefaultsToJPEG(t *testing.T) {
	source := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("bytes"))
	}))
	defer source.Close()

	bucket := &fakeBucket{}
	ms := NewMediaService(newTestLogger(t), bucket)

	media, err := ms.Relay(context.Background(), source.URL)
	if err != nil {
		t.Fatalf("Relay: %v", err)
	}
	if ct := bucket.uploads[media.Key]; ct != "image/jpeg" {
		t.Errorf("content type: want=image/jpeg got=%q", ct)
	}
}

func TestMediaRelaySourceFailure(t *testing.T) {
	source := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer source.Close()

	bucket := &fakeBucket{}
	ms := NewMediaService(newTestLogger(t), bucket)

	if _, err := ms.Relay(context.Background(), source.URL); err == nil {
		t.Fatal("want error for non-200 source")
	}
	if len(bucket.uploads) != 0 {
		t.Errorf("nothing should be uploaded when the source fetch fails")
	}
}

func TestMediaKeyFromURL(t *testing.T) {
	ms := NewMediaService(newTestLogger(t), &fakeBucket{})

	cases := []struct {
		name string
		url  string
		want string
	}{
		{"canonical url", "https://media.example.com/recycle_abc123", "recycle_abc123"},
		{"nested path", "https://cdn.example.com/media/recycle_abc123", "recycle_abc123"},
		{"foreign object", "https://media.example.com/avatar_xyz.png", ""},
		{"no path", "recycle_abc123", ""},
		{"trailing slash", "https://media.example.com/", ""},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ms.KeyFromURL(tc.url); got != tc.want {
				t.Errorf("KeyFromURL(%q): want=%q got=%q", tc.url, tc.want, got)
			}
		})
	}
}

func TestMediaDeleteEmptyKeyIsNoop(t *testing.T) {
	bucket := &fakeBucket{}
	ms := NewMediaService(newTestLogger(t), bucket)

	if err := ms.Delete(context.Background(), ""); err != nil {
		t.Fatalf("Delete(\"\"): %v", err)
	}
	if len(bucket.deleted) != 0 {
		t.Errorf("empty key must not reach the bucket")
	}
}
