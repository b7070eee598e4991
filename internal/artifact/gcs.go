package artifact

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

var (
	errInvalidBucket = errors.New("artifact: bucket name is required")
	errInvalidObject = errors.New("artifact: object name is required")
)

// GCSStorage keeps reports in a Google Cloud Storage bucket.
type GCSStorage struct {
	client *storage.Client
	bucket string
	scheme storage.SigningScheme
	now    func() time.Time
}

// GCSOption customises GCSStorage.
type GCSOption func(*GCSStorage)

// WithClock injects a custom clock.
func WithClock(clock func() time.Time) GCSOption {
	return func(s *GCSStorage) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewGCS wraps an existing storage client. Signing uses the client's credentials.
func NewGCS(client *storage.Client, bucket string, opts ...GCSOption) (*GCSStorage, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errInvalidBucket
	}
	if client == nil {
		return nil, errors.New("artifact: storage client is required")
	}
	s := &GCSStorage{
		client: client,
		bucket: bucket,
		scheme: storage.SigningSchemeV4,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Upload writes data to object, replacing any previous version.
func (s *GCSStorage) Upload(ctx context.Context, object string, data []byte, contentType string) error {
	object = strings.TrimSpace(object)
	if object == "" {
		return errInvalidObject
	}

	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "private, max-age=0"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write gcs object %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close gcs object %s: %w", object, err)
	}
	return nil
}

// SignedURL returns a V4 signed GET URL for object valid for expiry.
func (s *GCSStorage) SignedURL(_ context.Context, object string, expiry time.Duration) (string, error) {
	object = strings.TrimSpace(object)
	if object == "" {
		return "", errInvalidObject
	}
	if expiry <= 0 {
		expiry = DefaultSignedURLExpiry
	}

	url, err := s.client.Bucket(s.bucket).SignedURL(object, &storage.SignedURLOptions{
		Scheme:  s.scheme,
		Method:  http.MethodGet,
		Expires: s.now().Add(expiry),
	})
	if err != nil {
		return "", fmt.Errorf("sign gcs object %s: %w", object, err)
	}
	return url, nil
}

// Bucket returns the configured bucket name.
func (s *GCSStorage) Bucket() string {
	return s.bucket
}
