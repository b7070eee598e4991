package artifact

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"threecs/pkg/platform/sentinel"
)

type object struct {
	data        []byte
	contentType string
}

// MemoryStorage keeps reports in process memory and serves them itself.
// Links carry an expiry and an HMAC over name and expiry, and are only
// honored until then.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string]object
	baseURL string
	key     []byte
	now     func() time.Time
}

// NewMemory creates a MemoryStorage whose links are rooted at baseURL,
// e.g. "http://localhost:8080/files".
func NewMemory(baseURL string) *MemoryStorage {
	return &MemoryStorage{
		objects: make(map[string]object),
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     []byte(rand.Text()),
		now:     time.Now,
	}
}

// Upload stores a copy of data under name.
func (s *MemoryStorage) Upload(_ context.Context, name string, data []byte, contentType string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errInvalidObject
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = object{data: append([]byte(nil), data...), contentType: contentType}
	return nil
}

// SignedURL returns a link to name that expires after expiry.
func (s *MemoryStorage) SignedURL(_ context.Context, name string, expiry time.Duration) (string, error) {
	s.mu.RLock()
	_, ok := s.objects[name]
	s.mu.RUnlock()
	if !ok {
		return "", sentinel.ErrNotFound
	}
	if expiry <= 0 {
		expiry = DefaultSignedURLExpiry
	}
	expires := strconv.FormatInt(s.now().Add(expiry).Unix(), 10)
	q := url.Values{"expires": {expires}, "sig": {s.sign(name, expires)}}
	return s.baseURL + "/" + name + "?" + q.Encode(), nil
}

// Object returns the stored bytes for name.
func (s *MemoryStorage) Object(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[name]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), obj.data...), true
}

// ServeHTTP serves objects by path relative to the mount point. Mount with
// http.StripPrefix so r.URL.Path is the object name.
func (s *MemoryStorage) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/")
	if !s.linkValid(name, r.URL) {
		http.Error(w, "link expired", http.StatusForbidden)
		return
	}
	s.mu.RLock()
	obj, ok := s.objects[name]
	s.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", obj.contentType)
	w.Header().Set("Cache-Control", "private, max-age=0")
	_, _ = w.Write(obj.data)
}

func (s *MemoryStorage) sign(name, expires string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(name + "\n" + expires))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (s *MemoryStorage) linkValid(name string, u *url.URL) bool {
	q := u.Query()
	raw := q.Get("expires")
	expires, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false
	}
	if !hmac.Equal([]byte(q.Get("sig")), []byte(s.sign(name, raw))) {
		return false
	}
	return s.now().Unix() <= expires
}
