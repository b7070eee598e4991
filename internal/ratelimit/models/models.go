package models

import (
	"strings"
	"time"
)

// KeyPrefix namespaces bucket keys by the kind of identifier they count.
type KeyPrefix string

const (
	KeyPrefixIP KeyPrefix = "ip"
)

// EndpointClass groups routes that share a request budget.
type EndpointClass string

const (
	// ClassSubmit covers assessment submissions.
	ClassSubmit EndpointClass = "submit"
)

// RateLimitKey identifies one bucket.
type RateLimitKey string

// NewRateLimitKey builds "ratelimit:<prefix>:<identifier>:<class>".
func NewRateLimitKey(prefix KeyPrefix, identifier string, class EndpointClass) RateLimitKey {
	return RateLimitKey("ratelimit:" + string(prefix) + ":" + sanitizeKeySegment(identifier) + ":" + string(class))
}

func (k RateLimitKey) String() string {
	return string(k)
}

// sanitizeKeySegment escapes the key delimiter so an identifier cannot spill
// into an adjacent segment.
func sanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// RateLimitResult represents the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

// RateLimitExceededResponse is the API response when a client is throttled.
type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"` // seconds
}
