package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threecs/pkg/platform/circuit"
)

func newTestSender(t *testing.T, h http.Handler, opts ...ResendOption) *ResendSender {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	sender, ok := NewResendSender("re_test", "results@example.com", opts...).(*ResendSender)
	require.True(t, ok)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	sender.client.BaseURL = base
	return sender
}

func TestResendSenderSend(t *testing.T) {
	var got map[string]any
	var auth string
	sender := newTestSender(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"em_123"}`))
	}))

	id, err := sender.Send(context.Background(), Message{
		To:          "lead@example.com",
		Subject:     Subject(1),
		HTML:        "<p>hi</p>",
		Attachments: []Attachment{{Filename: AttachmentFilename("Ada"), Content: []byte("%PDF-1.3")}},
	})

	require.NoError(t, err)
	assert.Equal(t, "em_123", id)
	assert.Equal(t, "Bearer re_test", auth)
	assert.Equal(t, "results@example.com", got["from"])
	assert.Equal(t, []any{"lead@example.com"}, got["to"])
	assert.Equal(t, Subject(1), got["subject"])
	attachments, ok := got["attachments"].([]any)
	require.True(t, ok)
	require.Len(t, attachments, 1)
	assert.Equal(t, "3Cs_Assessment_Ada.pdf", attachments[0].(map[string]any)["filename"])
}

func TestResendSenderBreaker(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	var calls atomic.Int32
	var failing atomic.Bool
	failing.Store(true)

	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"provider down"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"em_456"}`))
	})

	var logs bytes.Buffer
	breaker := circuit.New("resend",
		circuit.WithFailureThreshold(2),
		circuit.WithSuccessThreshold(1),
		circuit.WithCooldown(time.Minute),
		circuit.WithClock(func() time.Time { return now }),
	)
	sender := newTestSender(t, h,
		WithBreaker(breaker),
		WithSenderLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)
	ctx := context.Background()
	msg := Message{To: "lead@example.com", Subject: Subject(2), HTML: "<p>hi</p>"}

	for range 2 {
		_, err := sender.Send(ctx, msg)
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrCircuitOpen))
	}
	assert.Contains(t, logs.String(), "email circuit opened")
	assert.Contains(t, logs.String(), "breaker=resend")

	_, err := sender.Send(ctx, msg)
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.Contains(t, err.Error(), "resend breaker open")
	assert.Equal(t, int32(2), calls.Load(), "an open breaker must not reach the provider")

	now = now.Add(2 * time.Minute)
	failing.Store(false)
	id, err := sender.Send(ctx, msg)
	require.NoError(t, err)
	assert.Equal(t, "em_456", id)
	assert.Equal(t, circuit.StateClosed, breaker.State())
	assert.Contains(t, logs.String(), "email circuit closed")
}
