package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/resend/resend-go/v2"

	"threecs/pkg/platform/circuit"
)

// ErrCircuitOpen is returned while the provider is considered down.
var ErrCircuitOpen = errors.New("email provider unavailable")

// ResendSender delivers mail through the Resend API.
type ResendSender struct {
	client  *resend.Client
	from    string
	breaker *circuit.Breaker
	logger  *slog.Logger
}

type ResendOption func(*ResendSender)

// WithBreaker short-circuits sends after repeated provider failures.
func WithBreaker(b *circuit.Breaker) ResendOption {
	return func(s *ResendSender) {
		s.breaker = b
	}
}

// WithSenderLogger reports breaker transitions.
func WithSenderLogger(logger *slog.Logger) ResendOption {
	return func(s *ResendSender) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewResendSender returns a Sender for apiKey, or DisabledSender when the key
// is empty.
func NewResendSender(apiKey, from string, opts ...ResendOption) Sender {
	if strings.TrimSpace(apiKey) == "" {
		return DisabledSender{}
	}
	s := &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ResendSender) Send(ctx context.Context, msg Message) (string, error) {
	if s.breaker != nil && !s.breaker.Allow() {
		return "", fmt.Errorf("%w: %s breaker %s", ErrCircuitOpen, s.breaker.Name(), s.breaker.State())
	}

	req := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
	for _, a := range msg.Attachments {
		req.Attachments = append(req.Attachments, &resend.Attachment{
			Filename: a.Filename,
			Content:  a.Content,
		})
	}

	sent, err := s.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		if s.breaker != nil {
			if _, change := s.breaker.RecordFailure(); change.Opened {
				s.logger.WarnContext(ctx, "email circuit opened", "breaker", s.breaker.Name(), "error", err)
			}
		}
		return "", fmt.Errorf("email send failed: %w", err)
	}
	if s.breaker != nil {
		if _, change := s.breaker.RecordSuccess(); change.Closed {
			s.logger.InfoContext(ctx, "email circuit closed", "breaker", s.breaker.Name())
		}
	}
	return sent.Id, nil
}
