// Package notification emails assessors their results summary with the
// per-person reports attached.
package notification

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"threecs/internal/report"
	"threecs/internal/scoring"
	"threecs/pkg/email"
	"threecs/pkg/platform/privacy"
)

//go:embed templates/summary.html
var templateFS embed.FS

var summaryTemplate = template.Must(
	template.New("summary.html").
		Funcs(template.FuncMap{"gradeColor": func(g scoring.Grade) string { return report.GradeColor(g) }}).
		ParseFS(templateFS, "templates/summary.html"),
)

// PersonResult is one row of the summary table.
type PersonResult struct {
	Name        string
	Culture     int
	Competence  int
	Commitment  int
	FinalRating int
	Grade       scoring.Grade
	Summary     string
}

// Summary describes one submission.
type Summary struct {
	AssessorEmail string
	SessionToken  string
	People        []PersonResult
	GeneratedAt   time.Time
}

type brand struct {
	Primary string
	Blue    string
}

type view struct {
	Brand      brand
	Greeting   string
	DateTime   string
	Count      int
	People     []PersonResult
	HistoryURL string
}

// Notifier renders and sends results emails.
type Notifier struct {
	sender email.Sender
	appURL string
	logger *slog.Logger
}

type Option func(*Notifier)

func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) {
		n.logger = logger
	}
}

// New creates a Notifier whose history links are rooted at appURL.
func New(sender email.Sender, appURL string, opts ...Option) (*Notifier, error) {
	if sender == nil {
		return nil, errors.New("email sender is required")
	}
	n := &Notifier{
		sender: sender,
		appURL: strings.TrimRight(appURL, "/"),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// HistoryURL is the page listing a submission's results.
func (n *Notifier) HistoryURL(token string) string {
	return n.appURL + "/history/" + token
}

// RenderHTML builds the email body.
func (n *Notifier) RenderHTML(s Summary) (string, error) {
	first, _ := email.DeriveNameFromEmail(s.AssessorEmail)
	v := view{
		Brand:      brand{Primary: "#000033", Blue: "#0071BD"},
		Greeting:   first,
		DateTime:   s.GeneratedAt.UTC().Format(report.DateTimeLayout),
		Count:      len(s.People),
		People:     s.People,
		HistoryURL: n.HistoryURL(s.SessionToken),
	}
	var buf bytes.Buffer
	if err := summaryTemplate.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render summary email: %w", err)
	}
	return buf.String(), nil
}

// Notify sends the summary with attachments to the assessor.
func (n *Notifier) Notify(ctx context.Context, s Summary, attachments []email.Attachment) error {
	html, err := n.RenderHTML(s)
	if err != nil {
		return err
	}
	id, err := n.sender.Send(ctx, email.Message{
		To:          s.AssessorEmail,
		Subject:     email.Subject(len(s.People)),
		HTML:        html,
		Attachments: attachments,
	})
	if err != nil {
		return err
	}
	n.logger.InfoContext(ctx, "assessment email sent",
		"message_id", id,
		"recipient", privacy.MaskEmail(s.AssessorEmail),
		"attachments", len(attachments),
	)
	return nil
}
