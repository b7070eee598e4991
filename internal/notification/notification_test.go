package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threecs/internal/platform/logger"
	"threecs/internal/scoring"
	"threecs/pkg/email"
)

type recordingSender struct {
	sent []email.Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg email.Message) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.sent = append(r.sent, msg)
	return "msg_123", nil
}

func sampleSummary() Summary {
	return Summary{
		AssessorEmail: "jane.doe@example.com",
		SessionToken:  "tok-123",
		GeneratedAt:   time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		People: []PersonResult{
			{Name: "Ada <b>Lovelace</b>", Culture: 7, Competence: 4, Commitment: 3, FinalRating: 56, Grade: scoring.GradeB, Summary: "Solid performer."},
			{Name: "Grace Hopper", Culture: 10, Competence: 5, Commitment: 3, FinalRating: 100, Grade: scoring.GradeAPlus, Summary: "Exceptional."},
		},
	}
}

func TestRenderHTML(t *testing.T) {
	n, err := New(&recordingSender{}, "https://app.example.com/")
	require.NoError(t, err)

	html, err := n.RenderHTML(sampleSummary())
	require.NoError(t, err)

	assert.Contains(t, html, "https://app.example.com/history/tok-123")
	assert.Contains(t, html, "Hi Jane,")
	assert.Contains(t, html, "Mar 1, 2026, 9:30 AM UTC")
	assert.Contains(t, html, "2 persons assessed")
	assert.Contains(t, html, "#EAB308")
	assert.Contains(t, html, "#16A34A")
	assert.Contains(t, html, "Grace Hopper")
	assert.Contains(t, html, "Ada &lt;b&gt;Lovelace&lt;/b&gt;", "names are escaped")
	assert.NotContains(t, html, "<b>Lovelace</b>")
}

func TestRenderHTMLSinglePerson(t *testing.T) {
	n, err := New(&recordingSender{}, "http://localhost:8080")
	require.NoError(t, err)
	s := sampleSummary()
	s.People = s.People[:1]

	html, err := n.RenderHTML(s)
	require.NoError(t, err)
	assert.Contains(t, html, "1 person assessed")
}

func TestNotify(t *testing.T) {
	sender := &recordingSender{}
	n, err := New(sender, "http://localhost:8080", WithLogger(logger.Discard()))
	require.NoError(t, err)

	attachments := []email.Attachment{{Filename: email.AttachmentFilename("Grace Hopper"), Content: []byte("%PDF")}}
	require.NoError(t, n.Notify(context.Background(), sampleSummary(), attachments))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "jane.doe@example.com", msg.To)
	assert.Equal(t, "MSP+ 3Cs Assessment Results — 2 persons assessed", msg.Subject)
	assert.Equal(t, "3Cs_Assessment_Grace_Hopper.pdf", msg.Attachments[0].Filename)
	assert.Contains(t, msg.HTML, "/history/tok-123")
}

func TestNotifyPropagatesSendError(t *testing.T) {
	n, err := New(&recordingSender{err: errors.New("provider down")}, "http://localhost:8080", WithLogger(logger.Discard()))
	require.NoError(t, err)
	assert.Error(t, n.Notify(context.Background(), sampleSummary(), nil))
}

func TestNewRequiresSender(t *testing.T) {
	_, err := New(nil, "http://localhost")
	assert.Error(t, err)
}
