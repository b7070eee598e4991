package email

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttachmentFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Ada Lovelace", "3Cs_Assessment_Ada_Lovelace.pdf"},
		{"O'Brien-Smith", "3Cs_Assessment_O_Brien_Smith.pdf"},
		{"José", "3Cs_Assessment_Jos_.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AttachmentFilename(tt.name))
		})
	}
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "MSP+ 3Cs Assessment Results — 1 person assessed", Subject(1))
	assert.Equal(t, "MSP+ 3Cs Assessment Results — 3 persons assessed", Subject(3))
}

func TestDeriveNameFromEmail(t *testing.T) {
	tests := []struct {
		email string
		first string
		last  string
	}{
		{"jane.doe@example.com", "Jane", "Doe"},
		{"ops_lead+hiring@example.com", "Ops", "Hiring"},
		{"manager@example.com", "Manager", ""},
		{"@example.com", "there", ""},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			first, last := DeriveNameFromEmail(tt.email)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.last, last)
		})
	}
}

func TestDisabledSender(t *testing.T) {
	_, err := DisabledSender{}.Send(context.Background(), Message{To: "a@example.com"})
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestNewResendSenderWithoutKey(t *testing.T) {
	assert.IsType(t, DisabledSender{}, NewResendSender("  ", "from@example.com"))
	assert.IsType(t, &ResendSender{}, NewResendSender("re_test", "from@example.com"))
}
