package email

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// ErrNotConfigured is returned by senders that have no delivery credentials.
var ErrNotConfigured = errors.New("email delivery is not configured")

// Attachment is a file sent alongside a message.
type Attachment struct {
	Filename string
	Content  []byte
}

// Message is one outbound email.
type Message struct {
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Sender delivers messages and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// DisabledSender fails every send. Use it when no provider is configured so
// callers still take their failure path.
type DisabledSender struct{}

func (DisabledSender) Send(context.Context, Message) (string, error) {
	return "", ErrNotConfigured
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// AttachmentFilename names a person's report, e.g. "3Cs_Assessment_Ada_Lovelace.pdf".
func AttachmentFilename(personName string) string {
	return "3Cs_Assessment_" + nonAlphanumeric.ReplaceAllString(personName, "_") + ".pdf"
}

// Subject builds the results subject line for n assessed people.
func Subject(n int) string {
	noun := "person"
	if n != 1 {
		noun = "persons"
	}
	return fmt.Sprintf("MSP+ 3Cs Assessment Results — %d %s assessed", n, noun)
}

// DeriveNameFromEmail guesses a first and last name from an address's local
// part, e.g. "jane.doe@x" gives ("Jane", "Doe").
func DeriveNameFromEmail(email string) (string, string) {
	localPart := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		localPart = email[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})

	if len(parts) == 0 {
		return "there", ""
	}

	first := capitalize(parts[0])
	last := ""
	if len(parts) > 1 {
		last = capitalize(parts[len(parts)-1])
	}

	return first, last
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
