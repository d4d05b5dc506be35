package sms

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// SegmentLength is the number of characters billed as one SMS.
const SegmentLength = 160

// Delivery channels.
const (
	ChannelSMS   = "sms"
	ChannelEmail = "email"
)

// Message statuses.
const (
	StatusSent   = "Sent"
	StatusFailed = "Failed"
)

// Domain errors
var (
	ErrEmptyBody          = errors.New("message body cannot be empty")
	ErrNoRecipients       = errors.New("message needs at least one recipient")
	ErrInvalidChannel     = errors.New("channel must be sms or email")
	ErrInsufficientCredit = errors.New("insufficient SMS credit")
	ErrNonPositiveTopUp   = errors.New("top-up must be greater than zero")
)

// Message is one broadcast to a list of recipients.
type Message struct {
	ID         string
	Recipients []string // phone numbers or email addresses depending on Channel
	Subject    string   // email only
	Body       string
	Segments   int
	Cost       int
	Channel    string
	Status     string
	SentAt     time.Time
}

// Validate checks if the Message has valid data.
func (m *Message) Validate() error {
	if strings.TrimSpace(m.Body) == "" {
		return ErrEmptyBody
	}
	if len(m.Recipients) == 0 {
		return ErrNoRecipients
	}
	if m.Channel != ChannelSMS && m.Channel != ChannelEmail {
		return ErrInvalidChannel
	}
	return nil
}

// Segments returns the number of SMS segments body occupies.
// An empty body occupies zero segments.
func Segments(body string) int {
	n := utf8.RuneCountInString(body)
	return (n + SegmentLength - 1) / SegmentLength
}

// Cost returns the credits needed to send body to recipients people over SMS.
func Cost(body string, recipients int) int {
	return Segments(body) * recipients
}
