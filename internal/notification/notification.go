package notification

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured means the transport lacks sender credentials; no send is attempted.
	ErrNotConfigured = errors.New("mail transport not configured")
	ErrNoRecipients  = errors.New("no recipients")
)

// Fields are the submission values embedded in the message.
type Fields struct {
	Department string
	Name       string
	Rating     int
	Category   string
	Comment    string
}

// Message is a rendered plain-text email. The transport supplies the sender.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Transport delivers one message per Send call.
type Transport interface {
	Send(ctx context.Context, msg Message) error
	// Ready reports ErrNotConfigured when the transport cannot send at all.
	Ready() error
}

// Result is the outcome of a single Notify call.
type Result struct {
	Sent       bool     `json:"sent"`
	Recipients []string `json:"recipients,omitempty"`
	Err        error    `json:"-"`
}

func (r Result) OK() bool {
	return r.Sent && r.Err == nil
}

// Reason is empty for successful sends.
func (r Result) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

func failed(recipients []string, err error) Result {
	return Result{Sent: false, Recipients: recipients, Err: err}
}
