// Package mail delivers the account emails (verification and password reset).
package mail

import (
	"context"
	"log/slog"
	"sync"
)

// Message is a single outgoing email.
type Message struct {
	To      string
	Subject string
	Body    string
	// Link is the action URL embedded in Body, kept separately for logging and tests.
	Link string
}

// Sender defines the contract for sending emails.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the log instead of delivering them.
// Used in development when no mail provider is configured.
type LogSender struct {
	Logger *slog.Logger
}

// Send logs the message.
func (s LogSender) Send(ctx context.Context, msg Message) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "Email queued",
		"to", msg.To,
		"subject", msg.Subject,
		"link", msg.Link,
	)
	return nil
}

// Outbox records messages in memory.
type Outbox struct {
	mu       sync.Mutex
	messages []Message
}

// Send records the message.
func (o *Outbox) Send(_ context.Context, msg Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, msg)
	return nil
}

// Messages returns a copy of everything sent so far.
func (o *Outbox) Messages() []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Message, len(o.messages))
	copy(out, o.messages)
	return out
}

// Last returns the most recent message sent to the address, if any.
func (o *Outbox) Last(to string) (Message, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.messages) - 1; i >= 0; i-- {
		if o.messages[i].To == to {
			return o.messages[i], true
		}
	}
	return Message{}, false
}
