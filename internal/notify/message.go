// Package notify builds and delivers the transactional emails sent when a trip
// is created or confirmed. It owns the message content (Composer) and the
// fan-out policy (Dispatcher); the wire transport is any Sender.
package notify

import "context"

// Message is one rendered email addressed to a single recipient.
type Message struct {
	To      string
	ToName  string // optional display name
	Subject string
	HTML    string
}

// Sender delivers a single Message. Implementations live in package mailer.
// Send must honour ctx cancellation; the Dispatcher bounds every call with a timeout.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts an ordinary function to the Sender interface.
type SenderFunc func(ctx context.Context, msg Message) error

// Send calls f(ctx, msg).
func (f SenderFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}
