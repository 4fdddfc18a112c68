// Package mailer contains the notify.Sender implementations: SMTP for real
// delivery, Kafka for handing messages to a downstream mail worker, and a
// log-only sender for local development.
package mailer

import (
	"context"
	"log/slog"

	"github.com/de-freitas/rocketseat-nlw-planner/internal/notify"
)

// Log is a notify.Sender that writes every message to a slog.Logger instead of
// delivering it. Useful in development, where confirmation links are copied
// straight from the server output.
type Log struct {
	log *slog.Logger
}

// NewLog returns a Log sender writing to log.
func NewLog(log *slog.Logger) *Log {
	return &Log{log: log}
}

// Send logs msg at info level. It only fails when ctx is already done.
func (l *Log) Send(ctx context.Context, msg notify.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.log.InfoContext(ctx, "email",
		"to", msg.To,
		"to_name", msg.ToName,
		"subject", msg.Subject,
		"html", msg.HTML,
	)
	return nil
}
