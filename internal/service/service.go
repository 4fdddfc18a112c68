// Package service contains the business logic for the plann.er API.
// Services validate inputs, enforce the trip and participant confirmation
// rules, and orchestrate repo calls and notifications.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/de-freitas/rocketseat-nlw-planner/internal/notify"
)

var tracer = otel.Tracer("github.com/de-freitas/rocketseat-nlw-planner/internal/service")

// Notifier delivers composed messages. *notify.Dispatcher satisfies it.
type Notifier interface {
	// Deliver sends synchronously and reports per-recipient outcomes.
	Deliver(ctx context.Context, msgs []notify.Message) notify.Report
	// Detach sends in the background; the caller does not wait.
	Detach(ctx context.Context, msgs []notify.Message)
}

// Links builds the absolute URLs embedded in emails and returned as redirects.
type Links struct {
	// APIBaseURL roots the confirmation links followed from emails.
	APIBaseURL string
	// FrontBaseURL roots the pages users are redirected to after confirming.
	FrontBaseURL string
}

// TripConfirmation is the link the owner follows to confirm a trip.
func (l Links) TripConfirmation(tripID uuid.UUID) string {
	return strings.TrimRight(l.APIBaseURL, "/") + "/trips/" + tripID.String() + "/confirm"
}

// ParticipantConfirmation is the link an invitee follows to confirm attendance.
func (l Links) ParticipantConfirmation(participantID uuid.UUID) string {
	return strings.TrimRight(l.APIBaseURL, "/") + "/participants/" + participantID.String() + "/confirm"
}

// TripPage is the front-end page for a trip, used as the redirect target after
// any confirmation regardless of whether it changed state.
func (l Links) TripPage(tripID uuid.UUID) string {
	return strings.TrimRight(l.FrontBaseURL, "/") + "/trips/" + tripID.String()
}

// Option tunes a service at construction.
type Option func(*options)

type options struct {
	now func() time.Time
	log *slog.Logger
}

// WithClock replaces time.Now, letting tests pin "the present".
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger used for non-fatal problems such as failed emails.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.log = log }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// endSpan records err on span (if any) and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
