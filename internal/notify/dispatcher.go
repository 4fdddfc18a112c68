package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/de-freitas/rocketseat-nlw-planner/internal/domain"
)

// Defaults applied by NewDispatcher when no option overrides them.
const (
	DefaultTimeout     = 10 * time.Second
	DefaultConcurrency = 8
)

// DeliveryError records the failed send to one recipient.
// errors.Is(err, domain.ErrNotificationDelivery) holds for every DeliveryError.
type DeliveryError struct {
	Recipient string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s to %s: %v", domain.ErrNotificationDelivery, e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() []error {
	return []error{domain.ErrNotificationDelivery, e.Err}
}

// Report is the outcome of one fan-out. Err combines every DeliveryError;
// it is nil when all recipients were reached.
type Report struct {
	Delivered []string
	Err       error
}

// Failures lists the individual DeliveryErrors held in Err.
func (r Report) Failures() []*DeliveryError {
	var out []*DeliveryError
	for _, err := range multierr.Errors(r.Err) {
		var de *DeliveryError
		if errors.As(err, &de) {
			out = append(out, de)
		}
	}
	return out
}

// Dispatcher fans messages out to a Sender, one goroutine per recipient up to a
// concurrency limit. Each send runs under its own timeout and a failing or
// panicking send never cancels its siblings.
type Dispatcher struct {
	sender      Sender
	log         *slog.Logger
	timeout     time.Duration
	concurrency int

	wg sync.WaitGroup
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTimeout bounds every individual Send call. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(disp *Dispatcher) {
		if d > 0 {
			disp.timeout = d
		}
	}
}

// WithConcurrency caps the number of sends in flight per fan-out. Non-positive values are ignored.
func WithConcurrency(n int) Option {
	return func(disp *Dispatcher) {
		if n > 0 {
			disp.concurrency = n
		}
	}
}

// NewDispatcher constructs a Dispatcher delivering through sender.
func NewDispatcher(sender Sender, log *slog.Logger, opts ...Option) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	d := &Dispatcher{
		sender:      sender,
		log:         log,
		timeout:     DefaultTimeout,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Deliver sends every message and blocks until all attempts have finished.
func (d *Dispatcher) Deliver(ctx context.Context, msgs []Message) Report {
	var (
		g   errgroup.Group
		mu  sync.Mutex
		rep Report
	)
	g.SetLimit(d.concurrency)

	for _, msg := range msgs {
		g.Go(func() error {
			err := d.send(ctx, msg)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				rep.Err = multierr.Append(rep.Err, &DeliveryError{Recipient: msg.To, Err: err})
				return nil
			}
			rep.Delivered = append(rep.Delivered, msg.To)
			return nil
		})
	}
	_ = g.Wait()

	return rep
}

// Detach runs Deliver in the background and returns immediately. The fan-out
// survives cancellation of ctx (typically the request context) but keeps its
// values for logging and tracing. Failures are logged per recipient.
func (d *Dispatcher) Detach(ctx context.Context, msgs []Message) {
	if len(msgs) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.LogReport(ctx, d.Deliver(ctx, msgs))
	}()
}

// Wait blocks until every detached fan-out has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Drain is Wait bounded by ctx, for graceful shutdown.
func (d *Dispatcher) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("notify.Dispatcher.Drain: %w", ctx.Err())
	}
}

// LogReport writes one line per failed recipient and a summary line.
func (d *Dispatcher) LogReport(ctx context.Context, rep Report) {
	failures := rep.Failures()
	for _, f := range failures {
		d.log.WarnContext(ctx, "notification not delivered",
			"recipient", f.Recipient,
			"error", f.Err,
		)
	}
	d.log.InfoContext(ctx, "notification fan-out finished",
		"delivered", len(rep.Delivered),
		"failed", len(failures),
	)
}

func (d *Dispatcher) send(ctx context.Context, msg Message) (err error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sender panic: %v", r)
		}
	}()
	return d.sender.Send(ctx, msg)
}
