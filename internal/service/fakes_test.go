package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/de-freitas/rocketseat-nlw-planner/internal/domain"
	"github.com/de-freitas/rocketseat-nlw-planner/internal/notify"
	"github.com/de-freitas/rocketseat-nlw-planner/internal/repo"
)

// memTripRepo is an in-memory repo.TripRepo. ConfirmIfPending performs its
// check-and-set under one lock, mirroring the conditional UPDATE in Postgres.
type memTripRepo struct {
	mu        sync.Mutex
	trips     map[uuid.UUID]domain.Trip
	createErr  error
	confirmErr error
	creates    int
}

func newMemTripRepo() *memTripRepo {
	return &memTripRepo{trips: map[uuid.UUID]domain.Trip{}}
}

var _ repo.TripRepo = (*memTripRepo)(nil)

func (m *memTripRepo) Create(_ context.Context, trip domain.Trip, participants []domain.Participant) (domain.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if m.createErr != nil {
		return domain.Trip{}, m.createErr
	}
	trip.ID = uuid.New()
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = trip.CreatedAt
	trip.Participants = make([]domain.Participant, len(participants))
	for i, p := range participants {
		p.ID = uuid.New()
		p.TripID = trip.ID
		trip.Participants[i] = p
	}
	m.trips[trip.ID] = trip
	return trip, nil
}

func (m *memTripRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[id]
	if !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	return t, nil
}

func (m *memTripRepo) ConfirmIfPending(_ context.Context, id uuid.UUID) (domain.TripConfirmation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.confirmErr != nil {
		return domain.TripConfirmation{}, m.confirmErr
	}
	t, ok := m.trips[id]
	if !ok {
		return domain.TripConfirmation{}, domain.ErrNotFound
	}
	if t.IsConfirmed {
		return domain.TripConfirmation{Trip: t, AlreadyConfirmed: true}, nil
	}
	t.IsConfirmed = true
	m.trips[id] = t
	return domain.TripConfirmation{Trip: t}, nil
}

func (m *memTripRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.trips)
}

// recordingSender captures every message and fails for addresses in failFor.
type recordingSender struct {
	mu      sync.Mutex
	sent    []notify.Message
	failFor map[string]bool
}

func (r *recordingSender) Send(_ context.Context, msg notify.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFor[msg.To] {
		return errors.New("mailbox unavailable")
	}
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingSender) recipients() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.sent))
	for i, m := range r.sent {
		out[i] = m.To
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
