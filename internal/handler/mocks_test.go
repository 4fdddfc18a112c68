package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/de-freitas/rocketseat-nlw-planner/internal/domain"
	"github.com/de-freitas/rocketseat-nlw-planner/internal/handler"
)

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	create  func(ctx context.Context, in domain.NewTrip) (uuid.UUID, error)
	confirm func(ctx context.Context, id uuid.UUID) (string, error)
	get     func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
}

func (m *mockTripServicer) CreateTrip(ctx context.Context, in domain.NewTrip) (uuid.UUID, error) {
	return m.create(ctx, in)
}
func (m *mockTripServicer) ConfirmTrip(ctx context.Context, id uuid.UUID) (string, error) {
	return m.confirm(ctx, id)
}
func (m *mockTripServicer) GetTrip(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.get(ctx, id)
}

// mockParticipantServicer is a test double for handler.ParticipantServicer.
type mockParticipantServicer struct {
	confirm    func(ctx context.Context, id uuid.UUID) (string, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.Participant, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error)
}

func (m *mockParticipantServicer) Confirm(ctx context.Context, id uuid.UUID) (string, error) {
	return m.confirm(ctx, id)
}
func (m *mockParticipantServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	return m.getByID(ctx, id)
}
func (m *mockParticipantServicer) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error) {
	return m.listByTrip(ctx, tripID)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.TripServicer        = (*mockTripServicer)(nil)
	_ handler.ParticipantServicer = (*mockParticipantServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mocks into its chi router.
// This mirrors exactly how main.go wires it in production.
func newHTTPHandler(trips handler.TripServicer, participants handler.ParticipantServicer) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return handler.NewServer(trips, participants, log).Routes()
}

func tripFixture() domain.Trip {
	id := uuid.New()
	start := time.Date(2030, 6, 2, 0, 0, 0, 0, time.UTC)
	return domain.Trip{
		ID:          id,
		Destination: "Florianópolis",
		StartsAt:    start,
		EndsAt:      start.AddDate(0, 0, 5),
		Participants: []domain.Participant{
			{ID: uuid.New(), TripID: id, Name: "Ana", Email: "ana@example.com", IsOwner: true, IsConfirmed: true},
			{ID: uuid.New(), TripID: id, Email: "bia@example.com"},
		},
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeError(t *testing.T, body io.Reader) handler.ErrorDetail {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp.Error
}
