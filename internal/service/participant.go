package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/de-freitas/rocketseat-nlw-planner/internal/domain"
	"github.com/de-freitas/rocketseat-nlw-planner/internal/repo"
)

// ParticipantService implements participant reads and self-confirmation.
type ParticipantService struct {
	participants repo.ParticipantRepo
	links        Links
	log          *slog.Logger
}

// NewParticipantService constructs a ParticipantService backed by the provided repo.
func NewParticipantService(participants repo.ParticipantRepo, links Links, opts ...Option) *ParticipantService {
	o := buildOptions(opts)
	return &ParticipantService{participants: participants, links: links, log: o.log}
}

// Confirm marks a participant as confirmed and returns the trip page to
// redirect to. Confirming twice is a no-op with the same result. No email is sent.
// Returns domain.ErrNotFound if the participant does not exist.
func (s *ParticipantService) Confirm(ctx context.Context, id uuid.UUID) (redirect string, err error) {
	ctx, span := tracer.Start(ctx, "ParticipantService.Confirm")
	span.SetAttributes(attribute.String("participant.id", id.String()))
	defer func() { endSpan(span, err) }()

	res, err := s.participants.ConfirmIfPending(ctx, id)
	if err != nil {
		return "", fmt.Errorf("service.ParticipantService.Confirm: %w", err)
	}
	if !res.AlreadyConfirmed {
		s.log.InfoContext(ctx, "participant confirmed",
			"participant_id", id,
			"trip_id", res.Participant.TripID,
		)
	}
	return s.links.TripPage(res.Participant.TripID), nil
}

// GetByID returns a single participant.
// Returns domain.ErrNotFound if the participant does not exist.
func (s *ParticipantService) GetByID(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	p, err := s.participants.GetByID(ctx, id)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.GetByID: %w", err)
	}
	return p, nil
}

// ListByTrip returns the participants of a trip in creation order.
// Every trip has at least its owner, so an empty result means the trip does
// not exist and domain.ErrNotFound is returned.
func (s *ParticipantService) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error) {
	ps, err := s.participants.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ParticipantService.ListByTrip: %w", err)
	}
	if len(ps) == 0 {
		return nil, fmt.Errorf("service.ParticipantService.ListByTrip: %w", domain.ErrNotFound)
	}
	return ps, nil
}
