package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/de-freitas/rocketseat-nlw-planner/internal/domain"
	"github.com/de-freitas/rocketseat-nlw-planner/internal/notify"
	"github.com/de-freitas/rocketseat-nlw-planner/internal/repo"
)

// minDestinationLen is counted in characters, so "Óbidos" is six, not seven.
const minDestinationLen = 3

var validate = validator.New(validator.WithRequiredStructEnabled())

// TripService implements the trip lifecycle: creation and confirmation.
type TripService struct {
	trips    repo.TripRepo
	composer *notify.Composer
	notifier Notifier
	links    Links
	now      func() time.Time
	log      *slog.Logger
}

// NewTripService constructs a TripService. Emails are composed by composer,
// sent through notifier, and point at URLs built by links.
func NewTripService(trips repo.TripRepo, composer *notify.Composer, notifier Notifier, links Links, opts ...Option) *TripService {
	o := buildOptions(opts)
	return &TripService{
		trips:    trips,
		composer: composer,
		notifier: notifier,
		links:    links,
		now:      o.now,
		log:      o.log,
	}
}

// CreateTrip validates in, persists the trip with its owner and invitees as one
// unit, and emails the owner a confirmation link.
//
// Returns domain.ErrValidation (or domain.ErrInvalidSchedule) for bad input,
// before anything is written. If the trip was stored but the owner's email
// could not be sent, the new trip's ID is returned together with an error
// wrapping domain.ErrNotificationDelivery; the trip is not rolled back.
func (s *TripService) CreateTrip(ctx context.Context, in domain.NewTrip) (id uuid.UUID, err error) {
	ctx, span := tracer.Start(ctx, "TripService.CreateTrip")
	defer func() { endSpan(span, err) }()

	if err := validateNewTrip(in, s.now()); err != nil {
		return uuid.Nil, fmt.Errorf("service.TripService.CreateTrip: %w", err)
	}

	trip := domain.Trip{
		Destination: strings.TrimSpace(in.Destination),
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
	}
	created, err := s.trips.Create(ctx, trip, in.Participants())
	if err != nil {
		return uuid.Nil, fmt.Errorf("service.TripService.CreateTrip: %w", err)
	}
	span.SetAttributes(
		attribute.String("trip.id", created.ID.String()),
		attribute.Int("trip.participants", len(created.Participants)),
	)

	owner, ok := created.Owner()
	if !ok {
		// Create always returns the participants it wrote, owner first.
		return created.ID, fmt.Errorf("service.TripService.CreateTrip: %w: trip %s has no owner", domain.ErrNotificationDelivery, created.ID)
	}

	msg, err := s.composer.Compose(notify.KindTripCreated, created, owner, s.links.TripConfirmation(created.ID))
	if err != nil {
		return created.ID, fmt.Errorf("service.TripService.CreateTrip: %w: %w", domain.ErrNotificationDelivery, err)
	}

	rep := s.notifier.Deliver(ctx, []notify.Message{msg})
	if rep.Err != nil {
		return created.ID, fmt.Errorf("service.TripService.CreateTrip: %w", rep.Err)
	}
	return created.ID, nil
}

// ConfirmTrip confirms a pending trip and invites every non-owner participant.
//
// The flip is a single conditional write, so when several calls race only the
// one that performed it sends invitations; the rest behave as if the trip was
// already confirmed. Invitations are sent after the flip is committed and in
// the background. The returned redirect target is the trip page whether or not
// this call changed anything.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *TripService) ConfirmTrip(ctx context.Context, id uuid.UUID) (redirect string, err error) {
	ctx, span := tracer.Start(ctx, "TripService.ConfirmTrip")
	span.SetAttributes(attribute.String("trip.id", id.String()))
	defer func() { endSpan(span, err) }()

	res, err := s.trips.ConfirmIfPending(ctx, id)
	if err != nil {
		return "", fmt.Errorf("service.TripService.ConfirmTrip: %w", err)
	}
	redirect = s.links.TripPage(id)

	span.SetAttributes(attribute.Bool("trip.already_confirmed", res.AlreadyConfirmed))
	if res.AlreadyConfirmed {
		return redirect, nil
	}

	invitees := res.Trip.Invitees()
	msgs := make([]notify.Message, 0, len(invitees))
	for _, p := range invitees {
		msg, err := s.composer.Compose(notify.KindTripInvitation, res.Trip, p, s.links.ParticipantConfirmation(p.ID))
		if err != nil {
			s.log.ErrorContext(ctx, "compose invitation",
				"trip_id", id,
				"participant_id", p.ID,
				"error", err,
			)
			continue
		}
		msgs = append(msgs, msg)
	}
	s.notifier.Detach(ctx, msgs)

	return redirect, nil
}

// GetTrip returns a trip with its participants.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *TripService) GetTrip(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetTrip: %w", err)
	}
	return trip, nil
}

// validateNewTrip enforces the creation rules:
//   - destination has at least three characters once trimmed.
//   - starts_at is not before now; ends_at is not before starts_at.
//   - owner and invitee emails are well formed.
func validateNewTrip(in domain.NewTrip, now time.Time) error {
	if utf8.RuneCountInString(strings.TrimSpace(in.Destination)) < minDestinationLen {
		return fmt.Errorf("%w: destination must have at least %d characters", domain.ErrValidation, minDestinationLen)
	}
	if in.StartsAt.Before(now) {
		return fmt.Errorf("%w: trip start date must not be in the past", domain.ErrInvalidSchedule)
	}
	if in.EndsAt.Before(in.StartsAt) {
		return fmt.Errorf("%w: trip end date must not be before its start date", domain.ErrInvalidSchedule)
	}
	if err := validate.Var(strings.TrimSpace(in.OwnerEmail), "required,email"); err != nil {
		return fmt.Errorf("%w: owner_email must be a valid email address", domain.ErrValidation)
	}
	for i, email := range in.EmailsToInvite {
		if err := validate.Var(strings.TrimSpace(email), "required,email"); err != nil {
			return fmt.Errorf("%w: emails_to_invite[%d] must be a valid email address", domain.ErrValidation, i)
		}
	}
	return nil
}
