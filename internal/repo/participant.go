package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/de-freitas/rocketseat-nlw-planner/internal/domain"
)

// ParticipantRepo defines the persistence operations for Participants.
// Participants are only ever created together with their trip (see TripRepo.Create).
type ParticipantRepo interface {
	// GetByID retrieves a single participant by its UUID.
	// Returns domain.ErrNotFound if no participant with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Participant, error)

	// ListByTripID returns all participants of a trip ordered by creation.
	// An unknown trip yields an empty slice, not an error.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error)

	// ConfirmIfPending flips is_confirmed to true with a single conditional UPDATE.
	// Returns domain.ErrNotFound if the participant does not exist.
	ConfirmIfPending(ctx context.Context, id uuid.UUID) (domain.ParticipantConfirmation, error)
}

// pgParticipantRepo is the Postgres implementation of ParticipantRepo.
type pgParticipantRepo struct {
	db db
}

// NewParticipantRepo constructs a ParticipantRepo backed by the provided db connection.
func NewParticipantRepo(db db) ParticipantRepo {
	return &pgParticipantRepo{db: db}
}

const participantColumns = `id, trip_id, name, email, is_owner, is_confirmed, created_at`

// GetByID retrieves a participant by primary key.
func (r *pgParticipantRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	const q = `SELECT ` + participantColumns + ` FROM participants WHERE id = @id`

	result, err := scanParticipant(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Participant{}, fmt.Errorf("repo.ParticipantRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByTripID returns the participants of a trip in creation order.
func (r *pgParticipantRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error) {
	ps, err := listParticipants(ctx, r.db, tripID)
	if err != nil {
		return nil, fmt.Errorf("repo.ParticipantRepo.ListByTripID: %w", err)
	}
	return ps, nil
}

// ConfirmIfPending is the participant counterpart of TripRepo.ConfirmIfPending.
func (r *pgParticipantRepo) ConfirmIfPending(ctx context.Context, id uuid.UUID) (domain.ParticipantConfirmation, error) {
	const q = `
		UPDATE participants
		SET is_confirmed = true
		WHERE id = @id
		  AND NOT is_confirmed
		RETURNING ` + participantColumns

	p, err := scanParticipant(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	switch {
	case err == nil:
		return domain.ParticipantConfirmation{Participant: p}, nil
	case errors.Is(err, domain.ErrNotFound):
		existing, err := r.GetByID(ctx, id)
		if err != nil {
			return domain.ParticipantConfirmation{}, fmt.Errorf("repo.ParticipantRepo.ConfirmIfPending: %w", err)
		}
		return domain.ParticipantConfirmation{Participant: existing, AlreadyConfirmed: true}, nil
	default:
		return domain.ParticipantConfirmation{}, fmt.Errorf("repo.ParticipantRepo.ConfirmIfPending: %w", err)
	}
}

// listParticipants is shared by both repos so a trip read and a participant
// listing always agree on ordering.
func listParticipants(ctx context.Context, db db, tripID uuid.UUID) ([]domain.Participant, error) {
	const q = `
		SELECT ` + participantColumns + `
		FROM participants
		WHERE trip_id = @trip_id
		ORDER BY created_at, id`

	rows, err := db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	ps := []domain.Participant{}
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("list participants: scan: %w", err)
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list participants: rows: %w", err)
	}
	return ps, nil
}

// scanParticipant maps a single database row into a domain.Participant.
func scanParticipant(s scanner) (domain.Participant, error) {
	var (
		p      domain.Participant
		id     pgtype.UUID
		tripID pgtype.UUID
	)
	err := s.Scan(&id, &tripID, &p.Name, &p.Email, &p.IsOwner, &p.IsConfirmed, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Participant{}, domain.ErrNotFound
		}
		return domain.Participant{}, err
	}
	p.ID = uuid.UUID(id.Bytes)
	p.TripID = uuid.UUID(tripID.Bytes)
	return p, nil
}
