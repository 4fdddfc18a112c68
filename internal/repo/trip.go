// Package repo contains all database access logic for the plann.er API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/de-freitas/rocketseat-nlw-planner/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, *pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup. Begin on a pgx.Tx opens a
// savepoint, so transactional writes still nest correctly inside tests.
type db interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres implementation,
// which allows the service to be unit-tested with a fake.
type TripRepo interface {
	// Create inserts a trip and all of its participants in a single transaction
	// and returns the persisted trip with participants populated. Either every
	// row is written or none is.
	Create(ctx context.Context, trip domain.Trip, participants []domain.Participant) (domain.Trip, error)

	// GetByID retrieves a trip and its participants (ordered by creation).
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ConfirmIfPending flips is_confirmed to true with a single conditional
	// UPDATE. Of several concurrent callers at most one observes
	// AlreadyConfirmed == false. Returns domain.ErrNotFound if the trip does not exist.
	ConfirmIfPending(ctx context.Context, id uuid.UUID) (domain.TripConfirmation, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, destination, starts_at, ends_at, is_confirmed, created_at, updated_at`

// Create inserts the trip row followed by one row per participant.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip, participants []domain.Participant) (domain.Trip, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: begin: %w", err)
	}
	// Rollback after a successful Commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	const insertTrip = `
		INSERT INTO trips (destination, starts_at, ends_at)
		VALUES (@destination, @starts_at, @ends_at)
		RETURNING ` + tripColumns

	row := tx.QueryRow(ctx, insertTrip, pgx.NamedArgs{
		"destination": trip.Destination,
		"starts_at":   trip.StartsAt,
		"ends_at":     trip.EndsAt,
	})
	created, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: insert trip: %w", err)
	}

	const insertParticipant = `
		INSERT INTO participants (trip_id, name, email, is_owner, is_confirmed)
		VALUES (@trip_id, @name, @email, @is_owner, @is_confirmed)
		RETURNING ` + participantColumns

	created.Participants = make([]domain.Participant, 0, len(participants))
	for _, p := range participants {
		row := tx.QueryRow(ctx, insertParticipant, pgx.NamedArgs{
			"trip_id":      created.ID,
			"name":         p.Name,
			"email":        p.Email,
			"is_owner":     p.IsOwner,
			"is_confirmed": p.IsConfirmed,
		})
		saved, err := scanParticipant(row)
		if err != nil {
			return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: insert participant: %w", err)
		}
		created.Participants = append(created.Participants, saved)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: commit: %w", err)
	}
	return created, nil
}

// GetByID retrieves a trip by primary key, then its participants.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	trip, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}

	trip.Participants, err = listParticipants(ctx, r.db, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return trip, nil
}

// ConfirmIfPending performs the check-and-set in the WHERE clause so the
// database serialises concurrent confirmations on the row lock. The flip and
// the participant read share one transaction: the flip is only committed once
// the caller has everything it needs to send invitations. When no row is
// updated the trip either does not exist or was already confirmed; a follow-up
// read tells the two apart.
func (r *pgTripRepo) ConfirmIfPending(ctx context.Context, id uuid.UUID) (domain.TripConfirmation, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.TripConfirmation{}, fmt.Errorf("repo.TripRepo.ConfirmIfPending: begin: %w", err)
	}
	// Rollback after a successful Commit is a no-op.
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	const q = `
		UPDATE trips
		SET is_confirmed = true,
		    updated_at   = now()
		WHERE id = @id
		  AND NOT is_confirmed
		RETURNING ` + tripColumns

	trip, err := scanTrip(tx.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	switch {
	case err == nil:
		trip.Participants, err = listParticipants(ctx, tx, id)
		if err != nil {
			return domain.TripConfirmation{}, fmt.Errorf("repo.TripRepo.ConfirmIfPending: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return domain.TripConfirmation{}, fmt.Errorf("repo.TripRepo.ConfirmIfPending: commit: %w", err)
		}
		return domain.TripConfirmation{Trip: trip}, nil
	case errors.Is(err, domain.ErrNotFound):
		if err := tx.Rollback(ctx); err != nil {
			return domain.TripConfirmation{}, fmt.Errorf("repo.TripRepo.ConfirmIfPending: rollback: %w", err)
		}
		existing, err := r.GetByID(ctx, id)
		if err != nil {
			return domain.TripConfirmation{}, fmt.Errorf("repo.TripRepo.ConfirmIfPending: %w", err)
		}
		return domain.TripConfirmation{Trip: existing, AlreadyConfirmed: true}, nil
	default:
		return domain.TripConfirmation{}, fmt.Errorf("repo.TripRepo.ConfirmIfPending: %w", err)
	}
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
// Participants are left nil; callers load them separately.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t  domain.Trip
		id pgtype.UUID
	)

	err := s.Scan(&id, &t.Destination, &t.StartsAt, &t.EndsAt, &t.IsConfirmed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.StartsAt = t.StartsAt.UTC()
	t.EndsAt = t.EndsAt.UTC()
	return t, nil
}
