// Package handler implements the HTTP handlers for the plann.er API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, participant.go) but share the same Server struct
// so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/de-freitas/rocketseat-nlw-planner/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type TripServicer interface {
	CreateTrip(ctx context.Context, in domain.NewTrip) (uuid.UUID, error)
	ConfirmTrip(ctx context.Context, id uuid.UUID) (string, error)
	GetTrip(ctx context.Context, id uuid.UUID) (domain.Trip, error)
}

// ParticipantServicer defines the participant operations the handlers depend on.
type ParticipantServicer interface {
	Confirm(ctx context.Context, id uuid.UUID) (string, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Participant, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error)
}

// Server serves every API endpoint. Wire it in main.go via Routes.
type Server struct {
	trips        TripServicer
	participants ParticipantServicer
	log          *slog.Logger
	validate     *validator.Validate
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(trips TripServicer, participants ParticipantServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names ("owner_email") rather than Go ones ("OwnerEmail").
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Server{trips: trips, participants: participants, log: log, validate: v}
}

// Routes returns the router for the whole API surface.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/trips", func(r chi.Router) {
		r.Post("/", s.CreateTrip)
		r.Route("/{tripId}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Get("/confirm", s.ConfirmTrip)
			r.Get("/participants", s.ListTripParticipants)
		})
	})

	r.Route("/participants/{participantId}", func(r chi.Router) {
		r.Get("/", s.GetParticipant)
		r.Get("/confirm", s.ConfirmParticipant)
	})

	return r
}
