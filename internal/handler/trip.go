package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/de-freitas/rocketseat-nlw-planner/internal/domain"
)

// CreateTrip handles POST /trips.
// A trip that was stored but whose owner email could not be sent still
// answers 201; the delivery failure is logged.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body CreateTripRequest
	if !s.decodeBody(w, r, &body) {
		return
	}

	id, err := s.trips.CreateTrip(r.Context(), requestToNewTrip(body))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			validationFailed(w, err)
			return
		case errors.Is(err, domain.ErrNotificationDelivery) && id != uuid.Nil:
			s.log.WarnContext(r.Context(), "trip created without owner notification",
				"trip_id", id,
				"error", err,
			)
		default:
			s.internalError(w, r, err)
			return
		}
	}

	writeJSON(w, http.StatusCreated, CreateTripResponse{TripID: id})
}

// GetTrip handles GET /trips/{tripId}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "tripId")
	if !ok {
		return
	}

	trip, err := s.trips.GetTrip(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "trip not found")
			return
		}
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// ConfirmTrip handles GET /trips/{tripId}/confirm, the link mailed to the owner.
// It redirects to the trip page whether or not the trip was already confirmed.
func (s *Server) ConfirmTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "tripId")
	if !ok {
		return
	}

	target, err := s.trips.ConfirmTrip(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "trip not found")
			return
		}
		s.internalError(w, r, err)
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}

// ListTripParticipants handles GET /trips/{tripId}/participants.
func (s *Server) ListTripParticipants(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "tripId")
	if !ok {
		return
	}

	ps, err := s.participants.ListByTrip(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "trip not found")
			return
		}
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ParticipantList{Participants: participantsToResponse(ps)})
}

// decodeBody reads a JSON body into dst and runs struct validation.
// ok is false when an error response has already been written.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) (ok bool) {
	if r.Body == nil || r.Body == http.NoBody {
		requestInvalid(w, "request body is required")
		return false
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: ErrorDetail{Code: "request_too_large", Message: "request body too large"}})
		case errors.Is(err, openapi_types.ErrValidationEmail):
			requestInvalid(w, "email addresses must be valid")
		case errors.Is(err, errInvalidTimestamp):
			requestInvalid(w, "starts_at and ends_at must be dates")
		default:
			badRequest(w, "malformed JSON body")
		}
		return false
	}

	if err := s.validate.Struct(dst); err != nil {
		requestInvalid(w, describeValidation(err))
		return false
	}
	return true
}
