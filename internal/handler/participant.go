package handler

import (
	"errors"
	"net/http"

	"github.com/de-freitas/rocketseat-nlw-planner/internal/domain"
)

// GetParticipant handles GET /participants/{participantId}.
func (s *Server) GetParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "participantId")
	if !ok {
		return
	}

	p, err := s.participants.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "participant not found")
			return
		}
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, participantToResponse(p))
}

// ConfirmParticipant handles GET /participants/{participantId}/confirm, the
// link mailed to each invitee.
func (s *Server) ConfirmParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "participantId")
	if !ok {
		return
	}

	target, err := s.participants.Confirm(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "participant not found")
			return
		}
		s.internalError(w, r, err)
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}
