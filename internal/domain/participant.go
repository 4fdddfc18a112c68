package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Participant is a person attached to a trip, either its owner or an invitee.
// Name is empty for invitees that have not introduced themselves yet.
// IsOwner is fixed at creation; the owner starts out confirmed.
type Participant struct {
	ID          uuid.UUID `json:"id"`
	TripID      uuid.UUID `json:"trip_id"`
	Name        string    `json:"name,omitempty"`
	Email       string    `json:"email"`
	IsOwner     bool      `json:"is_owner"`
	IsConfirmed bool      `json:"is_confirmed"`
	CreatedAt   time.Time `json:"created_at"`
}

// ParticipantConfirmation is the outcome of a conditional confirm on a participant.
type ParticipantConfirmation struct {
	Participant      Participant
	AlreadyConfirmed bool
}

// Participants builds the participant set for a new trip: the owner first,
// confirmed, followed by one unconfirmed invitee per distinct email.
//
// Emails are trimmed and compared case-insensitively. Repeated invitees keep
// their first occurrence and an invitee matching the owner's email is dropped,
// so the owner can never appear twice.
func (n NewTrip) Participants() []Participant {
	owner := Participant{
		Name:        strings.TrimSpace(n.OwnerName),
		Email:       strings.TrimSpace(n.OwnerEmail),
		IsOwner:     true,
		IsConfirmed: true,
	}

	out := make([]Participant, 0, len(n.EmailsToInvite)+1)
	out = append(out, owner)

	seen := map[string]struct{}{strings.ToLower(owner.Email): {}}
	for _, raw := range n.EmailsToInvite {
		email := strings.TrimSpace(raw)
		key := strings.ToLower(email)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, Participant{Email: email})
	}
	return out
}
