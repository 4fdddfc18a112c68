// Package domain contains the core data types for the plann.er API.
// This package has no dependencies on other internal packages and is imported
// by every other internal package (repo, service, notify, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is the top-level aggregate: a destination, a date range and the people
// travelling. Participants belong to exactly one trip.
//
// IsConfirmed is monotonic. It flips from false to true once, when the owner
// follows the confirmation link, and never flips back.
type Trip struct {
	ID           uuid.UUID     `json:"id"`
	Destination  string        `json:"destination"`
	StartsAt     time.Time     `json:"starts_at"`
	EndsAt       time.Time     `json:"ends_at"`
	IsConfirmed  bool          `json:"is_confirmed"`
	Participants []Participant `json:"participants,omitempty"` // ordered by creation
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Owner returns the participant that created the trip.
// The boolean is false when participants were not loaded.
func (t Trip) Owner() (Participant, bool) {
	for _, p := range t.Participants {
		if p.IsOwner {
			return p, true
		}
	}
	return Participant{}, false
}

// Invitees returns every non-owner participant, preserving creation order.
func (t Trip) Invitees() []Participant {
	out := make([]Participant, 0, len(t.Participants))
	for _, p := range t.Participants {
		if !p.IsOwner {
			out = append(out, p)
		}
	}
	return out
}

// TripConfirmation is the outcome of a conditional confirm on a trip.
// AlreadyConfirmed is true when the trip was confirmed before this call,
// in which case no state changed.
type TripConfirmation struct {
	Trip             Trip
	AlreadyConfirmed bool
}

// NewTrip carries everything needed to create a trip together with its
// owner and invitees in one step.
type NewTrip struct {
	Destination    string
	StartsAt       time.Time
	EndsAt         time.Time
	OwnerName      string
	OwnerEmail     string
	EmailsToInvite []string
}
