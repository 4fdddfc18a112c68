package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/de-freitas/rocketseat-nlw-planner/internal/domain"
)

// CreateTripRequest is the body of POST /trips.
type CreateTripRequest struct {
	Destination    string                `json:"destination" validate:"required,min=3"`
	StartsAt       Timestamp             `json:"starts_at" validate:"required"`
	EndsAt         Timestamp             `json:"ends_at" validate:"required"`
	OwnerName      string                `json:"owner_name"`
	OwnerEmail     openapi_types.Email   `json:"owner_email" validate:"required,email"`
	EmailsToInvite []openapi_types.Email `json:"emails_to_invite" validate:"dive,email"`
}

// CreateTripResponse is the 201 body of POST /trips.
type CreateTripResponse struct {
	TripID openapi_types.UUID `json:"tripId"`
}

// Trip is the JSON representation of a trip.
type Trip struct {
	ID           openapi_types.UUID `json:"id"`
	Destination  string             `json:"destination"`
	StartsAt     time.Time          `json:"starts_at"`
	EndsAt       time.Time          `json:"ends_at"`
	IsConfirmed  bool               `json:"is_confirmed"`
	Participants []Participant      `json:"participants"`
}

// Participant is the JSON representation of a participant.
type Participant struct {
	ID          openapi_types.UUID  `json:"id"`
	TripID      openapi_types.UUID  `json:"trip_id"`
	Name        *string             `json:"name"`
	Email       openapi_types.Email `json:"email"`
	IsOwner     bool                `json:"is_owner"`
	IsConfirmed bool                `json:"is_confirmed"`
}

// ParticipantList is the body of GET /trips/{tripId}/participants.
type ParticipantList struct {
	Participants []Participant `json:"participants"`
}

// errInvalidTimestamp is returned while decoding a Timestamp that is neither
// a supported date string nor a number.
var errInvalidTimestamp = errors.New("invalid timestamp")

// timestampLayouts are tried in order for string timestamps. Layouts without a
// zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// Timestamp accepts an RFC 3339 string, a bare date (YYYY-MM-DD), or a number
// of milliseconds since the Unix epoch.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
				ts.Time = t.UTC()
				return nil
			}
		}
		return fmt.Errorf("%w: %q", errInvalidTimestamp, s)
	}

	var ms int64
	if err := json.Unmarshal(b, &ms); err != nil {
		return fmt.Errorf("%w: %s", errInvalidTimestamp, raw)
	}
	ts.Time = time.UnixMilli(ms).UTC()
	return nil
}

// --- mapping helpers --------------------------------------------------------

// requestToNewTrip converts a CreateTripRequest body into a domain.NewTrip.
func requestToNewTrip(body CreateTripRequest) domain.NewTrip {
	invites := make([]string, len(body.EmailsToInvite))
	for i, e := range body.EmailsToInvite {
		invites[i] = string(e)
	}
	return domain.NewTrip{
		Destination:    body.Destination,
		StartsAt:       body.StartsAt.Time,
		EndsAt:         body.EndsAt.Time,
		OwnerName:      body.OwnerName,
		OwnerEmail:     string(body.OwnerEmail),
		EmailsToInvite: invites,
	}
}

// tripToResponse converts a domain.Trip into its JSON representation.
func tripToResponse(t domain.Trip) Trip {
	return Trip{
		ID:           t.ID,
		Destination:  t.Destination,
		StartsAt:     t.StartsAt,
		EndsAt:       t.EndsAt,
		IsConfirmed:  t.IsConfirmed,
		Participants: participantsToResponse(t.Participants),
	}
}

func participantsToResponse(ps []domain.Participant) []Participant {
	out := make([]Participant, len(ps))
	for i, p := range ps {
		out[i] = participantToResponse(p)
	}
	return out
}

// participantToResponse maps an empty name to JSON null.
func participantToResponse(p domain.Participant) Participant {
	resp := Participant{
		ID:          p.ID,
		TripID:      p.TripID,
		Email:       openapi_types.Email(p.Email),
		IsOwner:     p.IsOwner,
		IsConfirmed: p.IsConfirmed,
	}
	if p.Name != "" {
		name := p.Name
		resp.Name = &name
	}
	return resp
}
