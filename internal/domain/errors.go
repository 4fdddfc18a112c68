package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// trip or participant does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. destination too short, malformed email).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrInvalidSchedule is the ErrValidation raised for impossible date ranges:
// a start in the past or an end before the start.
// errors.Is matches both ErrInvalidSchedule and ErrValidation.
var ErrInvalidSchedule = fmt.Errorf("%w: invalid schedule", ErrValidation)

// ErrNotificationDelivery marks a failed send to a single recipient.
// It never rolls back the state change that triggered the notification.
var ErrNotificationDelivery = errors.New("notification delivery failed")
