package crm

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned before any outbound call when no CRM
	// credential is configured.
	ErrMissingAPIKey = errors.New("crm: api key not configured")

	// ErrMissingContactID is returned when a contact upsert succeeds at the
	// HTTP level but the response carries no contact id.
	ErrMissingContactID = errors.New("crm: contact response missing contact id")

	// ErrMissingAppointmentID is the appointment-side equivalent.
	ErrMissingAppointmentID = errors.New("crm: appointment response missing appointment id")

	// ErrNoCalendars is returned when the location has no calendars at all.
	ErrNoCalendars = errors.New("crm: no calendars configured for location")
)

// GatewayError is any non-2xx response from the CRM. Body holds the CRM's
// own error payload (truncated) for diagnostics.
type GatewayError struct {
	Op     string
	Status int
	Body   string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("crm: %s returned %d: %s", e.Op, e.Status, e.Body)
}
