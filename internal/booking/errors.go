package booking

import "errors"

var (
	// ErrContactCreation means phase one failed; no appointment call was
	// attempted and the CRM holds no new state from this submission.
	ErrContactCreation = errors.New("contact creation failed")

	// ErrAppointmentCreation means phase two failed after the contact was
	// upserted. The contact is not rolled back; retrying is safe because the
	// upsert is idempotent on the CRM side.
	ErrAppointmentCreation = errors.New("appointment creation failed")
)
