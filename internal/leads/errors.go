package leads

import "errors"

var (
	// ErrContactCreation means the CRM contact upsert failed; the lead was
	// not captured.
	ErrContactCreation = errors.New("lead contact creation failed")
)
