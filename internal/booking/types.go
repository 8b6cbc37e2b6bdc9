package booking

import "time"

// SlotSelection is the interval the visitor picked in the wizard.
type SlotSelection struct {
	StartTime time.Time
	EndTime   time.Time
}

// ContactInfo is the visitor's contact entry. Name is the full name as
// typed; the service splits it for the CRM.
type ContactInfo struct {
	Name  string
	Email string
	Phone string
}

// Request is one booking submission: a calendar, a slot, and a contact.
type Request struct {
	CalendarID string
	Slot       SlotSelection
	Contact    ContactInfo
	Notes      string
}

// Confirmation is returned after both CRM writes succeed. Date and Time are
// human strings rendered in the business timezone.
type Confirmation struct {
	AppointmentID string
	ContactID     string
	FirstName     string
	LastName      string
	Date          string
	Time          string
	Timezone      string
}
