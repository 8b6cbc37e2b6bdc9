package crm

import "encoding/json"

// Config carries the CRM identifiers the client needs. Location and pipeline
// IDs are injected here rather than compiled in so the same binary can serve
// different CRM accounts.
type Config struct {
	APIKey          string
	BaseURL         string
	LocationID      string
	PipelineID      string
	PipelineStageID string
}

// Calendar is one bookable calendar configured for the business location.
type Calendar struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// FreeSlots is the CRM's day-keyed free-slot payload, keyed by YYYY-MM-DD.
// The CRM mixes metadata entries (trace IDs and the like) into the same
// object, so values stay raw until the normalizer filters the keys.
type FreeSlots map[string]json.RawMessage

// RawDay is the per-date entry inside a FreeSlots payload.
type RawDay struct {
	Slots []RawSlot `json:"slots"`
}

// RawSlot is a single free interval as the CRM reports it. EndTime is
// frequently omitted.
type RawSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime,omitempty"`
}

// UpsertContactRequest creates or updates a contact. The CRM decides
// create-vs-update by its own email/phone identity rules.
type UpsertContactRequest struct {
	FirstName    string            `json:"firstName"`
	LastName     string            `json:"lastName,omitempty"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
	Source       string            `json:"source,omitempty"`
	CustomFields map[string]string `json:"customField,omitempty"`
}

// AppointmentRequest books a calendar slot for an existing contact.
type AppointmentRequest struct {
	CalendarID string `json:"calendarId"`
	ContactID  string `json:"contactId"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Title      string `json:"title"`
	Notes      string `json:"notes,omitempty"`
	Timezone   string `json:"selectedTimezone,omitempty"`
}

// OpportunityRequest places a contact into the sales pipeline.
type OpportunityRequest struct {
	ContactID string `json:"contactId"`
	Name      string `json:"name"`
	StageID   string `json:"stageId,omitempty"`
	Status    string `json:"status,omitempty"`
}

// Narrow response envelopes for each API operation.
type calendarsResponse struct {
	Calendars []Calendar `json:"calendars"`
}

type contactResponse struct {
	Contact struct {
		ID string `json:"id"`
	} `json:"contact"`
	ID string `json:"id"`
}

type appointmentResponse struct {
	ID          string `json:"id"`
	Appointment struct {
		ID string `json:"id"`
	} `json:"appointment"`
}

type opportunityResponse struct {
	ID string `json:"id"`
}
