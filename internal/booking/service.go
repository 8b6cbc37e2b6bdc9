package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/summitsurfaces/showroom-api/internal/crm"
	"github.com/summitsurfaces/showroom-api/internal/observability/metrics"
	"github.com/summitsurfaces/showroom-api/pkg/logging"
)

var showroomTags = []string{"Website", "Showroom Appointment"}

const bookingSource = "Website Booking"

// Gateway is the slice of the CRM client the orchestrator needs.
type Gateway interface {
	UpsertContact(ctx context.Context, req crm.UpsertContactRequest) (string, error)
	CreateAppointment(ctx context.Context, req crm.AppointmentRequest) (string, error)
}

// Service turns a booking submission into a confirmed appointment via two
// strictly sequential CRM writes: contact upsert first, then appointment
// creation referencing the returned contact id. No retries, no idempotency
// key, no compensating delete on partial failure.
type Service struct {
	gateway  Gateway
	timezone string
	loc      *time.Location
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
}

// NewService builds the orchestrator. An unparseable timezone falls back to
// UTC.
func NewService(gateway Gateway, timezone string, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		logger.Warn("invalid business timezone, using UTC", "timezone", timezone)
		loc = time.UTC
	}
	return &Service{
		gateway:  gateway,
		timezone: timezone,
		loc:      loc,
		metrics:  m,
		logger:   logger,
	}
}

// Book performs the two-phase write. On a contact failure the appointment
// call is never attempted. On an appointment failure the already-upserted
// contact persists in the CRM; the caller gets an appointment-specific error
// and may retry the whole submission.
func (s *Service) Book(ctx context.Context, req Request) (*Confirmation, error) {
	first, last := splitName(req.Contact.Name)

	t0 := time.Now()
	contactID, err := s.gateway.UpsertContact(ctx, crm.UpsertContactRequest{
		FirstName: first,
		LastName:  last,
		Email:     req.Contact.Email,
		Phone:     req.Contact.Phone,
		Tags:      showroomTags,
		Source:    bookingSource,
	})
	s.metrics.ObserveCRMLatency("upsert_contact", time.Since(t0).Seconds())
	if err != nil {
		s.metrics.ObserveBooking("contact_failed")
		s.logger.Error("booking contact upsert failed", "error", err, "email", req.Contact.Email)
		return nil, fmt.Errorf("%w: %w", ErrContactCreation, err)
	}

	title := "Showroom Visit - " + strings.TrimSpace(first+" "+last)

	t0 = time.Now()
	appointmentID, err := s.gateway.CreateAppointment(ctx, crm.AppointmentRequest{
		CalendarID: req.CalendarID,
		ContactID:  contactID,
		StartTime:  req.Slot.StartTime.Format(time.RFC3339),
		EndTime:    req.Slot.EndTime.Format(time.RFC3339),
		Title:      title,
		Notes:      req.Notes,
		Timezone:   s.timezone,
	})
	s.metrics.ObserveCRMLatency("create_appointment", time.Since(t0).Seconds())
	if err != nil {
		s.metrics.ObserveBooking("appointment_failed")
		s.logger.Error("booking appointment creation failed",
			"error", err,
			"contact_id", contactID,
			"calendar_id", req.CalendarID,
		)
		return nil, fmt.Errorf("%w: %w", ErrAppointmentCreation, err)
	}

	localStart := req.Slot.StartTime.In(s.loc)
	s.metrics.ObserveBooking("ok")
	s.logger.Info("showroom visit booked",
		"appointment_id", appointmentID,
		"contact_id", contactID,
		"start", req.Slot.StartTime.Format(time.RFC3339),
	)
	return &Confirmation{
		AppointmentID: appointmentID,
		ContactID:     contactID,
		FirstName:     first,
		LastName:      last,
		Date:          localStart.Format("Monday, January 2"),
		Time:          localStart.Format("3:04 PM"),
		Timezone:      s.timezone,
	}, nil
}

// splitName takes the first whitespace-delimited token as the first name and
// the remainder as the last name. An empty remainder is allowed.
func splitName(full string) (first, last string) {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}
