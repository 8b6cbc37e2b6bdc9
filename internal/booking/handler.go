package booking

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/summitsurfaces/showroom-api/internal/availability"
	"github.com/summitsurfaces/showroom-api/internal/crm"
	"github.com/summitsurfaces/showroom-api/internal/http/respond"
	"github.com/summitsurfaces/showroom-api/pkg/logging"
)

// Handler serves POST /create-appointment.
type Handler struct {
	service  *Service
	apiKey   string
	validate *validator.Validate
	logger   *logging.Logger
}

// NewHandler creates the booking endpoint handler.
func NewHandler(service *Service, apiKey string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service:  service,
		apiKey:   apiKey,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

type appointmentRequest struct {
	CalendarID   string `json:"calendarId" validate:"required"`
	SelectedSlot struct {
		StartTime string `json:"startTime" validate:"required"`
		EndTime   string `json:"endTime"`
	} `json:"selectedSlot"`
	Contact struct {
		Name  string `json:"name" validate:"required"`
		Email string `json:"email" validate:"required,email"`
		Phone string `json:"phone"`
	} `json:"contact"`
	Notes    string `json:"notes"`
	Timezone string `json:"timezone"`
}

type appointmentResponse struct {
	Success     bool   `json:"success"`
	Appointment struct {
		ID       string `json:"id"`
		Date     string `json:"date"`
		Time     string `json:"time"`
		Timezone string `json:"timezone"`
	} `json:"appointment"`
	Contact struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"contact"`
	Message string `json:"message"`
}

// CreateAppointment handles the booking endpoint.
func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if h.apiKey == "" {
		respond.Error(w, http.StatusInternalServerError, "API key not configured", "")
		return
	}

	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Missing or invalid booking fields", err.Error())
		return
	}

	start, err := time.Parse(time.RFC3339, req.SelectedSlot.StartTime)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid slot start time", err.Error())
		return
	}
	end := start.Add(availability.DefaultSlotDuration)
	if req.SelectedSlot.EndTime != "" {
		if parsed, err := time.Parse(time.RFC3339, req.SelectedSlot.EndTime); err == nil {
			end = parsed
		}
	}

	confirmation, err := h.service.Book(r.Context(), Request{
		CalendarID: req.CalendarID,
		Slot:       SlotSelection{StartTime: start, EndTime: end},
		Contact: ContactInfo{
			Name:  req.Contact.Name,
			Email: req.Contact.Email,
			Phone: req.Contact.Phone,
		},
		Notes: req.Notes,
	})
	if err != nil {
		h.fail(w, err)
		return
	}

	var resp appointmentResponse
	resp.Success = true
	resp.Appointment.ID = confirmation.AppointmentID
	resp.Appointment.Date = confirmation.Date
	resp.Appointment.Time = confirmation.Time
	resp.Appointment.Timezone = confirmation.Timezone
	resp.Contact.ID = confirmation.ContactID
	resp.Contact.Name = req.Contact.Name
	resp.Contact.Email = req.Contact.Email
	resp.Message = fmt.Sprintf("Your showroom visit is confirmed for %s at %s.", confirmation.Date, confirmation.Time)
	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	var gwErr *crm.GatewayError
	details := err.Error()
	if errors.As(err, &gwErr) {
		details = gwErr.Body
	}
	switch {
	case errors.Is(err, crm.ErrMissingAPIKey):
		respond.Error(w, http.StatusInternalServerError, "API key not configured", "")
	case errors.Is(err, ErrContactCreation):
		respond.Error(w, http.StatusBadGateway, "Failed to create contact", details)
	case errors.Is(err, ErrAppointmentCreation):
		respond.Error(w, http.StatusBadGateway, "Failed to book appointment", details)
	default:
		respond.Error(w, http.StatusInternalServerError, "Booking failed", details)
	}
}
