package availability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/summitsurfaces/showroom-api/internal/crm"
	"github.com/summitsurfaces/showroom-api/internal/http/respond"
	"github.com/summitsurfaces/showroom-api/internal/observability/metrics"
	"github.com/summitsurfaces/showroom-api/pkg/logging"
)

// SlotSource is the slice of the CRM gateway the availability endpoint needs.
type SlotSource interface {
	ListCalendars(ctx context.Context) ([]crm.Calendar, error)
	FetchFreeSlots(ctx context.Context, calendarID string, start, end time.Time, timezone string) (crm.FreeSlots, error)
}

// HandlerConfig wires the availability handler's dependencies.
type HandlerConfig struct {
	Source       SlotSource
	APIKey       string
	Timezone     string
	SlotDuration time.Duration
	Metrics      *metrics.BookingMetrics
	Logger       *logging.Logger
}

// Handler serves POST /get-calendar-slots: resolve the first active calendar
// for the location, fetch its free slots for the requested window, and
// return normalized DaySlots.
type Handler struct {
	source       SlotSource
	apiKey       string
	timezone     string
	loc          *time.Location
	slotDuration time.Duration
	metrics      *metrics.BookingMetrics
	logger       *logging.Logger
}

// NewHandler creates the availability handler. An unparseable timezone falls
// back to UTC rather than failing startup.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		cfg.Logger.Warn("invalid business timezone, using UTC", "timezone", cfg.Timezone)
		loc = time.UTC
	}
	return &Handler{
		source:       cfg.Source,
		apiKey:       cfg.APIKey,
		timezone:     cfg.Timezone,
		loc:          loc,
		slotDuration: cfg.SlotDuration,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
	}
}

type slotsRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Timezone  string `json:"timezone,omitempty"`
}

type slotsResponse struct {
	Success      bool       `json:"success"`
	CalendarID   string     `json:"calendarId"`
	CalendarName string     `json:"calendarName"`
	Timezone     string     `json:"timezone"`
	Availability []DaySlots `json:"availability"`
}

// GetCalendarSlots handles the availability endpoint.
func (h *Handler) GetCalendarSlots(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if h.apiKey == "" {
		h.metrics.ObserveAvailability("config_error")
		respond.Error(w, http.StatusInternalServerError, "API key not configured", "")
		return
	}

	var req slotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if !dateKeyPattern.MatchString(req.StartDate) || !dateKeyPattern.MatchString(req.EndDate) {
		respond.Error(w, http.StatusBadRequest, "startDate and endDate are required as YYYY-MM-DD", "")
		return
	}

	start, err := time.ParseInLocation("2006-01-02", req.StartDate, h.loc)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid startDate", err.Error())
		return
	}
	end, err := time.ParseInLocation("2006-01-02", req.EndDate, h.loc)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid endDate", err.Error())
		return
	}
	// Window covers the whole of the end date.
	end = end.Add(24*time.Hour - time.Millisecond)

	fetchTZ := req.Timezone
	if fetchTZ == "" {
		fetchTZ = h.timezone
	}

	t0 := time.Now()
	calendars, err := h.source.ListCalendars(r.Context())
	h.metrics.ObserveCRMLatency("list_calendars", time.Since(t0).Seconds())
	if err != nil {
		h.logger.Error("failed to list calendars", "error", err)
		h.fail(w, err, "Failed to load calendars")
		return
	}

	calendar, ok := firstActive(calendars)
	if !ok {
		h.metrics.ObserveAvailability("no_calendar")
		respond.Error(w, http.StatusBadGateway, "No active calendar found", "")
		return
	}

	t0 = time.Now()
	raw, err := h.source.FetchFreeSlots(r.Context(), calendar.ID, start, end, fetchTZ)
	h.metrics.ObserveCRMLatency("fetch_free_slots", time.Since(t0).Seconds())
	if err != nil {
		h.logger.Error("failed to fetch free slots", "error", err, "calendar_id", calendar.ID)
		h.fail(w, err, "Failed to load availability")
		return
	}

	days := Normalize(raw, h.loc, h.slotDuration)
	h.metrics.ObserveAvailability("ok")
	h.logger.Info("availability served",
		"calendar_id", calendar.ID,
		"days", len(days),
		"start", req.StartDate,
		"end", req.EndDate,
	)
	respond.JSON(w, http.StatusOK, slotsResponse{
		Success:      true,
		CalendarID:   calendar.ID,
		CalendarName: calendar.Name,
		Timezone:     h.timezone,
		Availability: days,
	})
}

func (h *Handler) fail(w http.ResponseWriter, err error, msg string) {
	h.metrics.ObserveAvailability("error")
	var gwErr *crm.GatewayError
	switch {
	case errors.Is(err, crm.ErrMissingAPIKey):
		respond.Error(w, http.StatusInternalServerError, "API key not configured", "")
	case errors.As(err, &gwErr):
		respond.Error(w, http.StatusBadGateway, msg, gwErr.Body)
	default:
		respond.Error(w, http.StatusBadGateway, msg, err.Error())
	}
}

// firstActive picks the calendar the booking widget should use. The CRM may
// reconfigure calendars independently, so the choice is resolved per request.
func firstActive(calendars []crm.Calendar) (crm.Calendar, bool) {
	for _, c := range calendars {
		if c.IsActive {
			return c, true
		}
	}
	return crm.Calendar{}, false
}
