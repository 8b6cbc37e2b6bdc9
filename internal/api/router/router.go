package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/summitsurfaces/showroom-api/internal/availability"
	"github.com/summitsurfaces/showroom-api/internal/booking"
	httpmiddleware "github.com/summitsurfaces/showroom-api/internal/http/middleware"
	"github.com/summitsurfaces/showroom-api/internal/http/respond"
	"github.com/summitsurfaces/showroom-api/internal/leads"
	"github.com/summitsurfaces/showroom-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	AvailabilityHandler *availability.Handler
	BookingHandler      *booking.Handler
	LeadsHandler        *leads.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string

	// Per-IP rate limit for the form endpoints. Zero disables limiting.
	FormRateLimit float64
	FormRateBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Public widget/form endpoints. OPTIONS preflights are answered by the
	// CORS middleware before routing reaches the handlers.
	r.Group(func(public chi.Router) {
		if cfg.FormRateLimit > 0 {
			public.Use(httpmiddleware.RateLimit(cfg.FormRateLimit, cfg.FormRateBurst))
		}
		public.Post("/get-calendar-slots", cfg.AvailabilityHandler.GetCalendarSlots)
		public.Post("/create-appointment", cfg.BookingHandler.CreateAppointment)
		public.Post("/submit-lead", cfg.LeadsHandler.SubmitLead)
	})

	return r
}
