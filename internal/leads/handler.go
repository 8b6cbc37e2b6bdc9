package leads

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/summitsurfaces/showroom-api/internal/crm"
	"github.com/summitsurfaces/showroom-api/internal/http/respond"
	"github.com/summitsurfaces/showroom-api/pkg/logging"
)

// Handler serves POST /submit-lead.
type Handler struct {
	service  *Service
	apiKey   string
	validate *validator.Validate
	logger   *logging.Logger
}

// NewHandler creates the lead intake handler.
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

// SubmitLead handles the lead intake endpoint.
func (h *Handler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if h.apiKey == "" {
		respond.Error(w, http.StatusInternalServerError, "API key not configured", "")
		return
	}

	var req SubmitLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Missing or invalid lead fields", err.Error())
		return
	}

	contactID, err := h.service.Submit(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, SubmitLeadResponse{
		Success:   true,
		ContactID: contactID,
		Message:   "Thanks! We'll be in touch shortly.",
	})
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
		respond.Error(w, http.StatusBadGateway, "Failed to submit lead", details)
	default:
		respond.Error(w, http.StatusInternalServerError, "Failed to submit lead", details)
	}
}
