package leads

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"github.com/summitsurfaces/showroom-api/internal/crm"
	"github.com/summitsurfaces/showroom-api/internal/observability/metrics"
	"github.com/summitsurfaces/showroom-api/pkg/logging"
)

const defaultPhoneRegion = "US"

// Gateway is the slice of the CRM client lead intake needs.
type Gateway interface {
	UpsertContact(ctx context.Context, req crm.UpsertContactRequest) (string, error)
	CreateOpportunity(ctx context.Context, req crm.OpportunityRequest) (string, error)
}

// Service captures leads from the site's quote and contact forms. Contact
// upsert is the success criterion; pipeline placement for quote forms is
// best-effort and never fails the request.
type Service struct {
	gateway Gateway
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
}

// NewService creates the lead intake service.
func NewService(gateway Gateway, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{gateway: gateway, metrics: m, logger: logger}
}

// Submit upserts the contact and, for quote-form submissions, attempts to
// create a pipeline opportunity. Returns the CRM contact id.
func (s *Service) Submit(ctx context.Context, req SubmitLeadRequest) (string, error) {
	first, last := splitName(req.Name)

	t0 := time.Now()
	contactID, err := s.gateway.UpsertContact(ctx, crm.UpsertContactRequest{
		FirstName:    first,
		LastName:     last,
		Email:        req.Email,
		Phone:        normalizePhone(req.Phone),
		Tags:         buildTags(req),
		Source:       req.Source,
		CustomFields: buildCustomFields(req),
	})
	s.metrics.ObserveCRMLatency("upsert_contact", time.Since(t0).Seconds())
	if err != nil {
		s.metrics.ObserveLead(req.Source, "contact_failed")
		s.logger.Error("lead contact upsert failed", "error", err, "source", req.Source)
		return "", fmt.Errorf("%w: %w", ErrContactCreation, err)
	}

	if req.IsQuoteForm() {
		name := strings.TrimSpace("Quote Request - " + req.Name)
		t0 = time.Now()
		opportunityID, err := s.gateway.CreateOpportunity(ctx, crm.OpportunityRequest{
			ContactID: contactID,
			Name:      name,
		})
		s.metrics.ObserveCRMLatency("create_opportunity", time.Since(t0).Seconds())
		if err != nil {
			// Best-effort: the lead is already captured, so pipeline
			// placement failure is logged and swallowed.
			s.logger.Warn("opportunity creation failed, lead still captured",
				"error", err,
				"contact_id", contactID,
			)
		} else {
			s.logger.Info("opportunity created", "opportunity_id", opportunityID, "contact_id", contactID)
		}
	}

	s.metrics.ObserveLead(req.Source, "ok")
	s.logger.Info("lead captured", "contact_id", contactID, "source", req.Source)
	return contactID, nil
}

// buildTags derives the contact tags from the static request tags plus the
// source and project type.
func buildTags(req SubmitLeadRequest) []string {
	tags := make([]string, 0, len(req.Tags)+3)
	tags = append(tags, "Website")
	tags = append(tags, req.Tags...)
	if req.IsQuoteForm() {
		tags = append(tags, "Quote Request")
	}
	if req.ProjectType != "" {
		tags = append(tags, req.ProjectType)
	}
	return tags
}

// buildCustomFields flattens the free-text and qualification fields into the
// CRM's custom-field map. Empty values are omitted.
func buildCustomFields(req SubmitLeadRequest) map[string]string {
	fields := map[string]string{}
	put := func(key, value string) {
		if value != "" {
			fields[key] = value
		}
	}
	put("message", req.Message)
	put("project_areas", strings.Join(req.ProjectAreas, ", "))
	put("property_type", req.PropertyType)
	put("project_timeline", req.ProjectTimeline)
	put("decision_stage", req.DecisionStage)
	put("budget_range", req.BudgetRange)
	if req.SMSConsent {
		fields["sms_consent"] = "yes"
		put("sms_consent_date", req.SMSConsentDate)
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// normalizePhone formats parseable numbers as E.164; anything else passes
// through untouched so the CRM still sees what the visitor typed.
func normalizePhone(phone string) string {
	if strings.TrimSpace(phone) == "" {
		return ""
	}
	parsed, err := phonenumbers.Parse(phone, defaultPhoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return phone
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}

func splitName(full string) (first, last string) {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}
