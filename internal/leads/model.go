package leads

// SubmitLeadRequest is the body of POST /submit-lead. The base fields come
// from the simple contact forms; the quote-form variant carries the richer
// project-qualification fields as well.
type SubmitLeadRequest struct {
	Name        string   `json:"name" validate:"required"`
	Email       string   `json:"email" validate:"required,email"`
	Phone       string   `json:"phone,omitempty"`
	ProjectType string   `json:"projectType,omitempty"`
	Message     string   `json:"message,omitempty"`
	Source      string   `json:"source" validate:"required"`
	Tags        []string `json:"tags,omitempty"`

	// Quote-form qualification fields.
	ProjectAreas    []string `json:"projectAreas,omitempty"`
	PropertyType    string   `json:"propertyType,omitempty"`
	ProjectTimeline string   `json:"projectTimeline,omitempty"`
	DecisionStage   string   `json:"decisionStage,omitempty"`
	BudgetRange     string   `json:"budgetRange,omitempty"`
	SMSConsent      bool     `json:"smsConsent,omitempty"`
	SMSConsentDate  string   `json:"smsConsentDate,omitempty"`
}

// SubmitLeadResponse is the success body.
type SubmitLeadResponse struct {
	Success   bool   `json:"success"`
	ContactID string `json:"contactId"`
	Message   string `json:"message"`
}

// IsQuoteForm reports whether this submission should also create a pipeline
// opportunity.
func (r *SubmitLeadRequest) IsQuoteForm() bool {
	return r.Source == "quote_form"
}
