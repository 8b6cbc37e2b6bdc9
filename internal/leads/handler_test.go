package leads

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/summitsurfaces/showroom-api/internal/crm"
)

func newTestHandler(gw Gateway, apiKey string) *Handler {
	return NewHandler(NewService(gw, nil, nil), apiKey, nil)
}

func postLead(h *Handler, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/submit-lead", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	h.SubmitLead(w, req)
	return w
}

func TestSubmitLead_Success(t *testing.T) {
	gw := &fakeGateway{contactID: "ct_1"}
	h := newTestHandler(gw, "key")

	w := postLead(h, map[string]any{
		"name":   "Bob Mason",
		"email":  "bob@example.com",
		"phone":  "+13035550123",
		"source": "contact_form",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp SubmitLeadResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.ContactID != "ct_1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSubmitLead_QuoteFormOpportunityFailureStillSucceeds(t *testing.T) {
	gw := &fakeGateway{
		contactID:      "ct_9",
		opportunityErr: &crm.GatewayError{Op: "create opportunity", Status: 500, Body: "boom"},
	}
	h := newTestHandler(gw, "key")

	w := postLead(h, quoteLead())

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 despite opportunity failure, got %d: %s", w.Code, w.Body.String())
	}
	var resp SubmitLeadResponse
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if !resp.Success || resp.ContactID != "ct_9" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSubmitLead_MissingAPIKey(t *testing.T) {
	gw := &fakeGateway{}
	h := newTestHandler(gw, "")

	w := postLead(h, quoteLead())

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var resp map[string]string
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if resp["error"] != "API key not configured" {
		t.Fatalf("unexpected error body: %v", resp)
	}
	if gw.upsertCalls != 0 {
		t.Fatal("expected zero CRM calls without an api key")
	}
}

func TestSubmitLead_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"email": "a@b.co", "source": "contact_form"}},
		{"missing email", map[string]any{"name": "Bob", "source": "contact_form"}},
		{"bad email", map[string]any{"name": "Bob", "email": "nope", "source": "contact_form"}},
		{"missing source", map[string]any{"name": "Bob", "email": "a@b.co"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{contactID: "ct_1"}
			h := newTestHandler(gw, "key")

			w := postLead(h, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			if gw.upsertCalls != 0 {
				t.Fatal("expected no CRM calls on validation failure")
			}
		})
	}
}

func TestSubmitLead_InvalidJSON(t *testing.T) {
	h := newTestHandler(&fakeGateway{}, "key")

	req := httptest.NewRequest(http.MethodPost, "/submit-lead", strings.NewReader("{"))
	w := httptest.NewRecorder()
	h.SubmitLead(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSubmitLead_ContactFailure(t *testing.T) {
	gw := &fakeGateway{contactErr: &crm.GatewayError{Op: "upsert contact", Status: 503, Body: "crm down"}}
	h := newTestHandler(gw, "key")

	w := postLead(h, quoteLead())

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	var resp map[string]string
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if resp["error"] != "Failed to submit lead" {
		t.Fatalf("unexpected error: %v", resp)
	}
	if resp["details"] != "crm down" {
		t.Fatalf("expected CRM body surfaced as details, got %v", resp)
	}
}

func TestSubmitLead_Options(t *testing.T) {
	h := newTestHandler(&fakeGateway{}, "")
	req := httptest.NewRequest(http.MethodOptions, "/submit-lead", nil)
	w := httptest.NewRecorder()
	h.SubmitLead(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for OPTIONS, got %d", w.Code)
	}
}
