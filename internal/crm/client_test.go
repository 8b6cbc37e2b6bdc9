package crm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(url string) *Client {
	return NewClient(Config{
		APIKey:     "key",
		BaseURL:    url,
		LocationID: "loc_1",
		PipelineID: "pipe_1",
	}, nil)
}

func TestListCalendars(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if got := r.URL.Query().Get("locationId"); got != "loc_1" {
			t.Errorf("unexpected locationId %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"calendars": []map[string]any{
				{"id": "cal_1", "name": "Showroom Visits", "isActive": true},
				{"id": "cal_2", "name": "Installs", "isActive": false},
			},
		})
	}))
	defer ts.Close()

	cals, err := testClient(ts.URL).ListCalendars(context.Background())
	if err != nil {
		t.Fatalf("ListCalendars error: %v", err)
	}
	if len(cals) != 2 || cals[0].ID != "cal_1" || !cals[0].IsActive {
		t.Fatalf("unexpected calendars: %+v", cals)
	}
}

func TestListCalendars_Empty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"calendars": []any{}})
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).ListCalendars(context.Background())
	if !errors.Is(err, ErrNoCalendars) {
		t.Fatalf("expected ErrNoCalendars, got %v", err)
	}
}

func TestFetchFreeSlots_EpochMillisWindow(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("calendarId"); got != "cal_1" {
			t.Errorf("unexpected calendarId %q", got)
		}
		if got := r.URL.Query().Get("startDate"); got != "1765814400000" {
			t.Errorf("unexpected startDate %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"2025-12-15": map[string]any{"slots": []map[string]any{{"startTime": "2025-12-15T15:00:00Z"}}},
			"traceId":    "abc123",
		})
	}))
	defer ts.Close()

	start := time.UnixMilli(1765814400000).UTC()
	raw, err := testClient(ts.URL).FetchFreeSlots(context.Background(), "cal_1", start, start.Add(7*24*time.Hour), "America/Denver")
	if err != nil {
		t.Fatalf("FetchFreeSlots error: %v", err)
	}
	if _, ok := raw["2025-12-15"]; !ok {
		t.Fatalf("expected day key in raw payload, got %v", raw)
	}
	if _, ok := raw["traceId"]; !ok {
		t.Fatalf("expected raw payload to pass metadata through, got %v", raw)
	}
}

func TestUpsertContact(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req UpsertContactRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode req: %v", err)
		}
		if req.Email != "jane@example.com" || req.FirstName != "Jane" {
			t.Errorf("unexpected request: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"contact": map[string]any{"id": "ct_1"}})
	}))
	defer ts.Close()

	id, err := testClient(ts.URL).UpsertContact(context.Background(), UpsertContactRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Tags:      []string{"Website"},
	})
	if err != nil {
		t.Fatalf("UpsertContact error: %v", err)
	}
	if id != "ct_1" {
		t.Fatalf("unexpected contact id %q", id)
	}
}

func TestUpsertContact_MissingID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"contact": map[string]any{}})
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).UpsertContact(context.Background(), UpsertContactRequest{Email: "a@b.c"})
	if !errors.Is(err, ErrMissingContactID) {
		t.Fatalf("expected ErrMissingContactID, got %v", err)
	}
}

func TestCreateAppointment_TopLevelID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req AppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode req: %v", err)
		}
		if req.ContactID != "ct_1" || req.CalendarID != "cal_1" {
			t.Errorf("unexpected request: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "appt_1"})
	}))
	defer ts.Close()

	id, err := testClient(ts.URL).CreateAppointment(context.Background(), AppointmentRequest{
		CalendarID: "cal_1",
		ContactID:  "ct_1",
		StartTime:  "2025-12-15T15:00:00Z",
		EndTime:    "2025-12-15T16:00:00Z",
		Title:      "Showroom Visit - Jane Doe",
	})
	if err != nil {
		t.Fatalf("CreateAppointment error: %v", err)
	}
	if id != "appt_1" {
		t.Fatalf("unexpected appointment id %q", id)
	}
}

func TestCreateOpportunity_PipelinePath(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pipelines/pipe_1/opportunities/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "opp_1"})
	}))
	defer ts.Close()

	id, err := testClient(ts.URL).CreateOpportunity(context.Background(), OpportunityRequest{
		ContactID: "ct_1",
		Name:      "Quote Request - Jane Doe",
	})
	if err != nil {
		t.Fatalf("CreateOpportunity error: %v", err)
	}
	if id != "opp_1" {
		t.Fatalf("unexpected opportunity id %q", id)
	}
}

func TestGatewayError_NonTwoXX(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"msg":"invalid calendar"}`, http.StatusUnprocessableEntity)
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).ListCalendars(context.Background())
	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("expected GatewayError, got %v", err)
	}
	if gwErr.Status != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status %d", gwErr.Status)
	}
}

func TestMissingAPIKey_NoOutboundCall(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer ts.Close()

	c := NewClient(Config{BaseURL: ts.URL}, nil)
	_, err := c.ListCalendars(context.Background())
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if called {
		t.Fatal("expected no outbound call without an api key")
	}
}
