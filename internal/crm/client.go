package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/summitsurfaces/showroom-api/pkg/logging"
)

const (
	defaultBaseURL = "https://rest.gohighlevel.com/v1"
	defaultTimeout = 15 * time.Second
)

// Client wraps the REST calls this service makes against the CRM: calendar
// listing, free-slot lookup, contact upsert, appointment creation, and
// pipeline opportunity creation. No retries are performed here; every
// operation is a single attempt.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cfg        Config
	logger     *logging.Logger
}

// NewClient constructs a CRM client from injected configuration.
func NewClient(cfg Config, logger *logging.Logger) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		cfg:        cfg,
		logger:     logger,
	}
}

// SetTimeout overrides the HTTP client timeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.httpClient.Timeout = d
	}
}

// ListCalendars returns the calendars configured for the business location.
func (c *Client) ListCalendars(ctx context.Context) ([]Calendar, error) {
	q := url.Values{}
	q.Set("locationId", c.cfg.LocationID)
	path := "/calendars/?" + q.Encode()

	var out calendarsResponse
	if err := c.doJSON(ctx, "list calendars", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if len(out.Calendars) == 0 {
		return nil, ErrNoCalendars
	}
	return out.Calendars, nil
}

// FetchFreeSlots returns the raw day-keyed availability payload for a
// calendar within [start, end]. The window bounds are sent as epoch millis.
func (c *Client) FetchFreeSlots(ctx context.Context, calendarID string, start, end time.Time, timezone string) (FreeSlots, error) {
	q := url.Values{}
	q.Set("startDate", strconv.FormatInt(start.UnixMilli(), 10))
	q.Set("endDate", strconv.FormatInt(end.UnixMilli(), 10))
	if timezone != "" {
		q.Set("timezone", timezone)
	}
	path := fmt.Sprintf("/appointments/slots/?calendarId=%s&%s", url.QueryEscape(calendarID), q.Encode())

	var out FreeSlots
	if err := c.doJSON(ctx, "fetch free slots", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertContact creates or updates a contact and returns the CRM-issued
// contact id. A 2xx response without an id is a failure, not a success.
func (c *Client) UpsertContact(ctx context.Context, req UpsertContactRequest) (string, error) {
	var out contactResponse
	if err := c.doJSON(ctx, "upsert contact", http.MethodPost, "/contacts/", req, &out); err != nil {
		return "", err
	}
	id := out.Contact.ID
	if id == "" {
		id = out.ID
	}
	if id == "" {
		return "", ErrMissingContactID
	}
	return id, nil
}

// CreateAppointment books a slot for a contact and returns the appointment id.
func (c *Client) CreateAppointment(ctx context.Context, req AppointmentRequest) (string, error) {
	var out appointmentResponse
	if err := c.doJSON(ctx, "create appointment", http.MethodPost, "/appointments/", req, &out); err != nil {
		return "", err
	}
	id := out.ID
	if id == "" {
		id = out.Appointment.ID
	}
	if id == "" {
		return "", ErrMissingAppointmentID
	}
	return id, nil
}

// CreateOpportunity places a contact into the configured sales pipeline.
func (c *Client) CreateOpportunity(ctx context.Context, req OpportunityRequest) (string, error) {
	if req.StageID == "" {
		req.StageID = c.cfg.PipelineStageID
	}
	if req.Status == "" {
		req.Status = "open"
	}
	path := fmt.Sprintf("/pipelines/%s/opportunities/", url.PathEscape(c.cfg.PipelineID))

	var out opportunityResponse
	if err := c.doJSON(ctx, "create opportunity", http.MethodPost, path, req, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, body interface{}, out interface{}) error {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return ErrMissingAPIKey
	}

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("crm: marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("crm: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("crm: %s: %w", op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("crm: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		c.logger.Warn("crm API non-2xx response", "op", op, "status", resp.StatusCode, "body", msg)
		return &GatewayError{Op: op, Status: resp.StatusCode, Body: msg}
	}

	if len(respBody) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("crm: decode response: %w", err)
	}
	return nil
}
