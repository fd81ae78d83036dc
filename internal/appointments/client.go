// Package appointments is the HTTP client for the appointments REST
// backend, the only collaborator that persists anything.
package appointments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/lucasmonteiro/agendei/internal/slots"
)

var tracer = otel.Tracer("agendei.internal.appointments")

// Client talks to the appointments backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient validates the config and builds a client. A default 10s
// timeout applies when no HTTP client is supplied.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("appointments: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/"),
		httpClient: httpClient,
	}, nil
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Create books a new appointment.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*Appointment, error) {
	ctx, span := tracer.Start(ctx, "appointments.create")
	defer span.End()
	span.SetAttributes(
		attribute.String("agendei.date", req.Date),
		attribute.String("agendei.time", req.Time),
	)

	var appt Appointment
	if err := c.do(ctx, http.MethodPost, "/appointments", nil, req, &appt); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &appt, nil
}

// ByDate fetches a day's appointments, bucketed server-side.
func (c *Client) ByDate(ctx context.Context, date string) (*Grouped, error) {
	ctx, span := tracer.Start(ctx, "appointments.by_date")
	defer span.End()
	span.SetAttributes(attribute.String("agendei.date", date))

	query := url.Values{"date": {date}}
	var grouped Grouped
	if err := c.do(ctx, http.MethodGet, "/appointments", query, nil, &grouped); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &grouped, nil
}

// AvailableSlots fetches a day's slot availability.
func (c *Client) AvailableSlots(ctx context.Context, date string) (*slots.Grouped, error) {
	ctx, span := tracer.Start(ctx, "appointments.available_slots")
	defer span.End()
	span.SetAttributes(attribute.String("agendei.date", date))

	query := url.Values{"date": {date}}
	var grouped slots.Grouped
	if err := c.do(ctx, http.MethodGet, "/appointments/available-slots", query, nil, &grouped); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &grouped, nil
}

// All fetches every appointment, unbucketed.
func (c *Client) All(ctx context.Context) ([]Appointment, error) {
	ctx, span := tracer.Start(ctx, "appointments.all")
	defer span.End()

	var list []Appointment
	if err := c.do(ctx, http.MethodGet, "/appointments/all", nil, nil, &list); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return list, nil
}

// Delete removes an appointment by id.
func (c *Client) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "appointments.delete")
	defer span.End()
	span.SetAttributes(attribute.String("agendei.appointment_id", id))

	if err := c.do(ctx, http.MethodDelete, "/appointments/"+url.PathEscape(id), nil, nil, nil); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// Health pings the backend health endpoint.
func (c *Client) Health(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "appointments.health")
	defer span.End()

	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, nil); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("appointments: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("appointments: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w at %s: %v", ErrUnreachable, c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		statusErr := &StatusError{Code: resp.StatusCode}
		var envelope errorBody
		if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Message != "" {
			statusErr.Message = envelope.Message
		} else {
			statusErr.Message = fmt.Sprintf("HTTP Error %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		return statusErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || resp.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("appointments: decode response: %w", err)
	}
	return nil
}
