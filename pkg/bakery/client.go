package bakery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"cake_store/internal/models"
)

// ErrUnexpectedFormat marks a syntactically valid response whose shape does
// not match what the bakery API documents. Callers degrade to empty data.
var ErrUnexpectedFormat = errors.New("unexpected response format")

// Client talks to the remote bakery API. It owns no state beyond the base URL
// and the HTTP client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

type cakesResponse struct {
	Success bool            `json:"success"`
	Cakes   json.RawMessage `json:"cakes"`
}

type timeslotsResponse struct {
	Timeslots json.RawMessage `json:"timeslots"`
}

type SubmitResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bakery API returned status %d", resp.StatusCode)
	}
	return body, nil
}

// GetCakes fetches the cake catalog from GET /api/cake.
func (c *Client) GetCakes(ctx context.Context) (models.Catalog, error) {
	body, err := c.get(ctx, "/api/cake")
	if err != nil {
		return nil, err
	}

	var envelope cakesResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("catalog payload: %w", ErrUnexpectedFormat)
	}

	var cakes models.Catalog
	if envelope.Cakes == nil || json.Unmarshal(envelope.Cakes, &cakes) != nil {
		return nil, fmt.Errorf("catalog payload: %w", ErrUnexpectedFormat)
	}
	return cakes, nil
}

// GetTimeslots fetches pickup capacity from GET /api/timeslots.
func (c *Client) GetTimeslots(ctx context.Context) ([]models.TimeSlot, error) {
	body, err := c.get(ctx, "/api/timeslots")
	if err != nil {
		return nil, err
	}

	var envelope timeslotsResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("timeslots payload: %w", ErrUnexpectedFormat)
	}

	var slots []models.TimeSlot
	if envelope.Timeslots == nil || json.Unmarshal(envelope.Timeslots, &slots) != nil {
		return nil, fmt.Errorf("timeslots payload: %w", ErrUnexpectedFormat)
	}
	return slots, nil
}

// ListOrders fetches all orders from GET /api/list. The API has shipped three
// envelope shapes over time: {"orders": [...]}, {"data": [...]} and a bare
// array; all three are accepted.
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	body, err := c.get(ctx, "/api/list")
	if err != nil {
		return nil, err
	}

	var bare []models.Order
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}

	var envelope struct {
		Orders json.RawMessage `json:"orders"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("orders payload: %w", ErrUnexpectedFormat)
	}

	var orders []models.Order
	if envelope.Orders != nil && json.Unmarshal(envelope.Orders, &orders) == nil {
		return orders, nil
	}
	if envelope.Data != nil && json.Unmarshal(envelope.Data, &orders) == nil {
		return orders, nil
	}
	return nil, fmt.Errorf("orders payload: %w", ErrUnexpectedFormat)
}

// SubmitOrder posts a reservation to POST /api/reservar. A non-nil response
// with Success=false carries the server's rejection reason in Error.
func (c *Client) SubmitOrder(ctx context.Context, order *models.Order) (*SubmitResponse, error) {
	jsonData, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order: %w", err)
	}

	url := c.BaseURL + "/api/reservar"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var response SubmitResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &response, nil
}
