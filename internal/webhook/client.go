package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

// ErrDelivery marks a failed delivery (transport error or non-2xx
// response). The caller may retry; nothing about the generated document is
// rolled back.
var ErrDelivery = errors.New("webhook delivery failure")

// Payload is the submission body posted to the delivery endpoint.
type Payload struct {
	SessionID      string `json:"sessionId"`
	EmployeeName   string `json:"employeeName"`
	Division       string `json:"division"`
	ProcessName    string `json:"processName"`
	Summary        string `json:"summary"`
	Filename       string `json:"filename"`
	DocumentBase64 string `json:"documentBase64"`
	SubmittedAt    string `json:"submittedAt"`
	IsDraft        bool   `json:"isDraft"`
}

// Client delivers submission payloads to a configured webhook URL.
type Client struct {
	url        string
	httpClient *http.Client
}

// New creates a Client posting to the given URL.
func New(url string) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// Deliver posts the payload as JSON. Any non-2xx response is a delivery
// failure.
func (c *Client) Deliver(ctx context.Context, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating delivery request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: endpoint returned %d", ErrDelivery, resp.StatusCode)
	}
	return nil
}
