package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/teamdocs/procap/internal/document"
)

const (
	defaultTimeout = 30 * time.Second
	maxDocSize     = 20 << 20 // 20MB
)

// Client talks to the document rendering backend, which turns an assembled
// document model into .docx bytes.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client targeting the given renderer base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// Render posts the document model and returns the rendered bytes.
func (c *Client) Render(ctx context.Context, model document.Model) ([]byte, error) {
	body, err := json.Marshal(model)
	if err != nil {
		return nil, fmt.Errorf("marshaling document model: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating render request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("render request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("render: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	docBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxDocSize))
	if err != nil {
		return nil, fmt.Errorf("reading rendered document: %w", err)
	}
	if len(docBytes) == 0 {
		return nil, fmt.Errorf("render: empty document in response")
	}
	return docBytes, nil
}
