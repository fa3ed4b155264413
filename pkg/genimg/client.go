package genimg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chazu/slate/pkg/board"
)

const defaultTimeout = 60 * time.Second

// HTTPClient talks JSON over HTTP to a generation service.
type HTTPClient struct {
	Endpoint string
	APIKey   string        // sent as a bearer token when non-empty
	Timeout  time.Duration // zero means defaultTimeout
	HTTP     *http.Client  // nil means http.DefaultClient
}

type wireRequest struct {
	Mode        string            `json:"mode"`
	Instruction string            `json:"instruction"`
	Inputs      []board.BitmapRef `json:"inputs,omitempty"`
}

type wireResponse struct {
	Images []board.BitmapRef `json:"images"`
	Error  string            `json:"error,omitempty"`
}

// Generate posts the request and returns the candidate images. Any transport
// or service failure is returned as an error with no candidates.
func (c *HTTPClient) Generate(ctx context.Context, req Request) ([]board.BitmapRef, error) {
	if c.Endpoint == "" {
		return nil, fmt.Errorf("genimg: no endpoint configured")
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(wireRequest{
		Mode:        req.Mode.String(),
		Instruction: req.Instruction,
		Inputs:      req.Inputs,
	})
	if err != nil {
		return nil, fmt.Errorf("genimg: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("genimg: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("genimg: call service: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return nil, fmt.Errorf("genimg: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("genimg: service returned %s", resp.Status)
	}

	var out wireResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("genimg: decode response: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("genimg: service error: %s", out.Error)
	}
	return out.Images, nil
}
