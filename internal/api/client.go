// Package api talks to the FS Flight Plan Link desktop service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"fsfplink/internal/utils"
)

var (
	// ErrUnauthorized is returned for 401: the PIN was refused.
	ErrUnauthorized = errors.New("desktop refused the pin")
	// ErrNotFound is returned for 404, which the desktop service never answers on /plan.
	ErrNotFound = errors.New("plan endpoint not found")
	// ErrUnreachable wraps transport failures where no response arrived.
	ErrUnreachable = errors.New("desktop service unreachable")
)

const planPath = "/plan"

// PlanRequest is the body of POST /plan.
type PlanRequest struct {
	Plan          map[string]any `json:"plan"`
	SecondaryPlan map[string]any `json:"secondary_plan,omitempty"`
}

// PlanResponse is what the desktop service answers on success.
type PlanResponse struct {
	Plan          map[string]any    `json:"plan"`
	SecondaryPlan map[string]any    `json:"secondary_plan"`
	ExportErrors  map[string]string `json:"export_errors"`
}

type errorBody struct {
	Error string `json:"error"`
}

type Client struct {
	baseURL  string
	username string
	http     *http.Client
	logger   *utils.Logger
}

// NewClient uses http.DefaultClient, which has no timeout.
func NewClient(baseURL, username string, logger *utils.Logger) *Client {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		http:     http.DefaultClient,
		logger:   logger,
	}
}

// WithHTTPClient swaps the transport.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// BaseURL returns the service root the client posts to.
func (c *Client) BaseURL() string { return c.baseURL }

// PostPlan sends the plan authenticated with pin. Errors are ErrUnauthorized,
// ErrNotFound, ErrUnreachable or a *utils.StatusError. A 2xx with an
// undecodable body is a success with an empty response.
func (c *Client) PostPlan(ctx context.Context, pin string, body PlanRequest) (*PlanResponse, int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("encode plan: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+planPath, bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.username, pin)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("incomplete plan response body", zap.Int("status", resp.StatusCode), zap.Int("read", len(b)), zap.Error(err))
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, resp.StatusCode, ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return nil, resp.StatusCode, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		var eb errorBody
		_ = json.Unmarshal(b, &eb)
		return nil, resp.StatusCode, utils.New(resp.StatusCode, eb.Error)
	}

	var out PlanResponse
	if len(b) > 0 {
		if err := json.Unmarshal(b, &out); err != nil {
			c.logger.Warn("undecodable plan response", zap.Int("status", resp.StatusCode), zap.Error(err))
		}
	}
	return &out, resp.StatusCode, nil
}
