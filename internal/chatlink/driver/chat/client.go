// Package chat implements the one generic HTTP adapter behind every
// backend profile. Per-backend behavior (auth scheme, wire dialect, paths,
// modality support) comes entirely from the profile; there is no per-backend
// client code.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/modelink/modelink/internal/chatlink/driver"
	"github.com/modelink/modelink/internal/chatlink/normalize"
	"github.com/modelink/modelink/internal/chatlink/profile"
)

// DefaultTimeout bounds a single completion call when no timeout is
// configured. A production call must never ride on transport defaults alone.
const DefaultTimeout = 120 * time.Second

// Credential carries the secrets set once at adapter construction. Basic
// auth profiles use Email + APIKey; bearer profiles use APIKey only.
type Credential struct {
	APIKey string
	Email  string
}

// Client is the generic chat adapter for one backend profile.
type Client struct {
	Profile    profile.Profile
	HTTPClient *http.Client
	Timeout    time.Duration

	credential Credential

	// configuredModel is the model id from configuration; "auto" defers to
	// live catalog selection.
	configuredModel string

	selectOnce sync.Once
	selection  driver.Selection
}

// NewClient returns an adapter for the given profile. model may be a
// concrete id or "auto".
func NewClient(prof profile.Profile, cred Credential, model string) *Client {
	return &Client{
		Profile:         prof,
		credential:      cred,
		configuredModel: strings.TrimSpace(model),
	}
}

// Name returns the profile id.
func (c *Client) Name() string {
	return c.Profile.ID
}

// Capabilities reports the profile's modality support.
func (c *Client) Capabilities() driver.Capabilities {
	return driver.Capabilities{
		TextChat:     true,
		VisionChat:   c.Profile.SupportsVision,
		DocumentChat: c.Profile.SupportsDocuments,
	}
}

// Selection resolves the model exactly once for this adapter's lifetime.
// Later calls return the memoized result even if the live catalog changes.
func (c *Client) Selection(ctx context.Context) driver.Selection {
	c.selectOnce.Do(func() {
		c.selection = c.resolveModel(ctx)
	})
	return c.selection
}

// Complete performs exactly one round trip against the profile's chat
// endpoint. 401/403 map to AuthError, other non-2xx to ProviderError, and
// unrecognized 2xx bodies fall back to raw-body normalization rather than
// failing.
func (c *Client) Complete(ctx context.Context, req *driver.Request) (*driver.Response, error) {
	if c == nil {
		return nil, fmt.Errorf("chat client not configured")
	}
	if strings.TrimSpace(c.credential.APIKey) == "" {
		return nil, fmt.Errorf("%s: api key is required", c.Profile.ID)
	}

	payload, err := buildWireRequest(c.Profile, req)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := strings.TrimRight(c.Profile.BaseURL, "/") + c.Profile.ChatPath
	respBody, status, err := c.post(ctx, url, req.Model, body)
	if err != nil {
		return nil, &driver.ProviderError{Provider: c.Profile.ID, Message: err.Error()}
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, driver.StatusError(c.Profile.ID, status, respBody)
	}

	resp := &driver.Response{
		Reply:   normalize.Extract(respBody),
		RawBody: respBody,
	}
	resp.Usage = parseUsage(respBody)
	return resp, nil
}

// post issues the HTTP request and traces it. Returns the body and status
// for any completed exchange; err is set only for transport-level failures.
func (c *Client) post(ctx context.Context, url, model string, body []byte) ([]byte, int, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}

	switch c.Profile.Auth {
	case profile.AuthBasic:
		httpReq.SetBasicAuth(c.credential.Email, c.credential.APIKey)
	default:
		httpReq.Header.Set("Authorization", "Bearer "+c.credential.APIKey)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient().Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		driver.Trace(driver.TraceEntry{
			Provider:    c.Profile.ID,
			Endpoint:    url,
			Method:      http.MethodPost,
			Model:       model,
			RequestBody: body,
			Error:       err.Error(),
			DurationMs:  duration.Milliseconds(),
		})
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}

	driver.Trace(driver.TraceEntry{
		Provider:    c.Profile.ID,
		Endpoint:    url,
		Method:      http.MethodPost,
		Model:       model,
		RequestBody: body,
		StatusCode:  resp.StatusCode,
		Response:    respBody,
		DurationMs:  duration.Milliseconds(),
	})

	return respBody, resp.StatusCode, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// parseUsage pulls token usage out of a response body when present.
func parseUsage(body []byte) *driver.Usage {
	var envelope struct {
		Usage *driver.Usage `json:"usage"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}
	return envelope.Usage
}
