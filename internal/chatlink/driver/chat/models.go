package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/modelink/modelink/internal/chatlink/driver"
	"github.com/modelink/modelink/internal/chatlink/profile"
)

// modelCatalog is the GET {base}{models_path} response shape shared by the
// openai-dialect backends.
type modelCatalog struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ListModels queries the profile's model catalog. Profiles without a catalog
// path return an empty list.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	if c.Profile.ModelsPath == "" {
		return nil, nil
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	url := strings.TrimRight(c.Profile.BaseURL, "/") + c.Profile.ModelsPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	switch c.Profile.Auth {
	case profile.AuthBasic:
		httpReq.SetBasicAuth(c.credential.Email, c.credential.APIKey)
	default:
		httpReq.Header.Set("Authorization", "Bearer "+c.credential.APIKey)
	}
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient().Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	driver.Trace(driver.TraceEntry{
		Provider:   c.Profile.ID,
		Endpoint:   url,
		Method:     http.MethodGet,
		StatusCode: resp.StatusCode,
		Response:   body,
		DurationMs: duration.Milliseconds(),
	})

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, driver.StatusError(c.Profile.ID, resp.StatusCode, body)
	}

	var catalog modelCatalog
	if err := json.Unmarshal(body, &catalog); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	ids := make([]string, 0, len(catalog.Data))
	for _, m := range catalog.Data {
		if id := strings.TrimSpace(m.ID); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// resolveModel implements the one-time selection: a configured model wins
// outright; "auto" intersects the live catalog with the profile preference
// list in list order; no match falls back to the lexicographically smallest
// catalog id (deterministic tie-break, surfaced via the selection reason);
// a failed catalog query falls back to the profile default.
func (c *Client) resolveModel(ctx context.Context) driver.Selection {
	if c.configuredModel != "" && !strings.EqualFold(c.configuredModel, profile.AutoModel) {
		return driver.Selection{Model: c.configuredModel, Reason: driver.SelectionConfigured}
	}

	if c.Profile.ModelsPath == "" {
		if len(c.Profile.PreferredModels) > 0 {
			return driver.Selection{Model: c.Profile.PreferredModels[0], Reason: driver.SelectionPreferred}
		}
		return driver.Selection{Model: c.Profile.DefaultModel, Reason: driver.SelectionDefault}
	}

	available, err := c.ListModels(ctx)
	if err != nil || len(available) == 0 {
		return driver.Selection{Model: c.Profile.DefaultModel, Reason: driver.SelectionDefault}
	}

	catalog := make(map[string]struct{}, len(available))
	for _, id := range available {
		catalog[id] = struct{}{}
	}
	for _, preferred := range c.Profile.PreferredModels {
		if _, ok := catalog[preferred]; ok {
			return driver.Selection{Model: preferred, Reason: driver.SelectionPreferred}
		}
	}

	sorted := append([]string(nil), available...)
	sort.Strings(sorted)
	return driver.Selection{Model: sorted[0], Reason: driver.SelectionCatalogFallback}
}
