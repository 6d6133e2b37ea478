// Package platform provides the Vectorize backend API client: connector
// creation, per-connector user management and one-time token issuance for
// managed flows.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/ports/driven"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.PlatformAPI = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.vectorize.io/v1"
	DefaultTimeout = 30 * time.Second
)

// ClientConfig holds configuration for the platform client.
type ClientConfig struct {
	// BaseURL is the API base URL (default: https://api.vectorize.io/v1).
	BaseURL string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Client calls the Vectorize backend REST API. Tenant credentials arrive
// with each call via PlatformConfig; the client itself is stateless and
// safe for concurrent use.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a platform client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
	}
}

// createConnectorResponse is the connector creation response format.
type createConnectorResponse struct {
	Connectors []struct {
		ID string `json:"id"`
	} `json:"connectors"`
}

// userPayload is the add/edit user request format. Remove sends no body.
type userPayload struct {
	SelectedFiles []domain.SelectedFile `json:"selectedFiles"`
	RefreshToken  string                `json:"refreshToken,omitempty"`
	AccessToken   string                `json:"accessToken,omitempty"`
}

// CreateSourceConnector registers a connector and returns its platform ID.
func (c *Client) CreateSourceConnector(
	ctx context.Context,
	cfg domain.PlatformConfig,
	connector domain.ConnectorConfig,
) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/org/%s/connectors/sources", c.baseURL, cfg.OrganizationID)
	// The endpoint accepts a batch; the SDK always sends exactly one.
	body, err := c.do(ctx, cfg, http.MethodPost, url, []domain.ConnectorConfig{connector})
	if err != nil {
		return "", err
	}

	var resp createConnectorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("platform: decoding connector response: %w", err)
	}
	if len(resp.Connectors) == 0 || resp.Connectors[0].ID == "" {
		return "", fmt.Errorf("platform: connector response contains no connector id")
	}

	logger.Debug().
		Str("connector_id", resp.Connectors[0].ID).
		Str("type", string(connector.Type)).
		Msg("connector created")
	return resp.Connectors[0].ID, nil
}

// ManageUser adds, edits or removes a user's selection on a connector.
// Add and edit fail before any network call when the selection is empty or
// carries no token. Remove never sends selection or token fields.
func (c *Client) ManageUser(
	ctx context.Context,
	cfg domain.PlatformConfig,
	connectorID, userID string,
	action domain.UserAction,
	selection *domain.Selection,
) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if connectorID == "" {
		return domain.NewConfigurationError("missing required field: connectorId").
			WithDetail("field", "connectorId")
	}
	if userID == "" {
		return domain.NewConfigurationError("missing required field: userId").
			WithDetail("field", "userId")
	}

	verb, err := action.Verb()
	if err != nil {
		return err
	}

	var payload any
	if action.RequiresSelection() {
		if selection.IsEmpty() {
			return domain.NewConfigurationError("action %q requires a non-empty selection", string(action))
		}
		if selection.RefreshToken == "" && selection.AccessToken == "" {
			return domain.NewConfigurationError("action %q requires a selection token", string(action))
		}
		payload = userPayload{
			SelectedFiles: selection.Files,
			RefreshToken:  selection.RefreshToken,
			AccessToken:   selection.AccessToken,
		}
	}

	url := fmt.Sprintf("%s/org/%s/connectors/sources/%s/users/%s",
		c.baseURL, cfg.OrganizationID, connectorID, userID)
	if _, err := c.do(ctx, cfg, verb, url, payload); err != nil {
		return err
	}

	logger.Debug().
		Str("connector_id", connectorID).
		Str("user_id", userID).
		Str("action", string(action)).
		Msg("connector user updated")
	return nil
}

// GetOneTimeConnectorToken issues a short-lived token authorizing a single
// managed-flow iframe session.
func (c *Client) GetOneTimeConnectorToken(
	ctx context.Context,
	cfg domain.PlatformConfig,
	userID, connectorID string,
) (*domain.OneTimeToken, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/org/%s/connectors/sources/%s/users/%s/token",
		c.baseURL, cfg.OrganizationID, connectorID, userID)
	body, err := c.do(ctx, cfg, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var token domain.OneTimeToken
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("platform: decoding token response: %w", err)
	}
	if token.Token == "" {
		return nil, fmt.Errorf("platform: token response contains no token")
	}
	return &token, nil
}

// do sends one request with bearer auth and returns the response body.
// Non-2xx responses become errors carrying the HTTP status. No retries.
func (c *Client) do(ctx context.Context, cfg domain.PlatformConfig, method, url string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("platform: encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("platform: creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cfg.Authorization)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("platform: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("platform: reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("platform: %s %s returned status %d: %s",
			method, req.URL.Path, resp.StatusCode, truncate(string(body), 256))
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
