// Package connect is the public surface of the Vectorize connect SDK.
//
// A host web application creates a Client, starts an OAuth flow to get an
// authorize URL for the popup, wires its callback route to HandleCallback,
// its completion endpoint to Deliver, and blocks on Wait for the user's
// file selection. The selection is then registered with the Vectorize
// platform via the connector methods.
package connect

import (
	"context"
	"time"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/adapters/driven/platform"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/services"
)

// Options configures a Client.
type Options struct {
	// CompleteURL is the host endpoint that picker pages post their
	// completion envelope to (required for white-label flows).
	CompleteURL string

	// PlatformURL overrides the Vectorize API base URL.
	PlatformURL string

	// PlatformTimeout overrides the platform request timeout.
	PlatformTimeout time.Duration
}

// Client bundles the connect flow engine and the platform API client.
// Safe for concurrent use; one Client serves any number of flows.
type Client struct {
	flow     *services.Flow
	registry *services.ConnectorRegistry
	platform *platform.Client
}

// New creates a Client.
func New(opts Options) *Client {
	registry := services.NewConnectorRegistry()
	return &Client{
		flow: services.NewFlow(
			registry,
			services.NewAttemptStore(),
			opts.CompleteURL,
		),
		registry: registry,
		platform: platform.NewClient(platform.ClientConfig{
			BaseURL: opts.PlatformURL,
			Timeout: opts.PlatformTimeout,
		}),
	}
}

// Start validates the OAuth config and registers a new attempt. The
// returned attempt's AuthURL is the page to open in the popup.
func (c *Client) Start(ctx context.Context, cfg OAuthConfig) (*Attempt, error) {
	return c.flow.Start(ctx, cfg)
}

// StartSelection registers a selection-only attempt using a stored
// credential, returning the picker page to serve directly.
func (c *Client) StartSelection(
	ctx context.Context,
	cfg OAuthConfig,
	storedToken string,
	preSelected []SelectedFile,
) (*Attempt, string, error) {
	return c.flow.StartSelection(ctx, cfg, storedToken, preSelected)
}

// StartManaged registers an attempt for a managed (hosted iframe) flow.
func (c *Client) StartManaged(ctx context.Context, provider Provider, kind EnvelopeKind) (*Attempt, error) {
	return c.flow.StartManaged(ctx, provider, kind)
}

// HandleCallback produces the HTML response body for the host's OAuth
// callback route. It always returns a complete document.
func (c *Client) HandleCallback(ctx context.Context, attemptID, code, errParam, errDesc string) string {
	return c.flow.HandleCallback(ctx, attemptID, code, errParam, errDesc)
}

// Deliver dispatches a completion envelope to its pending attempt.
func (c *Client) Deliver(env Envelope) error {
	return c.flow.Deliver(env)
}

// Wait blocks until the attempt resolves, ctx ends, or the attempt TTL
// passes. Abandoned flows surface as a CANCELLED error.
func (c *Client) Wait(ctx context.Context, attempt *Attempt) (*Selection, error) {
	return c.flow.Wait(ctx, attempt)
}

// VerifySelection checks each selected item against the provider API,
// returning the IDs that could not be fetched. Selections that carry only a
// refresh token (Google Drive, Dropbox) are refreshed with cfg first; cfg
// may be nil when the selection holds an access token. Providers without a
// verifier report every item as verified.
func (c *Client) VerifySelection(ctx context.Context, cfg OAuthConfig, selection *Selection) ([]string, error) {
	if selection.IsEmpty() {
		return nil, nil
	}
	verifier, ok := c.registry.Verifier(selection.Provider)
	if !ok {
		return nil, nil
	}
	token := &OAuthToken{AccessToken: selection.AccessToken, TokenType: "bearer"}
	if token.AccessToken == "" {
		if cfg == nil {
			return nil, domain.NewTokenError(
				"selection carries only a refresh token; an OAuth config is required to refresh it", nil)
		}
		connector, err := c.registry.Get(selection.Provider)
		if err != nil {
			return nil, err
		}
		token, err = connector.RefreshToken(ctx, cfg, selection.RefreshToken)
		if err != nil {
			return nil, err
		}
	}
	return verifier.VerifySelection(ctx, token, selection.Files)
}

// CreateSourceConnector registers a connector and returns its ID.
func (c *Client) CreateSourceConnector(ctx context.Context, cfg PlatformConfig, connector ConnectorConfig) (string, error) {
	return c.platform.CreateSourceConnector(ctx, cfg, connector)
}

// ManageUser adds, edits or removes a user's selection on a connector.
func (c *Client) ManageUser(
	ctx context.Context,
	cfg PlatformConfig,
	connectorID, userID string,
	action UserAction,
	selection *Selection,
) error {
	return c.platform.ManageUser(ctx, cfg, connectorID, userID, action, selection)
}

// GetOneTimeConnectorToken issues a short-lived token for a managed-flow
// iframe session.
func (c *Client) GetOneTimeConnectorToken(ctx context.Context, cfg PlatformConfig, userID, connectorID string) (*OneTimeToken, error) {
	return c.platform.GetOneTimeConnectorToken(ctx, cfg, userID, connectorID)
}

// CreateVectorizeGDriveConnector creates a platform-managed Google Drive
// connector.
func (c *Client) CreateVectorizeGDriveConnector(ctx context.Context, cfg PlatformConfig, name string) (string, error) {
	return c.platform.CreateVectorizeGDriveConnector(ctx, cfg, name)
}

// CreateWhiteLabelGDriveConnector creates a Google Drive connector using
// the host's own OAuth app. Credentials are validated before any request.
func (c *Client) CreateWhiteLabelGDriveConnector(
	ctx context.Context, cfg PlatformConfig, name, clientID, clientSecret string,
) (string, error) {
	return c.platform.CreateWhiteLabelGDriveConnector(ctx, cfg, name, clientID, clientSecret)
}

// CreateVectorizeDropboxConnector creates a platform-managed Dropbox
// connector.
func (c *Client) CreateVectorizeDropboxConnector(ctx context.Context, cfg PlatformConfig, name string) (string, error) {
	return c.platform.CreateVectorizeDropboxConnector(ctx, cfg, name)
}

// CreateWhiteLabelDropboxConnector creates a Dropbox connector using the
// host's own Dropbox app.
func (c *Client) CreateWhiteLabelDropboxConnector(
	ctx context.Context, cfg PlatformConfig, name, appKey, appSecret string,
) (string, error) {
	return c.platform.CreateWhiteLabelDropboxConnector(ctx, cfg, name, appKey, appSecret)
}

// CreateVectorizeNotionConnector creates a platform-managed Notion
// connector.
func (c *Client) CreateVectorizeNotionConnector(ctx context.Context, cfg PlatformConfig, name string) (string, error) {
	return c.platform.CreateVectorizeNotionConnector(ctx, cfg, name)
}

// CreateWhiteLabelNotionConnector creates a Notion connector using the
// host's own Notion integration.
func (c *Client) CreateWhiteLabelNotionConnector(
	ctx context.Context, cfg PlatformConfig, name, clientID, clientSecret string,
) (string, error) {
	return c.platform.CreateWhiteLabelNotionConnector(ctx, cfg, name, clientID, clientSecret)
}

// ConnectURL builds the managed-platform URL for a first-time connect
// flow.
func ConnectURL(platformURL, oneTimeToken, organizationID string) (string, error) {
	return platform.ConnectURL(platformURL, oneTimeToken, organizationID)
}

// EditURL builds the managed-platform URL for editing an existing
// selection.
func EditURL(platformURL, oneTimeToken, organizationID string) (string, error) {
	return platform.EditURL(platformURL, oneTimeToken, organizationID)
}
