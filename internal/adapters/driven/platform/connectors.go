package platform

import (
	"context"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
)

// Convenience constructors mirroring the SDK surface: one call per provider
// and integration mode. White-label variants validate the OAuth app
// credentials synchronously, before any request is sent.

// CreateVectorizeGDriveConnector creates a platform-managed Google Drive
// connector.
func (c *Client) CreateVectorizeGDriveConnector(
	ctx context.Context, cfg domain.PlatformConfig, name string,
) (string, error) {
	return c.CreateSourceConnector(ctx, cfg, domain.ConnectorConfig{
		Name: name,
		Type: domain.ConnectorGoogleDriveVectorize,
	})
}

// CreateWhiteLabelGDriveConnector creates a Google Drive connector using the
// host application's own OAuth app.
func (c *Client) CreateWhiteLabelGDriveConnector(
	ctx context.Context, cfg domain.PlatformConfig, name, clientID, clientSecret string,
) (string, error) {
	if clientID == "" {
		return "", domain.NewConfigurationError("missing required field: clientId").
			WithDetail("field", "clientId")
	}
	if clientSecret == "" {
		return "", domain.NewConfigurationError("missing required field: clientSecret").
			WithDetail("field", "clientSecret")
	}
	return c.CreateSourceConnector(ctx, cfg, domain.ConnectorConfig{
		Name: name,
		Type: domain.ConnectorGoogleDriveWhiteLabel,
		Config: map[string]string{
			"clientId":     clientID,
			"clientSecret": clientSecret,
		},
	})
}

// CreateVectorizeDropboxConnector creates a platform-managed Dropbox
// connector.
func (c *Client) CreateVectorizeDropboxConnector(
	ctx context.Context, cfg domain.PlatformConfig, name string,
) (string, error) {
	return c.CreateSourceConnector(ctx, cfg, domain.ConnectorConfig{
		Name: name,
		Type: domain.ConnectorDropboxVectorize,
	})
}

// CreateWhiteLabelDropboxConnector creates a Dropbox connector using the
// host application's own Dropbox app.
func (c *Client) CreateWhiteLabelDropboxConnector(
	ctx context.Context, cfg domain.PlatformConfig, name, appKey, appSecret string,
) (string, error) {
	if appKey == "" {
		return "", domain.NewConfigurationError("missing required field: appKey").
			WithDetail("field", "appKey")
	}
	if appSecret == "" {
		return "", domain.NewConfigurationError("missing required field: appSecret").
			WithDetail("field", "appSecret")
	}
	return c.CreateSourceConnector(ctx, cfg, domain.ConnectorConfig{
		Name: name,
		Type: domain.ConnectorDropboxWhiteLabel,
		Config: map[string]string{
			"appKey":    appKey,
			"appSecret": appSecret,
		},
	})
}

// CreateVectorizeNotionConnector creates a platform-managed Notion
// connector.
func (c *Client) CreateVectorizeNotionConnector(
	ctx context.Context, cfg domain.PlatformConfig, name string,
) (string, error) {
	return c.CreateSourceConnector(ctx, cfg, domain.ConnectorConfig{
		Name: name,
		Type: domain.ConnectorNotionVectorize,
	})
}

// CreateWhiteLabelNotionConnector creates a Notion connector using the host
// application's own Notion integration.
func (c *Client) CreateWhiteLabelNotionConnector(
	ctx context.Context, cfg domain.PlatformConfig, name, clientID, clientSecret string,
) (string, error) {
	if clientID == "" {
		return "", domain.NewConfigurationError("missing required field: clientId").
			WithDetail("field", "clientId")
	}
	if clientSecret == "" {
		return "", domain.NewConfigurationError("missing required field: clientSecret").
			WithDetail("field", "clientSecret")
	}
	return c.CreateSourceConnector(ctx, cfg, domain.ConnectorConfig{
		Name: name,
		Type: domain.ConnectorNotionWhiteLabel,
		Config: map[string]string{
			"clientId":     clientID,
			"clientSecret": clientSecret,
		},
	})
}
