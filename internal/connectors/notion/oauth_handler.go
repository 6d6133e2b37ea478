package notion

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jomei/notionapi"

	drivenoauth "github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/adapters/driven/oauth"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/connectors"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
)

// Endpoint URLs are vars so tests can point them at a local server.
var (
	defaultAuthURL  = "https://api.notion.com/v1/oauth/authorize"
	defaultTokenURL = "https://api.notion.com/v1/oauth/token"
)

// Connector implements the Notion provider.
type Connector struct{}

// NewConnector creates a Notion connector.
func NewConnector() *Connector {
	return &Connector{}
}

// Provider returns ProviderNotion.
func (c *Connector) Provider() domain.ProviderType {
	return domain.ProviderNotion
}

func notionConfig(cfg domain.OAuthConfig) (*domain.NotionOAuthConfig, error) {
	ncfg, ok := cfg.(*domain.NotionOAuthConfig)
	if !ok {
		return nil, domain.NewConfigurationError(
			"notion connector requires a NotionOAuthConfig, got %T", cfg,
		)
	}
	return ncfg, nil
}

// BuildAuthURL constructs the Notion authorization URL. owner=user scopes
// the grant to the installing user's workspaces; Notion has no scope
// parameter.
func (c *Connector) BuildAuthURL(cfg domain.OAuthConfig, state string) (string, error) {
	ncfg, err := notionConfig(cfg)
	if err != nil {
		return "", err
	}

	params := url.Values{
		"client_id":     {ncfg.ClientID},
		"redirect_uri":  {ncfg.RedirectURI},
		"response_type": {"code"},
		"owner":         {"user"},
		"state":         {state},
	}

	return defaultAuthURL + "?" + params.Encode(), nil
}

// ExchangeCode exchanges an authorization code for an access token.
// Notion authenticates the client with HTTP Basic auth and a JSON body.
func (c *Connector) ExchangeCode(
	ctx context.Context, cfg domain.OAuthConfig, code string,
) (*domain.OAuthToken, error) {
	ncfg, err := notionConfig(cfg)
	if err != nil {
		return nil, err
	}
	return drivenoauth.ExchangeCodeBasicAuth(
		ctx, defaultTokenURL, ncfg.ClientID, ncfg.ClientSecret, code, ncfg.RedirectURI,
	)
}

// RefreshToken always fails: Notion access tokens do not expire and no
// refresh token is issued. Selection flows reuse the stored access token.
func (c *Connector) RefreshToken(
	_ context.Context, _ domain.OAuthConfig, _ string,
) (*domain.OAuthToken, error) {
	return nil, domain.NewTokenError("notion does not issue refresh tokens", nil)
}

// userFetcher is the slice of the Notion user API this connector needs.
type userFetcher interface {
	Me(ctx context.Context) (*notionapi.User, error)
}

// newUserClient creates a Notion user API client. Overridable in tests.
var newUserClient = func(accessToken string) userFetcher {
	return notionapi.NewClient(notionapi.Token(accessToken)).User
}

// GetUserInfo fetches the authenticated bot user's name.
func (c *Connector) GetUserInfo(ctx context.Context, accessToken string) (string, error) {
	me, err := newUserClient(accessToken).Me(ctx)
	if err != nil {
		return "", fmt.Errorf("notion users/me: %w", err)
	}
	return me.Name, nil
}

// DefaultConfig returns Notion's endpoints. Notion has no scopes.
func (c *Connector) DefaultConfig() connectors.OAuthDefaults {
	return connectors.OAuthDefaults{
		AuthURL:  defaultAuthURL,
		TokenURL: defaultTokenURL,
	}
}
