package dropbox

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	sdk "github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/users"

	drivenoauth "github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/adapters/driven/oauth"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/connectors"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
)

// Endpoint URLs are vars so tests can point them at a local server.
var (
	defaultAuthURL  = "https://www.dropbox.com/oauth2/authorize"
	defaultTokenURL = "https://api.dropboxapi.com/oauth2/token"
)

// Connector implements the Dropbox provider.
type Connector struct{}

// NewConnector creates a Dropbox connector.
func NewConnector() *Connector {
	return &Connector{}
}

// Provider returns ProviderDropbox.
func (c *Connector) Provider() domain.ProviderType {
	return domain.ProviderDropbox
}

func dropboxConfig(cfg domain.OAuthConfig) (*domain.DropboxOAuthConfig, error) {
	dcfg, ok := cfg.(*domain.DropboxOAuthConfig)
	if !ok {
		return nil, domain.NewConfigurationError(
			"dropbox connector requires a DropboxOAuthConfig, got %T", cfg,
		)
	}
	return dcfg, nil
}

// BuildAuthURL constructs the Dropbox authorization URL.
// token_access_type=offline makes Dropbox issue a refresh token alongside
// the short-lived access token.
func (c *Connector) BuildAuthURL(cfg domain.OAuthConfig, state string) (string, error) {
	dcfg, err := dropboxConfig(cfg)
	if err != nil {
		return "", err
	}

	params := url.Values{
		"client_id":         {dcfg.AppKey},
		"redirect_uri":      {dcfg.RedirectURI},
		"response_type":     {"code"},
		"token_access_type": {"offline"},
		"scope":             {strings.Join(dcfg.ScopeList(), " ")},
		"state":             {state},
	}

	return defaultAuthURL + "?" + params.Encode(), nil
}

// ExchangeCode exchanges an authorization code for tokens.
func (c *Connector) ExchangeCode(
	ctx context.Context, cfg domain.OAuthConfig, code string,
) (*domain.OAuthToken, error) {
	dcfg, err := dropboxConfig(cfg)
	if err != nil {
		return nil, err
	}
	return drivenoauth.ExchangeCodeForTokens(
		ctx, defaultTokenURL, dcfg.AppKey, dcfg.AppSecret, code, dcfg.RedirectURI,
	)
}

// RefreshToken refreshes an expired access token. Dropbox keeps the refresh
// token stable across refreshes.
func (c *Connector) RefreshToken(
	ctx context.Context, cfg domain.OAuthConfig, refreshToken string,
) (*domain.OAuthToken, error) {
	dcfg, err := dropboxConfig(cfg)
	if err != nil {
		return nil, err
	}
	token, err := drivenoauth.RefreshAccessToken(
		ctx, defaultTokenURL, dcfg.AppKey, dcfg.AppSecret, refreshToken,
	)
	if err != nil {
		return nil, err
	}
	if token.RefreshToken == "" {
		token.RefreshToken = refreshToken
	}
	return token, nil
}

// newUsersClient creates a Dropbox users API client. Overridable in tests.
var newUsersClient = func(accessToken string) users.Client {
	return users.New(sdk.Config{Token: accessToken})
}

// GetUserInfo fetches the authenticated account's email address.
func (c *Connector) GetUserInfo(_ context.Context, accessToken string) (string, error) {
	account, err := newUsersClient(accessToken).GetCurrentAccount()
	if err != nil {
		return "", fmt.Errorf("get current account: %w", err)
	}
	return account.Email, nil
}

// DefaultConfig returns Dropbox's endpoints and default scopes.
func (c *Connector) DefaultConfig() connectors.OAuthDefaults {
	return connectors.OAuthDefaults{
		AuthURL:  defaultAuthURL,
		TokenURL: defaultTokenURL,
		Scopes:   domain.DefaultDropboxScopes,
	}
}
