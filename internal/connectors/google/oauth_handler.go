package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	drivenoauth "github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/adapters/driven/oauth"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/connectors"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
)

// Endpoint URLs are vars so tests can point them at a local server.
var (
	defaultAuthURL  = "https://accounts.google.com/o/oauth2/v2/auth"
	defaultTokenURL = "https://oauth2.googleapis.com/token"
	userInfoURL     = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// Connector implements the Google Drive provider.
type Connector struct{}

// NewConnector creates a Google Drive connector.
func NewConnector() *Connector {
	return &Connector{}
}

// Provider returns ProviderGoogleDrive.
func (c *Connector) Provider() domain.ProviderType {
	return domain.ProviderGoogleDrive
}

// driveConfig asserts the config type for this provider.
func driveConfig(cfg domain.OAuthConfig) (*domain.GoogleDriveOAuthConfig, error) {
	gcfg, ok := cfg.(*domain.GoogleDriveOAuthConfig)
	if !ok {
		return nil, domain.NewConfigurationError(
			"google drive connector requires a GoogleDriveOAuthConfig, got %T", cfg,
		)
	}
	return gcfg, nil
}

// BuildAuthURL constructs the Google authorization URL.
// access_type=offline plus prompt=consent forces Google to issue a refresh
// token on every authorization, not only the first.
func (c *Connector) BuildAuthURL(cfg domain.OAuthConfig, state string) (string, error) {
	gcfg, err := driveConfig(cfg)
	if err != nil {
		return "", err
	}

	params := url.Values{
		"client_id":     {gcfg.ClientID},
		"redirect_uri":  {gcfg.RedirectURI},
		"response_type": {"code"},
		"scope":         {strings.Join(gcfg.ScopeList(), " ")},
		"state":         {state},
		"access_type":   {"offline"},
		"prompt":        {"consent"},
	}

	return defaultAuthURL + "?" + params.Encode(), nil
}

// ExchangeCode exchanges an authorization code for tokens.
func (c *Connector) ExchangeCode(
	ctx context.Context, cfg domain.OAuthConfig, code string,
) (*domain.OAuthToken, error) {
	gcfg, err := driveConfig(cfg)
	if err != nil {
		return nil, err
	}
	return drivenoauth.ExchangeCodeForTokens(
		ctx, defaultTokenURL, gcfg.ClientID, gcfg.ClientSecret, code, gcfg.RedirectURI,
	)
}

// RefreshToken refreshes an expired access token.
// Google does not return the refresh token on refresh, so the existing one
// is carried forward.
func (c *Connector) RefreshToken(
	ctx context.Context, cfg domain.OAuthConfig, refreshToken string,
) (*domain.OAuthToken, error) {
	gcfg, err := driveConfig(cfg)
	if err != nil {
		return nil, err
	}
	token, err := drivenoauth.RefreshAccessToken(
		ctx, defaultTokenURL, gcfg.ClientID, gcfg.ClientSecret, refreshToken,
	)
	if err != nil {
		return nil, err
	}
	if token.RefreshToken == "" {
		token.RefreshToken = refreshToken
	}
	return token, nil
}

// GetUserInfo fetches the authenticated user's email address.
func (c *Connector) GetUserInfo(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userInfoURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("userinfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("userinfo request failed with status %d", resp.StatusCode)
	}

	var info struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("decode userinfo response: %w", err)
	}
	return info.Email, nil
}

// DefaultConfig returns Google's endpoints and default Drive scopes.
func (c *Connector) DefaultConfig() connectors.OAuthDefaults {
	return connectors.OAuthDefaults{
		AuthURL:     defaultAuthURL,
		TokenURL:    defaultTokenURL,
		UserInfoURL: userInfoURL,
		Scopes:      domain.DefaultGoogleDriveScopes,
	}
}
