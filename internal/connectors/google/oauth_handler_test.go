package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
)

func testConfig() *domain.GoogleDriveOAuthConfig {
	return &domain.GoogleDriveOAuthConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		APIKey:       "api-key",
		RedirectURI:  "https://app.example.com/callback",
	}
}

func TestBuildAuthURL(t *testing.T) {
	c := NewConnector()

	authURL, err := c.BuildAuthURL(testConfig(), "attempt-123")
	require.NoError(t, err)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	q := parsed.Query()

	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "https://app.example.com/callback", q.Get("redirect_uri"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "attempt-123", q.Get("state"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "https://www.googleapis.com/auth/drive.file", q.Get("scope"))
}

func TestBuildAuthURL_ScopesSpaceJoined(t *testing.T) {
	cfg := testConfig()
	cfg.Scopes = []string{"scope-a", "scope-b"}

	authURL, err := NewConnector().BuildAuthURL(cfg, "s")
	require.NoError(t, err)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.Equal(t, "scope-a scope-b", parsed.Query().Get("scope"))
}

func TestBuildAuthURL_WrongConfigType(t *testing.T) {
	_, err := NewConnector().BuildAuthURL(&domain.DropboxOAuthConfig{}, "s")

	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))
}

func TestRefreshToken_CarriesRefreshTokenForward(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		// Google omits refresh_token on refresh responses.
		_, _ = w.Write([]byte(`{"access_token":"new-at","token_type":"Bearer","expires_in":3599}`))
	}))
	defer srv.Close()

	orig := defaultTokenURL
	defaultTokenURL = srv.URL
	defer func() { defaultTokenURL = orig }()

	token, err := NewConnector().RefreshToken(context.Background(), testConfig(), "the-rt")

	require.NoError(t, err)
	assert.Equal(t, "new-at", token.AccessToken)
	assert.Equal(t, "the-rt", token.RefreshToken)
}

func TestGetUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer the-at", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"email":"user@example.com","verified_email":true}`))
	}))
	defer srv.Close()

	orig := userInfoURL
	userInfoURL = srv.URL
	defer func() { userInfoURL = orig }()

	email, err := NewConnector().GetUserInfo(context.Background(), "the-at")

	require.NoError(t, err)
	assert.Equal(t, "user@example.com", email)
}

func TestDefaultConfig(t *testing.T) {
	defaults := NewConnector().DefaultConfig()

	assert.Contains(t, defaults.AuthURL, "accounts.google.com")
	assert.Contains(t, defaults.TokenURL, "googleapis.com")
	assert.Equal(t, domain.DefaultGoogleDriveScopes, defaults.Scopes)
}
