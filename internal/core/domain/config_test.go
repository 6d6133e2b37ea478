package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validGoogleConfig() *GoogleDriveOAuthConfig {
	return &GoogleDriveOAuthConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		APIKey:       "api-key",
		RedirectURI:  "https://app.example.com/api/vectorize/callback/google-drive",
	}
}

func TestGoogleDriveOAuthConfig_Valid(t *testing.T) {
	require.NoError(t, validGoogleConfig().Validate())
}

func TestGoogleDriveOAuthConfig_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GoogleDriveOAuthConfig)
	}{
		{"client id", func(c *GoogleDriveOAuthConfig) { c.ClientID = "" }},
		{"client secret", func(c *GoogleDriveOAuthConfig) { c.ClientSecret = "" }},
		{"api key", func(c *GoogleDriveOAuthConfig) { c.APIKey = "" }},
		{"redirect uri", func(c *GoogleDriveOAuthConfig) { c.RedirectURI = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validGoogleConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.True(t, IsConfigurationError(err))
		})
	}
}

func TestGoogleDriveOAuthConfig_InvalidRedirectURI(t *testing.T) {
	cfg := validGoogleConfig()
	cfg.RedirectURI = "not a url"

	err := cfg.Validate()

	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}

func TestGoogleDriveOAuthConfig_DefaultScopes(t *testing.T) {
	cfg := validGoogleConfig()
	assert.Equal(t, DefaultGoogleDriveScopes, cfg.ScopeList())

	cfg.Scopes = []string{"https://www.googleapis.com/auth/drive.readonly"}
	assert.Equal(t, cfg.Scopes, cfg.ScopeList())
}

func TestDropboxOAuthConfig_Validate(t *testing.T) {
	cfg := &DropboxOAuthConfig{
		AppKey:      "app-key",
		AppSecret:   "app-secret",
		RedirectURI: "https://app.example.com/callback",
	}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultDropboxScopes, cfg.ScopeList())

	cfg.AppSecret = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}

func TestNotionOAuthConfig_Validate(t *testing.T) {
	cfg := &NotionOAuthConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "https://app.example.com/callback",
	}
	require.NoError(t, cfg.Validate())
	assert.Nil(t, cfg.ScopeList())

	cfg.ClientID = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}

func TestProviderType(t *testing.T) {
	assert.True(t, ProviderGoogleDrive.Valid())
	assert.True(t, ProviderDropbox.Valid())
	assert.True(t, ProviderNotion.Valid())
	assert.False(t, ProviderType("box").Valid())

	p, err := ParseProvider("dropbox")
	require.NoError(t, err)
	assert.Equal(t, ProviderDropbox, p)

	_, err = ParseProvider("box")
	assert.Error(t, err)
}
