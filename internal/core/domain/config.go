package domain

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate checks struct tags on the OAuth config types.
var validate = validator.New(validator.WithRequiredStructEnabled())

// OAuthConfig is the provider-specific configuration for one OAuth flow.
type OAuthConfig interface {
	// Provider returns the provider this configuration targets.
	Provider() ProviderType
	// Validate reports a ConfigurationError naming the first missing or
	// invalid field. It runs before any network call.
	Validate() error
	// CallbackURI returns the redirect URI registered with the provider.
	CallbackURI() string
	// ScopeList returns the OAuth scopes to request.
	ScopeList() []string
}

// Default scopes requested when the host application does not override them.
var (
	DefaultGoogleDriveScopes = []string{"https://www.googleapis.com/auth/drive.file"}
	DefaultDropboxScopes     = []string{
		"files.metadata.read",
		"files.content.read",
		"account_info.read",
	}
)

// GoogleDriveOAuthConfig holds the host application's Google OAuth app
// credentials. APIKey is the developer key required by the Google Picker.
type GoogleDriveOAuthConfig struct {
	ClientID     string   `json:"clientId" validate:"required"`
	ClientSecret string   `json:"clientSecret" validate:"required"`
	APIKey       string   `json:"apiKey" validate:"required"`
	RedirectURI  string   `json:"redirectUri" validate:"required,url"`
	Scopes       []string `json:"scopes,omitempty"`
}

// Provider returns ProviderGoogleDrive.
func (c *GoogleDriveOAuthConfig) Provider() ProviderType { return ProviderGoogleDrive }

// CallbackURI returns the registered redirect URI.
func (c *GoogleDriveOAuthConfig) CallbackURI() string { return c.RedirectURI }

// ScopeList returns the configured scopes or the Drive defaults.
func (c *GoogleDriveOAuthConfig) ScopeList() []string {
	if len(c.Scopes) > 0 {
		return c.Scopes
	}
	return DefaultGoogleDriveScopes
}

// Validate checks required fields.
func (c *GoogleDriveOAuthConfig) Validate() error {
	return checkConfig(c)
}

// DropboxOAuthConfig holds the host application's Dropbox app credentials.
type DropboxOAuthConfig struct {
	AppKey      string   `json:"appKey" validate:"required"`
	AppSecret   string   `json:"appSecret" validate:"required"`
	RedirectURI string   `json:"redirectUri" validate:"required,url"`
	Scopes      []string `json:"scopes,omitempty"`
}

// Provider returns ProviderDropbox.
func (c *DropboxOAuthConfig) Provider() ProviderType { return ProviderDropbox }

// CallbackURI returns the registered redirect URI.
func (c *DropboxOAuthConfig) CallbackURI() string { return c.RedirectURI }

// ScopeList returns the configured scopes or the Dropbox defaults.
func (c *DropboxOAuthConfig) ScopeList() []string {
	if len(c.Scopes) > 0 {
		return c.Scopes
	}
	return DefaultDropboxScopes
}

// Validate checks required fields.
func (c *DropboxOAuthConfig) Validate() error {
	return checkConfig(c)
}

// NotionOAuthConfig holds the host application's Notion integration
// credentials. Notion does not use scopes; access is granted per workspace.
type NotionOAuthConfig struct {
	ClientID     string `json:"clientId" validate:"required"`
	ClientSecret string `json:"clientSecret" validate:"required"`
	RedirectURI  string `json:"redirectUri" validate:"required,url"`
}

// Provider returns ProviderNotion.
func (c *NotionOAuthConfig) Provider() ProviderType { return ProviderNotion }

// CallbackURI returns the registered redirect URI.
func (c *NotionOAuthConfig) CallbackURI() string { return c.RedirectURI }

// ScopeList returns nil; Notion grants access per workspace, not per scope.
func (c *NotionOAuthConfig) ScopeList() []string { return nil }

// Validate checks required fields.
func (c *NotionOAuthConfig) Validate() error {
	return checkConfig(c)
}

// checkConfig runs struct validation and converts the first violation into a
// ConfigurationError naming the offending field.
func checkConfig(cfg any) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := lowerFirst(fe.Field())
		if fe.Tag() == "required" {
			return NewConfigurationError("missing required field: %s", field).
				WithDetail("field", field)
		}
		return NewConfigurationError("invalid value for field %s (%s)", field, fe.Tag()).
			WithDetail("field", field)
	}
	return NewConfigurationError("invalid configuration: %v", err)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
