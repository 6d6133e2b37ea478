package domain

import "net/http"

// ConnectorType identifies a connector variant on the Vectorize platform.
// Each provider has a Vectorize-managed variant (the platform owns the OAuth
// app) and a white-label variant (the host application brings its own).
type ConnectorType string

const (
	// ConnectorGoogleDriveVectorize is the platform-managed Google Drive connector.
	ConnectorGoogleDriveVectorize ConnectorType = "GOOGLE_DRIVE_OAUTH_MULTI"
	// ConnectorGoogleDriveWhiteLabel is the white-label Google Drive connector.
	ConnectorGoogleDriveWhiteLabel ConnectorType = "GOOGLE_DRIVE_OAUTH_MULTI_CUSTOM"
	// ConnectorDropboxVectorize is the platform-managed Dropbox connector.
	ConnectorDropboxVectorize ConnectorType = "DROPBOX_OAUTH_MULTI"
	// ConnectorDropboxWhiteLabel is the white-label Dropbox connector.
	ConnectorDropboxWhiteLabel ConnectorType = "DROPBOX_OAUTH_MULTI_CUSTOM"
	// ConnectorNotionVectorize is the platform-managed Notion connector.
	ConnectorNotionVectorize ConnectorType = "NOTION_OAUTH_MULTI"
	// ConnectorNotionWhiteLabel is the white-label Notion connector.
	ConnectorNotionWhiteLabel ConnectorType = "NOTION_OAUTH_MULTI_CUSTOM"
)

// IsWhiteLabel returns true for connector types that carry host-owned OAuth
// app credentials.
func (t ConnectorType) IsWhiteLabel() bool {
	switch t {
	case ConnectorGoogleDriveWhiteLabel, ConnectorDropboxWhiteLabel, ConnectorNotionWhiteLabel:
		return true
	}
	return false
}

// ConnectorConfig describes a connector to create on the platform.
// For white-label types, Config carries the OAuth app credentials.
type ConnectorConfig struct {
	Name   string            `json:"name"`
	Type   ConnectorType     `json:"type"`
	Config map[string]string `json:"config,omitempty"`
}

// PlatformConfig carries the credentials for Vectorize backend calls.
// Supplied per call, never stored globally.
type PlatformConfig struct {
	// OrganizationID is the Vectorize organization.
	OrganizationID string `json:"organizationId"`
	// Authorization is the API key sent as a bearer token.
	Authorization string `json:"authorization"`
}

// Validate checks the platform credentials are present.
func (c *PlatformConfig) Validate() error {
	if c.OrganizationID == "" {
		return NewConfigurationError("missing required field: organizationId").
			WithDetail("field", "organizationId")
	}
	if c.Authorization == "" {
		return NewConfigurationError("missing required field: authorization").
			WithDetail("field", "authorization")
	}
	return nil
}

// OneTimeToken is a short-lived credential authorizing a single managed-flow
// iframe session without exposing the long-lived API key to the browser.
type OneTimeToken struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// UserAction selects the operation applied to a connector user.
type UserAction string

const (
	// UserActionAdd registers a new user and selection on a connector.
	UserActionAdd UserAction = "add"
	// UserActionEdit replaces an existing user's selection.
	UserActionEdit UserAction = "edit"
	// UserActionRemove deletes a user from a connector.
	UserActionRemove UserAction = "remove"
)

// Verb maps the action to its HTTP method.
func (a UserAction) Verb() (string, error) {
	switch a {
	case UserActionAdd:
		return http.MethodPost, nil
	case UserActionEdit:
		return http.MethodPatch, nil
	case UserActionRemove:
		return http.MethodDelete, nil
	}
	return "", NewConfigurationError("unknown user action: %q", string(a))
}

// RequiresSelection returns true for actions that must carry a non-empty
// selection and a token. Remove must omit both.
func (a UserAction) RequiresSelection() bool {
	return a == UserActionAdd || a == UserActionEdit
}
