package domain

import "time"

// OAuthToken represents the credentials returned by a provider's token
// endpoint.
type OAuthToken struct {
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token"`
	// RefreshToken is used to obtain new access tokens. Empty for providers
	// that issue non-expiring tokens (Notion).
	RefreshToken string `json:"refresh_token,omitempty"`
	// TokenType is typically "Bearer".
	TokenType string `json:"token_type"`
	// ExpiresIn is the access token lifetime in seconds as reported by the
	// provider. Zero when the token does not expire.
	ExpiresIn int `json:"expires_in,omitempty"`
	// Expiry is the computed expiry time of the access token.
	Expiry time.Time `json:"expiry,omitempty"`
}

// IsExpired returns true if the access token has expired.
// Tokens without an expiry never expire.
func (t *OAuthToken) IsExpired() bool {
	if t.Expiry.IsZero() {
		return false
	}
	return time.Now().After(t.Expiry)
}
