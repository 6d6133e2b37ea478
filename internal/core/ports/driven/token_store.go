package driven

import "github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"

// TokenStore persists the long-lived credential a host keeps per provider
// and user: the refresh token, or for Notion the non-expiring access token.
type TokenStore interface {
	// SaveToken stores the credential for a provider/user pair.
	SaveToken(provider domain.ProviderType, userID, token string) error

	// GetToken retrieves the stored credential.
	// Returns domain.ErrTokenNotFound when nothing is stored.
	GetToken(provider domain.ProviderType, userID string) (string, error)

	// DeleteToken removes the stored credential.
	DeleteToken(provider domain.ProviderType, userID string) error
}
