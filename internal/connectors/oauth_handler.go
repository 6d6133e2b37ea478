package connectors

import (
	"context"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
)

// OAuthHandler provides OAuth operations for a provider.
// Each handler encapsulates the provider's quirks (e.g. Google's
// access_type=offline, Notion's Basic-auth token endpoint).
type OAuthHandler interface {
	// Provider returns the provider this handler serves.
	Provider() domain.ProviderType

	// BuildAuthURL constructs the authorization URL with provider-specific
	// parameters. The state parameter carries the attempt ID.
	BuildAuthURL(cfg domain.OAuthConfig, state string) (string, error)

	// ExchangeCode exchanges an authorization code for tokens.
	ExchangeCode(ctx context.Context, cfg domain.OAuthConfig, code string) (*domain.OAuthToken, error)

	// RefreshToken obtains a fresh access token from a refresh token.
	// Providers without refresh tokens (Notion) return a TokenError.
	RefreshToken(ctx context.Context, cfg domain.OAuthConfig, refreshToken string) (*domain.OAuthToken, error)

	// GetUserInfo fetches the account identifier (email or workspace name)
	// for the authenticated user.
	GetUserInfo(ctx context.Context, accessToken string) (string, error)

	// DefaultConfig returns the provider's endpoints and default scopes.
	DefaultConfig() OAuthDefaults
}

// PickerRenderer builds the self-contained picker page served to the popup
// after token exchange.
type PickerRenderer interface {
	// RenderPicker returns a complete HTML document that collects a file
	// selection and posts the completion envelope back to the host.
	RenderPicker(ctx context.Context, cfg domain.OAuthConfig, token *domain.OAuthToken, params PickerParams) (string, error)
}

// SelectionVerifier checks that picked items are still reachable with the
// held token. Verification failures are advisory; callers log and proceed.
type SelectionVerifier interface {
	// VerifySelection returns the IDs that could not be verified.
	VerifySelection(ctx context.Context, token *domain.OAuthToken, files []domain.SelectedFile) ([]string, error)
}

// Connector bundles every per-provider capability.
type Connector interface {
	OAuthHandler
	PickerRenderer
}

// OAuthDefaults describes a provider's endpoints and default scopes.
type OAuthDefaults struct {
	// AuthURL is the authorization endpoint.
	AuthURL string
	// TokenURL is the token exchange endpoint.
	TokenURL string
	// UserInfoURL is the endpoint used to identify the account, if any.
	UserInfoURL string
	// Scopes are the default scopes to request.
	Scopes []string
}

// PickerParams carries per-attempt values into the picker page.
type PickerParams struct {
	// AttemptID correlates the completion envelope to the pending attempt.
	AttemptID string
	// CompleteURL is the host endpoint receiving the completion envelope.
	CompleteURL string
	// Kind is the completion kind to emit (connect vs edit).
	Kind domain.EnvelopeKind
	// PreSelected items are merged into the running selection on load.
	PreSelected []domain.SelectedFile
}
