package driving

import (
	"context"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
)

// ConnectService runs OAuth and selection flows end to end: it hands out
// authorize URLs, turns callback redirects into picker pages, receives
// completion envelopes and resolves waiting callers.
type ConnectService interface {
	// Start validates the config and registers a new OAuth attempt.
	// On validation failure no attempt is registered and no network call
	// is made.
	Start(ctx context.Context, cfg domain.OAuthConfig) (*domain.Attempt, error)

	// StartSelection registers a selection-only attempt: it refreshes the
	// access token from the stored credential and returns the picker page
	// directly, skipping provider consent.
	StartSelection(
		ctx context.Context,
		cfg domain.OAuthConfig,
		storedToken string,
		preSelected []domain.SelectedFile,
	) (*domain.Attempt, string, error)

	// StartManaged registers an attempt for a managed (hosted iframe) flow.
	// The hosted platform runs OAuth and picking; only the completion
	// envelope comes back through Deliver.
	StartManaged(ctx context.Context, provider domain.ProviderType, kind domain.EnvelopeKind) (*domain.Attempt, error)

	// HandleCallback turns the provider redirect into the HTTP response
	// body for the callback route. It always returns a complete HTML
	// document; failures render the error page, which still notifies the
	// host.
	HandleCallback(ctx context.Context, attemptID, code, errParam, errDesc string) string

	// Deliver dispatches a completion envelope to its pending attempt.
	// Envelopes with unknown or expired attempt IDs are rejected.
	Deliver(env domain.Envelope) error

	// Wait blocks until the attempt resolves, the context ends, or the
	// attempt TTL passes. Abandoned flows surface as a CANCELLED error.
	Wait(ctx context.Context, attempt *domain.Attempt) (*domain.Selection, error)
}
