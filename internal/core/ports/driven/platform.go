package driven

import (
	"context"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
)

// PlatformAPI is the Vectorize backend surface the SDK drives: connector
// creation, per-connector user management and one-time token issuance.
// Credentials travel with each call; implementations hold no tenant state.
type PlatformAPI interface {
	// CreateSourceConnector registers a connector and returns its ID.
	CreateSourceConnector(ctx context.Context, cfg domain.PlatformConfig, connector domain.ConnectorConfig) (string, error)

	// ManageUser adds, edits or removes a user's selection on a connector.
	// Add and edit require a non-empty selection carrying a token; remove
	// sends no selection or token fields regardless of what is supplied.
	ManageUser(
		ctx context.Context,
		cfg domain.PlatformConfig,
		connectorID, userID string,
		action domain.UserAction,
		selection *domain.Selection,
	) error

	// GetOneTimeConnectorToken issues a short-lived token for a managed-flow
	// iframe session.
	GetOneTimeConnectorToken(ctx context.Context, cfg domain.PlatformConfig, userID, connectorID string) (*domain.OneTimeToken, error)
}
