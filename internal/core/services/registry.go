package services

import (
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/connectors"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/connectors/dropbox"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/connectors/google"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/connectors/notion"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
)

// ConnectorRegistry maps providers to their connector implementations.
type ConnectorRegistry struct {
	connectors map[domain.ProviderType]connectors.Connector
}

// NewConnectorRegistry creates a registry with all built-in providers.
func NewConnectorRegistry() *ConnectorRegistry {
	r := &ConnectorRegistry{
		connectors: make(map[domain.ProviderType]connectors.Connector),
	}
	r.Register(google.NewConnector())
	r.Register(dropbox.NewConnector())
	r.Register(notion.NewConnector())
	return r
}

// Register adds or replaces the connector for its provider.
func (r *ConnectorRegistry) Register(c connectors.Connector) {
	r.connectors[c.Provider()] = c
}

// Get returns the connector for a provider.
func (r *ConnectorRegistry) Get(p domain.ProviderType) (connectors.Connector, error) {
	c, ok := r.connectors[p]
	if !ok {
		return nil, domain.NewConfigurationError("no connector registered for provider %q", p)
	}
	return c, nil
}

// Verifier returns the provider's selection verifier, when it has one.
func (r *ConnectorRegistry) Verifier(p domain.ProviderType) (connectors.SelectionVerifier, bool) {
	c, ok := r.connectors[p]
	if !ok {
		return nil, false
	}
	v, ok := c.(connectors.SelectionVerifier)
	return v, ok
}

// Providers lists the registered provider types.
func (r *ConnectorRegistry) Providers() []domain.ProviderType {
	out := make([]domain.ProviderType, 0, len(r.connectors))
	for p := range r.connectors {
		out = append(out, p)
	}
	return out
}
