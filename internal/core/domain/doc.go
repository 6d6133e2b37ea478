// Package domain contains the core types of the Vectorize connect SDK:
// providers, OAuth tokens, file selections, connector definitions, the
// cross-context completion envelope, and the error taxonomy shared by all
// layers.
package domain
