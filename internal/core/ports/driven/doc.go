// Package driven defines the interfaces the core depends on: storage for
// host-side configuration and refresh tokens. Implementations live under
// internal/adapters/driven.
package driven
