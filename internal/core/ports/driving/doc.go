// Package driving defines the interfaces through which adapters (HTTP
// server, CLI, the public facade) drive the core flow service.
package driving
