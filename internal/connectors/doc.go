// Package connectors defines the per-provider capability interfaces of the
// connect SDK (OAuth handling and picker rendering) and the shared picker
// page scaffolding. Provider implementations live in the google, dropbox and
// notion subpackages.
package connectors
