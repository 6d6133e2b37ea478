// Package dropbox implements the Dropbox connector: OAuth handling against
// Dropbox's endpoints, the Chooser picker page, and metadata-backed
// selection verification.
package dropbox
