// Package google implements the Google Drive connector: OAuth handling
// against Google's endpoints, the Google Picker page, and Drive-backed
// selection verification.
package google
