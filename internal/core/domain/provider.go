package domain

import "fmt"

// ProviderType identifies a supported cloud-storage provider.
type ProviderType string

const (
	// ProviderGoogleDrive is the Google Drive provider.
	ProviderGoogleDrive ProviderType = "google-drive"
	// ProviderDropbox is the Dropbox provider.
	ProviderDropbox ProviderType = "dropbox"
	// ProviderNotion is the Notion provider.
	ProviderNotion ProviderType = "notion"
)

// Providers lists all supported provider types.
var Providers = []ProviderType{ProviderGoogleDrive, ProviderDropbox, ProviderNotion}

// String returns the provider identifier.
func (p ProviderType) String() string {
	return string(p)
}

// Valid returns true if the provider type is known.
func (p ProviderType) Valid() bool {
	switch p {
	case ProviderGoogleDrive, ProviderDropbox, ProviderNotion:
		return true
	}
	return false
}

// ParseProvider converts a string into a ProviderType.
func ParseProvider(s string) (ProviderType, error) {
	p := ProviderType(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown provider type: %q", s)
	}
	return p, nil
}
