package driven

// ConfigStore persists host-side settings (platform credentials, provider
// OAuth app credentials) between CLI runs.
type ConfigStore interface {
	// Get retrieves a value by key.
	Get(key string) (any, bool)
	// GetString retrieves a string value, empty when absent.
	GetString(key string) string
	// Set stores a value and persists it.
	Set(key string, value any) error
	// Delete removes a key and persists the change.
	Delete(key string) error
}
