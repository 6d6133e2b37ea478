package connect

import (
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
)

// Core types re-exported so hosts never import internal packages.
type (
	// Provider identifies a supported cloud-storage provider.
	Provider = domain.ProviderType
	// OAuthConfig is the provider-specific configuration for one flow.
	OAuthConfig = domain.OAuthConfig
	// GoogleDriveOAuthConfig holds Google OAuth app credentials.
	GoogleDriveOAuthConfig = domain.GoogleDriveOAuthConfig
	// DropboxOAuthConfig holds Dropbox app credentials.
	DropboxOAuthConfig = domain.DropboxOAuthConfig
	// NotionOAuthConfig holds Notion integration credentials.
	NotionOAuthConfig = domain.NotionOAuthConfig
	// OAuthToken is a provider token response.
	OAuthToken = domain.OAuthToken
	// SelectedFile is a single picked file or page.
	SelectedFile = domain.SelectedFile
	// Selection is the outcome of one picker session.
	Selection = domain.Selection
	// Attempt is one in-flight OAuth + selection flow.
	Attempt = domain.Attempt
	// Envelope is the typed completion message.
	Envelope = domain.Envelope
	// EnvelopeKind tags a completion message.
	EnvelopeKind = domain.EnvelopeKind
	// ConnectError is the SDK error type.
	ConnectError = domain.ConnectError
	// ErrorCode classifies a ConnectError.
	ErrorCode = domain.ErrorCode
	// PlatformConfig carries Vectorize backend credentials.
	PlatformConfig = domain.PlatformConfig
	// ConnectorConfig describes a connector to create.
	ConnectorConfig = domain.ConnectorConfig
	// ConnectorType identifies a connector variant.
	ConnectorType = domain.ConnectorType
	// UserAction selects the operation applied to a connector user.
	UserAction = domain.UserAction
	// OneTimeToken authorizes a single managed-flow session.
	OneTimeToken = domain.OneTimeToken
)

// Providers.
const (
	ProviderGoogleDrive = domain.ProviderGoogleDrive
	ProviderDropbox     = domain.ProviderDropbox
	ProviderNotion      = domain.ProviderNotion
)

// Envelope kinds.
const (
	KindConnectComplete  = domain.KindConnectComplete
	KindEditComplete     = domain.KindEditComplete
	KindConnectError     = domain.KindConnectError
	KindConnectCancelled = domain.KindConnectCancelled
)

// User actions.
const (
	UserActionAdd    = domain.UserActionAdd
	UserActionEdit   = domain.UserActionEdit
	UserActionRemove = domain.UserActionRemove
)

// Connector types.
const (
	ConnectorGoogleDriveVectorize  = domain.ConnectorGoogleDriveVectorize
	ConnectorGoogleDriveWhiteLabel = domain.ConnectorGoogleDriveWhiteLabel
	ConnectorDropboxVectorize      = domain.ConnectorDropboxVectorize
	ConnectorDropboxWhiteLabel     = domain.ConnectorDropboxWhiteLabel
	ConnectorNotionVectorize       = domain.ConnectorNotionVectorize
	ConnectorNotionWhiteLabel      = domain.ConnectorNotionWhiteLabel
)

// Error codes.
const (
	CodeConfiguration       = domain.CodeConfiguration
	CodeToken               = domain.CodeToken
	CodePicker              = domain.CodePicker
	CodeCallback            = domain.CodeCallback
	CodePopupBlocked        = domain.CodePopupBlocked
	CodePopupCreationFailed = domain.CodePopupCreationFailed
	CodeCancelled           = domain.CodeCancelled
	CodeUnknown             = domain.CodeUnknown
)

// Error predicates, usable on any error returned by the SDK.
var (
	IsConfigurationError = domain.IsConfigurationError
	IsTokenError         = domain.IsTokenError
	IsPickerError        = domain.IsPickerError
	IsCancelled          = domain.IsCancelled
)

// ParseProvider converts a string into a Provider.
func ParseProvider(s string) (Provider, error) {
	return domain.ParseProvider(s)
}

// MergeFiles combines batches of picked files into one list deduplicated
// by provider-native ID, preserving order of first appearance.
func MergeFiles(batches ...[]SelectedFile) []SelectedFile {
	return domain.MergeFiles(batches...)
}
