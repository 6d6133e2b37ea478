// Package cli implements the vectorize-connect command line interface: a
// reference host application driving the connect flows end to end.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/adapters/driven/config/file"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/adapters/driven/platform"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/adapters/driven/secrets"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/ports/driven"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/services"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/logger"
)

var version = "dev"

// Services wired for all commands in PersistentPreRunE.
var (
	configStore    driven.ConfigStore
	tokenStore     driven.TokenStore
	platformClient *platform.Client
	registry       *services.ConnectorRegistry
)

// Persistent flags.
var (
	flagVerbose   bool
	flagConfigDir string
)

var rootCmd = &cobra.Command{
	Use:   "vectorize-connect",
	Short: "Authorize cloud-storage access and register selections with Vectorize",
	Long: `vectorize-connect drives OAuth and file-selection flows for Google Drive,
Dropbox and Notion, and registers the resulting selections with the
Vectorize platform for ingestion.

Provider OAuth app credentials and platform credentials are kept in the
config store; see 'vectorize-connect config'. Refresh tokens land in the
system keyring.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)

		var err error
		configStore, err = file.NewConfigStore(flagConfigDir)
		if err != nil {
			return fmt.Errorf("opening config store: %w", err)
		}
		tokenStore, err = secrets.NewTokenStore(flagConfigDir)
		if err != nil {
			return fmt.Errorf("opening token store: %w", err)
		}
		platformClient = platform.NewClient(platform.ClientConfig{
			BaseURL: configStore.GetString("platform.url"),
		})
		registry = services.NewConnectorRegistry()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(
		&flagVerbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(
		&flagConfigDir, "config-dir", "", "Config directory (default ~/.vectorize-connect)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// platformConfig assembles the platform credentials from the config store.
func platformConfig() (domain.PlatformConfig, error) {
	cfg := domain.PlatformConfig{
		OrganizationID: configStore.GetString("platform.organizationId"),
		Authorization:  configStore.GetString("platform.authorization"),
	}
	if err := cfg.Validate(); err != nil {
		return domain.PlatformConfig{}, fmt.Errorf(
			"platform credentials missing; set them with "+
				"'vectorize-connect config set platform.organizationId <org>' and "+
				"'vectorize-connect config set platform.authorization <api-key>': %w", err)
	}
	return cfg, nil
}

// oauthConfig assembles a provider OAuth config from the config store.
func oauthConfig(provider domain.ProviderType, redirectURI string) (domain.OAuthConfig, error) {
	key := provider.String()
	var cfg domain.OAuthConfig
	switch provider {
	case domain.ProviderGoogleDrive:
		cfg = &domain.GoogleDriveOAuthConfig{
			ClientID:     configStore.GetString(key + ".clientId"),
			ClientSecret: configStore.GetString(key + ".clientSecret"),
			APIKey:       configStore.GetString(key + ".apiKey"),
			RedirectURI:  redirectURI,
		}
	case domain.ProviderDropbox:
		cfg = &domain.DropboxOAuthConfig{
			AppKey:      configStore.GetString(key + ".appKey"),
			AppSecret:   configStore.GetString(key + ".appSecret"),
			RedirectURI: redirectURI,
		}
	case domain.ProviderNotion:
		cfg = &domain.NotionOAuthConfig{
			ClientID:     configStore.GetString(key + ".clientId"),
			ClientSecret: configStore.GetString(key + ".clientSecret"),
			RedirectURI:  redirectURI,
		}
	default:
		return nil, fmt.Errorf("unknown provider: %q", provider)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(
			"incomplete %s credentials; set them with 'vectorize-connect config set %s.<field> <value>': %w",
			provider, key, err)
	}
	return cfg, nil
}

// parseTimeout converts the user-facing timeout flag, capping at the
// attempt TTL after which the flow resolves as cancelled anyway.
func parseTimeout(minutes int) time.Duration {
	d := time.Duration(minutes) * time.Minute
	if d <= 0 || d > domain.AttemptTTL {
		return domain.AttemptTTL
	}
	return d
}
