package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
)

var connectorCmd = &cobra.Command{
	Use:   "connector",
	Short: "Manage Vectorize source connectors",
}

var connectorCreateCmd = &cobra.Command{
	Use:   "create <provider>",
	Short: "Create a source connector on the platform",
	Long: `Create a source connector for a provider.

By default a platform-managed connector is created (the Vectorize platform
owns the OAuth app). With --white-label, the OAuth app credentials from the
config store are sent so the connector uses your own app.

Examples:
  vectorize-connect connector create google-drive --name "Team Drive"
  vectorize-connect connector create dropbox --name "Shared Files" --white-label`,
	Args: cobra.ExactArgs(1),
	RunE: runConnectorCreate,
}

var (
	connectorName       string
	connectorWhiteLabel bool
)

func init() {
	connectorCreateCmd.Flags().StringVar(
		&connectorName, "name", "", "Display name for the connector (required)")
	connectorCreateCmd.Flags().BoolVar(
		&connectorWhiteLabel, "white-label", false, "Use the OAuth app credentials from the config store")
	_ = connectorCreateCmd.MarkFlagRequired("name")

	connectorCmd.AddCommand(connectorCreateCmd)
	rootCmd.AddCommand(connectorCmd)
}

func runConnectorCreate(cmd *cobra.Command, args []string) error {
	provider, err := domain.ParseProvider(args[0])
	if err != nil {
		return err
	}
	pcfg, err := platformConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var id string
	switch provider {
	case domain.ProviderGoogleDrive:
		if connectorWhiteLabel {
			id, err = platformClient.CreateWhiteLabelGDriveConnector(ctx, pcfg, connectorName,
				configStore.GetString("google-drive.clientId"),
				configStore.GetString("google-drive.clientSecret"))
		} else {
			id, err = platformClient.CreateVectorizeGDriveConnector(ctx, pcfg, connectorName)
		}
	case domain.ProviderDropbox:
		if connectorWhiteLabel {
			id, err = platformClient.CreateWhiteLabelDropboxConnector(ctx, pcfg, connectorName,
				configStore.GetString("dropbox.appKey"),
				configStore.GetString("dropbox.appSecret"))
		} else {
			id, err = platformClient.CreateVectorizeDropboxConnector(ctx, pcfg, connectorName)
		}
	case domain.ProviderNotion:
		if connectorWhiteLabel {
			id, err = platformClient.CreateWhiteLabelNotionConnector(ctx, pcfg, connectorName,
				configStore.GetString("notion.clientId"),
				configStore.GetString("notion.clientSecret"))
		} else {
			id, err = platformClient.CreateVectorizeNotionConnector(ctx, pcfg, connectorName)
		}
	default:
		return fmt.Errorf("unknown provider: %q", provider)
	}
	if err != nil {
		return err
	}

	cmd.Printf("Connector created: %s\n", id)
	return nil
}
