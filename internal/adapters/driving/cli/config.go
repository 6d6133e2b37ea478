package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage stored credentials and settings",
	Long: `Get and set configuration values.

Keys use dot notation. Common keys:
  platform.organizationId   Vectorize organization ID
  platform.authorization    Vectorize API key
  platform.url              Platform base URL (optional)
  google-drive.clientId     Google OAuth client ID
  google-drive.clientSecret Google OAuth client secret
  google-drive.apiKey       Google Picker developer key
  dropbox.appKey            Dropbox app key
  dropbox.appSecret         Dropbox app secret
  notion.clientId           Notion integration client ID
  notion.clientSecret       Notion integration client secret`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return configStore.Set(args[0], args[1])
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		val, ok := configStore.Get(args[0])
		if !ok {
			return fmt.Errorf("key not set: %s", args[0])
		}
		// Secrets stay out of terminals unless explicitly requested.
		if isSensitiveKey(args[0]) && !configShowSecrets {
			cmd.Println("(set, hidden; use --show to print)")
			return nil
		}
		cmd.Println(val)
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return configStore.Delete(args[0])
	},
}

var configShowSecrets bool

func isSensitiveKey(key string) bool {
	return strings.HasSuffix(key, "Secret") || strings.HasSuffix(key, ".authorization")
}

func init() {
	configGetCmd.Flags().BoolVar(&configShowSecrets, "show", false, "Print secret values")

	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configUnsetCmd)
	rootCmd.AddCommand(configCmd)
}
