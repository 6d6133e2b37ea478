package cli

import (
	"time"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token <connector-id>",
	Short: "Issue a one-time token for a managed flow",
	Long: `Issue a short-lived token that authorizes a single managed-flow iframe
session, so the browser never sees the long-lived API key.`,
	Args: cobra.ExactArgs(1),
	RunE: runToken,
}

var tokenUser string

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "User ID the session belongs to (required)")
	_ = tokenCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	pcfg, err := platformConfig()
	if err != nil {
		return err
	}

	token, err := platformClient.GetOneTimeConnectorToken(cmd.Context(), pcfg, tokenUser, args[0])
	if err != nil {
		return err
	}

	cmd.Println(token.Token)
	if token.ExpiresAt > 0 {
		cmd.Printf("Expires: %s\n", time.Unix(token.ExpiresAt, 0).Format(time.RFC3339))
	}
	return nil
}
