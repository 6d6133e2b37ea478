package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/adapters/driving/httpserver"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage connector users and their selections",
	Long: `Add, edit and remove a user's file selection on a platform connector.

'user add' runs a full OAuth + selection flow. 'user edit' reuses the stored
credential and goes straight to the picker with the previous flow's token.
'user remove' deletes the user from the connector and drops the stored
credential; it never sends selection or token data.`,
}

var userAddCmd = &cobra.Command{
	Use:   "add <provider> <connector-id>",
	Short: "Run a selection flow and register the user on a connector",
	Args:  cobra.ExactArgs(2),
	RunE:  runUserAdd,
}

var userEditCmd = &cobra.Command{
	Use:   "edit <provider> <connector-id>",
	Short: "Edit the user's selection without re-consenting",
	Args:  cobra.ExactArgs(2),
	RunE:  runUserEdit,
}

var userRemoveCmd = &cobra.Command{
	Use:   "remove <provider> <connector-id>",
	Short: "Remove the user from a connector",
	Args:  cobra.ExactArgs(2),
	RunE:  runUserRemove,
}

var (
	userID         string
	userTimeoutMin int
)

func init() {
	for _, c := range []*cobra.Command{userAddCmd, userEditCmd, userRemoveCmd} {
		c.Flags().StringVar(&userID, "user", "", "User ID on the connector (required)")
		_ = c.MarkFlagRequired("user")
	}
	userAddCmd.Flags().IntVar(&userTimeoutMin, "timeout", 0, "Minutes to wait for the selection")
	userEditCmd.Flags().IntVar(&userTimeoutMin, "timeout", 0, "Minutes to wait for the selection")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userEditCmd)
	userCmd.AddCommand(userRemoveCmd)
	rootCmd.AddCommand(userCmd)
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	provider, err := domain.ParseProvider(args[0])
	if err != nil {
		return err
	}

	selection, err := runConnectFlow(cmd, provider, userID)
	if err != nil {
		return err
	}
	return registerSelection(cmd, args[1], userID, domain.UserActionAdd, selection)
}

func runUserEdit(cmd *cobra.Command, args []string) error {
	provider, err := domain.ParseProvider(args[0])
	if err != nil {
		return err
	}

	storedToken, err := tokenStore.GetToken(provider, userID)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return domain.NewTokenError(
				"no stored credential for this user; run 'vectorize-connect connect' first", err)
		}
		return err
	}

	server, flow, err := startLocalServer()
	if err != nil {
		return err
	}
	defer func() { _ = server.Stop() }()

	cfg, err := oauthConfig(provider, server.CallbackURL(provider))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), parseTimeout(userTimeoutMin))
	defer cancel()

	attempt, page, err := flow.StartSelection(ctx, cfg, storedToken, nil)
	if err != nil {
		return err
	}

	pickerURL := server.ServePicker(attempt.ID, page)
	cmd.Println("Opening the browser to edit the selection...")
	if err := httpserver.OpenBrowser(pickerURL); err != nil {
		cmd.Println("Could not open a browser. Visit this URL to continue:")
		cmd.Println(" ", pickerURL)
	}

	selection, err := flow.Wait(ctx, attempt)
	if err != nil {
		return err
	}
	if err := storeSelectionToken(provider, userID, selection); err != nil {
		return err
	}
	return registerSelection(cmd, args[1], userID, domain.UserActionEdit, selection)
}

func runUserRemove(cmd *cobra.Command, args []string) error {
	provider, err := domain.ParseProvider(args[0])
	if err != nil {
		return err
	}

	pcfg, err := platformConfig()
	if err != nil {
		return err
	}
	if err := platformClient.ManageUser(
		cmd.Context(), pcfg, args[1], userID, domain.UserActionRemove, nil); err != nil {
		return err
	}
	if err := tokenStore.DeleteToken(provider, userID); err != nil {
		return err
	}
	cmd.Printf("User %s removed from connector %s\n", userID, args[1])
	return nil
}
