package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/adapters/driving/httpserver"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/services"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/logger"
)

var connectCmd = &cobra.Command{
	Use:   "connect <provider>",
	Short: "Run an OAuth + file selection flow for a provider",
	Long: `Run a white-label OAuth flow: opens the provider's consent page in the
browser, serves the file picker after consent, and waits for the selection.

The refresh token (or Notion access token) is stored in the keyring under
the --user ID. With --connector-id, the selection is also registered with
the Vectorize platform as a new connector user.

Examples:
  vectorize-connect connect google-drive --user alice
  vectorize-connect connect notion --user alice --connector-id conn-123`,
	Args: cobra.ExactArgs(1),
	RunE: runConnect,
}

var (
	connectUser        string
	connectConnectorID string
	connectTimeoutMin  int
)

func init() {
	connectCmd.Flags().StringVar(
		&connectUser, "user", "", "User ID the credential and selection belong to (required)")
	connectCmd.Flags().StringVar(
		&connectConnectorID, "connector-id", "", "Register the selection with this platform connector")
	connectCmd.Flags().IntVar(
		&connectTimeoutMin, "timeout", 0, "Minutes to wait for the selection (default: attempt TTL)")
	_ = connectCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(connectCmd)
}

func runConnect(cmd *cobra.Command, args []string) error {
	provider, err := domain.ParseProvider(args[0])
	if err != nil {
		return err
	}

	selection, err := runConnectFlow(cmd, provider, connectUser)
	if err != nil {
		return err
	}

	if connectConnectorID != "" {
		if err := registerSelection(cmd, connectConnectorID, connectUser, domain.UserActionAdd, selection); err != nil {
			return err
		}
	}
	return nil
}

// runConnectFlow drives one white-label OAuth + selection flow and stores
// the resulting credential. Shared by 'connect' and 'user add'.
func runConnectFlow(cmd *cobra.Command, provider domain.ProviderType, userID string) (*domain.Selection, error) {
	server, flow, err := startLocalServer()
	if err != nil {
		return nil, err
	}
	defer func() { _ = server.Stop() }()

	cfg, err := oauthConfig(provider, server.CallbackURL(provider))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), parseTimeout(connectTimeoutMin))
	defer cancel()

	attempt, err := flow.Start(ctx, cfg)
	if err != nil {
		return nil, err
	}

	cmd.Println("Opening the browser for authorization...")
	if err := httpserver.OpenBrowser(attempt.AuthURL); err != nil {
		cmd.Println("Could not open a browser. Visit this URL to continue:")
		cmd.Println(" ", attempt.AuthURL)
	}

	selection, err := flow.Wait(ctx, attempt)
	if err != nil {
		return nil, err
	}

	if err := storeSelectionToken(provider, userID, selection); err != nil {
		return nil, err
	}

	cmd.Printf("Selected %d item(s) from %s:\n", len(selection.Files), provider)
	for _, f := range selection.Files {
		cmd.Printf("  %s  %s\n", f.ID, f.Name)
	}
	return selection, nil
}

// startLocalServer binds the callback server on a free port and wires a
// flow service to it.
func startLocalServer() (*httpserver.Server, *services.Flow, error) {
	port, err := httpserver.FindAvailablePort(
		httpserver.DefaultCallbackPortStart, httpserver.DefaultCallbackPortEnd)
	if err != nil {
		return nil, nil, err
	}

	completeURL := fmt.Sprintf("http://localhost:%d/api/vectorize/complete", port)
	flow := services.NewFlow(registry, services.NewAttemptStore(), completeURL)
	server := httpserver.NewServer(httpserver.Config{
		Port:        port,
		PlatformURL: configStore.GetString("platform.url"),
	}, flow)
	if err := server.Start(); err != nil {
		return nil, nil, err
	}
	return server, flow, nil
}

// storeSelectionToken persists the credential carried by the selection.
func storeSelectionToken(provider domain.ProviderType, userID string, selection *domain.Selection) error {
	token := selection.RefreshToken
	if token == "" {
		token = selection.AccessToken
	}
	if token == "" {
		return domain.NewTokenError("selection carried no credential to store", nil)
	}
	return tokenStore.SaveToken(provider, userID, token)
}

// verifySelection checks the picked items are still reachable with the held
// credential. Verification never blocks registration; failures are reported
// as warnings.
func verifySelection(cmd *cobra.Command, selection *domain.Selection) {
	if selection.IsEmpty() {
		return
	}
	verifier, ok := registry.Verifier(selection.Provider)
	if !ok {
		return
	}
	token, err := verificationToken(cmd.Context(), selection)
	if err != nil {
		logger.Warn().Err(err).Str("provider", string(selection.Provider)).
			Msg("selection verification skipped")
		return
	}
	missing, err := verifier.VerifySelection(cmd.Context(), token, selection.Files)
	if err != nil {
		logger.Warn().Err(err).Str("provider", string(selection.Provider)).
			Msg("selection verification skipped")
		return
	}
	for _, id := range missing {
		cmd.Printf("Warning: selected item %s could not be verified\n", id)
	}
}

// verificationToken turns the credential carried by a selection into an
// access token, refreshing when the picker only returned a refresh token
// (Google Drive, Dropbox). The refresh grant does not use the redirect URI.
func verificationToken(ctx context.Context, selection *domain.Selection) (*domain.OAuthToken, error) {
	if selection.AccessToken != "" {
		return &domain.OAuthToken{AccessToken: selection.AccessToken, TokenType: "bearer"}, nil
	}
	if selection.RefreshToken == "" {
		return nil, domain.NewTokenError("selection carried no credential", nil)
	}
	cfg, err := oauthConfig(selection.Provider, "http://localhost")
	if err != nil {
		return nil, err
	}
	connector, err := registry.Get(selection.Provider)
	if err != nil {
		return nil, err
	}
	return connector.RefreshToken(ctx, cfg, selection.RefreshToken)
}

// registerSelection pushes a selection to the platform as a user action.
func registerSelection(
	cmd *cobra.Command,
	connectorID, userID string,
	action domain.UserAction,
	selection *domain.Selection,
) error {
	pcfg, err := platformConfig()
	if err != nil {
		return err
	}
	verifySelection(cmd, selection)
	if err := platformClient.ManageUser(cmd.Context(), pcfg, connectorID, userID, action, selection); err != nil {
		return err
	}
	cmd.Printf("Selection registered on connector %s for user %s\n", connectorID, userID)
	return nil
}
