package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/connectors"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
)

// fakeConnector stubs a provider so flow tests never touch the network.
type fakeConnector struct {
	provider    domain.ProviderType
	authErr     error
	token       *domain.OAuthToken
	exchangeErr error
	refreshed   *domain.OAuthToken
	refreshErr  error
	page        string
	renderErr   error

	lastParams connectors.PickerParams
	lastToken  *domain.OAuthToken
}

func (f *fakeConnector) Provider() domain.ProviderType { return f.provider }

func (f *fakeConnector) BuildAuthURL(cfg domain.OAuthConfig, state string) (string, error) {
	if f.authErr != nil {
		return "", f.authErr
	}
	return "https://auth.example.com/?state=" + state, nil
}

func (f *fakeConnector) ExchangeCode(
	ctx context.Context, cfg domain.OAuthConfig, code string,
) (*domain.OAuthToken, error) {
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.token, nil
}

func (f *fakeConnector) RefreshToken(
	ctx context.Context, cfg domain.OAuthConfig, refreshToken string,
) (*domain.OAuthToken, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.refreshed, nil
}

func (f *fakeConnector) GetUserInfo(ctx context.Context, accessToken string) (string, error) {
	return "user@example.com", nil
}

func (f *fakeConnector) DefaultConfig() connectors.OAuthDefaults {
	return connectors.OAuthDefaults{}
}

func (f *fakeConnector) RenderPicker(
	ctx context.Context, cfg domain.OAuthConfig, token *domain.OAuthToken, params connectors.PickerParams,
) (string, error) {
	f.lastParams = params
	f.lastToken = token
	if f.renderErr != nil {
		return "", f.renderErr
	}
	return f.page, nil
}

const completeURL = "http://localhost:8090/api/vectorize/complete"

func newTestFlow(fake *fakeConnector) *Flow {
	registry := NewConnectorRegistry()
	registry.Register(fake)
	return NewFlow(registry, NewAttemptStore(), completeURL)
}

func googleConfig() *domain.GoogleDriveOAuthConfig {
	return &domain.GoogleDriveOAuthConfig{
		ClientID:     "cid",
		ClientSecret: "secret",
		APIKey:       "key",
		RedirectURI:  "http://localhost:8090/callback",
	}
}

func TestFlow_Start(t *testing.T) {
	fake := &fakeConnector{provider: domain.ProviderGoogleDrive}
	flow := newTestFlow(fake)

	attempt, err := flow.Start(context.Background(), googleConfig())
	require.NoError(t, err)

	assert.NotEmpty(t, attempt.ID)
	assert.Equal(t, domain.ProviderGoogleDrive, attempt.Provider)
	assert.Equal(t, domain.KindConnectComplete, attempt.Kind)
	assert.Contains(t, attempt.AuthURL, "state="+attempt.ID)
}

func TestFlow_StartRejectsInvalidConfig(t *testing.T) {
	fake := &fakeConnector{provider: domain.ProviderGoogleDrive}
	flow := newTestFlow(fake)

	cfg := googleConfig()
	cfg.ClientID = ""
	_, err := flow.Start(context.Background(), cfg)

	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))
	assert.Equal(t, 0, flow.attempts.Len())
}

func TestFlow_ConcurrentAttemptsDoNotCollide(t *testing.T) {
	fake := &fakeConnector{
		provider: domain.ProviderGoogleDrive,
		token:    &domain.OAuthToken{AccessToken: "at"},
		page:     "<html>picker</html>",
	}
	flow := newTestFlow(fake)
	ctx := context.Background()

	a1, err := flow.Start(ctx, googleConfig())
	require.NoError(t, err)
	a2, err := flow.Start(ctx, googleConfig())
	require.NoError(t, err)
	require.NotEqual(t, a1.ID, a2.ID)

	// Resolve the second attempt first; the first must stay pending.
	err = flow.Deliver(domain.Envelope{
		Kind:      domain.KindConnectComplete,
		AttemptID: a2.ID,
		Selection: &domain.Selection{Files: []domain.SelectedFile{{ID: "f2", Name: "two"}}},
	})
	require.NoError(t, err)

	err = flow.Deliver(domain.Envelope{
		Kind:      domain.KindConnectComplete,
		AttemptID: a1.ID,
		Selection: &domain.Selection{Files: []domain.SelectedFile{{ID: "f1", Name: "one"}}},
	})
	require.NoError(t, err)

	sel1, err := flow.Wait(ctx, a1)
	require.NoError(t, err)
	sel2, err := flow.Wait(ctx, a2)
	require.NoError(t, err)

	assert.Equal(t, []string{"f1"}, sel1.FileIDs())
	assert.Equal(t, []string{"f2"}, sel2.FileIDs())
}

func TestFlow_HandleCallbackRendersPicker(t *testing.T) {
	fake := &fakeConnector{
		provider: domain.ProviderGoogleDrive,
		token:    &domain.OAuthToken{AccessToken: "at", RefreshToken: "rt"},
		page:     "<html>picker</html>",
	}
	flow := newTestFlow(fake)
	ctx := context.Background()

	attempt, err := flow.Start(ctx, googleConfig())
	require.NoError(t, err)

	body := flow.HandleCallback(ctx, attempt.ID, "authcode", "", "")
	assert.Equal(t, "<html>picker</html>", body)
	assert.Equal(t, attempt.ID, fake.lastParams.AttemptID)
	assert.Equal(t, completeURL, fake.lastParams.CompleteURL)
	assert.Equal(t, domain.KindConnectComplete, fake.lastParams.Kind)
	assert.Equal(t, "at", fake.lastToken.AccessToken)
}

func TestFlow_HandleCallbackUnknownAttempt(t *testing.T) {
	fake := &fakeConnector{provider: domain.ProviderGoogleDrive}
	flow := newTestFlow(fake)

	body := flow.HandleCallback(context.Background(), "nope", "code", "", "")
	assert.Contains(t, body, "CALLBACK_ERROR")
}

func TestFlow_HandleCallbackAccessDeniedResolvesCancelled(t *testing.T) {
	fake := &fakeConnector{provider: domain.ProviderGoogleDrive}
	flow := newTestFlow(fake)
	ctx := context.Background()

	attempt, err := flow.Start(ctx, googleConfig())
	require.NoError(t, err)

	body := flow.HandleCallback(ctx, attempt.ID, "", "access_denied", "user said no")
	assert.Contains(t, body, "CANCELLED")

	_, err = flow.Wait(ctx, attempt)
	require.Error(t, err)
	assert.True(t, domain.IsCancelled(err))
}

func TestFlow_HandleCallbackExchangeFailure(t *testing.T) {
	fake := &fakeConnector{
		provider:    domain.ProviderGoogleDrive,
		exchangeErr: domain.NewTokenError("exchange failed", nil),
	}
	flow := newTestFlow(fake)
	ctx := context.Background()

	attempt, err := flow.Start(ctx, googleConfig())
	require.NoError(t, err)

	body := flow.HandleCallback(ctx, attempt.ID, "badcode", "", "")
	assert.Contains(t, body, "TOKEN_ERROR")

	_, err = flow.Wait(ctx, attempt)
	require.Error(t, err)
	assert.True(t, domain.IsTokenError(err))
}

func TestFlow_DeliverRejectsUnknownAttempt(t *testing.T) {
	fake := &fakeConnector{provider: domain.ProviderGoogleDrive}
	flow := newTestFlow(fake)

	err := flow.Deliver(domain.Envelope{
		Kind:      domain.KindConnectComplete,
		AttemptID: "ghost",
		Selection: &domain.Selection{},
	})
	require.Error(t, err)
}

func TestFlow_DeliverIsSingleUse(t *testing.T) {
	fake := &fakeConnector{provider: domain.ProviderGoogleDrive}
	flow := newTestFlow(fake)
	ctx := context.Background()

	attempt, err := flow.Start(ctx, googleConfig())
	require.NoError(t, err)

	env := domain.Envelope{
		Kind:      domain.KindConnectComplete,
		AttemptID: attempt.ID,
		Selection: &domain.Selection{Files: []domain.SelectedFile{{ID: "f1"}}},
	}
	require.NoError(t, flow.Deliver(env))
	require.Error(t, flow.Deliver(env))
}

func TestFlow_DeliverDeduplicatesSelection(t *testing.T) {
	fake := &fakeConnector{provider: domain.ProviderGoogleDrive}
	flow := newTestFlow(fake)
	ctx := context.Background()

	attempt, err := flow.Start(ctx, googleConfig())
	require.NoError(t, err)

	err = flow.Deliver(domain.Envelope{
		Kind:      domain.KindConnectComplete,
		AttemptID: attempt.ID,
		Selection: &domain.Selection{Files: []domain.SelectedFile{
			{ID: "f1", Name: "one"},
			{ID: "f1", Name: "dupe"},
			{ID: "f2", Name: "two"},
		}},
	})
	require.NoError(t, err)

	sel, err := flow.Wait(ctx, attempt)
	require.NoError(t, err)
	assert.Equal(t, []string{"f1", "f2"}, sel.FileIDs())
	assert.Equal(t, domain.ProviderGoogleDrive, sel.Provider)
}

func TestFlow_DeliverCancelledEnvelope(t *testing.T) {
	fake := &fakeConnector{provider: domain.ProviderGoogleDrive}
	flow := newTestFlow(fake)
	ctx := context.Background()

	attempt, err := flow.Start(ctx, googleConfig())
	require.NoError(t, err)

	require.NoError(t, flow.Deliver(domain.Envelope{
		Kind:      domain.KindConnectCancelled,
		AttemptID: attempt.ID,
	}))

	_, err = flow.Wait(ctx, attempt)
	require.Error(t, err)
	assert.True(t, domain.IsCancelled(err))
}

func TestFlow_DeliverErrorEnvelope(t *testing.T) {
	fake := &fakeConnector{provider: domain.ProviderGoogleDrive}
	flow := newTestFlow(fake)
	ctx := context.Background()

	attempt, err := flow.Start(ctx, googleConfig())
	require.NoError(t, err)

	env := domain.NewErrorEnvelope(attempt.ID, domain.NewPickerError("vendor script timeout", nil))
	require.NoError(t, flow.Deliver(env))

	_, err = flow.Wait(ctx, attempt)
	require.Error(t, err)
	assert.True(t, domain.IsPickerError(err))
}

func TestFlow_DeliverErrorEnvelopeWithoutPayload(t *testing.T) {
	fake := &fakeConnector{provider: domain.ProviderGoogleDrive}
	flow := newTestFlow(fake)
	ctx := context.Background()

	attempt, err := flow.Start(ctx, googleConfig())
	require.NoError(t, err)

	env := domain.Envelope{Kind: domain.KindConnectError, AttemptID: attempt.ID}
	require.NoError(t, flow.Deliver(env))

	sel, err := flow.Wait(ctx, attempt)
	require.Error(t, err)
	assert.Nil(t, sel)
	assert.True(t, domain.HasCode(err, domain.CodeUnknown))
}

func TestFlow_WaitContextCancelled(t *testing.T) {
	fake := &fakeConnector{provider: domain.ProviderGoogleDrive}
	flow := newTestFlow(fake)

	attempt, err := flow.Start(context.Background(), googleConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = flow.Wait(ctx, attempt)
	require.Error(t, err)
	assert.True(t, domain.IsCancelled(err))
	assert.Equal(t, 0, flow.attempts.Len())
}

func TestFlow_WaitAttemptTTL(t *testing.T) {
	fake := &fakeConnector{provider: domain.ProviderGoogleDrive}
	flow := newTestFlow(fake)

	attempt, err := flow.Start(context.Background(), googleConfig())
	require.NoError(t, err)
	attempt.ExpiresAt = time.Now().Add(20 * time.Millisecond)

	_, err = flow.Wait(context.Background(), attempt)
	require.Error(t, err)
	assert.True(t, domain.IsCancelled(err))
}

func TestFlow_StartSelectionRefreshesAndRenders(t *testing.T) {
	fake := &fakeConnector{
		provider:  domain.ProviderGoogleDrive,
		refreshed: &domain.OAuthToken{AccessToken: "fresh"},
		page:      "<html>picker</html>",
	}
	flow := newTestFlow(fake)

	pre := []domain.SelectedFile{{ID: "f1", Name: "kept"}}
	attempt, page, err := flow.StartSelection(context.Background(), googleConfig(), "stored-rt", pre)
	require.NoError(t, err)

	assert.Equal(t, "<html>picker</html>", page)
	assert.Equal(t, domain.KindEditComplete, attempt.Kind)
	assert.Empty(t, attempt.AuthURL)
	assert.Equal(t, pre, fake.lastParams.PreSelected)
	assert.Equal(t, "fresh", fake.lastToken.AccessToken)
	// The stored credential survives the refresh round-trip.
	assert.Equal(t, "stored-rt", fake.lastToken.RefreshToken)
}

func TestFlow_StartSelectionNotionUsesTokenDirectly(t *testing.T) {
	fake := &fakeConnector{
		provider:   domain.ProviderNotion,
		refreshErr: domain.NewTokenError("should not be called", nil),
		page:       "<html>pages</html>",
	}
	flow := newTestFlow(fake)

	cfg := &domain.NotionOAuthConfig{
		ClientID:     "cid",
		ClientSecret: "secret",
		RedirectURI:  "http://localhost:8090/callback",
	}
	_, page, err := flow.StartSelection(context.Background(), cfg, "workspace-token", nil)
	require.NoError(t, err)

	assert.Equal(t, "<html>pages</html>", page)
	assert.Equal(t, "workspace-token", fake.lastToken.AccessToken)
}

func TestFlow_StartSelectionRequiresStoredToken(t *testing.T) {
	fake := &fakeConnector{provider: domain.ProviderGoogleDrive}
	flow := newTestFlow(fake)

	_, _, err := flow.StartSelection(context.Background(), googleConfig(), "", nil)
	require.Error(t, err)
	assert.True(t, domain.IsTokenError(err))
}

func TestFlow_StartSelectionRenderFailureUnregistersAttempt(t *testing.T) {
	fake := &fakeConnector{
		provider:  domain.ProviderGoogleDrive,
		refreshed: &domain.OAuthToken{AccessToken: "fresh"},
		renderErr: domain.NewPickerError("template broke", nil),
	}
	flow := newTestFlow(fake)

	_, _, err := flow.StartSelection(context.Background(), googleConfig(), "rt", nil)
	require.Error(t, err)
	assert.Equal(t, 0, flow.attempts.Len())
}

func TestFlow_StartManaged(t *testing.T) {
	fake := &fakeConnector{provider: domain.ProviderGoogleDrive}
	flow := newTestFlow(fake)
	ctx := context.Background()

	attempt, err := flow.StartManaged(ctx, domain.ProviderGoogleDrive, domain.KindConnectComplete)
	require.NoError(t, err)
	assert.Empty(t, attempt.AuthURL)

	require.NoError(t, flow.Deliver(domain.Envelope{
		Kind:      domain.KindConnectComplete,
		AttemptID: attempt.ID,
		Selection: &domain.Selection{Files: []domain.SelectedFile{{ID: "f1"}}},
	}))

	sel, err := flow.Wait(ctx, attempt)
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderGoogleDrive, sel.Provider)
}

func TestFlow_StartManagedRejectsBadInput(t *testing.T) {
	fake := &fakeConnector{provider: domain.ProviderGoogleDrive}
	flow := newTestFlow(fake)
	ctx := context.Background()

	_, err := flow.StartManaged(ctx, domain.ProviderType("box"), domain.KindConnectComplete)
	require.Error(t, err)

	_, err = flow.StartManaged(ctx, domain.ProviderGoogleDrive, domain.KindConnectError)
	require.Error(t, err)
}

func TestConnectorRegistry_Builtins(t *testing.T) {
	registry := NewConnectorRegistry()
	for _, p := range []domain.ProviderType{
		domain.ProviderGoogleDrive,
		domain.ProviderDropbox,
		domain.ProviderNotion,
	} {
		c, err := registry.Get(p)
		require.NoError(t, err)
		assert.Equal(t, p, c.Provider())

		_, ok := registry.Verifier(p)
		assert.True(t, ok, "provider %s should verify selections", p)
	}

	_, err := registry.Get(domain.ProviderType("box"))
	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))
}
