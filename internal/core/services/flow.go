package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/connectors"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/ports/driving"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/logger"
)

// Flow coordinates OAuth and selection flows: it registers attempts, turns
// provider callbacks into picker pages, and resolves waiting callers when a
// completion envelope arrives.
type Flow struct {
	registry    *ConnectorRegistry
	attempts    *AttemptStore
	completeURL string
}

var _ driving.ConnectService = (*Flow)(nil)

// NewFlow creates a flow service. completeURL is the host endpoint that
// picker pages post their completion envelope to.
func NewFlow(registry *ConnectorRegistry, attempts *AttemptStore, completeURL string) *Flow {
	return &Flow{
		registry:    registry,
		attempts:    attempts,
		completeURL: completeURL,
	}
}

// Start validates the config, builds the provider authorization URL and
// registers a pending attempt. Nothing touches the network here.
func (f *Flow) Start(ctx context.Context, cfg domain.OAuthConfig) (*domain.Attempt, error) {
	f.attempts.Cleanup()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	connector, err := f.registry.Get(cfg.Provider())
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	authURL, err := connector.BuildAuthURL(cfg, id)
	if err != nil {
		return nil, domain.WrapError(err)
	}

	attempt := domain.NewAttempt(id, cfg, domain.KindConnectComplete, authURL)
	f.attempts.Save(attempt)

	logger.Debug().
		Str("provider", string(cfg.Provider())).
		Str("attempt_id", id).
		Msg("oauth attempt registered")
	return attempt, nil
}

// StartSelection registers a selection-only attempt and renders the picker
// page directly, skipping provider consent. The stored credential is a
// refresh token for Google Drive and Dropbox; Notion issues long-lived
// access tokens, so the credential is used as-is.
func (f *Flow) StartSelection(
	ctx context.Context,
	cfg domain.OAuthConfig,
	storedToken string,
	preSelected []domain.SelectedFile,
) (*domain.Attempt, string, error) {
	f.attempts.Cleanup()

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	if storedToken == "" {
		return nil, "", domain.NewTokenError("no stored credential for selection flow", nil)
	}
	connector, err := f.registry.Get(cfg.Provider())
	if err != nil {
		return nil, "", err
	}

	var token *domain.OAuthToken
	if cfg.Provider() == domain.ProviderNotion {
		token = &domain.OAuthToken{AccessToken: storedToken, TokenType: "bearer"}
	} else {
		token, err = connector.RefreshToken(ctx, cfg, storedToken)
		if err != nil {
			return nil, "", domain.WrapError(err)
		}
		// Keep the original credential available to the picker so an
		// edit round-trip does not lose it.
		if token.RefreshToken == "" {
			token.RefreshToken = storedToken
		}
	}

	id := uuid.NewString()
	attempt := domain.NewAttempt(id, cfg, domain.KindEditComplete, "")
	f.attempts.Save(attempt)

	page, err := connector.RenderPicker(ctx, cfg, token, connectors.PickerParams{
		AttemptID:   id,
		CompleteURL: f.completeURL,
		Kind:        domain.KindEditComplete,
		PreSelected: preSelected,
	})
	if err != nil {
		f.attempts.Delete(id)
		return nil, "", domain.WrapError(err)
	}

	logger.Debug().
		Str("provider", string(cfg.Provider())).
		Str("attempt_id", id).
		Int("pre_selected", len(preSelected)).
		Msg("selection attempt registered")
	return attempt, page, nil
}

// StartManaged registers an attempt for a managed flow. The hosted platform
// runs OAuth and picking; the completion envelope comes back through
// Deliver with this attempt's ID.
func (f *Flow) StartManaged(
	ctx context.Context,
	provider domain.ProviderType,
	kind domain.EnvelopeKind,
) (*domain.Attempt, error) {
	f.attempts.Cleanup()

	if !provider.Valid() {
		return nil, domain.NewConfigurationError("unknown provider: %q", string(provider))
	}
	if !kind.Completed() {
		return nil, domain.NewConfigurationError("managed flow kind must be a completion kind, got %q", string(kind))
	}

	attempt := domain.NewManagedAttempt(uuid.NewString(), provider, kind)
	f.attempts.Save(attempt)

	logger.Debug().
		Str("provider", string(provider)).
		Str("attempt_id", attempt.ID).
		Msg("managed attempt registered")
	return attempt, nil
}

// HandleCallback turns the provider redirect into the response body for the
// callback route. Every path returns a complete HTML document: success
// renders the picker, failure renders the error page, which still posts an
// error envelope so the host window learns the outcome.
func (f *Flow) HandleCallback(ctx context.Context, attemptID, code, errParam, errDesc string) string {
	attempt, ok := f.attempts.Get(attemptID)
	if !ok {
		cerr := domain.NewCallbackError("invalid_state", "unknown or expired attempt")
		logger.Warn().Str("attempt_id", attemptID).Msg("callback for unknown attempt")
		return connectors.RenderErrorPage(attemptID, f.completeURL, cerr)
	}

	if errParam != "" {
		var cerr *domain.ConnectError
		if errParam == "access_denied" {
			cerr = domain.NewCancelledError("user denied the authorization request")
		} else {
			cerr = domain.NewCallbackError(errParam, errDesc)
		}
		return f.failCallback(attempt, cerr)
	}
	if code == "" {
		return f.failCallback(attempt, domain.NewCallbackError("invalid_request", "missing authorization code"))
	}

	connector, err := f.registry.Get(attempt.Provider)
	if err != nil {
		return f.failCallback(attempt, domain.WrapError(err))
	}

	token, err := connector.ExchangeCode(ctx, attempt.Config, code)
	if err != nil {
		return f.failCallback(attempt, domain.WrapError(err))
	}

	page, err := connector.RenderPicker(ctx, attempt.Config, token, connectors.PickerParams{
		AttemptID:   attempt.ID,
		CompleteURL: f.completeURL,
		Kind:        attempt.Kind,
	})
	if err != nil {
		return f.failCallback(attempt, domain.NewPickerError("rendering picker page", err))
	}

	logger.Debug().
		Str("provider", string(attempt.Provider)).
		Str("attempt_id", attempt.ID).
		Msg("callback exchanged, picker served")
	return page
}

// failCallback resolves the attempt with the error and renders the error
// page. The page posts an error envelope too; the attempt is already gone
// by then, so the duplicate is dropped by Deliver.
func (f *Flow) failCallback(attempt *domain.Attempt, cerr *domain.ConnectError) string {
	f.attempts.Delete(attempt.ID)
	attempt.Resolve(domain.AttemptResult{Err: cerr})
	logger.Warn().
		Str("provider", string(attempt.Provider)).
		Str("attempt_id", attempt.ID).
		Str("code", string(cerr.Code)).
		Msg("callback failed")
	return connectors.RenderErrorPage(attempt.ID, f.completeURL, cerr)
}

// Deliver dispatches a completion envelope to its pending attempt. The
// attempt is consumed atomically, so each envelope resolves at most one
// attempt and repeated posts are rejected.
func (f *Flow) Deliver(env domain.Envelope) error {
	if !env.Kind.Valid() {
		return domain.NewUnknownError("invalid envelope kind "+string(env.Kind), nil)
	}
	if env.AttemptID == "" {
		return domain.NewUnknownError("envelope missing attempt id", nil)
	}

	attempt, ok := f.attempts.GetAndDelete(env.AttemptID)
	if !ok {
		return domain.NewUnknownError("no pending attempt for envelope "+env.AttemptID, nil)
	}

	switch {
	case env.Kind.Completed():
		if env.Kind != attempt.Kind {
			cerr := domain.NewUnknownError("envelope kind "+string(env.Kind)+" does not match attempt", nil)
			attempt.Resolve(domain.AttemptResult{Err: cerr})
			return cerr
		}
		if env.Selection == nil {
			cerr := domain.NewPickerError("completion envelope missing selection", nil)
			attempt.Resolve(domain.AttemptResult{Err: cerr})
			return cerr
		}
		sel := *env.Selection
		if sel.Provider == "" {
			sel.Provider = attempt.Provider
		}
		sel.Files = domain.MergeFiles(sel.Files)
		attempt.Resolve(domain.AttemptResult{Selection: &sel})
		logger.Debug().
			Str("attempt_id", attempt.ID).
			Int("files", len(sel.Files)).
			Msg("selection delivered")

	case env.Kind == domain.KindConnectCancelled:
		attempt.Resolve(domain.AttemptResult{
			Err: domain.NewCancelledError("user cancelled the flow"),
		})

	default: // KindConnectError
		cerr := env.Error.AsConnectError()
		if cerr == nil {
			cerr = domain.NewUnknownError("error envelope carried no error payload", nil)
		}
		attempt.Resolve(domain.AttemptResult{Err: cerr})
	}
	return nil
}

// Wait blocks until the attempt resolves, the context ends or the attempt
// TTL passes. Abandonment surfaces as an explicit CANCELLED error rather
// than a silent hang.
func (f *Flow) Wait(ctx context.Context, attempt *domain.Attempt) (*domain.Selection, error) {
	ttl := time.NewTimer(time.Until(attempt.ExpiresAt))
	defer ttl.Stop()

	select {
	case res := <-attempt.Result():
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Selection, nil

	case <-ctx.Done():
		f.attempts.Delete(attempt.ID)
		return nil, domain.NewCancelledError("wait aborted: " + ctx.Err().Error())

	case <-ttl.C:
		f.attempts.Delete(attempt.ID)
		return nil, domain.NewCancelledError("attempt expired without completion")
	}
}
