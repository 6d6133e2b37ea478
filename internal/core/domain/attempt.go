package domain

import "time"

// AttemptTTL is how long an OAuth attempt stays resolvable. Attempts that
// see no completion envelope within the TTL resolve as cancelled.
const AttemptTTL = 10 * time.Minute

// AttemptResult is the terminal outcome of one attempt.
type AttemptResult struct {
	Selection *Selection
	Err       *ConnectError
}

// Attempt is one in-flight OAuth + selection flow. Attempts are correlated
// by ID (carried in the authorize URL state parameter and in every
// completion envelope), so concurrent flows never collide.
type Attempt struct {
	// ID is the correlation token, a UUID.
	ID string
	// Provider is the targeted provider.
	Provider ProviderType
	// Kind is the completion kind this attempt expects.
	Kind EnvelopeKind
	// Config is the provider OAuth config snapshot for this attempt.
	Config OAuthConfig
	// AuthURL is the provider authorization URL the user is sent to.
	// Empty for selection-only attempts.
	AuthURL string
	// CreatedAt and ExpiresAt bound the attempt's lifetime.
	CreatedAt time.Time
	ExpiresAt time.Time

	result chan AttemptResult
}

// NewAttempt creates an attempt expiring after AttemptTTL.
func NewAttempt(id string, cfg OAuthConfig, kind EnvelopeKind, authURL string) *Attempt {
	now := time.Now()
	return &Attempt{
		ID:        id,
		Provider:  cfg.Provider(),
		Kind:      kind,
		Config:    cfg,
		AuthURL:   authURL,
		CreatedAt: now,
		ExpiresAt: now.Add(AttemptTTL),
		result:    make(chan AttemptResult, 1),
	}
}

// NewManagedAttempt creates an attempt for a managed (hosted iframe) flow,
// which carries no host-side OAuth config or authorize URL.
func NewManagedAttempt(id string, provider ProviderType, kind EnvelopeKind) *Attempt {
	now := time.Now()
	return &Attempt{
		ID:        id,
		Provider:  provider,
		Kind:      kind,
		CreatedAt: now,
		ExpiresAt: now.Add(AttemptTTL),
		result:    make(chan AttemptResult, 1),
	}
}

// Expired reports whether the attempt's TTL has passed.
func (a *Attempt) Expired(now time.Time) bool {
	return now.After(a.ExpiresAt)
}

// Resolve records the terminal outcome. Only the first resolution wins;
// later calls return false and are dropped.
func (a *Attempt) Resolve(res AttemptResult) bool {
	select {
	case a.result <- res:
		return true
	default:
		return false
	}
}

// Result exposes the resolution channel for waiting.
func (a *Attempt) Result() <-chan AttemptResult {
	return a.result
}
