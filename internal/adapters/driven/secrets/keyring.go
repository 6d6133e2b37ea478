// Package secrets stores per-provider, per-user OAuth credentials in the
// system keyring, with a restricted-permission file fallback for headless
// environments.
package secrets

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/ports/driven"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/logger"
)

// Ensure TokenStore implements the interface.
var _ driven.TokenStore = (*TokenStore)(nil)

const serviceName = "vectorize-connect"

// NoKeyringEnv disables keyring use when set, forcing the file fallback.
// Useful in CI and containers without a secret service.
const NoKeyringEnv = "VECTORIZE_NO_KEYRING"

// TokenStore persists refresh tokens (or Notion access tokens) keyed by
// provider and user ID. Keyring first, file fallback when unavailable.
type TokenStore struct {
	useKeyring  bool
	fallbackDir string
}

// NewTokenStore creates a token store. If fallbackDir is empty, defaults to
// ~/.vectorize-connect. Keyring availability is probed once at construction.
func NewTokenStore(fallbackDir string) (*TokenStore, error) {
	if fallbackDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		fallbackDir = filepath.Join(home, ".vectorize-connect")
	}
	if err := os.MkdirAll(fallbackDir, 0700); err != nil {
		return nil, err
	}

	if os.Getenv(NoKeyringEnv) != "" {
		return &TokenStore{useKeyring: false, fallbackDir: fallbackDir}, nil
	}

	// Probe the keyring once; broken secret services fail fast here.
	probe := serviceName + "::probe"
	if err := keyring.Set(serviceName, probe, "probe"); err == nil {
		_ = keyring.Delete(serviceName, probe)
		return &TokenStore{useKeyring: true, fallbackDir: fallbackDir}, nil
	}

	logger.Warn().
		Str("path", filepath.Join(fallbackDir, "tokens.json")).
		Msg("system keyring unavailable, tokens stored on disk")
	return &TokenStore{useKeyring: false, fallbackDir: fallbackDir}, nil
}

func entryKey(provider domain.ProviderType, userID string) string {
	return fmt.Sprintf("%s::%s", provider, userID)
}

// SaveToken stores the credential for a provider/user pair.
func (s *TokenStore) SaveToken(provider domain.ProviderType, userID, token string) error {
	if token == "" {
		return domain.NewTokenError("refusing to store an empty token", nil)
	}
	if s.useKeyring {
		return keyring.Set(serviceName, entryKey(provider, userID), token)
	}
	return s.saveToFile(provider, userID, token)
}

// GetToken retrieves the stored credential. Returns domain.ErrTokenNotFound
// when nothing is stored.
func (s *TokenStore) GetToken(provider domain.ProviderType, userID string) (string, error) {
	if s.useKeyring {
		token, err := keyring.Get(serviceName, entryKey(provider, userID))
		if err != nil {
			return "", domain.ErrTokenNotFound
		}
		return token, nil
	}
	return s.getFromFile(provider, userID)
}

// DeleteToken removes the stored credential. Deleting an absent credential
// is a no-op.
func (s *TokenStore) DeleteToken(provider domain.ProviderType, userID string) error {
	if s.useKeyring {
		err := keyring.Delete(serviceName, entryKey(provider, userID))
		if err != nil && err != keyring.ErrNotFound {
			return err
		}
		return nil
	}
	return s.deleteFromFile(provider, userID)
}

// File fallback: one JSON map of entry key to token.

func (s *TokenStore) tokensPath() string {
	return filepath.Join(s.fallbackDir, "tokens.json")
}

func (s *TokenStore) loadFile() (map[string]string, error) {
	data, err := os.ReadFile(s.tokensPath())
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	tokens := make(map[string]string)
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("secrets: corrupt token file %s: %w", s.tokensPath(), err)
	}
	return tokens, nil
}

func (s *TokenStore) writeFile(tokens map[string]string) error {
	data, err := json.Marshal(tokens)
	if err != nil {
		return err
	}
	return os.WriteFile(s.tokensPath(), data, 0600)
}

func (s *TokenStore) saveToFile(provider domain.ProviderType, userID, token string) error {
	tokens, err := s.loadFile()
	if err != nil {
		return err
	}
	tokens[entryKey(provider, userID)] = token
	return s.writeFile(tokens)
}

func (s *TokenStore) getFromFile(provider domain.ProviderType, userID string) (string, error) {
	tokens, err := s.loadFile()
	if err != nil {
		return "", err
	}
	token, ok := tokens[entryKey(provider, userID)]
	if !ok {
		return "", domain.ErrTokenNotFound
	}
	return token, nil
}

func (s *TokenStore) deleteFromFile(provider domain.ProviderType, userID string) error {
	tokens, err := s.loadFile()
	if err != nil {
		return err
	}
	if _, ok := tokens[entryKey(provider, userID)]; !ok {
		return nil
	}
	delete(tokens, entryKey(provider, userID))
	return s.writeFile(tokens)
}
