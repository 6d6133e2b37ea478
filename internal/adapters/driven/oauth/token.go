// Package oauth provides token exchange and refresh against external
// provider token endpoints.
package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
)

// requestTimeout bounds every token endpoint call.
const requestTimeout = 30 * time.Second

var httpClient = &http.Client{Timeout: requestTimeout}

// tokenResponse is the wire shape of a provider token response.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// ExchangeCodeForTokens exchanges an authorization code for tokens using a
// form-encoded POST, the shape Google and Dropbox expect.
func ExchangeCodeForTokens(
	ctx context.Context,
	tokenURL, clientID, clientSecret, code, redirectURI string,
) (*domain.OAuthToken, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("client_id", clientID)
	data.Set("client_secret", clientSecret)
	data.Set("code", code)
	data.Set("redirect_uri", redirectURI)

	return postForm(ctx, tokenURL, data)
}

// RefreshAccessToken obtains a fresh access token from a refresh token using
// a form-encoded POST.
func RefreshAccessToken(
	ctx context.Context,
	tokenURL, clientID, clientSecret, refreshToken string,
) (*domain.OAuthToken, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("client_id", clientID)
	data.Set("client_secret", clientSecret)
	data.Set("refresh_token", refreshToken)

	return postForm(ctx, tokenURL, data)
}

// ExchangeCodeBasicAuth exchanges an authorization code using HTTP Basic
// client authentication and a JSON body, the shape Notion expects.
func ExchangeCodeBasicAuth(
	ctx context.Context,
	tokenURL, clientID, clientSecret, code, redirectURI string,
) (*domain.OAuthToken, error) {
	body, err := json.Marshal(map[string]string{
		"grant_type":   "authorization_code",
		"code":         code,
		"redirect_uri": redirectURI,
	})
	if err != nil {
		return nil, fmt.Errorf("encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(clientID, clientSecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return doTokenRequest(req)
}

func postForm(ctx context.Context, tokenURL string, data url.Values) (*domain.OAuthToken, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, tokenURL, strings.NewReader(data.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	return doTokenRequest(req)
}

func doTokenRequest(req *http.Request) (*domain.OAuthToken, error) {
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, domain.NewTokenError("token request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, domain.NewTokenError("read token response", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		msg := fmt.Sprintf("token request failed with status %d", resp.StatusCode)
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			msg = fmt.Sprintf("token error: %s", errResp.Error)
			if errResp.Description != "" {
				msg += " - " + errResp.Description
			}
		}
		return nil, domain.NewTokenError(msg, nil).WithDetail("status", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, domain.NewTokenError("decode token response", err)
	}
	if tr.AccessToken == "" {
		return nil, domain.NewTokenError("token response missing access_token", nil).
			WithDetail("status", resp.StatusCode)
	}

	token := &domain.OAuthToken{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		TokenType:    tr.TokenType,
		ExpiresIn:    tr.ExpiresIn,
	}
	if tr.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return token, nil
}
