package platform

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
)

func platformConfig() domain.PlatformConfig {
	return domain.PlatformConfig{
		OrganizationID: "org-1",
		Authorization:  "api-key",
	}
}

func TestCreateSourceConnector(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody []domain.ConnectorConfig

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"connectors":[{"id":"abc123","name":"Test"}]}`)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})
	id, err := client.CreateVectorizeDropboxConnector(context.Background(), platformConfig(), "Test")
	require.NoError(t, err)

	assert.Equal(t, "abc123", id)
	assert.Equal(t, "/org/org-1/connectors/sources", gotPath)
	assert.Equal(t, "Bearer api-key", gotAuth)
	require.Len(t, gotBody, 1)
	assert.Equal(t, "Test", gotBody[0].Name)
	assert.Equal(t, domain.ConnectorDropboxVectorize, gotBody[0].Type)
}

func TestCreateSourceConnector_ErrorCarriesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})
	_, err := client.CreateVectorizeGDriveConnector(context.Background(), platformConfig(), "Test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestCreateSourceConnector_MissingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"connectors":[]}`)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})
	_, err := client.CreateVectorizeNotionConnector(context.Background(), platformConfig(), "Test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no connector id")
}

func TestManageUser_VerbByAction(t *testing.T) {
	tests := []struct {
		action   domain.UserAction
		wantVerb string
	}{
		{domain.UserActionAdd, http.MethodPost},
		{domain.UserActionEdit, http.MethodPatch},
		{domain.UserActionRemove, http.MethodDelete},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			var gotMethod, gotPath string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				gotPath = r.URL.Path
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			sel := &domain.Selection{
				Files:        []domain.SelectedFile{{ID: "f1", Name: "doc"}},
				RefreshToken: "rt",
			}
			client := NewClient(ClientConfig{BaseURL: server.URL})
			err := client.ManageUser(context.Background(), platformConfig(), "conn-1", "user-1", tt.action, sel)
			require.NoError(t, err)

			assert.Equal(t, tt.wantVerb, gotMethod)
			assert.Equal(t, "/org/org-1/connectors/sources/conn-1/users/user-1", gotPath)
		})
	}
}

func TestManageUser_RemoveOmitsSelectionAndTokens(t *testing.T) {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	// A caller-supplied selection must never leak into a remove request.
	sel := &domain.Selection{
		Files:        []domain.SelectedFile{{ID: "f1"}},
		RefreshToken: "rt",
		AccessToken:  "at",
	}
	client := NewClient(ClientConfig{BaseURL: server.URL})
	err := client.ManageUser(context.Background(), platformConfig(), "conn-1", "user-1", domain.UserActionRemove, sel)
	require.NoError(t, err)

	assert.Empty(t, gotBody)
}

func TestManageUser_AddRequiresSelectionBeforeNetwork(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})

	err := client.ManageUser(context.Background(), platformConfig(), "conn-1", "user-1", domain.UserActionAdd, nil)
	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))

	err = client.ManageUser(context.Background(), platformConfig(), "conn-1", "user-1", domain.UserActionAdd,
		&domain.Selection{Files: []domain.SelectedFile{{ID: "f1"}}})
	require.Error(t, err, "selection without a token must be rejected")

	assert.False(t, called, "no request should be sent for invalid input")
}

func TestManageUser_AddSendsSelectionPayload(t *testing.T) {
	var got userPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sel := &domain.Selection{
		Files:        []domain.SelectedFile{{ID: "f1", Name: "doc", MimeType: "application/pdf"}},
		RefreshToken: "rt",
	}
	client := NewClient(ClientConfig{BaseURL: server.URL})
	err := client.ManageUser(context.Background(), platformConfig(), "conn-1", "user-1", domain.UserActionAdd, sel)
	require.NoError(t, err)

	require.Len(t, got.SelectedFiles, 1)
	assert.Equal(t, "f1", got.SelectedFiles[0].ID)
	assert.Equal(t, "rt", got.RefreshToken)
	assert.Empty(t, got.AccessToken)
}

func TestGetOneTimeConnectorToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/org/org-1/connectors/sources/conn-1/users/user-1/token", r.URL.Path)
		io.WriteString(w, `{"token":"one-time","expires_at":1756684800}`)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})
	token, err := client.GetOneTimeConnectorToken(context.Background(), platformConfig(), "user-1", "conn-1")
	require.NoError(t, err)

	assert.Equal(t, "one-time", token.Token)
	assert.Equal(t, int64(1756684800), token.ExpiresAt)
}

func TestClient_RejectsInvalidPlatformConfig(t *testing.T) {
	client := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:1"})

	_, err := client.CreateVectorizeGDriveConnector(context.Background(), domain.PlatformConfig{}, "Test")
	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))
}
