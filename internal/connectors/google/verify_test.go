package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
)

// withFakeDrive points the Drive client at a local server that 404s any
// file ID containing "gone" and returns metadata for everything else.
func withFakeDrive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(r.URL.Path, "gone") {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":404,"message":"File not found"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"f1","name":"Quarterly Report","mimeType":"application/pdf"}`))
	}))
	t.Cleanup(srv.Close)

	orig := newDriveService
	newDriveService = func(ctx context.Context, token *domain.OAuthToken) (*drive.Service, error) {
		return drive.NewService(ctx,
			option.WithEndpoint(srv.URL),
			option.WithHTTPClient(srv.Client()))
	}
	t.Cleanup(func() { newDriveService = orig })
}

func TestVerifySelection(t *testing.T) {
	withFakeDrive(t)

	missing, err := NewConnector().VerifySelection(
		context.Background(),
		&domain.OAuthToken{AccessToken: "at"},
		[]domain.SelectedFile{{ID: "f1"}, {ID: "f2-gone"}},
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"f2-gone"}, missing)
}

func TestVerifySelection_RequiresAccessToken(t *testing.T) {
	_, err := NewConnector().VerifySelection(
		context.Background(), nil, []domain.SelectedFile{{ID: "f1"}})

	require.Error(t, err)
	assert.True(t, domain.IsTokenError(err))
}

func TestVerifySelection_EmptySelection(t *testing.T) {
	missing, err := NewConnector().VerifySelection(context.Background(), nil, nil)

	require.NoError(t, err)
	assert.Empty(t, missing)
}
