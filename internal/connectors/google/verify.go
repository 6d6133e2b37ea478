package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
)

// staticTokenSource adapts an already-held access token to oauth2.TokenSource
// so Drive API clients can use it directly.
func staticTokenSource(token *domain.OAuthToken) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token.AccessToken,
		TokenType:   "Bearer",
	})
}

// newDriveService creates a Drive API service bound to the token.
// Overridable in tests.
var newDriveService = func(ctx context.Context, token *domain.OAuthToken) (*drive.Service, error) {
	return drive.NewService(ctx, option.WithTokenSource(staticTokenSource(token)))
}

// VerifySelection checks that each picked file is still visible to the held
// token. Returns the IDs that could not be fetched; a missing file is not an
// error, an unreachable Drive API is.
func (c *Connector) VerifySelection(
	ctx context.Context, token *domain.OAuthToken, files []domain.SelectedFile,
) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if token == nil || token.AccessToken == "" {
		return nil, domain.NewTokenError("selection verification requires an access token", nil)
	}

	svc, err := newDriveService(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	var missing []string
	for _, f := range files {
		_, err := svc.Files.Get(f.ID).
			Fields("id", "name", "mimeType", "trashed").
			SupportsAllDrives(true).
			Context(ctx).
			Do()
		if err == nil {
			continue
		}
		if gerr, ok := err.(*googleapi.Error); ok && (gerr.Code == 404 || gerr.Code == 403) {
			missing = append(missing, f.ID)
			continue
		}
		return missing, fmt.Errorf("verify drive file %s: %w", f.ID, err)
	}
	return missing, nil
}
