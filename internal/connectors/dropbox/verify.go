package dropbox

import (
	"context"
	"fmt"

	sdk "github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
)

// newFilesClient creates a Dropbox files API client. Overridable in tests.
var newFilesClient = func(accessToken string) files.Client {
	return files.New(sdk.Config{Token: accessToken})
}

// VerifySelection checks each picked file's metadata with the held token.
// Returns the IDs that could not be resolved; lookup_failed responses mark
// the file missing, transport errors propagate.
func (c *Connector) VerifySelection(
	ctx context.Context, token *domain.OAuthToken, selected []domain.SelectedFile,
) ([]string, error) {
	if len(selected) == 0 {
		return nil, nil
	}
	if token == nil || token.AccessToken == "" {
		return nil, domain.NewTokenError("selection verification requires an access token", nil)
	}

	client := newFilesClient(token.AccessToken)

	var missing []string
	for _, f := range selected {
		if ctx.Err() != nil {
			return missing, ctx.Err()
		}
		_, err := client.GetMetadata(files.NewGetMetadataArg(f.ID))
		if err == nil {
			continue
		}
		if apiErr, ok := err.(files.GetMetadataAPIError); ok {
			if apiErr.EndpointError != nil && apiErr.EndpointError.Path != nil {
				missing = append(missing, f.ID)
				continue
			}
		}
		return missing, fmt.Errorf("verify dropbox file %s: %w", f.ID, err)
	}
	return missing, nil
}
