package dropbox

import (
	"context"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/connectors"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
)

// pickerScript drives the Dropbox Chooser. The drop-ins script requires the
// literal element id "dropboxjs" plus the app key as a data attribute; the
// marker id doubles as the idempotent-load check.
const pickerScript = `
function vcOpenChooser() {
  Dropbox.choose({
    multiselect: true,
    linkType: 'preview',
    folderselect: false,
    success: function (files) {
      VC.addFiles(files.map(function (f) {
        return {
          id: f.id,
          name: f.name,
          webUrl: f.link
        };
      }));
    },
    cancel: function () {}
  });
}

VC.status('Loading Dropbox Chooser...');
VC.loadVendor(
  'https://www.dropbox.com/static/api/2/dropins.js',
  'dropboxjs',
  { 'data-app-key': vcBoot.appKey },
  function () { VC.status(''); vcOpenChooser(); }
);
document.getElementById('vc-pick-more').addEventListener('click', function () { vcOpenChooser(); });
`

// RenderPicker builds the Dropbox Chooser page for one attempt.
func (c *Connector) RenderPicker(
	_ context.Context, cfg domain.OAuthConfig, token *domain.OAuthToken, params connectors.PickerParams,
) (string, error) {
	dcfg, err := dropboxConfig(cfg)
	if err != nil {
		return "", err
	}
	if token == nil || token.RefreshToken == "" {
		return "", domain.NewPickerError("dropbox picker requires a refresh token", nil)
	}

	page := connectors.PickerPage{
		Title:   "Select Dropbox Files",
		Heading: "Select Dropbox files",
		Boot: connectors.PickerBoot{
			Provider:     domain.ProviderDropbox.String(),
			AttemptID:    params.AttemptID,
			CompleteURL:  params.CompleteURL,
			Kind:         string(params.Kind),
			AccessToken:  token.AccessToken,
			RefreshToken: token.RefreshToken,
			AppKey:       dcfg.AppKey,
			PreSelected:  params.PreSelected,
		},
		ProviderScript: pickerScript,
	}
	return page.Render()
}
