package google

import (
	"context"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/connectors"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
)

// pickerScript drives the Google Picker widget. The vendor script is
// injected once (marker id checked by VC.loadVendor) and each PICKED batch
// is merged into the deduplicated selection.
const pickerScript = `
function vcShowPicker() {
  var view = new google.picker.DocsView(google.picker.ViewId.DOCS)
    .setIncludeFolders(true)
    .setSelectFolderEnabled(false);
  var picker = new google.picker.PickerBuilder()
    .enableFeature(google.picker.Feature.MULTISELECT_ENABLED)
    .setOAuthToken(vcBoot.accessToken)
    .setDeveloperKey(vcBoot.apiKey)
    .addView(view)
    .setCallback(function (data) {
      if (data[google.picker.Response.ACTION] === google.picker.Action.PICKED) {
        VC.addFiles(data[google.picker.Response.DOCUMENTS].map(function (doc) {
          return {
            id: doc[google.picker.Document.ID],
            name: doc[google.picker.Document.NAME],
            mimeType: doc[google.picker.Document.MIME_TYPE],
            webUrl: doc[google.picker.Document.URL]
          };
        }));
      }
    })
    .build();
  picker.setVisible(true);
}

function vcInitPicker() {
  VC.status('Loading Google Picker...');
  VC.loadVendor('https://apis.google.com/js/api.js', 'vc-gapi-script', {}, function () {
    gapi.load('picker', {
      callback: function () { VC.status(''); vcShowPicker(); },
      onerror: function () { VC.fail('PICKER_ERROR', 'failed to load the Google Picker API'); },
      timeout: 10000,
      ontimeout: function () { VC.fail('PICKER_ERROR', 'Google Picker API load timed out'); }
    });
  });
}

document.getElementById('vc-pick-more').addEventListener('click', function () { vcShowPicker(); });
vcInitPicker();
`

// RenderPicker builds the Google Picker page for one attempt.
func (c *Connector) RenderPicker(
	_ context.Context, cfg domain.OAuthConfig, token *domain.OAuthToken, params connectors.PickerParams,
) (string, error) {
	gcfg, err := driveConfig(cfg)
	if err != nil {
		return "", err
	}
	if token == nil || token.AccessToken == "" {
		return "", domain.NewPickerError("google picker requires an access token", nil)
	}

	page := connectors.PickerPage{
		Title:   "Select Google Drive Files",
		Heading: "Select Google Drive files",
		Boot: connectors.PickerBoot{
			Provider:     domain.ProviderGoogleDrive.String(),
			AttemptID:    params.AttemptID,
			CompleteURL:  params.CompleteURL,
			Kind:         string(params.Kind),
			AccessToken:  token.AccessToken,
			RefreshToken: token.RefreshToken,
			APIKey:       gcfg.APIKey,
			PreSelected:  params.PreSelected,
		},
		ProviderScript: pickerScript,
	}
	return page.Render()
}
