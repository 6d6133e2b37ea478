package notion

import (
	"context"
	"html/template"
	"strings"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/connectors"
	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
)

// pageListTemplate renders the server-fetched page list as checkboxes; the
// picker script lifts checked rows into the shared selection.
var pageListTemplate = template.Must(template.New("pages").Parse(`<div id="vc-pages">
{{if not .}}<p>No pages are shared with this integration yet. Share pages with the integration in Notion, then reopen this window.</p>{{end}}
{{range .}}<label class="vc-page">
<input type="checkbox" class="vc-page-check" data-id="{{.ID}}" data-name="{{.Title}}" data-parent-type="{{.ParentType}}" data-url="{{.URL}}">
<span>{{.Title}}</span><em>{{.ParentType}}</em>
</label>
{{end}}</div>
<style>
#vc-pages { max-height: 320px; overflow-y: auto; background: #fff; border: 1px solid #e4e7ec; border-radius: 8px; padding: 8px 12px; margin-bottom: 16px; }
.vc-page { display: flex; align-items: center; gap: 8px; padding: 6px 0; font-size: 14px; cursor: pointer; }
.vc-page em { color: #667085; font-style: normal; font-size: 12px; margin-left: auto; }
</style>`))

// pickerScript wires the checkbox list to the shared selection. There is no
// vendor widget to load, so the pick-more button is hidden.
const pickerScript = `
document.getElementById('vc-pick-more').style.display = 'none';
Array.prototype.forEach.call(document.querySelectorAll('.vc-page-check'), function (box) {
  var file = {
    id: box.getAttribute('data-id'),
    name: box.getAttribute('data-name'),
    parentType: box.getAttribute('data-parent-type'),
    webUrl: box.getAttribute('data-url')
  };
  if ((vcBoot.preSelected || []).some(function (f) { return f.id === file.id; })) {
    box.checked = true;
  }
  box.addEventListener('change', function () {
    if (box.checked) { VC.addFiles([file]); } else { VC.removeFile(file.id); }
  });
});
`

// RenderPicker builds the Notion picker page for one attempt, fetching the
// visible pages server-side first.
func (c *Connector) RenderPicker(
	ctx context.Context, cfg domain.OAuthConfig, token *domain.OAuthToken, params connectors.PickerParams,
) (string, error) {
	if _, err := notionConfig(cfg); err != nil {
		return "", err
	}
	if token == nil || token.AccessToken == "" {
		return "", domain.NewPickerError("notion picker requires an access token", nil)
	}

	pages, err := c.ListPages(ctx, token.AccessToken)
	if err != nil {
		return "", domain.NewPickerError("list notion pages", err)
	}

	var body strings.Builder
	if err := pageListTemplate.Execute(&body, pages); err != nil {
		return "", domain.NewPickerError("render notion page list", err)
	}

	page := connectors.PickerPage{
		Title:   "Select Notion Pages",
		Heading: "Select Notion pages",
		Boot: connectors.PickerBoot{
			Provider:    domain.ProviderNotion.String(),
			AttemptID:   params.AttemptID,
			CompleteURL: params.CompleteURL,
			Kind:        string(params.Kind),
			AccessToken: token.AccessToken,
			PreSelected: params.PreSelected,
		},
		BodyHTML:       template.HTML(body.String()),
		ProviderScript: pickerScript,
	}
	return page.Render()
}
