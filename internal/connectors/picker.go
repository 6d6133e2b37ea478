package connectors

import (
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
)

// PickerBoot is the per-attempt data injected into the picker page script.
// html/template JSON-encodes it inside the script context, so token values
// never appear in markup unescaped.
type PickerBoot struct {
	Provider     string                `json:"provider"`
	AttemptID    string                `json:"attemptId"`
	CompleteURL  string                `json:"completeUrl"`
	Kind         string                `json:"kind"`
	AccessToken  string                `json:"accessToken"`
	RefreshToken string                `json:"refreshToken,omitempty"`
	APIKey       string                `json:"apiKey,omitempty"`
	AppKey       string                `json:"appKey,omitempty"`
	PreSelected  []domain.SelectedFile `json:"preSelected"`
}

// PickerPage assembles a provider picker document from shared scaffolding
// plus provider-specific body markup and script.
type PickerPage struct {
	Title          string
	Heading        string
	Boot           PickerBoot
	BodyHTML       template.HTML
	ProviderScript template.JS
}

var pickerTemplate = template.Must(template.New("picker").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; margin: 0; padding: 24px; background: #f5f6f8; color: #1f2430; }
h1 { font-size: 20px; margin: 0 0 4px; }
.hint { color: #667085; font-size: 13px; margin-bottom: 16px; }
#vc-status { font-size: 13px; color: #667085; min-height: 18px; margin-bottom: 8px; }
#vc-status.error { color: #b42318; }
#vc-selection { list-style: none; padding: 0; margin: 0 0 16px; }
#vc-selection li { display: flex; justify-content: space-between; align-items: center; background: #fff; border: 1px solid #e4e7ec; border-radius: 8px; padding: 8px 12px; margin-bottom: 6px; font-size: 14px; }
#vc-selection button { border: none; background: none; color: #b42318; cursor: pointer; font-size: 13px; }
.vc-actions button { background: #444ce7; color: #fff; border: none; border-radius: 8px; padding: 10px 18px; font-size: 14px; cursor: pointer; }
.vc-actions button:disabled { background: #c7c9f4; cursor: default; }
.vc-actions button.secondary { background: #fff; color: #1f2430; border: 1px solid #e4e7ec; margin-right: 8px; }
</style>
</head>
<body>
<h1>{{.Heading}}</h1>
<p class="hint">Pick the items to ingest, then click Finish Selection.</p>
<div id="vc-status"></div>
{{.BodyHTML}}
<ul id="vc-selection"></ul>
<div class="vc-actions">
<button type="button" class="secondary" id="vc-pick-more">Select More</button>
<button type="button" id="vc-finish" disabled>Finish Selection</button>
</div>
<script>var vcBoot = {{.Boot}};</script>
<script>{{.SharedScript}}</script>
<script>{{.ProviderScript}}</script>
</body>
</html>`))

// sharedPickerScript maintains the deduplicated selection, posts the
// completion envelope and handles vendor script loading with a timeout.
const sharedPickerScript = template.JS(`
var VC = (function () {
  var selected = [];
  var byId = {};
  var finished = false;

  function render() {
    var list = document.getElementById('vc-selection');
    list.innerHTML = '';
    selected.forEach(function (f) {
      var li = document.createElement('li');
      var span = document.createElement('span');
      span.textContent = f.name || f.id;
      var btn = document.createElement('button');
      btn.type = 'button';
      btn.textContent = 'Remove';
      btn.addEventListener('click', function () { VC.removeFile(f.id); });
      li.appendChild(span);
      li.appendChild(btn);
      list.appendChild(li);
    });
    document.getElementById('vc-finish').disabled = selected.length === 0;
  }

  function post(envelope) {
    var done = fetch(vcBoot.completeUrl, {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify(envelope)
    }).catch(function () {});
    if (window.opener) {
      try { window.opener.postMessage(envelope, '*'); } catch (e) {}
    }
    return done;
  }

  return {
    addFiles: function (files) {
      (files || []).forEach(function (f) {
        if (!f || !f.id || byId[f.id]) { return; }
        byId[f.id] = true;
        selected.push(f);
      });
      render();
    },
    removeFile: function (id) {
      if (!byId[id]) { return; }
      delete byId[id];
      selected = selected.filter(function (f) { return f.id !== id; });
      render();
    },
    selection: function () { return selected.slice(); },
    status: function (msg, isError) {
      var el = document.getElementById('vc-status');
      el.textContent = msg || '';
      el.className = isError ? 'error' : '';
    },
    finish: function () {
      if (finished || selected.length === 0) { return; }
      finished = true;
      var selectionPayload = { provider: vcBoot.provider, files: selected };
      if (vcBoot.refreshToken) { selectionPayload.refreshToken = vcBoot.refreshToken; }
      else { selectionPayload.accessToken = vcBoot.accessToken; }
      post({ kind: vcBoot.kind, attemptId: vcBoot.attemptId, selection: selectionPayload })
        .then(function () { window.close(); });
    },
    fail: function (code, message) {
      if (finished) { return; }
      finished = true;
      VC.status(message, true);
      post({
        kind: 'vectorize-connect-error',
        attemptId: vcBoot.attemptId,
        error: { code: code, message: message }
      }).then(function () { setTimeout(function () { window.close(); }, 3000); });
    },
    loadVendor: function (src, markerId, attrs, onReady) {
      if (document.getElementById(markerId)) { onReady(); return; }
      var script = document.createElement('script');
      script.id = markerId;
      script.src = src;
      Object.keys(attrs || {}).forEach(function (k) { script.setAttribute(k, attrs[k]); });
      var timer = setTimeout(function () {
        VC.fail('PICKER_ERROR', 'picker script failed to load within 10s');
      }, 10000);
      script.onload = function () { clearTimeout(timer); onReady(); };
      script.onerror = function () {
        clearTimeout(timer);
        VC.fail('PICKER_ERROR', 'picker script failed to load');
      };
      document.head.appendChild(script);
    }
  };
})();
document.getElementById('vc-finish').addEventListener('click', function () { VC.finish(); });
VC.addFiles(vcBoot.preSelected || []);
`)

// Render wraps the provider's body and script in the shared picker
// scaffolding.
func (p PickerPage) Render() (string, error) {
	data := struct {
		PickerPage
		SharedScript template.JS
	}{PickerPage: p, SharedScript: sharedPickerScript}

	var b strings.Builder
	if err := pickerTemplate.Execute(&b, data); err != nil {
		return "", domain.NewPickerError("render picker page", err)
	}
	return b.String(), nil
}

var errorPageTemplate = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Connection Failed</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0; background: #f5f6f8; }
.card { text-align: center; background: #fff; padding: 40px 60px; border-radius: 16px; border: 1px solid #e4e7ec; }
h1 { color: #b42318; font-size: 20px; margin: 0 0 8px; }
p { color: #667085; font-size: 14px; margin: 0; }
</style>
</head>
<body>
<div class="card">
<h1>Connection failed</h1>
<p>{{.Message}}</p>
<p>This window will close automatically.</p>
</div>
<script>
var envelope = {{.Envelope}};
var completeUrl = {{.CompleteURL}};
fetch(completeUrl, {
  method: 'POST',
  headers: { 'Content-Type': 'application/json' },
  body: JSON.stringify(envelope)
}).catch(function () {});
if (window.opener) {
  try { window.opener.postMessage(envelope, '*'); } catch (e) {}
}
setTimeout(function () { window.close(); }, 3000);
</script>
</body>
</html>`))

// RenderErrorPage builds the document returned when a flow fails: it shows
// the failure, notifies the host through the completion endpoint and the
// opener, then closes. It never fails; template errors fall back to a
// minimal escaped page.
func RenderErrorPage(attemptID, completeURL string, cerr *domain.ConnectError) string {
	env := domain.NewErrorEnvelope(attemptID, cerr)
	var b strings.Builder
	err := errorPageTemplate.Execute(&b, struct {
		Message     string
		Envelope    domain.Envelope
		CompleteURL string
	}{Message: cerr.Message, Envelope: env, CompleteURL: completeURL})
	if err != nil {
		return fmt.Sprintf(
			"<!DOCTYPE html><html><body><h1>Connection failed</h1><p>%s</p></body></html>",
			html.EscapeString(cerr.Message),
		)
	}
	return b.String()
}
