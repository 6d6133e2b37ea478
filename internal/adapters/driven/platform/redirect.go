package platform

import (
	"fmt"
	"html"
	"html/template"
	"net/url"
	"regexp"
	"strings"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
)

// vectorizeOriginPattern matches the hosted platform origins trusted for
// completion messages: vectorize.io and its subdomains.
var vectorizeOriginPattern = regexp.MustCompile(`(^|\.)vectorize\.io$`)

// ConnectURL builds the managed-platform URL for a first-time connect flow.
// The one-time token authorizes the iframe session.
func ConnectURL(platformURL, oneTimeToken, organizationID string) (string, error) {
	return managedURL(platformURL, "connect", oneTimeToken, organizationID)
}

// EditURL builds the managed-platform URL for editing an existing user's
// selection.
func EditURL(platformURL, oneTimeToken, organizationID string) (string, error) {
	return managedURL(platformURL, "edit", oneTimeToken, organizationID)
}

func managedURL(platformURL, page, oneTimeToken, organizationID string) (string, error) {
	if platformURL == "" {
		return "", domain.NewConfigurationError("missing required field: platformUrl").
			WithDetail("field", "platformUrl")
	}
	if oneTimeToken == "" {
		return "", domain.NewConfigurationError("missing required field: oneTimeToken").
			WithDetail("field", "oneTimeToken")
	}
	base, err := url.Parse(platformURL)
	if err != nil {
		return "", domain.NewConfigurationError("invalid platform URL: %v", err)
	}

	base.Path = strings.TrimSuffix(base.Path, "/") + "/widget/" + page
	q := base.Query()
	q.Set("token", oneTimeToken)
	q.Set("organizationId", organizationID)
	base.RawQuery = q.Encode()
	return base.String(), nil
}

// OriginAllowed reports whether a postMessage origin may deliver completion
// envelopes: the hosted platform's own origin, or vectorize.io and its
// subdomains. Everything else is ignored.
func OriginAllowed(origin, platformURL string) bool {
	o, err := url.Parse(origin)
	if err != nil || o.Hostname() == "" {
		return false
	}
	if vectorizeOriginPattern.MatchString(o.Hostname()) {
		return true
	}
	p, err := url.Parse(platformURL)
	if err != nil || p.Hostname() == "" {
		return false
	}
	return strings.EqualFold(o.Hostname(), p.Hostname()) && o.Scheme == p.Scheme
}

// RedirectPage is the input to the iframe host page.
type RedirectPage struct {
	// IframeURL is the managed-platform URL to embed.
	IframeURL string
	// CompleteURL is the host endpoint receiving the completion envelope.
	CompleteURL string
	// AttemptID correlates the completion envelope to the pending attempt.
	AttemptID string
	// AllowedOrigin is the platform origin trusted for messages, in addition
	// to the vectorize.io pattern.
	AllowedOrigin string
}

var redirectTemplate = template.Must(template.New("redirect").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Connect Your Account</title>
<style>
html, body { height: 100%; margin: 0; }
iframe { border: none; width: 100%; height: 100%; }
</style>
</head>
<body>
<iframe src="{{.IframeURL}}" allow="clipboard-write"></iframe>
<script>
var vcRedirect = {
  completeUrl: {{.CompleteURL}},
  attemptId: {{.AttemptID}},
  allowedOrigin: {{.AllowedOrigin}}
};
var originPattern = /(^|\.)vectorize\.io$/;
function originAllowed(origin) {
  try {
    var host = new URL(origin).hostname;
    if (originPattern.test(host)) { return true; }
    return vcRedirect.allowedOrigin !== '' && origin === vcRedirect.allowedOrigin;
  } catch (e) { return false; }
}
window.addEventListener('message', function (event) {
  if (!originAllowed(event.origin)) { return; }
  var data = event.data || {};
  if (data.kind !== 'vectorize-connect-complete' &&
      data.kind !== 'vectorize-edit-complete' &&
      data.kind !== 'vectorize-connect-error' &&
      data.kind !== 'vectorize-connect-cancelled') {
    return;
  }
  data.attemptId = vcRedirect.attemptId;
  fetch(vcRedirect.completeUrl, {
    method: 'POST',
    headers: { 'Content-Type': 'application/json' },
    body: JSON.stringify(data)
  }).catch(function () {}).then(function () { window.close(); });
});
</script>
</body>
</html>`))

// RenderRedirectPage builds the document that hosts the managed-flow iframe
// and forwards its completion message to the host endpoint. It never fails;
// template errors fall back to a minimal escaped page.
func RenderRedirectPage(p RedirectPage) string {
	var b strings.Builder
	if err := redirectTemplate.Execute(&b, p); err != nil {
		return fmt.Sprintf(
			"<!DOCTYPE html><html><body><p>Unable to open the connect flow.</p><p>%s</p></body></html>",
			html.EscapeString(p.IframeURL),
		)
	}
	return b.String()
}
