// Package notion implements the Notion connector. Notion has no vendor
// picker widget, so the picker page is rendered server-side from the Notion
// search API. Notion issues non-expiring access tokens and no refresh token.
package notion
