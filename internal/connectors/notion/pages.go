package notion

import (
	"context"
	"fmt"
	"strings"

	"github.com/jomei/notionapi"
	"golang.org/x/time/rate"

	"github.com/vectorize-io/vectorize-connect-sdk-sub001/internal/core/domain"
)

// Notion allows an average of 3 requests per second per integration.
var searchLimiter = rate.NewLimiter(rate.Limit(3), 3)

// maxPages caps how many items the picker lists.
const maxPages = 500

// searchPageSize is Notion's maximum page size.
const searchPageSize = 100

// Page is one shareable Notion object offered in the picker.
type Page struct {
	ID         string
	Title      string
	ParentType string
	URL        string
}

// pageSearcher is the slice of the Notion search API this connector needs.
type pageSearcher interface {
	Do(ctx context.Context, request *notionapi.SearchRequest) (*notionapi.SearchResponse, error)
}

// newSearchClient creates a Notion search API client. Overridable in tests.
var newSearchClient = func(accessToken string) pageSearcher {
	return notionapi.NewClient(notionapi.Token(accessToken)).Search
}

// ListPages returns the pages and databases the integration can see,
// paginating the search API under the rate limit.
func (c *Connector) ListPages(ctx context.Context, accessToken string) ([]Page, error) {
	search := newSearchClient(accessToken)

	var pages []Page
	var cursor notionapi.Cursor
	for {
		if err := searchLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := search.Do(ctx, &notionapi.SearchRequest{
			PageSize:    searchPageSize,
			StartCursor: cursor,
		})
		if err != nil {
			return nil, fmt.Errorf("notion search: %w", err)
		}

		for _, obj := range resp.Results {
			if p, ok := toPage(obj); ok {
				pages = append(pages, p)
			}
			if len(pages) >= maxPages {
				return pages, nil
			}
		}

		if !resp.HasMore || resp.NextCursor == "" {
			return pages, nil
		}
		cursor = resp.NextCursor
	}
}

// VerifySelection checks that each picked page is still visible to the
// integration. Returns IDs absent from the search results.
func (c *Connector) VerifySelection(
	ctx context.Context, token *domain.OAuthToken, selected []domain.SelectedFile,
) ([]string, error) {
	if len(selected) == 0 {
		return nil, nil
	}
	if token == nil || token.AccessToken == "" {
		return nil, domain.NewTokenError("selection verification requires an access token", nil)
	}

	pages, err := c.ListPages(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	visible := make(map[string]struct{}, len(pages))
	for _, p := range pages {
		visible[p.ID] = struct{}{}
	}

	var missing []string
	for _, f := range selected {
		if _, ok := visible[f.ID]; !ok {
			missing = append(missing, f.ID)
		}
	}
	return missing, nil
}

func toPage(obj notionapi.Object) (Page, bool) {
	switch v := obj.(type) {
	case *notionapi.Page:
		return Page{
			ID:         v.ID.String(),
			Title:      pageTitle(v),
			ParentType: string(v.Parent.Type),
			URL:        v.URL,
		}, true
	case *notionapi.Database:
		return Page{
			ID:         v.ID.String(),
			Title:      richText(v.Title),
			ParentType: "database",
			URL:        v.URL,
		}, true
	}
	return Page{}, false
}

// pageTitle extracts the title property. The property key varies for pages
// inside databases, so every property is inspected.
func pageTitle(p *notionapi.Page) string {
	for _, prop := range p.Properties {
		if tp, ok := prop.(*notionapi.TitleProperty); ok {
			if title := richText(tp.Title); title != "" {
				return title
			}
		}
	}
	return "Untitled"
}

func richText(parts []notionapi.RichText) string {
	var b strings.Builder
	for _, rt := range parts {
		b.WriteString(rt.PlainText)
	}
	return strings.TrimSpace(b.String())
}
