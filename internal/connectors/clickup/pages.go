package clickup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/custodia-labs/docbridge/internal/core/domain"
)

// contentFormatMarkdown is the page content format used for reads and writes.
const contentFormatMarkdown = "text/md"

type pageJSON struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

type editPageRequest struct {
	Name            string `json:"name"`
	Content         string `json:"content"`
	ContentFormat   string `json:"content_format"`
	ContentEditMode string `json:"content_edit_mode"`
}

// pageListing decodes either a bare page array or {"pages": [...]}.
type pageListing []pageJSON

func (l *pageListing) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		var pages []pageJSON
		if err := json.Unmarshal(trimmed, &pages); err != nil {
			return err
		}
		*l = pages
		return nil
	}

	var wrapped struct {
		Pages []pageJSON `json:"pages"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	*l = wrapped.Pages
	return nil
}

// ListPages returns the page listing of a document in display order.
// Position 0 is the default page.
func (c *Client) ListPages(ctx context.Context, documentID string) ([]domain.PageRef, error) {
	var listing pageListing
	if err := c.do(ctx, http.MethodGet, docPath(documentID, "page_listing"), nil, nil, &listing); err != nil {
		return nil, fmt.Errorf("list pages of %s: %w", documentID, err)
	}

	refs := make([]domain.PageRef, 0, len(listing))
	for i, p := range listing {
		if p.ID == "" {
			return nil, fmt.Errorf("%w: page %d of %s has no id", domain.ErrMalformedResponse, i, documentID)
		}
		refs = append(refs, domain.PageRef{ID: p.ID, Name: p.Name, Position: i})
	}
	return refs, nil
}

// ReadPage fetches a page with its markdown content.
func (c *Client) ReadPage(ctx context.Context, documentID, pageID string) (*domain.TargetPage, error) {
	query := url.Values{"content_format": {contentFormatMarkdown}}

	var page pageJSON
	if err := c.do(ctx, http.MethodGet, docPath(documentID, "pages", pageID), query, nil, &page); err != nil {
		return nil, fmt.Errorf("read page %s of %s: %w", pageID, documentID, err)
	}
	if page.ID == "" {
		page.ID = pageID
	}
	return &domain.TargetPage{ID: page.ID, Name: page.Name, Content: page.Content}, nil
}

// ReplacePage overwrites a page's name and content.
func (c *Client) ReplacePage(ctx context.Context, documentID, pageID, name, content string) error {
	payload := editPageRequest{
		Name:            name,
		Content:         content,
		ContentFormat:   contentFormatMarkdown,
		ContentEditMode: "replace",
	}
	if err := c.do(ctx, http.MethodPut, docPath(documentID, "pages", pageID), nil, payload, nil); err != nil {
		return fmt.Errorf("replace page %s of %s: %w", pageID, documentID, err)
	}
	return nil
}

// NeutralizePage overwrites a page with the duplicate marker. One-way.
func (c *Client) NeutralizePage(ctx context.Context, documentID, pageID string) error {
	return c.ReplacePage(ctx, documentID, pageID, domain.NeutralizedPageName, domain.NeutralizedPageContent)
}
