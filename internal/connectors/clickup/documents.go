package clickup

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/custodia-labs/docbridge/internal/core/domain"
	"github.com/custodia-labs/docbridge/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.TargetStore = (*Client)(nil)

type parentJSON struct {
	ID   string `json:"id"`
	Type int    `json:"type"`
}

type docJSON struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Parent  parentJSON `json:"parent"`
	Deleted bool       `json:"deleted"`
}

type createDocRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	Parent      parentJSON `json:"parent"`
}

// createDocResponse accepts both a bare doc and one wrapped in "data".
type createDocResponse struct {
	ID   string   `json:"id"`
	Data *docJSON `json:"data"`
}

type listDocsResponse struct {
	Docs       []docJSON `json:"docs"`
	NextCursor string    `json:"next_cursor"`
}

// CreateShell creates a document and returns its ID. The platform ignores
// the submitted content and seeds one blank default page instead.
func (c *Client) CreateShell(ctx context.Context, req domain.ShellRequest) (string, error) {
	payload := createDocRequest{
		Name:        req.Title,
		Description: req.Summary,
		Content:     req.Body,
		Parent:      parentJSON{ID: req.Parent.ID, Type: int(req.Parent.Type)},
	}

	var resp createDocResponse
	if err := c.do(ctx, http.MethodPost, docPath(), nil, payload, &resp); err != nil {
		return "", fmt.Errorf("create doc %q: %w", req.Title, err)
	}

	id := resp.ID
	if resp.Data != nil && resp.Data.ID != "" {
		id = resp.Data.ID
	}
	if id == "" {
		return "", fmt.Errorf("%w: create doc %q: no id in response", domain.ErrMalformedResponse, req.Title)
	}
	return id, nil
}

// ListDocuments returns every live document under parent. The API may
// ignore the parent filter, so results are filtered again here.
func (c *Client) ListDocuments(ctx context.Context, parent domain.Parent) ([]domain.TargetDocument, error) {
	query := url.Values{
		"parent_id":   {parent.ID},
		"parent_type": {strconv.Itoa(int(parent.Type))},
	}

	var docs []domain.TargetDocument
	seen := make(map[string]bool)
	for {
		var resp listDocsResponse
		if err := c.do(ctx, http.MethodGet, docPath(), query, nil, &resp); err != nil {
			return nil, fmt.Errorf("list docs: %w", err)
		}

		for _, d := range resp.Docs {
			if d.Deleted || d.Parent.ID != parent.ID {
				continue
			}
			if d.ID == "" {
				return nil, fmt.Errorf("%w: list docs: document %q has no id", domain.ErrMalformedResponse, d.Name)
			}
			docs = append(docs, domain.TargetDocument{
				ID:     d.ID,
				Name:   d.Name,
				Parent: domain.Parent{ID: d.Parent.ID, Type: domain.ParentType(d.Parent.Type)},
			})
		}

		if resp.NextCursor == "" {
			break
		}
		if seen[resp.NextCursor] {
			return nil, fmt.Errorf("%w: list docs: cursor %q repeated", domain.ErrMalformedResponse, resp.NextCursor)
		}
		seen[resp.NextCursor] = true
		query.Set("cursor", resp.NextCursor)
	}
	return docs, nil
}
