package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/docbridge/internal/connectors/google"
	"github.com/custodia-labs/docbridge/internal/core/domain"
	"github.com/custodia-labs/docbridge/internal/core/ports/driven"
	"github.com/custodia-labs/docbridge/internal/logger"
)

// Ensure Catalog implements the interface.
var _ driven.SourceCatalog = (*Catalog)(nil)

// requestTimeout bounds every Drive call.
const requestTimeout = 30 * time.Second

// Catalog lists and exports Google Docs from Drive.
type Catalog struct {
	svc         *drive.Service
	config      *Config
	rateLimiter *google.RateLimiter
}

// NewCatalog creates a catalog over a Drive service.
func NewCatalog(svc *drive.Service, cfg *Config) *Catalog {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Catalog{
		svc:         svc,
		config:      cfg,
		rateLimiter: google.NewRateLimiter(google.DefaultDriveRateLimit),
	}
}

// List returns every matching Google Doc, oldest first.
func (c *Catalog) List(ctx context.Context, query domain.SourceQuery) ([]domain.SourceDocument, error) {
	q := BuildQuery(query)
	logger.Debug("Drive query: %s", q)

	var docs []domain.SourceDocument
	pageToken := ""
	for {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := c.svc.Files.List().
			Q(q).
			OrderBy("createdTime").
			PageSize(c.config.PageSize).
			Fields(googleapi.Field(listFields))
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		resp, err := call.Context(reqCtx).Do()
		cancel()
		if err != nil {
			return nil, c.wrap(fmt.Errorf("list files: %w", err))
		}

		for _, f := range resp.Files {
			doc, err := toSourceDocument(f)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	logger.Debug("Drive returned %d documents", len(docs))
	return docs, nil
}

// ExportText exports a Google Doc as plain text.
func (c *Catalog) ExportText(ctx context.Context, id string) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", err
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.svc.Files.Export(id, ExportMimeText).Context(reqCtx).Download()
	if err != nil {
		return "", c.wrap(fmt.Errorf("export %s: %w", id, err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxExportSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: read export %s: %w", domain.ErrUpstreamUnavailable, id, err)
	}
	if len(data) > MaxExportSize {
		return "", fmt.Errorf("%w: export %s exceeds %d bytes", domain.ErrMalformedResponse, id, MaxExportSize)
	}
	return string(data), nil
}

// wrap maps err onto domain errors and starts a backoff window on 429.
func (c *Catalog) wrap(err error) error {
	if google.IsRateLimited(err) {
		c.rateLimiter.RecordRateLimitError(retryAfter(err))
	}
	return google.WrapError(err)
}

func retryAfter(err error) time.Duration {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return 0
	}
	secs, convErr := strconv.Atoi(gerr.Header.Get("Retry-After"))
	if convErr != nil {
		return 0
	}
	return time.Duration(secs) * time.Second
}
