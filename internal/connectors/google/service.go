package google

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// ServiceOptions configures a Drive API client.
type ServiceOptions struct {
	// TokenSource authenticates requests. Ignored when HTTPClient is set.
	TokenSource oauth2.TokenSource

	// QuotaProject is billed for the calls when set.
	QuotaProject string

	// HTTPClient and Endpoint override the transport, for tests.
	HTTPClient *http.Client
	Endpoint   string
}

// NewDriveService creates a Google Drive API service.
func NewDriveService(ctx context.Context, opts ServiceOptions) (*drive.Service, error) {
	var clientOpts []option.ClientOption
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(opts.HTTPClient))
	} else if opts.TokenSource != nil {
		clientOpts = append(clientOpts, option.WithTokenSource(opts.TokenSource))
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}
	if opts.QuotaProject != "" {
		clientOpts = append(clientOpts, option.WithQuotaProject(opts.QuotaProject))
	}
	return drive.NewService(ctx, clientOpts...)
}
