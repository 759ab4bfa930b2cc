package clickup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/docbridge/internal/core/domain"
	"github.com/custodia-labs/docbridge/internal/core/ports/driven"
	"github.com/custodia-labs/docbridge/internal/logger"
)

const (
	// DefaultBaseURL is the ClickUp v3 API root.
	DefaultBaseURL = "https://api.clickup.com/api/v3"

	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 30 * time.Second

	// maxResponseSize caps how much of a response body is read.
	maxResponseSize = 10 * 1024 * 1024

	// maxErrorMessage caps raw bodies quoted in errors.
	maxErrorMessage = 300
)

// Options configures a Client.
type Options struct {
	// BaseURL is the API root. Empty uses DefaultBaseURL.
	BaseURL string

	// WorkspaceID scopes every request.
	WorkspaceID string

	// TokenProvider supplies the API token on first use.
	TokenProvider driven.TokenProvider

	// HTTPClient overrides the transport. Nil uses a client with DefaultTimeout.
	HTTPClient *http.Client

	// Interval is the minimum spacing between requests.
	Interval time.Duration
}

// Client is a ClickUp v3 docs API client.
type Client struct {
	baseURL string
	tokens  driven.TokenProvider
	http    *http.Client
	pacer   *Pacer

	mu    sync.Mutex
	token string
}

// NewClient creates a client for one workspace.
func NewClient(opts Options) (*Client, error) {
	if opts.WorkspaceID == "" {
		return nil, fmt.Errorf("%w: clickup workspace id is required", domain.ErrInvalidInput)
	}
	if opts.TokenProvider == nil {
		return nil, fmt.Errorf("%w: clickup token provider is required", domain.ErrInvalidInput)
	}

	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	return &Client{
		baseURL: strings.TrimRight(base, "/") + "/workspaces/" + url.PathEscape(opts.WorkspaceID),
		tokens:  opts.TokenProvider,
		http:    httpClient,
		pacer:   NewPacer(opts.Interval),
	}, nil
}

// ensureToken fetches the API token once.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}

	token, err := c.tokens.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("get clickup token: %w", err)
	}
	c.token = token
	return token, nil
}

// do sends one paced request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if err := c.pacer.Wait(ctx); err != nil {
		return err
	}

	token, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	reqCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.Debug("ClickUp %s %s", method, path)
	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Method: method, URL: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &APIError{Method: method, URL: path, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(method, path, resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %w", domain.ErrMalformedResponse, method, path, err)
	}
	return nil
}

func newAPIError(method, path string, status int, data []byte) *APIError {
	apiErr := &APIError{Method: method, URL: path, StatusCode: status}

	var env errorBody
	if json.Unmarshal(data, &env) == nil && env.Err != "" {
		apiErr.Message = env.Err
		apiErr.Code = env.ECode
		return apiErr
	}

	msg := strings.TrimSpace(string(data))
	if len(msg) > maxErrorMessage {
		msg = msg[:maxErrorMessage]
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	apiErr.Message = msg
	return apiErr
}

// docPath builds a path under /docs with escaped segments.
func docPath(segments ...string) string {
	var b strings.Builder
	b.WriteString("/docs")
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}
