package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/docbridge/internal/core/domain"
	"github.com/custodia-labs/docbridge/internal/core/ports/driven"
	"github.com/custodia-labs/docbridge/internal/logger"
)

// ClickUp token sources, tried in order.
const (
	ClickUpTokenEnv       = "CLICKUP_API_TOKEN"
	ClickUpTokenReference = "op://Private/ClickUp API Token/credential"
)

// Ensure ChainTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*ChainTokenProvider)(nil)

// ChainTokenProvider tries each provider in turn and caches the first token.
type ChainTokenProvider struct {
	providers []driven.TokenProvider

	mu    sync.Mutex
	token string
}

// NewChainTokenProvider creates a chain over providers.
func NewChainTokenProvider(providers ...driven.TokenProvider) *ChainTokenProvider {
	return &ChainTokenProvider{providers: providers}
}

// NewClickUpTokenProvider reads $CLICKUP_API_TOKEN, falling back to 1Password.
func NewClickUpTokenProvider() *ChainTokenProvider {
	return NewChainTokenProvider(
		NewEnvTokenProvider(ClickUpTokenEnv),
		NewOnePasswordTokenProvider(ClickUpTokenReference),
	)
}

// GetToken returns the cached token or the first token a provider yields.
func (c *ChainTokenProvider) GetToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}

	var errs []error
	for _, p := range c.providers {
		token, err := p.GetToken(ctx)
		if err == nil {
			logger.Debug("Token read from %s", p.Name())
			c.token = token
			return token, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", fmt.Errorf("%w: no token sources configured", domain.ErrCredentialMissing)
	}
	return "", fmt.Errorf("%w: tried %s: %w", domain.ErrCredentialMissing, c.Name(), errors.Join(errs...))
}

// Name lists the chained providers.
func (c *ChainTokenProvider) Name() string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return strings.Join(names, ", ")
}
