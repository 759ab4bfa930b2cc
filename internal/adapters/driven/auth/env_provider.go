package auth

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/custodia-labs/docbridge/internal/core/domain"
	"github.com/custodia-labs/docbridge/internal/core/ports/driven"
)

// Ensure EnvTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*EnvTokenProvider)(nil)

// EnvTokenProvider reads a token from an environment variable.
type EnvTokenProvider struct {
	variable string
}

// NewEnvTokenProvider creates a provider reading variable.
func NewEnvTokenProvider(variable string) *EnvTokenProvider {
	return &EnvTokenProvider{variable: variable}
}

// GetToken returns the variable's value.
func (p *EnvTokenProvider) GetToken(_ context.Context) (string, error) {
	token := strings.TrimSpace(os.Getenv(p.variable))
	if token == "" {
		return "", fmt.Errorf("%w: $%s is not set", domain.ErrCredentialMissing, p.variable)
	}
	return token, nil
}

// Name returns the variable name.
func (p *EnvTokenProvider) Name() string {
	return "$" + p.variable
}
