package auth

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/custodia-labs/docbridge/internal/core/domain"
	"github.com/custodia-labs/docbridge/internal/core/ports/driven"
)

// Ensure CommandTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*CommandTokenProvider)(nil)

// DefaultCommandTimeout bounds a credential command such as a locked
// 1Password prompt.
const DefaultCommandTimeout = 15 * time.Second

// CommandTokenProvider reads a token from the stdout of an external command.
type CommandTokenProvider struct {
	name    string
	args    []string
	timeout time.Duration
}

// NewCommandTokenProvider creates a provider running name with args.
func NewCommandTokenProvider(name string, args ...string) *CommandTokenProvider {
	return &CommandTokenProvider{name: name, args: args, timeout: DefaultCommandTimeout}
}

// WithTimeout overrides how long the command may run.
func (p *CommandTokenProvider) WithTimeout(d time.Duration) *CommandTokenProvider {
	p.timeout = d
	return p
}

// NewOnePasswordTokenProvider reads a secret reference with the 1Password CLI.
func NewOnePasswordTokenProvider(reference string) *CommandTokenProvider {
	return NewCommandTokenProvider("op", "read", reference, "--no-newline")
}

// GetToken runs the command and returns its trimmed stdout.
func (p *CommandTokenProvider) GetToken(ctx context.Context) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, p.name, p.args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if ctxErr := runCtx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%w: %s: %w", domain.ErrCredentialMissing, p.name, ctxErr)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%w: %s: %v: %s", domain.ErrCredentialMissing, p.name, err, msg)
		}
		return "", fmt.Errorf("%w: %s: %v", domain.ErrCredentialMissing, p.name, err)
	}

	token := strings.TrimSpace(stdout.String())
	if token == "" {
		return "", fmt.Errorf("%w: %s returned nothing", domain.ErrCredentialMissing, p.name)
	}
	return token, nil
}

// Name returns the command line.
func (p *CommandTokenProvider) Name() string {
	return strings.Join(append([]string{p.name}, p.args...), " ")
}
