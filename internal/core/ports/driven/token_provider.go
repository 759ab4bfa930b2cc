package driven

import "context"

// TokenProvider provides access tokens for authenticated API calls.
type TokenProvider interface {
	// GetToken returns a token, or an error wrapping
	// domain.ErrCredentialMissing when none can be found.
	GetToken(ctx context.Context) (string, error)

	// Name describes where the token comes from, for display.
	Name() string
}
