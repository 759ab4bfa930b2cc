package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docbridge/internal/core/domain"
)

func TestEnvTokenProvider(t *testing.T) {
	t.Setenv("DOCBRIDGE_TEST_TOKEN", "  pk_123\n")
	p := NewEnvTokenProvider("DOCBRIDGE_TEST_TOKEN")

	token, err := p.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pk_123", token)
	assert.Equal(t, "$DOCBRIDGE_TEST_TOKEN", p.Name())
}

func TestEnvTokenProvider_Missing(t *testing.T) {
	t.Setenv("DOCBRIDGE_TEST_TOKEN", "")

	_, err := NewEnvTokenProvider("DOCBRIDGE_TEST_TOKEN").GetToken(context.Background())
	assert.ErrorIs(t, err, domain.ErrCredentialMissing)
}

func TestCommandTokenProvider(t *testing.T) {
	p := NewCommandTokenProvider("sh", "-c", "printf 'pk_456\\n'")

	token, err := p.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pk_456", token)
}

func TestCommandTokenProvider_Failures(t *testing.T) {
	tests := map[string]*CommandTokenProvider{
		"missing binary": NewCommandTokenProvider("docbridge-no-such-binary"),
		"non-zero exit":  NewCommandTokenProvider("sh", "-c", "echo locked >&2; exit 1"),
		"empty output":   NewCommandTokenProvider("sh", "-c", "true"),
	}
	for name, p := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := p.GetToken(context.Background())
			assert.ErrorIs(t, err, domain.ErrCredentialMissing)
		})
	}
}

func TestCommandTokenProvider_Timeout(t *testing.T) {
	p := NewCommandTokenProvider("sh", "-c", "exec sleep 5").WithTimeout(50 * time.Millisecond)

	start := time.Now()
	_, err := p.GetToken(context.Background())

	assert.ErrorIs(t, err, domain.ErrCredentialMissing)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestCommandTokenProvider_DefaultTimeout(t *testing.T) {
	assert.Equal(t, 15*time.Second, NewOnePasswordTokenProvider(ClickUpTokenReference).timeout)
}

func TestOnePasswordTokenProvider_Name(t *testing.T) {
	p := NewOnePasswordTokenProvider(ClickUpTokenReference)
	assert.Equal(t, "op read op://Private/ClickUp API Token/credential --no-newline", p.Name())
}

type countingProvider struct {
	token string
	calls int
}

func (c *countingProvider) GetToken(context.Context) (string, error) {
	c.calls++
	if c.token == "" {
		return "", domain.ErrCredentialMissing
	}
	return c.token, nil
}

func (c *countingProvider) Name() string { return "counting" }

func TestChainTokenProvider_FirstSuccessCached(t *testing.T) {
	empty := &countingProvider{}
	full := &countingProvider{token: "pk_789"}
	chain := NewChainTokenProvider(empty, full)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		token, err := chain.GetToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "pk_789", token)
	}
	assert.Equal(t, 1, empty.calls)
	assert.Equal(t, 1, full.calls)
}

func TestChainTokenProvider_AllFail(t *testing.T) {
	chain := NewChainTokenProvider(&countingProvider{}, &countingProvider{})

	_, err := chain.GetToken(context.Background())
	assert.ErrorIs(t, err, domain.ErrCredentialMissing)

	_, err = NewChainTokenProvider().GetToken(context.Background())
	assert.ErrorIs(t, err, domain.ErrCredentialMissing)
}
