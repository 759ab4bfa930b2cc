// Package auth provides driven.TokenProvider implementations for the
// target store's personal API token.
//
// Providers:
//   - EnvTokenProvider: reads an environment variable
//   - CommandTokenProvider: runs a secret manager CLI such as 1Password's op
//   - ChainTokenProvider: first provider that yields a token wins
package auth
