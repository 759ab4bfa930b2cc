package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"

	"github.com/custodia-labs/docbridge/internal/core/domain"
)

// DefaultCredentialsFile is where gcloud writes application default credentials,
// relative to the user's home directory.
var DefaultCredentialsFile = filepath.Join(".config", "gcloud", "application_default_credentials.json")

// Credentials selects the Google credentials to use.
type Credentials struct {
	// File is an ADC or service account JSON file. Empty uses the gcloud
	// ADC file, then the library's default lookup.
	File string
}

// NewTokenSource loads credentials scoped to read-only Drive access.
// Any failure wraps domain.ErrCredentialMissing.
func NewTokenSource(ctx context.Context, creds Credentials) (oauth2.TokenSource, error) {
	path := creds.File
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			candidate := filepath.Join(home, DefaultCredentialsFile)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}

	if path == "" {
		found, err := googleoauth.FindDefaultCredentials(ctx, drive.DriveReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("%w: google application default credentials: %w", domain.ErrCredentialMissing, err)
		}
		return found.TokenSource, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found; run 'gcloud auth application-default login'",
				domain.ErrCredentialMissing, path)
		}
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrCredentialMissing, path, err)
	}
	parsed, err := googleoauth.CredentialsFromJSON(ctx, data, drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", domain.ErrCredentialMissing, path, err)
	}
	return parsed.TokenSource, nil
}
