// Package google provides shared infrastructure for the Google Drive source.
//
// This package contains:
//   - Application default credentials loading (the gcloud ADC file)
//   - A Drive service factory
//   - Error mapping from googleapi errors onto domain errors
//   - Rate limiting to respect Drive API quotas
//
// # Usage
//
//	ts, err := google.NewTokenSource(ctx, google.Credentials{})
//	svc, err := google.NewDriveService(ctx, google.ServiceOptions{TokenSource: ts})
//
// # OAuth2 Scopes
//
// Only https://www.googleapis.com/auth/drive.readonly is requested.
package google
