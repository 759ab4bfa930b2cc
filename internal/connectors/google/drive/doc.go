// Package drive implements the source catalog over the Google Drive v3 API.
//
// Candidates are Google Docs directly inside one folder whose name contains a
// filter string, ordered by creation time. Bodies are exported as plain text.
// The catalog never writes to Drive.
package drive
