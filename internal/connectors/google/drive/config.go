package drive

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/docbridge/internal/core/domain"
)

// Google Docs MIME type and its plain-text export format.
const (
	MimeTypeGoogleDoc = "application/vnd.google-apps.document"
	ExportMimeText    = "text/plain"
)

// MaxExportSize is the maximum size for exported content (5MB).
const MaxExportSize = 5 * 1024 * 1024

// listFields limits list responses to what the catalog reads.
const listFields = "nextPageToken, files(id, name, createdTime, modifiedTime)"

// Config holds Google Drive catalog configuration.
type Config struct {
	// PageSize is the page size for list requests.
	PageSize int64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{PageSize: 100}
}

// ConfigFromSettings builds a Config from source settings.
func ConfigFromSettings(s domain.SourceSettings) *Config {
	cfg := DefaultConfig()
	if s.PageSize > 0 {
		cfg.PageSize = int64(s.PageSize)
	}
	return cfg
}

// BuildQuery renders the files.list q parameter for a source query.
func BuildQuery(q domain.SourceQuery) string {
	clauses := []string{
		fmt.Sprintf("'%s' in parents", escape(q.ParentID)),
		fmt.Sprintf("mimeType='%s'", MimeTypeGoogleDoc),
	}
	if q.NameFilter != "" {
		clauses = append(clauses, fmt.Sprintf("name contains '%s'", escape(q.NameFilter)))
	}
	clauses = append(clauses, "trashed=false")
	return strings.Join(clauses, " and ")
}

// escape quotes a value for a Drive query string literal.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", `\'`)
}
