package driven

// ContentInspector decides whether page content holds anything visible.
type ContentInspector interface {
	// HasVisibleText returns true if the content renders to non-whitespace text.
	HasVisibleText(content string) bool
}
