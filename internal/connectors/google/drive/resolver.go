package drive

// ResolveWebURL returns the Docs editor URL for a Google Doc ID.
func ResolveWebURL(fileID string) string {
	if fileID == "" {
		return ""
	}
	return "https://docs.google.com/document/d/" + fileID + "/edit"
}
