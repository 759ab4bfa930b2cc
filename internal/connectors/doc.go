// Package connectors holds the clients for the systems docbridge reads from
// and writes to: Google Drive as the source and ClickUp Docs as the target.
package connectors
