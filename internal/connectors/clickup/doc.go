// Package clickup writes migrated documents to ClickUp Docs through the
// v3 REST API.
//
// Every request waits on a fixed-interval pacer first. Failures are
// returned as *APIError values wrapping domain.ErrUpstreamUnavailable and
// are never retried.
package clickup
