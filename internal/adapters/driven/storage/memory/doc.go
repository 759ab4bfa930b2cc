// Package memory provides in-memory implementations of the driven ports.
// They back the dry-run paths of the CLI and serve as fakes in service tests.
package memory
