// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - SourceCatalog: Lists and exports documents from the source store
//   - TargetStore: Creates documents and reads/writes their pages
//   - LedgerStore: Progress ledger persistence
//   - ConfigStore: Application configuration
//   - TokenProvider: Target store credentials
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - MappingStore: Explicit source-to-target records. Without it, lookup relies on titles.
//   - RunStore: Run history. Without it, summaries are only printed.
//   - ContentInspector: Markdown-aware emptiness check. Without it, whitespace trimming is used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
