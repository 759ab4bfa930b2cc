package domain

import "time"

// RunKind identifies which entry point produced a run record.
type RunKind string

// Run kinds.
const (
	RunKindMigrate RunKind = "migrate"
	RunKindRepair  RunKind = "repair"
)

// RunRecord is the persisted history entry of one invocation.
type RunRecord struct {
	ID         string
	Kind       RunKind
	DryRun     bool
	StartedAt  time.Time
	FinishedAt time.Time

	// Counters holds the run-end summary, e.g. created/skipped/failed.
	Counters map[string]int
}

// TargetMapping records which target document a source document was written to.
// The ledger alone cannot answer that; without a mapping, recovery depends on
// title matching, which is not guaranteed collision free.
type TargetMapping struct {
	SourceID   string
	TargetID   string
	Title      string
	RecordedAt time.Time
}
