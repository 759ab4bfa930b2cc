package domain

import "fmt"

// WorkState is a step of the per-item migration state machine.
type WorkState string

// Migration states. Every item starts Pending and ends Recorded or Failed.
const (
	StatePending          WorkState = "pending"
	StateExported         WorkState = "exported"
	StateShellCreated     WorkState = "shell_created"
	StateDefaultPageFound WorkState = "default_page_found"
	StatePageWritten      WorkState = "page_written"
	StateRecorded         WorkState = "recorded"
	StateFailed           WorkState = "failed"
)

// nextState is the only legal forward transition out of each state.
var nextState = map[WorkState]WorkState{
	StatePending:          StateExported,
	StateExported:         StateShellCreated,
	StateShellCreated:     StateDefaultPageFound,
	StateDefaultPageFound: StatePageWritten,
	StatePageWritten:      StateRecorded,
}

// IsTerminal returns true for Recorded and Failed.
func (s WorkState) IsTerminal() bool {
	return s == StateRecorded || s == StateFailed
}

// WorkItem pairs a source document with its formatted content while it moves
// through one planner iteration. It is discarded once recorded or failed.
type WorkItem struct {
	Source  SourceDocument
	Content FormattedContent
	State   WorkState

	// TargetID is set once the shell has been created.
	TargetID string

	// DefaultPageID is set once the platform-seeded page has been found.
	DefaultPageID string

	// Err holds the failure cause when State is StateFailed.
	Err error

	// FailedIn is the state the item was in when it failed.
	FailedIn WorkState
}

// NewWorkItem creates a pending work item for a source document.
func NewWorkItem(source SourceDocument) *WorkItem {
	return &WorkItem{Source: source, State: StatePending}
}

// Advance moves the item to its successor state.
// Skipping a state, or advancing a terminal item, is an error.
func (w *WorkItem) Advance(to WorkState) error {
	if next, ok := nextState[w.State]; !ok || next != to {
		return fmt.Errorf("%w: transition %s -> %s", ErrInvalidInput, w.State, to)
	}
	w.State = to
	return nil
}

// Fail moves the item to StateFailed from any non-terminal state.
func (w *WorkItem) Fail(err error) {
	if w.State.IsTerminal() {
		return
	}
	w.FailedIn = w.State
	w.State = StateFailed
	w.Err = err
}

// Result snapshots the item for reporting.
func (w *WorkItem) Result() ItemResult {
	return ItemResult{
		Source:   w.Source,
		Title:    w.Content.Title,
		TargetID: w.TargetID,
		State:    w.State,
		FailedIn: w.FailedIn,
		Err:      w.Err,
		Kind:     ClassifyFailure(w.Err),
	}
}

// ItemResult is the outcome of one work item.
type ItemResult struct {
	Source   SourceDocument
	Title    string
	TargetID string
	State    WorkState
	FailedIn WorkState
	Err      error
	Kind     FailureKind
}

// MigrationPlan is the ordered work queue produced before any write.
type MigrationPlan struct {
	// Candidates is the number of source documents matching the query.
	Candidates int

	// Skipped is the number of candidates already in the ledger.
	Skipped int

	// Queue holds the remaining candidates in creation order.
	Queue []SourceDocument
}

// MigrationSummary tabulates one planner run.
type MigrationSummary struct {
	RunID   string
	DryRun  bool
	Plan    MigrationPlan
	Created int
	Skipped int
	Failed  int
	Results []ItemResult
}

// Failures returns the results that ended in StateFailed.
func (s *MigrationSummary) Failures() []ItemResult {
	var failed []ItemResult
	for _, r := range s.Results {
		if r.State == StateFailed {
			failed = append(failed, r)
		}
	}
	return failed
}
