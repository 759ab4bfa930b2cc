package domain

import (
	"sort"
	"strings"
)

// PageState is the repair classification of one target document.
type PageState string

// Repair classifications.
const (
	// PageStateAlreadyOK means page 0 holds content. This is the end state.
	PageStateAlreadyOK PageState = "already_ok"

	// PageStateNeedsPromotion means page 0 is empty and page 1 holds content.
	PageStateNeedsPromotion PageState = "needs_promotion"

	// PageStateNeedsManualRefill means no page holds content and refill is off.
	PageStateNeedsManualRefill PageState = "needs_manual_refill"

	// PageStateNeedsRefill means no page holds content and refill is on.
	PageStateNeedsRefill PageState = "needs_refill"

	// PageStateSkipped means the document is a known duplicate.
	PageStateSkipped PageState = "skipped"

	// PageStateFailed means classification or remediation failed.
	PageStateFailed PageState = "failed"
)

// KnownDuplicate is an injected remediation record: for one date, the
// document to keep and the duplicate to leave untouched.
type KnownDuplicate struct {
	Date        string
	PrimaryID   string
	DuplicateID string
}

// KnownDuplicates is the static exclusion list handed to the reconciler.
type KnownDuplicates []KnownDuplicate

// IsDuplicate reports whether docID is listed as a duplicate.
func (k KnownDuplicates) IsDuplicate(docID string) bool {
	for _, d := range k {
		if d.DuplicateID == docID {
			return true
		}
	}
	return false
}

// SortedByDate returns a copy ordered by date.
func (k KnownDuplicates) SortedByDate() KnownDuplicates {
	out := make(KnownDuplicates, len(k))
	copy(out, k)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// DuplicateGroup lists target documents sharing an identical name.
type DuplicateGroup struct {
	Name        string
	DocumentIDs []string
}

// FindDuplicateGroups groups documents by exact name and returns every group
// with more than one member, ordered by name. Documents keep listing order.
func FindDuplicateGroups(docs []TargetDocument) []DuplicateGroup {
	byName := make(map[string][]string)
	for _, doc := range docs {
		byName[doc.Name] = append(byName[doc.Name], doc.ID)
	}

	var groups []DuplicateGroup
	for name, ids := range byName {
		if len(ids) > 1 {
			groups = append(groups, DuplicateGroup{Name: name, DocumentIDs: ids})
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups
}

// DocumentReport is the repair outcome for one target document.
type DocumentReport struct {
	Document TargetDocument
	State    PageState

	// Applied is false in dry-run mode or when no action was needed.
	Applied bool

	// SourceID is the source document used for a refill.
	SourceID string

	Err  error
	Kind FailureKind
}

// RepairSummary tabulates one reconciler run.
type RepairSummary struct {
	RunID  string
	DryRun bool

	// Total is the number of documents listed from the target store.
	Total int

	// Fixed counts promotions; in dry-run mode it counts would-fix.
	Fixed int

	// Refilled counts refills; in dry-run mode it counts would-refill.
	Refilled int

	AlreadyOK   int
	NeedsManual int
	Skipped     int
	Failed      int
	Duplicates  []DuplicateGroup
	KnownDupes  KnownDuplicates
	Reports     []DocumentReport
}

// Failures returns the reports that ended in PageStateFailed.
func (s *RepairSummary) Failures() []DocumentReport {
	var failed []DocumentReport
	for _, r := range s.Reports {
		if r.State == PageStateFailed {
			failed = append(failed, r)
		}
	}
	return failed
}

// HasVisibleText is the plain fallback used when no richer content
// inspection is available: content is empty when it is only whitespace.
func HasVisibleText(content string) bool {
	return strings.TrimSpace(content) != ""
}
