package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docbridge/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docbridge/internal/core/domain"
	"github.com/custodia-labs/docbridge/internal/normalisers/markdown"
	"github.com/custodia-labs/docbridge/internal/core/ports/driving"
)

var testFolderParent = domain.Parent{ID: "folder-9", Type: domain.ParentFolder}

type repairFixture struct {
	catalog    *memory.SourceCatalog
	target     *memory.TargetStore
	runs       *memory.RunStore
	reconciler *Reconciler
}

func newRepairFixture(t *testing.T, known domain.KnownDuplicates) *repairFixture {
	t.Helper()
	f := &repairFixture{
		catalog: memory.NewSourceCatalog(),
		target:  memory.NewTargetStore(),
		runs:    memory.NewRunStore(),
	}
	f.reconciler = NewReconciler(f.catalog, f.target, nil, known, domain.DefaultContentLayout()).
		WithRunStore(f.runs)
	return f
}

func (f *repairFixture) seed(id, date string, pages ...domain.TargetPage) {
	f.target.Seed(domain.TargetDocument{
		ID:     id,
		Name:   "Daily Standup — " + date,
		Parent: testFolderParent,
	}, pages...)
}

func (f *repairFixture) page(t *testing.T, docID string, pos int) domain.TargetPage {
	t.Helper()
	doc, ok := f.target.Document(docID)
	require.True(t, ok)
	require.Greater(t, len(doc.Pages), pos)
	return doc.Pages[pos]
}

func repairOpts() driving.RepairOptions {
	return driving.RepairOptions{
		Parent: testFolderParent,
		Query:  domain.SourceQuery{ParentID: testFolder, NameFilter: "Daily Standup and Checkin"},
	}
}

func TestReconciler_PromotesSecondPage(t *testing.T) {
	f := newRepairFixture(t, nil)
	f.seed("d18", "2026-02-18",
		domain.TargetPage{ID: "p0"},
		domain.TargetPage{ID: "p1", Name: "Daily Standup — 2026-02-18", Content: "Standup notes from the team"},
	)
	ctx := context.Background()

	summary, err := f.reconciler.Reconcile(ctx, repairOpts())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Fixed)
	assert.Equal(t, 0, summary.Failed)
	assert.True(t, summary.Reports[0].Applied)

	p0 := f.page(t, "d18", 0)
	assert.Equal(t, "Standup notes from the team", p0.Content)
	assert.Equal(t, "Daily Standup — 2026-02-18", p0.Name)
	p1 := f.page(t, "d18", 1)
	assert.Equal(t, domain.NeutralizedPageName, p1.Name)
	assert.Equal(t, domain.NeutralizedPageContent, p1.Content)

	again, err := f.reconciler.Reconcile(ctx, repairOpts())
	require.NoError(t, err)
	assert.Equal(t, 0, again.Fixed)
	assert.Equal(t, 1, again.AlreadyOK)
	assert.Equal(t, domain.PageStateAlreadyOK, again.Reports[0].State)
}

func TestReconciler_RefillsFromSource(t *testing.T) {
	f := newRepairFixture(t, nil)
	f.seed("d12", "2026-02-12", domain.TargetPage{ID: "p0"}, domain.TargetPage{ID: "p1", Content: "   "})
	src := domain.SourceDocument{ID: "src-12", Name: "Daily Standup and Checkin - 2026/02/12", CreatedAt: standupAt(12)}
	f.catalog.Put(testFolder, src, "Carol: blocked on review")
	ctx := context.Background()

	opts := repairOpts()
	opts.Refill = true
	summary, err := f.reconciler.Reconcile(ctx, opts)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Refilled)
	assert.Equal(t, "src-12", summary.Reports[0].SourceID)
	want := domain.FormatContent(domain.DefaultContentLayout(), src.Name, src.CreatedAt, "Carol: blocked on review")
	p0 := f.page(t, "d12", 0)
	assert.Equal(t, want.Body, p0.Content)
	assert.Equal(t, want.Title, p0.Name)

	again, err := f.reconciler.Reconcile(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Refilled)
	assert.Equal(t, 1, again.AlreadyOK)
}

func TestReconciler_RefillWithoutSourceMatch(t *testing.T) {
	f := newRepairFixture(t, nil)
	f.seed("d13", "2026-02-13", domain.TargetPage{ID: "p0"})
	f.target.Seed(domain.TargetDocument{ID: "undated", Name: "Untitled", Parent: testFolderParent}, domain.TargetPage{ID: "p0"})

	opts := repairOpts()
	opts.Refill = true
	summary, err := f.reconciler.Reconcile(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Failed)
	for _, r := range summary.Reports {
		assert.Equal(t, domain.PageStateFailed, r.State)
		assert.ErrorIs(t, r.Err, domain.ErrNoSourceMatch)
		assert.Equal(t, domain.FailureNoSourceMatch, r.Kind)
	}
}

func TestReconciler_ManualRefillWhenRefillOff(t *testing.T) {
	f := newRepairFixture(t, nil)
	f.seed("d14", "2026-02-14", domain.TargetPage{ID: "p0"}, domain.TargetPage{ID: "p1"})

	summary, err := f.reconciler.Reconcile(context.Background(), repairOpts())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.NeedsManual)
	assert.Equal(t, domain.PageStateNeedsManualRefill, summary.Reports[0].State)
	assert.Equal(t, 0, f.target.Mutations())
	assert.Equal(t, 0, f.catalog.Exports())
}

func TestReconciler_DryRunSuppressesMutations(t *testing.T) {
	f := newRepairFixture(t, nil)
	f.seed("d18", "2026-02-18", domain.TargetPage{ID: "p0"}, domain.TargetPage{ID: "p1", Content: "notes"})
	f.seed("d12", "2026-02-12", domain.TargetPage{ID: "p0"})
	f.catalog.Put(testFolder, domain.SourceDocument{ID: "src-12", Name: "Daily Standup and Checkin", CreatedAt: standupAt(12)}, "x")

	opts := repairOpts()
	opts.DryRun = true
	opts.Refill = true
	summary, err := f.reconciler.Reconcile(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Fixed)
	assert.Equal(t, 1, summary.Refilled)
	for _, r := range summary.Reports {
		assert.False(t, r.Applied)
	}
	assert.Equal(t, 0, f.target.Mutations())
	assert.Equal(t, 0, f.catalog.Exports())
	assert.Empty(t, f.page(t, "d18", 0).Content)
}

func TestReconciler_ReportsDuplicateNames(t *testing.T) {
	f := newRepairFixture(t, nil)
	f.seed("a", "2026-02-17", domain.TargetPage{ID: "p0", Content: "ok"})
	f.seed("b", "2026-02-17", domain.TargetPage{ID: "p0"})
	f.seed("c", "2026-02-16", domain.TargetPage{ID: "p0", Content: "ok"})

	summary, err := f.reconciler.Reconcile(context.Background(), repairOpts())
	require.NoError(t, err)

	require.Len(t, summary.Duplicates, 1)
	assert.Equal(t, "Daily Standup — 2026-02-17", summary.Duplicates[0].Name)
	assert.Equal(t, []string{"a", "b"}, summary.Duplicates[0].DocumentIDs)
	assert.Equal(t, 3, summary.Total)
}

func TestReconciler_SkipsKnownDuplicates(t *testing.T) {
	known := domain.KnownDuplicates{
		{Date: "2026-02-18", PrimaryID: "primary", DuplicateID: "dupe"},
	}
	f := newRepairFixture(t, known)
	f.seed("primary", "2026-02-18", domain.TargetPage{ID: "p0"}, domain.TargetPage{ID: "p1", Content: "notes"})
	f.seed("dupe", "2026-02-18", domain.TargetPage{ID: "p0"}, domain.TargetPage{ID: "p1", Content: "notes"})

	summary, err := f.reconciler.Reconcile(context.Background(), repairOpts())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Fixed)
	assert.Equal(t, known, summary.KnownDupes)
	assert.Empty(t, f.page(t, "dupe", 0).Content)
	for _, call := range f.target.Calls() {
		assert.NotContains(t, call, ":dupe")
	}
}

func TestReconciler_NoPagesIsMalformed(t *testing.T) {
	f := newRepairFixture(t, nil)
	f.seed("empty", "2026-02-19")

	summary, err := f.reconciler.Reconcile(context.Background(), repairOpts())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, domain.FailureMalformedResponse, summary.Reports[0].Kind)
}

func TestReconciler_FailureIsIsolated(t *testing.T) {
	f := newRepairFixture(t, nil)
	f.seed("d1", "2026-02-10", domain.TargetPage{ID: "p0"}, domain.TargetPage{ID: "p1", Content: "a"})
	f.seed("d2", "2026-02-11", domain.TargetPage{ID: "p0"}, domain.TargetPage{ID: "p1", Content: "b"})
	f.target.SetFault(func(op, key string) error {
		if op == memory.OpReplacePage && key == "d1" {
			return domain.ErrUpstreamUnavailable
		}
		return nil
	})

	var handled []string
	opts := repairOpts()
	opts.OnDocument = func(r domain.DocumentReport) { handled = append(handled, r.Document.ID) }
	summary, err := f.reconciler.Reconcile(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"d1", "d2"}, handled)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Fixed)
	assert.Equal(t, domain.FailureUpstreamUnavailable, summary.Failures()[0].Kind)
	assert.Equal(t, "b", f.page(t, "d2", 0).Content)
	assert.Equal(t, "a", f.page(t, "d1", 1).Content)
}

func TestReconciler_Convergence(t *testing.T) {
	f := newRepairFixture(t, nil)
	f.seed("ok", "2026-02-09", domain.TargetPage{ID: "p0", Content: "fine"})
	f.seed("promote", "2026-02-10", domain.TargetPage{ID: "p0"}, domain.TargetPage{ID: "p1", Content: "moved"})
	f.seed("refill", "2026-02-11", domain.TargetPage{ID: "p0"})
	f.catalog.Put(testFolder, domain.SourceDocument{ID: "src-11", Name: "Daily Standup and Checkin", CreatedAt: standupAt(11)}, "body")
	ctx := context.Background()

	opts := repairOpts()
	opts.Refill = true
	first, err := f.reconciler.Reconcile(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, first.AlreadyOK)
	assert.Equal(t, 1, first.Fixed)
	assert.Equal(t, 1, first.Refilled)
	mutations := f.target.Mutations()

	second, err := f.reconciler.Reconcile(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, 3, second.AlreadyOK)
	assert.Equal(t, mutations, f.target.Mutations())

	runs, err := f.runs.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestReconciler_ListFailureAborts(t *testing.T) {
	f := newRepairFixture(t, nil)
	f.target.SetFault(func(op, _ string) error {
		if op == memory.OpListDocuments {
			return domain.ErrUpstreamUnavailable
		}
		return nil
	})

	_, err := f.reconciler.Reconcile(context.Background(), repairOpts())
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

type strictInspector struct{}

func (strictInspector) HasVisibleText(content string) bool { return content == "visible" }

func TestReconciler_UsesInspector(t *testing.T) {
	f := newRepairFixture(t, nil)
	f.reconciler = NewReconciler(f.catalog, f.target, strictInspector{}, nil, domain.DefaultContentLayout())
	f.seed("d", "2026-02-10", domain.TargetPage{ID: "p0", Content: "<!-- -->"}, domain.TargetPage{ID: "p1", Content: "visible"})

	summary, err := f.reconciler.Reconcile(context.Background(), repairOpts())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Fixed)
}

func TestReconciler_MarkdownInspectorKeepsOperatorContent(t *testing.T) {
	tests := []struct {
		name  string
		page0 string
		page1 string
		want  domain.PageState
	}{
		{name: "html page 0", page0: "<p>Alice shipped the importer</p>", page1: "Standup notes...", want: domain.PageStateAlreadyOK},
		{name: "image page 0", page0: "![](https://img.example/whiteboard.png)", page1: "Standup notes...", want: domain.PageStateAlreadyOK},
		{name: "html page 1", page0: "", page1: "<div>Standup notes</div>", want: domain.PageStateNeedsPromotion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRepairFixture(t, nil)
			f.reconciler = NewReconciler(f.catalog, f.target, markdown.New(), nil, domain.DefaultContentLayout())
			f.seed("d", "2026-02-10",
				domain.TargetPage{ID: "p0", Content: tt.page0},
				domain.TargetPage{ID: "p1", Content: tt.page1},
			)

			summary, err := f.reconciler.Reconcile(context.Background(), repairOpts())
			require.NoError(t, err)
			require.Len(t, summary.Reports, 1)
			assert.Equal(t, tt.want, summary.Reports[0].State)

			if tt.want == domain.PageStateAlreadyOK {
				assert.Equal(t, tt.page0, f.page(t, "d", 0).Content)
			} else {
				assert.Equal(t, tt.page1, f.page(t, "d", 0).Content)
			}
		})
	}
}
