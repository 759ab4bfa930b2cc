package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docbridge/internal/core/domain"
	"github.com/custodia-labs/docbridge/internal/core/ports/driven"
	"github.com/custodia-labs/docbridge/internal/core/ports/driving"
	"github.com/custodia-labs/docbridge/internal/logger"
)

// Ensure Reconciler implements the interface.
var _ driving.Reconciler = (*Reconciler)(nil)

// Reconciler classifies target documents by where their content sits and
// moves it back onto the default page. Running it twice is a no-op.
type Reconciler struct {
	catalog   driven.SourceCatalog
	target    driven.TargetStore
	inspector driven.ContentInspector
	known     domain.KnownDuplicates
	layout    domain.ContentLayout
	runs      driven.RunStore
	now       func() time.Time
}

// NewReconciler creates a repair reconciler.
// A nil inspector falls back to a whitespace check. The catalog is only
// used when refill is requested.
func NewReconciler(
	catalog driven.SourceCatalog,
	target driven.TargetStore,
	inspector driven.ContentInspector,
	known domain.KnownDuplicates,
	layout domain.ContentLayout,
) *Reconciler {
	return &Reconciler{
		catalog:   catalog,
		target:    target,
		inspector: inspector,
		known:     known,
		layout:    layout,
		now:       time.Now,
	}
}

// WithRunStore enables run records.
func (r *Reconciler) WithRunStore(runs driven.RunStore) *Reconciler {
	r.runs = runs
	return r
}

// Reconcile repairs every document under opts.Parent.
func (r *Reconciler) Reconcile(ctx context.Context, opts driving.RepairOptions) (*domain.RepairSummary, error) {
	started := r.now()
	summary := &domain.RepairSummary{
		RunID:      uuid.NewString(),
		DryRun:     opts.DryRun,
		KnownDupes: r.known.SortedByDate(),
	}

	logger.Section("Repair")
	docs, err := r.target.ListDocuments(ctx, opts.Parent)
	if err != nil {
		return nil, fmt.Errorf("list target documents: %w", err)
	}
	summary.Total = len(docs)
	summary.Duplicates = domain.FindDuplicateGroups(docs)
	for _, g := range summary.Duplicates {
		logger.Warn("Duplicate name %q: %v", g.Name, g.DocumentIDs)
	}

	var index map[string][]domain.SourceDocument
	if opts.Refill {
		sources, err := r.catalog.List(ctx, opts.Query)
		if err != nil {
			return nil, fmt.Errorf("list source documents: %w", err)
		}
		index = domain.IndexByDate(sources)
		logger.Info("Indexed %d source documents over %d dates", len(sources), len(index))
	}

	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			r.record(ctx, summary, started)
			return summary, err
		}

		logger.Debug("[%d/%d] %s (%s)", i+1, len(docs), doc.Name, doc.ID)
		report := r.repair(ctx, doc, opts, index)
		report.Kind = domain.ClassifyFailure(report.Err)
		summary.Reports = append(summary.Reports, report)

		switch report.State {
		case domain.PageStateAlreadyOK:
			summary.AlreadyOK++
		case domain.PageStateNeedsPromotion:
			summary.Fixed++
		case domain.PageStateNeedsRefill:
			summary.Refilled++
		case domain.PageStateNeedsManualRefill:
			summary.NeedsManual++
		case domain.PageStateSkipped:
			summary.Skipped++
		case domain.PageStateFailed:
			summary.Failed++
			logger.Error("%s (%s): %v", doc.Name, doc.ID, report.Err)
		}
		if opts.OnDocument != nil {
			opts.OnDocument(report)
		}
	}

	r.record(ctx, summary, started)
	return summary, nil
}

func (r *Reconciler) repair(
	ctx context.Context,
	doc domain.TargetDocument,
	opts driving.RepairOptions,
	index map[string][]domain.SourceDocument,
) domain.DocumentReport {
	report := domain.DocumentReport{Document: doc}
	fail := func(err error) domain.DocumentReport {
		report.State = domain.PageStateFailed
		report.Applied = false
		report.Err = err
		return report
	}

	if r.known.IsDuplicate(doc.ID) {
		report.State = domain.PageStateSkipped
		return report
	}

	pages, err := r.target.ListPages(ctx, doc.ID)
	if err != nil {
		return fail(fmt.Errorf("list pages: %w", err))
	}
	if len(pages) == 0 {
		return fail(fmt.Errorf("document %s: %w: no pages", doc.ID, domain.ErrMalformedResponse))
	}
	first := pages[domain.DefaultPagePosition]

	page0, err := r.target.ReadPage(ctx, doc.ID, first.ID)
	if err != nil {
		return fail(fmt.Errorf("read default page: %w", err))
	}
	if r.visible(page0.Content) {
		report.State = domain.PageStateAlreadyOK
		return report
	}

	if len(pages) > 1 {
		page1, err := r.target.ReadPage(ctx, doc.ID, pages[1].ID)
		if err != nil {
			return fail(fmt.Errorf("read second page: %w", err))
		}
		if r.visible(page1.Content) {
			report.State = domain.PageStateNeedsPromotion
			if opts.DryRun {
				return report
			}
			name := page1.Name
			if name == "" {
				name = doc.Name
			}
			if err := r.target.ReplacePage(ctx, doc.ID, first.ID, name, page1.Content); err != nil {
				return fail(fmt.Errorf("promote page: %w", err))
			}
			if err := r.target.NeutralizePage(ctx, doc.ID, page1.ID); err != nil {
				return fail(fmt.Errorf("neutralize page: %w", err))
			}
			report.Applied = true
			logger.Info("Promoted page 1 of %s", doc.Name)
			return report
		}
	}

	if !opts.Refill {
		report.State = domain.PageStateNeedsManualRefill
		return report
	}
	return r.refill(ctx, doc, first, opts.DryRun, index, report)
}

func (r *Reconciler) refill(
	ctx context.Context,
	doc domain.TargetDocument,
	page domain.PageRef,
	dryRun bool,
	index map[string][]domain.SourceDocument,
	report domain.DocumentReport,
) domain.DocumentReport {
	date, ok := domain.ExtractDate(doc.Name)
	matches := index[date]
	if !ok || len(matches) == 0 {
		report.State = domain.PageStateFailed
		report.Err = fmt.Errorf("document %q: %w", doc.Name, domain.ErrNoSourceMatch)
		return report
	}
	if len(matches) > 1 {
		logger.Warn("%d source documents for %s, using %s", len(matches), date, matches[0].ID)
	}

	src := matches[0]
	report.State = domain.PageStateNeedsRefill
	report.SourceID = src.ID
	if dryRun {
		return report
	}

	body, err := r.catalog.ExportText(ctx, src.ID)
	if err != nil {
		report.State = domain.PageStateFailed
		report.Err = fmt.Errorf("export: %w", err)
		return report
	}
	content := domain.FormatContent(r.layout, src.Name, src.CreatedAt, body)
	if err := r.target.ReplacePage(ctx, doc.ID, page.ID, content.Title, content.Body); err != nil {
		report.State = domain.PageStateFailed
		report.Err = fmt.Errorf("write default page: %w", err)
		return report
	}
	report.Applied = true
	logger.Info("Refilled %s from %s", doc.Name, src.ID)
	return report
}

func (r *Reconciler) visible(content string) bool {
	if r.inspector == nil {
		return domain.HasVisibleText(content)
	}
	return r.inspector.HasVisibleText(content)
}

func (r *Reconciler) record(ctx context.Context, summary *domain.RepairSummary, started time.Time) {
	if r.runs == nil {
		return
	}
	run := domain.RunRecord{
		ID:         summary.RunID,
		Kind:       domain.RunKindRepair,
		DryRun:     summary.DryRun,
		StartedAt:  started,
		FinishedAt: r.now(),
		Counters: map[string]int{
			"total":        summary.Total,
			"fixed":        summary.Fixed,
			"refilled":     summary.Refilled,
			"already_ok":   summary.AlreadyOK,
			"needs_manual": summary.NeedsManual,
			"skipped":      summary.Skipped,
			"failed":       summary.Failed,
		},
	}
	if err := r.runs.Record(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("Failed to record run %s: %v", run.ID, err)
	}
}
