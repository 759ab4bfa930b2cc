package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docbridge/internal/core/domain"
	"github.com/custodia-labs/docbridge/internal/core/ports/driven"
	"github.com/custodia-labs/docbridge/internal/core/ports/driving"
	"github.com/custodia-labs/docbridge/internal/logger"
)

// Ensure Planner implements the interface.
var _ driving.Migrator = (*Planner)(nil)

// Planner migrates source documents into the target store one at a time,
// recording each success in the ledger before moving on.
type Planner struct {
	catalog driven.SourceCatalog
	target  driven.TargetStore
	ledger  driven.LedgerStore
	layout  domain.ContentLayout

	// Optional history stores; nil disables them.
	mappings driven.MappingStore
	runs     driven.RunStore

	now func() time.Time
}

// NewPlanner creates a migration planner.
// The target store may be nil when only dry runs are performed.
func NewPlanner(
	catalog driven.SourceCatalog,
	target driven.TargetStore,
	ledger driven.LedgerStore,
	layout domain.ContentLayout,
) *Planner {
	return &Planner{
		catalog: catalog,
		target:  target,
		ledger:  ledger,
		layout:  layout,
		now:     time.Now,
	}
}

// WithHistory enables target mappings and run records.
func (p *Planner) WithHistory(mappings driven.MappingStore, runs driven.RunStore) *Planner {
	p.mappings = mappings
	p.runs = runs
	return p
}

// Plan lists the candidates and removes those already in the ledger.
func (p *Planner) Plan(ctx context.Context, opts driving.MigrationOptions) (*domain.MigrationPlan, error) {
	plan, _, err := p.plan(ctx, opts)
	return plan, err
}

func (p *Planner) plan(ctx context.Context, opts driving.MigrationOptions) (*domain.MigrationPlan, domain.ProcessedSet, error) {
	logger.Section("Plan")

	if opts.ResetLedger && !opts.DryRun {
		if err := p.ledger.Reset(ctx); err != nil {
			return nil, nil, fmt.Errorf("reset ledger: %w", err)
		}
		logger.Info("Ledger reset at %s", p.ledger.Location())
	}

	candidates, err := p.catalog.List(ctx, opts.Query)
	if err != nil {
		return nil, nil, fmt.Errorf("list source documents: %w", err)
	}

	processed, err := p.ledger.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load ledger: %w", err)
	}
	if opts.ResetLedger && opts.DryRun {
		processed = domain.NewProcessedSet()
	}

	plan := &domain.MigrationPlan{Candidates: len(candidates)}
	for _, doc := range candidates {
		if processed.Contains(doc.ID) {
			plan.Skipped++
			continue
		}
		plan.Queue = append(plan.Queue, doc)
	}

	logger.Info("Found %d candidates, %d already processed, %d queued",
		plan.Candidates, plan.Skipped, len(plan.Queue))
	return plan, processed, nil
}

// Run plans, then migrates every queued document in creation order.
// A failing item is reported and the run moves on; only planning
// errors and cancellation abort the run.
func (p *Planner) Run(ctx context.Context, opts driving.MigrationOptions) (*domain.MigrationSummary, error) {
	started := p.now()
	plan, processed, err := p.plan(ctx, opts)
	if err != nil {
		return nil, err
	}

	summary := &domain.MigrationSummary{
		RunID:   uuid.NewString(),
		DryRun:  opts.DryRun,
		Plan:    *plan,
		Skipped: plan.Skipped,
	}
	if opts.DryRun {
		return summary, nil
	}
	if p.target == nil {
		return nil, errors.New("target store not configured")
	}

	logger.Section("Migrate")
	for i, src := range plan.Queue {
		if err := ctx.Err(); err != nil {
			p.record(ctx, summary, started)
			return summary, err
		}

		logger.Debug("[%d/%d] %s (%s)", i+1, len(plan.Queue), src.Name, src.ID)
		item := p.migrate(ctx, opts.Parent, src, processed)
		result := item.Result()
		summary.Results = append(summary.Results, result)

		if item.State == domain.StateRecorded {
			summary.Created++
			logger.Info("Created %s -> %s", result.Title, item.TargetID)
		} else {
			summary.Failed++
			logger.Error("%s (%s) failed in %s: %v", src.Name, src.ID, item.FailedIn, item.Err)
		}
		if opts.OnItem != nil {
			opts.OnItem(result)
		}
	}

	p.record(ctx, summary, started)
	return summary, nil
}

// migrate drives one item through the state machine. processed is updated
// and persisted only when every write has succeeded.
func (p *Planner) migrate(
	ctx context.Context,
	parent domain.Parent,
	src domain.SourceDocument,
	processed domain.ProcessedSet,
) *domain.WorkItem {
	item := domain.NewWorkItem(src)

	body, err := p.catalog.ExportText(ctx, src.ID)
	if err != nil {
		item.Fail(fmt.Errorf("export: %w", err))
		return item
	}
	item.Content = domain.FormatContent(p.layout, src.Name, src.CreatedAt, body)
	if !advance(item, domain.StateExported) {
		return item
	}

	targetID, err := p.target.CreateShell(ctx, domain.ShellRequest{
		Parent:  parent,
		Title:   item.Content.Title,
		Summary: item.Content.Summary,
		Body:    item.Content.Body,
	})
	if err != nil {
		item.Fail(fmt.Errorf("create document: %w", err))
		return item
	}
	if targetID == "" {
		item.Fail(fmt.Errorf("create document: %w: empty id", domain.ErrMalformedResponse))
		return item
	}
	item.TargetID = targetID
	if !advance(item, domain.StateShellCreated) {
		return item
	}

	pages, err := p.target.ListPages(ctx, targetID)
	if err != nil {
		item.Fail(fmt.Errorf("list pages: %w", err))
		return item
	}
	page, ok := domain.DefaultPage(pages)
	if !ok {
		item.Fail(fmt.Errorf("document %s: %w", targetID, domain.ErrNoDefaultPage))
		return item
	}
	item.DefaultPageID = page.ID
	if !advance(item, domain.StateDefaultPageFound) {
		return item
	}

	if err := p.target.ReplacePage(ctx, targetID, page.ID, item.Content.Title, item.Content.Body); err != nil {
		item.Fail(fmt.Errorf("write default page: %w", err))
		return item
	}
	if !advance(item, domain.StatePageWritten) {
		return item
	}

	processed.Add(src.ID)
	if err := p.ledger.Save(ctx, processed); err != nil {
		processed.Remove(src.ID)
		item.Fail(fmt.Errorf("save ledger: %w", err))
		return item
	}
	if !advance(item, domain.StateRecorded) {
		return item
	}

	if p.mappings != nil {
		mapping := domain.TargetMapping{
			SourceID:   src.ID,
			TargetID:   targetID,
			Title:      item.Content.Title,
			RecordedAt: p.now(),
		}
		if err := p.mappings.Put(ctx, mapping); err != nil {
			logger.Warn("Failed to record mapping for %s: %v", src.ID, err)
		}
	}
	return item
}

func (p *Planner) record(ctx context.Context, summary *domain.MigrationSummary, started time.Time) {
	if p.runs == nil {
		return
	}
	run := domain.RunRecord{
		ID:         summary.RunID,
		Kind:       domain.RunKindMigrate,
		DryRun:     summary.DryRun,
		StartedAt:  started,
		FinishedAt: p.now(),
		Counters: map[string]int{
			"candidates": summary.Plan.Candidates,
			"created":    summary.Created,
			"skipped":    summary.Skipped,
			"failed":     summary.Failed,
		},
	}
	if err := p.runs.Record(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("Failed to record run %s: %v", run.ID, err)
	}
}

// advance fails the item when to is not its successor state.
func advance(item *domain.WorkItem, to domain.WorkState) bool {
	if err := item.Advance(to); err != nil {
		item.Fail(err)
		return false
	}
	return true
}
