package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docbridge/internal/connectors/google/drive"
	"github.com/custodia-labs/docbridge/internal/core/domain"
	"github.com/custodia-labs/docbridge/internal/core/ports/driving"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy new standup docs from Drive into ClickUp",
	Long: `Lists standup documents in the Drive folder, skips those already in the
ledger, and creates one ClickUp doc per remaining document, oldest first.

Each success is recorded in the ledger immediately, so an interrupted run
resumes where it stopped. Failed documents are reported and retried on
the next run.`,
	RunE: runMigrate,
}

var (
	migrateFlags      overrideFlags
	migrateDryRun     bool
	migrateResetState bool
)

func init() {
	migrateFlags.register(migrateCmd, "ClickUp space, folder or list to create docs under")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "list what would be migrated without writing anything")
	migrateCmd.Flags().BoolVar(&migrateResetState, "reset-state", false, "clear the ledger before planning")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	c, err := openContainer()
	if err != nil {
		return err
	}
	defer c.Close()

	s, err := c.Settings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	migrateFlags.sourceOverrides(s)
	s.Target.ParentID, s.Target.ParentType, err = migrateFlags.parent(s.Target.ParentID, s.Target.ParentType)
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	migrator, err := c.Migrator(ctx, *s, migrateDryRun)
	if err != nil {
		return err
	}

	title := "Migrate"
	if migrateDryRun {
		title += " (dry run)"
	}
	cmd.Println(heading(title))
	cmd.Printf("  From: Drive folder %s (names containing %q)\n", s.Source.FolderID, s.Source.NameFilter)
	cmd.Printf("  To:   ClickUp %s %s in workspace %s\n\n", s.Target.ParentType, s.Target.ParentID, s.Target.WorkspaceID)

	summary, err := migrator.Run(ctx, driving.MigrationOptions{
		Query:       domain.SourceQuery{ParentID: s.Source.FolderID, NameFilter: s.Source.NameFilter},
		Parent:      domain.Parent{ID: s.Target.ParentID, Type: s.Target.ParentType},
		DryRun:      migrateDryRun,
		ResetLedger: migrateResetState,
		OnItem: func(r domain.ItemResult) {
			printItemResult(cmd, r)
		},
	})
	if summary != nil {
		if summary.DryRun {
			printMigrationPlan(cmd, &summary.Plan)
		}
		printMigrationSummary(cmd, summary)
	}
	if err != nil {
		return fmt.Errorf("migration stopped: %w", err)
	}
	return nil
}

func printItemResult(cmd *cobra.Command, r domain.ItemResult) {
	if r.State == domain.StateFailed {
		cmd.Printf("  %s %s (%s) during %s: %v\n",
			failStyle.Render("FAILED "), r.Source.Name, r.Source.ID, r.FailedIn, r.Err)
		return
	}
	cmd.Printf("  %s %s -> %s\n", okStyle.Render("created"), r.Title, r.TargetID)
}

func printMigrationPlan(cmd *cobra.Command, plan *domain.MigrationPlan) {
	if len(plan.Queue) == 0 {
		cmd.Println("Nothing to migrate.")
		return
	}
	cmd.Printf("Would migrate %d document(s):\n", len(plan.Queue))
	for _, doc := range plan.Queue {
		cmd.Printf("  %s  %s\n", doc.DateKey(), doc.Name)
		cmd.Printf("              %s\n", drive.ResolveWebURL(doc.ID))
	}
	cmd.Println()
}

func printMigrationSummary(cmd *cobra.Command, summary *domain.MigrationSummary) {
	cmd.Println()
	cmd.Println(heading("Summary"))
	cmd.Printf("  Candidates: %d\n", summary.Plan.Candidates)
	cmd.Printf("  Skipped:    %d (already migrated)\n", summary.Skipped)
	if summary.DryRun {
		cmd.Printf("  Pending:    %d\n", len(summary.Plan.Queue))
		return
	}
	cmd.Printf("  Created:    %d\n", summary.Created)
	cmd.Printf("  Failed:     %d\n", summary.Failed)

	if failures := summary.Failures(); len(failures) > 0 {
		cmd.Println()
		cmd.Println(warnStyle.Render("Failed documents are retried on the next run:"))
		for _, f := range failures {
			cmd.Printf("  %s  %s (%s): %s\n", f.Source.DateKey(), f.Source.Name, f.Source.ID, f.Kind)
		}
	}
}
