package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docbridge/internal/core/domain"
	"github.com/custodia-labs/docbridge/internal/core/ports/driving"
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Fix ClickUp docs whose content is not on the default page",
	Long: `Checks every doc under the repair parent and classifies its pages:

  already ok      the default page has content
  promotion       the default page is blank and the second page has content;
                  the content is copied onto the default page and the second
                  page is neutralised
  manual refill   no page has content (use --refill-from-source to re-export
                  the Drive document for that date instead)

Documents sharing a name are reported but never changed. Running repair
again after a successful run reports every document as already ok.`,
	RunE: runRepair,
}

var (
	repairFlags  overrideFlags
	repairDryRun bool
	repairRefill bool
)

func init() {
	repairFlags.register(repairCmd, "ClickUp folder holding the docs to repair")
	repairCmd.Flags().BoolVar(&repairDryRun, "dry-run", false, "report what would change without writing anything")
	repairCmd.Flags().BoolVar(&repairRefill, "refill-from-source", false,
		"re-export empty docs from the Drive document with the same date")
	rootCmd.AddCommand(repairCmd)
}

func runRepair(cmd *cobra.Command, _ []string) error {
	c, err := openContainer()
	if err != nil {
		return err
	}
	defer c.Close()

	s, err := c.Settings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	repairFlags.sourceOverrides(s)
	s.Target.RepairParentID, s.Target.RepairParentType, err = repairFlags.parent(s.Target.RepairParentID, s.Target.RepairParentType)
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	reconciler, err := c.Reconciler(ctx, *s, repairRefill)
	if err != nil {
		return err
	}

	title := "Repair"
	if repairDryRun {
		title += " (dry run)"
	}
	cmd.Println(heading(title))
	cmd.Printf("  ClickUp %s %s in workspace %s\n\n", s.Target.RepairParentType, s.Target.RepairParentID, s.Target.WorkspaceID)

	summary, err := reconciler.Reconcile(ctx, driving.RepairOptions{
		Parent: domain.Parent{ID: s.Target.RepairParentID, Type: s.Target.RepairParentType},
		DryRun: repairDryRun,
		Refill: repairRefill,
		Query:  domain.SourceQuery{ParentID: s.Source.FolderID, NameFilter: s.Source.NameFilter},
		OnDocument: func(r domain.DocumentReport) {
			printDocumentReport(cmd, r, repairDryRun)
		},
	})
	if summary != nil {
		printRepairSummary(cmd, summary)
	}
	if err != nil {
		return fmt.Errorf("repair stopped: %w", err)
	}
	return nil
}

func printDocumentReport(cmd *cobra.Command, r domain.DocumentReport, dryRun bool) {
	name := r.Document.Name
	switch r.State {
	case domain.PageStateNeedsPromotion:
		action := "promoted"
		if dryRun {
			action = "would promote"
		}
		cmd.Printf("  %s %s: second page moved to default page\n", okStyle.Render(action), name)
	case domain.PageStateNeedsRefill:
		action := "refilled"
		if dryRun {
			action = "would refill"
		}
		cmd.Printf("  %s %s from source %s\n", okStyle.Render(action), name, r.SourceID)
	case domain.PageStateNeedsManualRefill:
		cmd.Printf("  %s %s (%s): no page has content\n", warnStyle.Render("manual"), name, r.Document.ID)
	case domain.PageStateSkipped:
		cmd.Printf("  %s %s (%s): known duplicate\n", warnStyle.Render("skipped"), name, r.Document.ID)
	case domain.PageStateFailed:
		cmd.Printf("  %s %s (%s): %v\n", failStyle.Render("FAILED"), name, r.Document.ID, r.Err)
	}
}

func printRepairSummary(cmd *cobra.Command, summary *domain.RepairSummary) {
	fixed, refilled := "Fixed:", "Refilled:"
	if summary.DryRun {
		fixed, refilled = "Would fix:", "Would refill:"
	}

	cmd.Println()
	cmd.Println(heading("Summary"))
	cmd.Printf("  %-14s %d\n", "Documents:", summary.Total)
	cmd.Printf("  %-14s %d\n", fixed, summary.Fixed)
	cmd.Printf("  %-14s %d\n", refilled, summary.Refilled)
	cmd.Printf("  %-14s %d\n", "Already OK:", summary.AlreadyOK)
	cmd.Printf("  %-14s %d\n", "Needs manual:", summary.NeedsManual)
	cmd.Printf("  %-14s %d\n", "Skipped:", summary.Skipped)
	cmd.Printf("  %-14s %d\n", "Failed:", summary.Failed)

	if len(summary.Duplicates) > 0 {
		cmd.Println()
		cmd.Println(warnStyle.Render(fmt.Sprintf("Duplicate names (%d), review and delete manually:", len(summary.Duplicates))))
		for _, g := range summary.Duplicates {
			cmd.Printf("  %s\n", g.Name)
			for _, id := range g.DocumentIDs {
				cmd.Printf("    - %s\n", id)
			}
		}
	}

	if len(summary.KnownDupes) > 0 {
		cmd.Println()
		cmd.Println("Known duplicates:")
		for _, d := range summary.KnownDupes {
			cmd.Printf("  %s: delete %s, keep %s\n", d.Date, d.DuplicateID, d.PrimaryID)
		}
	}
}
