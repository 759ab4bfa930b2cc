package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docbridge/internal/core/domain"
	"github.com/custodia-labs/docbridge/internal/core/ports/driving"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect or reset the migration ledger",
	Long: `The ledger records which Drive documents have been migrated.
Resetting it makes the next migrate run copy every document again.`,
	RunE: runLedgerShow,
}

var ledgerShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the ledger location and migrated document IDs",
	RunE:  runLedgerShow,
}

var ledgerResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the ledger",
	RunE:  runLedgerReset,
}

var ledgerHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent migrate and repair runs (sqlite backend)",
	RunE:  runLedgerHistory,
}

var (
	ledgerShowIDs      bool
	ledgerHistoryLimit int
)

func init() {
	ledgerShowCmd.Flags().BoolVar(&ledgerShowIDs, "ids", false, "list every migrated document ID")
	ledgerHistoryCmd.Flags().IntVar(&ledgerHistoryLimit, "limit", 10, "number of runs to show")

	ledgerCmd.AddCommand(ledgerShowCmd)
	ledgerCmd.AddCommand(ledgerResetCmd)
	ledgerCmd.AddCommand(ledgerHistoryCmd)
	rootCmd.AddCommand(ledgerCmd)
}

func openLedger() (driving.LedgerService, func() error, error) {
	c, err := openContainer()
	if err != nil {
		return nil, nil, err
	}
	s, err := c.Settings()
	if err != nil {
		c.Close()
		return nil, nil, fmt.Errorf("failed to load settings: %w", err)
	}
	svc, err := c.Ledger(*s)
	if err != nil {
		c.Close()
		return nil, nil, err
	}
	return svc, c.Close, nil
}

func runLedgerShow(cmd *cobra.Command, _ []string) error {
	svc, closeFn, err := openLedger()
	if err != nil {
		return err
	}
	defer closeFn()

	status, err := svc.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}

	cmd.Println(heading("Ledger"))
	cmd.Printf("  Location:  %s\n", status.Location)
	cmd.Printf("  Processed: %d\n", status.Processed)
	if ledgerShowIDs {
		for _, id := range status.IDs {
			cmd.Printf("    %s\n", id)
		}
	}
	return nil
}

func runLedgerReset(cmd *cobra.Command, _ []string) error {
	svc, closeFn, err := openLedger()
	if err != nil {
		return err
	}
	defer closeFn()

	if err := svc.Reset(cmd.Context()); err != nil {
		return fmt.Errorf("failed to reset ledger: %w", err)
	}
	cmd.Println("Ledger reset. The next migrate run will copy every document.")
	return nil
}

func runLedgerHistory(cmd *cobra.Command, _ []string) error {
	svc, closeFn, err := openLedger()
	if err != nil {
		return err
	}
	defer closeFn()

	runs, err := svc.History(cmd.Context(), ledgerHistoryLimit)
	if errors.Is(err, domain.ErrNotFound) {
		cmd.Println("Run history is only kept by the sqlite ledger backend.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	cmd.Println(heading("Runs"))
	for _, run := range runs {
		kind := string(run.Kind)
		if run.DryRun {
			kind += " (dry run)"
		}
		cmd.Printf("  %s  %-18s %s  %s\n",
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			kind,
			run.FinishedAt.Sub(run.StartedAt).Round(time.Second),
			formatCounters(run.Counters))
	}
	return nil
}

func formatCounters(counters map[string]int) string {
	keys := make([]string, 0, len(counters))
	for k := range counters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counters[k]))
	}
	return strings.Join(parts, " ")
}
