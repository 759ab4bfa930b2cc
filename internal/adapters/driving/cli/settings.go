package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change configuration",
	Long: `View the effective configuration or write a single key to the config file.

Known duplicates are an array of tables; edit them in the config file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Write one setting to the config file",
	Example: `  docbridge settings set target.parent_type folder
  docbridge settings set ledger.backend sqlite`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	c, err := openContainer()
	if err != nil {
		return err
	}
	defer c.Close()

	s, err := c.Settings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	cmd.Println(heading("Settings"))
	cmd.Printf("Config: %s\n\n", c.ConfigPath())

	cmd.Println("[source]")
	cmd.Printf("  folder_id:        %s\n", s.Source.FolderID)
	cmd.Printf("  name_filter:      %s\n", s.Source.NameFilter)
	cmd.Printf("  page_size:        %d\n", s.Source.PageSize)
	cmd.Printf("  credentials_file: %s\n", orUnset(s.Source.CredentialsFile))
	cmd.Println()

	cmd.Println("[target]")
	cmd.Printf("  workspace_id:       %s\n", s.Target.WorkspaceID)
	cmd.Printf("  parent:             %s (%s)\n", s.Target.ParentID, s.Target.ParentType)
	cmd.Printf("  repair_parent:      %s (%s)\n", s.Target.RepairParentID, s.Target.RepairParentType)
	cmd.Printf("  request_interval:   %s\n", s.Target.RequestInterval)
	cmd.Println()

	cmd.Println("[ledger]")
	cmd.Printf("  backend: %s\n", s.Ledger.Backend)
	cmd.Printf("  path:    %s\n", orUnset(s.Ledger.Path))
	cmd.Println()

	cmd.Println("[format]")
	cmd.Printf("  title_prefix:  %s\n", s.Format.TitlePrefix)
	cmd.Printf("  summary_label: %s\n", s.Format.SummaryLabel)
	cmd.Println()

	cmd.Printf("[repair]\n  known_duplicates: %d\n", len(s.Repair.KnownDuplicates))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	c, err := openContainer()
	if err != nil {
		return err
	}
	defer c.Close()

	svc := c.SettingsService()
	key, value := args[0], args[1]
	if err := svc.Set(key, value); err != nil {
		return err
	}
	cmd.Printf("%s %s = %s\n", okStyle.Render("set"), key, strings.TrimSpace(value))
	cmd.Printf("Saved to %s\n", svc.Path())
	return nil
}

func orUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}
