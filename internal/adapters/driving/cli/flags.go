package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docbridge/internal/core/domain"
)

// overrideFlags are command-line values layered over the config file.
type overrideFlags struct {
	folderID    string
	filter      string
	workspaceID string
	parentID    string
	parentType  string
}

func (f *overrideFlags) register(cmd *cobra.Command, parentHelp string) {
	cmd.Flags().StringVar(&f.folderID, "folder-id", "", "Google Drive folder to read standup docs from")
	cmd.Flags().StringVar(&f.filter, "filter", "", "substring source document names must contain")
	cmd.Flags().StringVar(&f.workspaceID, "workspace-id", "", "ClickUp workspace ID")
	cmd.Flags().StringVar(&f.parentID, "parent-id", "", parentHelp)
	cmd.Flags().StringVar(&f.parentType, "parent-type", "",
		"ClickUp parent type: space|folder|list|everything|workspace or 4|5|6|7|12")
}

// sourceOverrides applies the source and workspace flags.
func (f *overrideFlags) sourceOverrides(s *domain.Settings) {
	if f.folderID != "" {
		s.Source.FolderID = f.folderID
	}
	if f.filter != "" {
		s.Source.NameFilter = f.filter
	}
	if f.workspaceID != "" {
		s.Target.WorkspaceID = f.workspaceID
	}
}

// parent resolves the parent flags over a configured parent.
func (f *overrideFlags) parent(id string, typ domain.ParentType) (string, domain.ParentType, error) {
	if f.parentID != "" {
		id = f.parentID
	}
	if f.parentType != "" {
		parsed, err := domain.ParseParentType(f.parentType)
		if err != nil {
			return "", 0, err
		}
		typ = parsed
	}
	return id, typ, nil
}

func (f *overrideFlags) reset() {
	*f = overrideFlags{}
}
