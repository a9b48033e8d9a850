package cli

import (
	"github.com/nvetter/fieldline/internal/service"
	"github.com/nvetter/fieldline/internal/store"
	"github.com/spf13/cobra"
)

// App holds references to the services and the field store used by CLI
// commands.
type App struct {
	Threads service.ThreadService
	Entries service.EntryService
	Export  service.ExportService
	Fields  *store.FieldStore

	// IsInteractive reports whether stdin is attached to a terminal;
	// interactive forms are only offered when it returns true.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "fieldline" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "fieldline",
		Short: "Journaling with custom structured fields per thread",
	}

	root.AddCommand(
		newThreadCmd(app),
		newFieldCmd(app),
		newEntryCmd(app),
		newExportCmd(app),
	)

	return root
}
