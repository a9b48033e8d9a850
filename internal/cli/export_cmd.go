package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export thread data",
	}

	cmd.AddCommand(newExportCSVCmd(app))

	return cmd
}

func newExportCSVCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "csv THREAD",
		Short: "Export a thread's entries and field values as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			threadID, err := resolveThreadID(ctx, app, args[0])
			if err != nil {
				return err
			}
			csv, err := app.Export.ExportCSV(ctx, threadID)
			if err != nil {
				return err
			}

			if out == "" {
				fmt.Print(csv)
				return nil
			}
			if err := os.WriteFile(out, []byte(csv), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Printf("Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write CSV to file instead of stdout")

	return cmd
}
