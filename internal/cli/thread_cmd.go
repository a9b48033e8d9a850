package cli

import (
	"context"
	"fmt"

	"github.com/nvetter/fieldline/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newThreadCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thread",
		Short: "Manage journaling threads",
	}

	cmd.AddCommand(
		newThreadAddCmd(app),
		newThreadListCmd(app),
	)

	return cmd
}

func newThreadAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME",
		Short: "Create a new thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Threads.Create(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Created thread %s [%s]\n", t.Name, t.ID[:8])
			return nil
		},
	}
}

func newThreadListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List threads",
		RunE: func(cmd *cobra.Command, args []string) error {
			threads, err := app.Threads.List(context.Background())
			if err != nil {
				return err
			}
			if len(threads) == 0 {
				fmt.Println("No threads found.")
				return nil
			}

			var rows [][]string
			for _, t := range threads {
				rows = append(rows, []string{
					t.Name,
					formatter.Dim(t.ID[:8]),
					t.CreatedAt.Format("2006-01-02"),
				})
			}
			fmt.Print(formatter.RenderTable([]string{"NAME", "ID", "CREATED"}, rows))
			return nil
		},
	}
}
