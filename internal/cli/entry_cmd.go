package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/nvetter/fieldline/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newEntryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Write and browse journal entries",
	}

	cmd.AddCommand(
		newEntryAddCmd(app),
		newEntryListCmd(app),
	)

	return cmd
}

func newEntryAddCmd(app *App) *cobra.Command {
	var thread string
	var sets []string

	cmd := &cobra.Command{
		Use:   "add [BODY]",
		Short: "Add an entry, binding field values",
		Long: `Add a journal entry to a thread.

Field values are given with repeated --set flags ("--set Mood=Happy"); field
names of group children may be written as "Group.Child" or just "Child". When
run on a terminal with no body and no --set flags, an interactive form
collects the body and one value per active field instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			threadID, err := resolveThreadID(ctx, app, thread)
			if err != nil {
				return err
			}

			var body string
			if len(args) == 1 {
				body = args[0]
			}

			var values map[string]string
			switch {
			case len(sets) > 0 || body != "":
				values, err = parseSetFlags(ctx, app, threadID, sets)
				if err != nil {
					return err
				}
			case app.IsInteractive():
				set, err := app.Fields.Snapshot(ctx, threadID)
				if err != nil {
					return err
				}
				inputs := valueInputs(set)
				if err := newEntryForm(set, &body, inputs).Run(); err != nil {
					return err
				}
				values = make(map[string]string, len(inputs))
				for _, in := range inputs {
					values[in.FieldID] = in.Value
				}
			default:
				return fmt.Errorf("entry body is required (or run interactively)")
			}

			entry, bound, err := app.Entries.Create(ctx, threadID, body, values)
			if err != nil {
				return err
			}
			fmt.Printf("Created entry %s (%d field values)\n", entry.ID[:8], len(bound))
			return nil
		},
	}

	cmd.Flags().StringVar(&thread, "thread", "", "Thread name or ID")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Field value as NAME=VALUE (repeatable)")
	_ = cmd.MarkFlagRequired("thread")

	return cmd
}

// parseSetFlags turns repeated NAME=VALUE flags into a field-ID-to-value map.
// Names accept the same forms resolveFieldID does, plus dotted "Group.Child".
func parseSetFlags(ctx context.Context, app *App, threadID string, sets []string) (map[string]string, error) {
	values := make(map[string]string, len(sets))
	for _, s := range sets {
		name, value, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q: expected NAME=VALUE", s)
		}
		if i := strings.IndexByte(name, '.'); i >= 0 {
			name = name[i+1:]
		}
		fieldID, err := resolveFieldID(ctx, app, threadID, name)
		if err != nil {
			return nil, err
		}
		values[fieldID] = value
	}
	return values, nil
}

func newEntryListCmd(app *App) *cobra.Command {
	var thread string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a thread's entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			threadID, err := resolveThreadID(ctx, app, thread)
			if err != nil {
				return err
			}
			entries, err := app.Entries.ListByThread(ctx, threadID)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No entries yet.")
				return nil
			}

			var rows [][]string
			for _, e := range entries {
				rows = append(rows, []string{
					e.CreatedAt.Local().Format("2006-01-02 15:04"),
					truncateBody(e.Body, 60),
					formatter.Dim(e.ID[:8]),
				})
			}
			fmt.Print(formatter.RenderTable([]string{"WHEN", "ENTRY", "ID"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&thread, "thread", "", "Thread name or ID")
	_ = cmd.MarkFlagRequired("thread")

	return cmd
}

func truncateBody(body string, max int) string {
	body = strings.ReplaceAll(body, "\n", " ")
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	return string(runes[:max-1]) + "…"
}
