package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nvetter/fieldline/internal/cli/formatter"
	"github.com/nvetter/fieldline/internal/domain"
	"github.com/spf13/cobra"
)

func newFieldCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "field",
		Short: "Manage a thread's custom fields",
	}

	cmd.AddCommand(
		newFieldListCmd(app),
		newFieldAddCmd(app),
		newFieldRenameCmd(app),
		newFieldRemoveCmd(app),
		newFieldMoveCmd(app),
		newFieldDropCmd(app),
	)

	return cmd
}

func newFieldListCmd(app *App) *cobra.Command {
	var thread string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a thread's active fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			threadID, err := resolveThreadID(ctx, app, thread)
			if err != nil {
				return err
			}
			set, err := app.Fields.Snapshot(ctx, threadID)
			if err != nil {
				return err
			}
			if len(set.Active()) == 0 {
				fmt.Println("No fields defined.")
				return nil
			}
			fmt.Print(formatter.FormatFieldList(set))
			return nil
		},
	}

	cmd.Flags().StringVar(&thread, "thread", "", "Thread name or ID")
	_ = cmd.MarkFlagRequired("thread")

	return cmd
}

func newFieldAddCmd(app *App) *cobra.Command {
	var thread string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a field to a thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			threadID, err := resolveThreadID(ctx, app, thread)
			if err != nil {
				return err
			}
			f, err := app.Fields.Create(ctx, threadID, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Added field %s (position %d)\n", f.Name, f.Order)
			return nil
		},
	}

	cmd.Flags().StringVar(&thread, "thread", "", "Thread name or ID")
	_ = cmd.MarkFlagRequired("thread")

	return cmd
}

func newFieldRenameCmd(app *App) *cobra.Command {
	var thread string

	cmd := &cobra.Command{
		Use:   "rename FIELD NEW_NAME",
		Short: "Rename a field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			threadID, err := resolveThreadID(ctx, app, thread)
			if err != nil {
				return err
			}
			fieldID, err := resolveFieldID(ctx, app, threadID, args[0])
			if err != nil {
				return err
			}
			old, err := app.Fields.FieldByID(ctx, threadID, fieldID)
			if err != nil {
				return err
			}
			if err := app.Fields.Rename(ctx, threadID, fieldID, args[1]); err != nil {
				return err
			}
			fmt.Printf("Renamed field %s to %s\n", old.Name, args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&thread, "thread", "", "Thread name or ID")
	_ = cmd.MarkFlagRequired("thread")

	return cmd
}

func newFieldRemoveCmd(app *App) *cobra.Command {
	var thread string

	cmd := &cobra.Command{
		Use:   "rm FIELD",
		Short: "Remove a field (historical entries keep its values)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			threadID, err := resolveThreadID(ctx, app, thread)
			if err != nil {
				return err
			}
			fieldID, err := resolveFieldID(ctx, app, threadID, args[0])
			if err != nil {
				return err
			}
			if err := app.Fields.Delete(ctx, threadID, fieldID); err != nil {
				return err
			}
			fmt.Printf("Removed field %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&thread, "thread", "", "Thread name or ID")
	_ = cmd.MarkFlagRequired("thread")

	return cmd
}

func newFieldMoveCmd(app *App) *cobra.Command {
	var thread string

	cmd := &cobra.Command{
		Use:   "move FIELD POSITION",
		Short: "Move a field within its level (1-based position)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			threadID, err := resolveThreadID(ctx, app, thread)
			if err != nil {
				return err
			}
			fieldID, err := resolveFieldID(ctx, app, threadID, args[0])
			if err != nil {
				return err
			}
			pos, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid position %q: %w", args[1], err)
			}
			if err := app.Fields.Reorder(ctx, threadID, fieldID, pos); err != nil {
				return err
			}
			fmt.Printf("Moved field %s to position %d\n", args[0], pos)
			return nil
		},
	}

	cmd.Flags().StringVar(&thread, "thread", "", "Thread name or ID")
	_ = cmd.MarkFlagRequired("thread")

	return cmd
}

func newFieldDropCmd(app *App) *cobra.Command {
	var thread string
	var onto bool

	cmd := &cobra.Command{
		Use:   "drop DRAGGED TARGET",
		Short: "Apply a drag-drop outcome (reorder, or group with --onto)",
		Long: `Apply one discrete drag-drop outcome to a thread's fields.

Without --onto the dragged field is inserted at the target's position
(reordering, or pulling a child out of its group). With --onto the dragged
field is dropped onto the target: a plain target becomes a group holding the
dragged field; a group target gains it as another child.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			threadID, err := resolveThreadID(ctx, app, thread)
			if err != nil {
				return err
			}
			draggedID, err := resolveFieldID(ctx, app, threadID, args[0])
			if err != nil {
				return err
			}
			targetID, err := resolveFieldID(ctx, app, threadID, args[1])
			if err != nil {
				return err
			}

			kind := domain.DropBetween
			if onto {
				kind = domain.DropOnto
			}
			if err := app.Fields.InterpretDrop(ctx, threadID, draggedID, targetID, kind); err != nil {
				return err
			}

			set, err := app.Fields.Snapshot(ctx, threadID)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatFieldList(set))
			return nil
		},
	}

	cmd.Flags().StringVar(&thread, "thread", "", "Thread name or ID")
	cmd.Flags().BoolVar(&onto, "onto", false, "Drop onto the target instead of between")
	_ = cmd.MarkFlagRequired("thread")

	return cmd
}
