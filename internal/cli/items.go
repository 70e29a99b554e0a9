package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"todolist/internal/app"
	"todolist/pkg/notify"
	"todolist/pkg/state"
	"todolist/pkg/todo"
)

func listCmd(e *env) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active items, and done items with --all",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e.app.Refresh(cmd.Context())
			printAlerts(cmd.ErrOrStderr(), e.app)

			st := e.app.Store.Snapshot()
			out := cmd.OutOrStdout()
			for _, it := range st.Active() {
				printItem(out, it)
			}
			if all {
				for _, it := range st.Inactive() {
					printItem(out, it)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include done items")
	return cmd
}

func printItem(w io.Writer, it todo.Item) {
	mark := " "
	if it.Done {
		mark = "x"
	}
	fmt.Fprintf(w, "[%s] %d %s", mark, it.ID, it.Title)
	if it.Scheduled {
		fmt.Fprintf(w, " (due %s)", it.DueString())
	}
	if it.IsRepeating() {
		fmt.Fprintf(w, " %s", it.Repeating)
	}
	fmt.Fprintln(w)
	if it.Description != "" {
		fmt.Fprintf(w, "      %s\n", it.Description)
	}
}

func addCmd(e *env) *cobra.Command {
	var (
		d      = todo.NewDraft()
		repeat string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d.Scheduled = d.DueDate != ""
			d.Repeating = todo.ParseRepeating(repeat)

			e.app.Store.OpenNew()
			e.app.Store.UpdateDraft(state.ModeNew, d)
			err := e.app.Save(cmd.Context(), state.ModeNew)

			var fe todo.FieldErrors
			if errors.As(err, &fe) {
				for _, f := range fe {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", f.Field, f.Helper)
				}
				return errors.New("invalid item")
			}
			printAlerts(cmd.OutOrStdout(), e.app)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVarP(&d.Title, "title", "t", "", "item title")
	f.StringVarP(&d.Description, "description", "d", "", "item description")
	f.StringVar(&d.DueDate, "due-date", "", "due date, yyyy-mm-dd; schedules the item")
	f.StringVar(&d.DueTime, "due-time", "", "due time, HH:MM")
	f.StringVar(&d.DueTimezone, "timezone", "", "time zone offset, [+-]HH:MM")
	f.StringVar(&repeat, "repeat", string(todo.RepeatNo), "No, Daily, Weekly, BiWeekly, Monthly or Yearly")
	return cmd
}

func transitionCmd(e *env, action app.Action, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			// The cached list provides the title for the messages.
			e.app.Refresh(cmd.Context())
			err = e.app.Perform(cmd.Context(), id, action)
			printAlerts(cmd.OutOrStdout(), e.app)
			return err
		},
	}
}

func dueCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "due",
		Short: "Show items due today, due tomorrow or overdue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e.app.Refresh(cmd.Context())
			notices := notify.Classify(e.app.Store.Snapshot().Items, time.Now())
			for _, n := range notices {
				fmt.Fprintf(cmd.OutOrStdout(), "%-9s %d %s (due %s)\n", n.Reason, n.Item.ID, n.Item.Title, n.Item.DueString())
			}
			return nil
		},
	}
}
