// Package cli implements the todo command line client.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"todolist/internal/app"
	"todolist/internal/config"
	"todolist/internal/logging"
	"todolist/pkg/client"
)

// env is what every subcommand works with.
type env struct {
	cfg    config.Config
	client *client.Client
	app    *app.App
	log    zerolog.Logger
}

func NewRootCmd() *cobra.Command {
	var e env
	root := &cobra.Command{
		Use:           "todo",
		Short:         "To-do list client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.log = logging.SetupWriter(cmd.ErrOrStderr(), cfg.LogLevel)

			e.client, err = client.New(cfg.APIBase,
				client.WithQuery(cfg.Query),
				client.WithTimeout(cfg.HTTPTimeout),
				client.WithRateLimit(cfg.RateLimit, 1),
				client.WithLogger(e.log),
			)
			if err != nil {
				return err
			}
			e.app = app.New(e.client, app.Options{Fade: cfg.AlertFade, Logger: e.log})
			return nil
		},
	}
	root.AddCommand(
		listCmd(&e),
		addCmd(&e),
		transitionCmd(&e, app.ActionComplete, "done", "Mark an item done"),
		transitionCmd(&e, app.ActionActivate, "activate", "Move a done item back to the active list"),
		transitionCmd(&e, app.ActionDeactivate, "deactivate", "Retire a repeating item"),
		transitionCmd(&e, app.ActionDelete, "delete", "Delete an item"),
		dueCmd(&e),
		whoamiCmd(&e),
		versionCmd(&e),
		logoutCmd(&e),
	)
	return root
}

func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "error:", err)
		os.Exit(1)
	}
}

// printAlerts writes the banners raised by the last action, one per line.
func printAlerts(w io.Writer, a *app.App) {
	for _, al := range a.Alerts.List() {
		fmt.Fprintf(w, "[%s] %s\n", al.Kind, al.Message)
	}
}
