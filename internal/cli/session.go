package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func whoamiCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := e.client.User(cmd.Context())
			if err != nil {
				return fmt.Errorf("get user: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), user)
			return nil
		},
	}
}

func versionCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the backend version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := e.client.Version(cmd.Context())
			if err != nil {
				return fmt.Errorf("get version: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}

func logoutCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.client.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}
