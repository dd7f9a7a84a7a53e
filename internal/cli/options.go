package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/parisxmas/materai/internal/backend"
)

func newOptionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "options",
		Short: "List selectable values from the configured backend",
	}
	cmd.AddCommand(optionsSubCmd("branches", "List branches", func(ctx context.Context, b backend.Backend, _, _ string) ([]string, error) {
		return b.Branches(ctx)
	}))
	cmd.AddCommand(optionsSubCmd("locations", "List location codes of a branch", func(ctx context.Context, b backend.Backend, branch, _ string) ([]string, error) {
		if branch == "" {
			return nil, errors.New("--branch is required")
		}
		return b.Locations(ctx, branch)
	}))
	cmd.AddCommand(optionsSubCmd("work-scopes", "List work scopes of a location code", func(ctx context.Context, b backend.Backend, branch, location string) ([]string, error) {
		if branch == "" || location == "" {
			return nil, errors.New("--branch and --location are required")
		}
		return b.WorkScopes(ctx, branch, location)
	}))
	return cmd
}

type listFunc func(ctx context.Context, b backend.Backend, branch, location string) ([]string, error)

func optionsSubCmd(use, short string, list listFunc) *cobra.Command {
	var branch, location string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()
			opts, err := list(cmd.Context(), a.backend, branch, location)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{"options": opts})
		},
	}
	cmd.Flags().StringVar(&branch, "branch", "", "Branch (cabang)")
	cmd.Flags().StringVar(&location, "location", "", "Location code (ulok)")
	return cmd
}
