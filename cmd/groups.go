package cmd

import (
	"github.com/andrew-kemp/AzureVirtualDesktop/internal"
	"github.com/spf13/cobra"
)

func groupsCmd(opts *internal.GlobalCommandOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Manage the AVD Entra groups",
	}

	cmd.AddCommand(groupsEnsureCmd(opts))

	return cmd
}

func groupsEnsureCmd(opts *internal.GlobalCommandOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ensure",
		Short: "Resolve or create the user, admin and device groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			clients, err := newAzureClients(opts)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			info, err := clients.stateManager.Load()
			if err != nil {
				return err
			}

			if _, _, err := ensureAvdGroups(ctx, clients, info); err != nil {
				return err
			}

			return clients.stateManager.Save(info)
		},
	}
}
