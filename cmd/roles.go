package cmd

import (
	"github.com/andrew-kemp/AzureVirtualDesktop/internal"
	"github.com/spf13/cobra"
)

func rolesCmd(opts *internal.GlobalCommandOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Manage the AVD RBAC role assignments",
	}

	cmd.AddCommand(rolesAssignCmd(opts))

	return cmd
}

func rolesAssignCmd(opts *internal.GlobalCommandOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "assign",
		Short: "Assign the storage and session host roles to the AVD groups",
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

			subscription, err := clients.resolveSubscription(ctx, info)
			if err != nil {
				return err
			}
			info.SubscriptionId = subscription.Id

			info.ResourceGroup, err = promptString(ctx, clients.console,
				"Resource group of the AVD deployment:", info.ResourceGroup)
			if err != nil {
				return err
			}

			account, err := promptStorageAccount(ctx, clients.console, info)
			if err != nil {
				return err
			}

			userGroup, adminGroup, err := ensureAvdGroups(ctx, clients, info)
			if err != nil {
				return err
			}

			if err := clients.stateManager.Save(info); err != nil {
				return err
			}

			assignAvdRoles(ctx, clients, info, account, userGroup, adminGroup)

			return nil
		},
	}
}
