package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/andrew-kemp/AzureVirtualDesktop/internal"
	"github.com/spf13/cobra"
)

func caCmd(opts *internal.GlobalCommandOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ca",
		Short: "Manage Conditional Access exclusions for the storage Enterprise Application",
	}

	cmd.AddCommand(caExcludeCmd(opts))

	return cmd
}

func caExcludeCmd(opts *internal.GlobalCommandOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "exclude",
		Short: "Exclude the storage Enterprise Application from Conditional Access policies",
		Long: heredoc.Doc(`
			Exclude the storage Enterprise Application from Conditional Access policies.

			Azure AD Kerberos ticket exchanges with the storage account fail when a
			tenant-wide Conditional Access policy applies to the auto-registered
			"[Storage Account] <host>" application. This command appends the
			application to the exclusion list of every policy that targets all
			applications. Microsoft-managed policies are left untouched, and a
			policy that already excludes the application is skipped.`),
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

			account, err := promptStorageAccount(ctx, clients.console, info)
			if err != nil {
				return err
			}

			if err := clients.stateManager.Save(info); err != nil {
				return err
			}

			servicePrincipal, err := clients.directory.GetStorageServicePrincipal(ctx, account)
			if err != nil {
				return fmt.Errorf(
					"%w. The Enterprise Application appears after the storage account is "+
						"configured for Azure AD Kerberos; run `avd deploy core` first", err)
			}

			return excludeFromConditionalAccess(ctx, clients, servicePrincipal.AppId)
		},
	}
}
