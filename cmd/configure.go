package cmd

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/andrew-kemp/AzureVirtualDesktop/internal"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/avd"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/azapi"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/azure"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/convert"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/graphsdk"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/input"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/output"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/state"
	"github.com/spf13/cobra"
)

// fsLogixShares are the file shares FSLogix expects on the storage account.
var fsLogixShares = []string{"profiles", "redirections"}

const fsLogixShareQuotaGB = 100

func configureCmd(opts *internal.GlobalCommandOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Configure Entra groups, RBAC roles, Conditional Access and device tags",
		Long: heredoc.Doc(`
			Configure the tenant for a deployed AVD environment.

			Resolves or creates the user, admin and device Entra groups, assigns the
			storage and session host RBAC roles, excludes the storage account's
			Enterprise Application from Conditional Access policies, ensures the
			FSLogix file shares exist, and tags the session host VMs for the dynamic
			device group. Every step is idempotent, so re-running after a partial
			failure converges.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			clients, err := newAzureClients(opts)
			if err != nil {
				return err
			}

			return runConfigure(cmd.Context(), clients)
		},
	}
}

func runConfigure(ctx context.Context, clients *azureClients) error {
	if err := clients.ensureLoggedIn(ctx); err != nil {
		return err
	}

	info, err := clients.stateManager.Load()
	if err != nil {
		return err
	}

	subscription, err := clients.resolveSubscription(ctx, info)
	if err != nil {
		return err
	}
	info.SubscriptionId = subscription.Id

	console := clients.console

	info.ResourceGroup, err = promptString(ctx, console,
		"Resource group of the AVD deployment:", info.ResourceGroup)
	if err != nil {
		return err
	}

	account, err := promptStorageAccount(ctx, console, info)
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

	servicePrincipal, err := clients.directory.GetStorageServicePrincipal(ctx, account)
	if err != nil {
		return fmt.Errorf(
			"%w. The Enterprise Application appears after the storage account is configured "+
				"for Azure AD Kerberos; run `avd deploy core` first", err)
	}

	assignAvdRoles(ctx, clients, info, account, userGroup, adminGroup)

	if err := excludeFromConditionalAccess(ctx, clients, servicePrincipal.AppId); err != nil {
		return err
	}

	if err := ensureFsLogixShares(ctx, clients, info, account); err != nil {
		return err
	}

	if err := tagSessionHosts(ctx, clients, info); err != nil {
		return err
	}

	_ = clients.deployLog.Append("tenant configuration completed")

	console.Message(ctx, output.WithSuccessFormat("Tenant configuration complete."))
	console.Message(ctx, "Manual follow-ups:")
	console.Message(ctx, fmt.Sprintf(
		"  1. Grant admin consent to the storage Enterprise Application:\n     %s",
		output.WithLinkFormat(
			"https://login.microsoftonline.com/%s/adminconsent?client_id=%s",
			subscription.TenantId, servicePrincipal.AppId)))
	console.Message(ctx, fmt.Sprintf(
		"  2. Create an A record for %s pointing at the private endpoint address.",
		output.WithHighLightFormat(account.FQDN)))

	return nil
}

// promptStorageAccount asks for the storage account in either spelling and remembers the
// bare name.
func promptStorageAccount(
	ctx context.Context,
	console input.Console,
	info *state.DeploymentInfo,
) (avd.StorageAccount, error) {
	storageInput, err := promptString(ctx, console,
		"Storage account name or *.file.core.windows.net host:", info.StorageAccount)
	if err != nil {
		return avd.StorageAccount{}, err
	}

	account, err := avd.ParseStorageAccount(storageInput)
	if err != nil {
		return avd.StorageAccount{}, err
	}

	info.StorageAccount = account.Name

	return account, nil
}

// ensureAvdGroups resolves or creates the user and admin groups and the device group.
func ensureAvdGroups(
	ctx context.Context,
	clients *azureClients,
	info *state.DeploymentInfo,
) (*graphsdk.Group, *graphsdk.Group, error) {
	console := clients.console
	groups := avd.NewGroupService(clients.directory, console)

	var err error
	info.UserGroupName, err = promptString(ctx, console,
		"AVD users group name:", defaultString(info.UserGroupName, "AVD Users"))
	if err != nil {
		return nil, nil, err
	}

	info.AdminGroupName, err = promptString(ctx, console,
		"AVD admins group name:", defaultString(info.AdminGroupName, "AVD Admins"))
	if err != nil {
		return nil, nil, err
	}

	info.DeviceGroupName, err = promptString(ctx, console,
		"AVD devices group name:", defaultString(info.DeviceGroupName, "AVD Devices"))
	if err != nil {
		return nil, nil, err
	}

	userGroup, created, err := groups.EnsureGroup(ctx, info.UserGroupName,
		"Users entitled to the Azure Virtual Desktop environment")
	if err != nil {
		return nil, nil, err
	}
	reportGroup(ctx, clients, userGroup, created)

	adminGroup, created, err := groups.EnsureGroup(ctx, info.AdminGroupName,
		"Administrators of the Azure Virtual Desktop environment")
	if err != nil {
		return nil, nil, err
	}
	reportGroup(ctx, clients, adminGroup, created)

	deviceGroup, created, err := groups.EnsureGroup(ctx, info.DeviceGroupName,
		"Azure Virtual Desktop session host devices")
	if err != nil {
		return nil, nil, err
	}
	reportGroup(ctx, clients, deviceGroup, created)

	return userGroup, adminGroup, nil
}

func reportGroup(ctx context.Context, clients *azureClients, group *graphsdk.Group, created bool) {
	if created {
		clients.console.Message(ctx, fmt.Sprintf(
			"Created group %s", output.WithHighLightFormat(group.DisplayName)))
		_ = clients.deployLog.Append(fmt.Sprintf("created group %s", group.DisplayName))
	} else {
		clients.console.Message(ctx, fmt.Sprintf(
			"Using existing group %s", output.WithHighLightFormat(group.DisplayName)))
	}
}

// assignAvdRoles grants the storage and session host roles to the user and admin groups.
// Individual grant failures are reported but do not abort the run.
func assignAvdRoles(
	ctx context.Context,
	clients *azureClients,
	info *state.DeploymentInfo,
	account avd.StorageAccount,
	userGroup *graphsdk.Group,
	adminGroup *graphsdk.Group,
) {
	scopes := avd.RoleScopes{
		StorageAccount: azure.StorageAccountRID(info.SubscriptionId, info.ResourceGroup, account.Name),
		ResourceGroup:  azure.ResourceGroupRID(info.SubscriptionId, info.ResourceGroup),
	}
	if info.AppGroupName != "" {
		scopes.ApplicationGroup = azure.ApplicationGroupRID(
			info.SubscriptionId, info.ResourceGroup, info.AppGroupName)
	}

	grants := avd.PlanRoleGrants(scopes, avd.RolePrincipals{
		UserGroupId:    convert.ToValueWithDefault(userGroup.Id, ""),
		UserGroupName:  userGroup.DisplayName,
		AdminGroupId:   convert.ToValueWithDefault(adminGroup.Id, ""),
		AdminGroupName: adminGroup.DisplayName,
	})

	results := avd.NewRoleService(clients.roles).ApplyGrants(ctx, info.SubscriptionId, grants)
	for _, result := range results {
		switch {
		case result.Err != nil:
			clients.console.Message(ctx, output.WithErrorFormat(
				"Failed: %s: %v", result.Grant.Describe(), result.Err))
		case result.Created:
			clients.console.Message(ctx, fmt.Sprintf("Assigned %s", result.Grant.Describe()))
			_ = clients.deployLog.Append(fmt.Sprintf("assigned %s", result.Grant.Describe()))
		default:
			clients.console.Message(ctx, fmt.Sprintf("Already assigned %s", result.Grant.Describe()))
		}
	}
}

// excludeFromConditionalAccess excludes the storage Enterprise Application from every
// eligible Conditional Access policy.
func excludeFromConditionalAccess(ctx context.Context, clients *azureClients, appId string) error {
	results, err := avd.NewExclusionService(clients.directory).ExcludeApplication(ctx, appId)
	if err != nil {
		return err
	}

	for _, result := range results {
		switch {
		case result.Err != nil:
			clients.console.Message(ctx, output.WithErrorFormat(
				"Failed updating policy %q: %v", result.DisplayName, result.Err))
		case result.Action == avd.ExclusionUpdate:
			clients.console.Message(ctx, fmt.Sprintf(
				"Policy %q: %s", result.DisplayName, result.Action))
			_ = clients.deployLog.Append(fmt.Sprintf(
				"excluded app from policy %s", result.DisplayName))
		default:
			clients.console.Message(ctx, fmt.Sprintf(
				"Policy %q: %s", result.DisplayName, result.Action))
		}
	}

	return nil
}

// ensureFsLogixShares creates the FSLogix file shares when missing, using the storage key
// retrieved through the az CLI.
func ensureFsLogixShares(
	ctx context.Context,
	clients *azureClients,
	info *state.DeploymentInfo,
	account avd.StorageAccount,
) error {
	if err := clients.azCli.SetSubscription(ctx, info.SubscriptionId); err != nil {
		return err
	}

	accountKey, err := clients.azCli.GetStorageAccountKey(ctx, info.ResourceGroup, account.Name)
	if err != nil {
		return err
	}

	shares, err := azapi.NewFileSharesService(account.Name, accountKey)
	if err != nil {
		return err
	}

	for _, shareName := range fsLogixShares {
		created, err := shares.EnsureShare(ctx, shareName, fsLogixShareQuotaGB)
		if err != nil {
			return err
		}

		if created {
			clients.console.Message(ctx, fmt.Sprintf(
				"Created file share %s", output.WithHighLightFormat(shareName)))
			_ = clients.deployLog.Append(fmt.Sprintf("created file share %s", shareName))
		}
	}

	return nil
}

// tagSessionHosts stamps the device-inclusion tag onto the session host VMs.
func tagSessionHosts(ctx context.Context, clients *azureClients, info *state.DeploymentInfo) error {
	results, err := avd.NewDeviceTagService(clients.resources).TagSessionHosts(
		ctx, info.SubscriptionId, info.ResourceGroup)
	if err != nil {
		return err
	}

	for _, result := range results {
		switch {
		case result.Err != nil:
			clients.console.Message(ctx, output.WithErrorFormat(
				"Failed tagging %s: %v", result.VMName, result.Err))
		case result.Action == avd.TagApplied:
			clients.console.Message(ctx, fmt.Sprintf("Tagged session host %s", result.VMName))
			_ = clients.deployLog.Append(fmt.Sprintf("tagged session host %s", result.VMName))
		}
	}

	return nil
}
