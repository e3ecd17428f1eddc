package cmd

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/andrew-kemp/AzureVirtualDesktop/internal"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/avd"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/azure"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/convert"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/input"
	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/output"
	"github.com/andrew-kemp/AzureVirtualDesktop/resources"
	"github.com/spf13/cobra"
)

func deployCmd(opts *internal.GlobalCommandOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the AVD infrastructure templates",
		Long: heredoc.Doc(`
			Deploy the AVD infrastructure templates.

			"deploy core" provisions the storage account with Azure AD Kerberos, the
			FSLogix file shares, a private endpoint into your virtual network, and the
			host pool, desktop application group and workspace.

			"deploy hosts" provisions the session host virtual machines and joins them
			to the host pool.`),
	}

	cmd.AddCommand(deployCoreCmd(opts))
	cmd.AddCommand(deployHostsCmd(opts))

	return cmd
}

func deployCoreCmd(opts *internal.GlobalCommandOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "core",
		Short: "Deploy storage, file shares, private endpoint and the host pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			clients, err := newAzureClients(opts)
			if err != nil {
				return err
			}

			return runDeployCore(cmd.Context(), clients)
		},
	}
}

func deployHostsCmd(opts *internal.GlobalCommandOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hosts",
		Short: "Deploy the session host virtual machines",
		RunE: func(cmd *cobra.Command, args []string) error {
			clients, err := newAzureClients(opts)
			if err != nil {
				return err
			}

			return runDeployHosts(cmd.Context(), clients)
		},
	}
}

func runDeployCore(ctx context.Context, clients *azureClients) error {
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
		"Resource group for the AVD deployment:", info.ResourceGroup)
	if err != nil {
		return err
	}

	info.Location, err = promptString(ctx, console,
		"Azure region (e.g. uksouth):", info.Location)
	if err != nil {
		return err
	}

	storageInput, err := promptString(ctx, console,
		"Storage account name or *.file.core.windows.net host:", info.StorageAccount)
	if err != nil {
		return err
	}

	account, err := avd.ParseStorageAccount(storageInput)
	if err != nil {
		return err
	}
	info.StorageAccount = account.Name

	info.KerberosDomainId, err = promptString(ctx, console,
		"Active Directory domain GUID for Kerberos:", info.KerberosDomainId)
	if err != nil {
		return err
	}

	info.VNetName, err = promptString(ctx, console,
		"Existing virtual network name:", info.VNetName)
	if err != nil {
		return err
	}

	info.SubnetName, err = promptString(ctx, console,
		"Existing subnet name:", info.SubnetName)
	if err != nil {
		return err
	}

	info.HostPoolName, err = promptString(ctx, console, "Host pool name:", defaultString(info.HostPoolName, "AVD-HostPool"))
	if err != nil {
		return err
	}

	info.AppGroupName, err = promptString(ctx, console,
		"Application group name:", defaultString(info.AppGroupName, "AVD-AppGroup"))
	if err != nil {
		return err
	}

	info.WorkspaceName, err = promptString(ctx, console,
		"Workspace name:", defaultString(info.WorkspaceName, "AVD-Workspace"))
	if err != nil {
		return err
	}

	if err := clients.stateManager.Save(info); err != nil {
		return err
	}

	deployedByTags := map[string]*string{
		azure.TagKeyDeployedBy: convert.RefOf("avd/" + internal.Version),
	}

	if _, err := clients.resources.CreateOrUpdateResourceGroup(
		ctx, info.SubscriptionId, info.ResourceGroup, info.Location, deployedByTags); err != nil {
		return err
	}

	_ = clients.deployLog.Append(fmt.Sprintf(
		"deploying core infrastructure to %s/%s", info.SubscriptionId, info.ResourceGroup))

	deploymentName := clients.deployments.GenerateDeploymentName("avd-core")
	console.Message(ctx, fmt.Sprintf(
		"Deploying core infrastructure as %s. This can take several minutes.",
		output.WithHighLightFormat(deploymentName)))

	deployment, err := clients.deployments.DeployToResourceGroup(
		ctx, info.SubscriptionId, info.ResourceGroup, deploymentName,
		resources.CoreInfrastructureJson,
		azure.ArmParameters{
			"storageAccountName": {Value: account.Name},
			"kerberosDomainId":   {Value: info.KerberosDomainId},
			"vnetName":           {Value: info.VNetName},
			"subnetName":         {Value: info.SubnetName},
			"hostPoolName":       {Value: info.HostPoolName},
			"appGroupName":       {Value: info.AppGroupName},
			"workspaceName":      {Value: info.WorkspaceName},
		},
		deployedByTags,
	)
	if err != nil {
		_ = clients.deployLog.Append(fmt.Sprintf("core infrastructure deployment failed: %v", err))
		return err
	}

	_ = clients.deployLog.Append(fmt.Sprintf(
		"core infrastructure deployment %s completed: %s", deployment.Name, deployment.ProvisioningState))

	console.Message(ctx, output.WithSuccessFormat(
		"Core infrastructure deployed (%s).", deployment.ProvisioningState))
	console.Message(ctx, fmt.Sprintf(
		"Next: run %s to create the session hosts.", output.WithBackticks("avd deploy hosts")))

	return nil
}

func runDeployHosts(ctx context.Context, clients *azureClients) error {
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
		"Resource group for the AVD deployment:", info.ResourceGroup)
	if err != nil {
		return err
	}

	info.SessionHostPrefix, err = promptString(ctx, console,
		"Session host name prefix:", defaultString(info.SessionHostPrefix, "AVD"))
	if err != nil {
		return err
	}

	info.SessionHostCount, err = promptInt(ctx, console,
		"Number of session hosts:", defaultInt(info.SessionHostCount, 2))
	if err != nil {
		return err
	}

	info.SessionHostSize, err = promptString(ctx, console,
		"Session host VM size:", defaultString(info.SessionHostSize, "Standard_D4s_v5"))
	if err != nil {
		return err
	}

	info.HostPoolName, err = promptString(ctx, console,
		"Host pool name:", defaultString(info.HostPoolName, "AVD-HostPool"))
	if err != nil {
		return err
	}

	info.VNetName, err = promptString(ctx, console,
		"Existing virtual network name:", info.VNetName)
	if err != nil {
		return err
	}

	info.SubnetName, err = promptString(ctx, console,
		"Existing subnet name:", info.SubnetName)
	if err != nil {
		return err
	}

	info.DNSServers, err = console.Prompt(ctx, input.ConsoleOptions{
		Message:      "DNS servers (comma separated, empty to inherit from the vNet):",
		DefaultValue: info.DNSServers,
	})
	if err != nil {
		return err
	}

	adminUsername, err := promptString(ctx, console, "Local administrator username:", "avdadmin")
	if err != nil {
		return err
	}

	adminPassword, err := promptPassword(ctx, console, "Local administrator password:")
	if err != nil {
		return err
	}

	registrationToken, err := promptPassword(ctx, console, "Host pool registration token:")
	if err != nil {
		return err
	}

	if err := clients.stateManager.Save(info); err != nil {
		return err
	}

	_ = clients.deployLog.Append(fmt.Sprintf(
		"deploying %d session hosts to %s/%s", info.SessionHostCount, info.SubscriptionId, info.ResourceGroup))

	deploymentName := clients.deployments.GenerateDeploymentName("avd-hosts")
	console.Message(ctx, fmt.Sprintf(
		"Deploying session hosts as %s. This can take a while.",
		output.WithHighLightFormat(deploymentName)))

	deployment, err := clients.deployments.DeployToResourceGroup(
		ctx, info.SubscriptionId, info.ResourceGroup, deploymentName,
		resources.SessionHostsJson,
		azure.ArmParameters{
			"sessionHostPrefix":         {Value: info.SessionHostPrefix},
			"sessionHostCount":          {Value: info.SessionHostCount},
			"vmSize":                    {Value: info.SessionHostSize},
			"adminUsername":             {Value: adminUsername},
			"adminPassword":             {Value: adminPassword},
			"hostPoolName":              {Value: info.HostPoolName},
			"hostPoolRegistrationToken": {Value: registrationToken},
			"vnetName":                  {Value: info.VNetName},
			"subnetName":                {Value: info.SubnetName},
			"dnsServers":                {Value: info.DNSServers},
		},
		map[string]*string{
			azure.TagKeyDeployedBy: convert.RefOf("avd/" + internal.Version),
		},
	)
	if err != nil {
		_ = clients.deployLog.Append(fmt.Sprintf("session host deployment failed: %v", err))
		return err
	}

	_ = clients.deployLog.Append(fmt.Sprintf(
		"session host deployment %s completed: %s", deployment.Name, deployment.ProvisioningState))

	console.Message(ctx, output.WithSuccessFormat(
		"Session hosts deployed (%s).", deployment.ProvisioningState))
	console.Message(ctx, fmt.Sprintf(
		"Next: run %s to finish the tenant configuration.", output.WithBackticks("avd configure")))

	return nil
}

func defaultString(value string, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}

func defaultInt(value int, fallback int) int {
	if value == 0 {
		return fallback
	}

	return value
}
