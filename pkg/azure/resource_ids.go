package azure

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/andrew-kemp/AzureVirtualDesktop/pkg/convert"
)

// SubscriptionFromRID returns the subscription id component of a resource id, or panics if the
// resource id does not contain a subscription.
func SubscriptionFromRID(rid string) string {
	parts := strings.Split(rid, "/")
	for idx, part := range parts {
		if part == "subscriptions" && idx+1 < len(parts) {
			return parts[idx+1]
		}
	}

	panic(fmt.Sprintf("no subscription id component in %s", rid))
}

// SubscriptionRID creates an Azure subscription resource ID
func SubscriptionRID(subscriptionId string) string {
	return fmt.Sprintf("/subscriptions/%s", subscriptionId)
}

// ResourceGroupRID creates a resource ID for an Azure resource group
func ResourceGroupRID(subscriptionId, resourceGroupName string) string {
	return fmt.Sprintf("%s/resourceGroups/%s", SubscriptionRID(subscriptionId), resourceGroupName)
}

// ResourceGroupDeploymentRID creates a resource-group level deployment resource ID
func ResourceGroupDeploymentRID(subscriptionId string, resourceGroupName string, deploymentId string) string {
	return fmt.Sprintf(
		"%s/providers/Microsoft.Resources/deployments/%s",
		ResourceGroupRID(subscriptionId, resourceGroupName),
		deploymentId,
	)
}

// StorageAccountRID creates a resource ID for a storage account
func StorageAccountRID(subscriptionId, resourceGroupName, accountName string) string {
	return fmt.Sprintf(
		"%s/providers/Microsoft.Storage/storageAccounts/%s",
		ResourceGroupRID(subscriptionId, resourceGroupName),
		accountName,
	)
}

// VirtualMachineRID creates a resource ID for a virtual machine
func VirtualMachineRID(subscriptionId, resourceGroupName, vmName string) string {
	return fmt.Sprintf(
		"%s/providers/Microsoft.Compute/virtualMachines/%s",
		ResourceGroupRID(subscriptionId, resourceGroupName),
		vmName,
	)
}

// HostPoolRID creates a resource ID for an Azure Virtual Desktop host pool
func HostPoolRID(subscriptionId, resourceGroupName, hostPoolName string) string {
	return fmt.Sprintf(
		"%s/providers/Microsoft.DesktopVirtualization/hostPools/%s",
		ResourceGroupRID(subscriptionId, resourceGroupName),
		hostPoolName,
	)
}

// ApplicationGroupRID creates a resource ID for an Azure Virtual Desktop application group
func ApplicationGroupRID(subscriptionId, resourceGroupName, appGroupName string) string {
	return fmt.Sprintf(
		"%s/providers/Microsoft.DesktopVirtualization/applicationGroups/%s",
		ResourceGroupRID(subscriptionId, resourceGroupName),
		appGroupName,
	)
}

// RoleDefinitionRID creates a fully qualified role definition ID at the given scope
func RoleDefinitionRID(scope string, roleDefinitionId string) string {
	return fmt.Sprintf("%s/providers/Microsoft.Authorization/roleDefinitions/%s", scope, roleDefinitionId)
}

var resourceIdRegex = regexp.MustCompile("/.+/(?i)resourceGroups/(.+?)/.+")

// GetResourceGroupName finds the resource group name from the resource id
func GetResourceGroupName(resourceId string) *string {
	matches := resourceIdRegex.FindSubmatch([]byte(resourceId))
	if matches == nil || len(matches) < 2 {
		return nil
	}

	return convert.RefOf(string(matches[1]))
}
