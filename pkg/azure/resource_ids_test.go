package azure

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_ResourceRIDs(t *testing.T) {
	require.Equal(t, "/subscriptions/sub", SubscriptionRID("sub"))
	require.Equal(t, "/subscriptions/sub/resourceGroups/rg", ResourceGroupRID("sub", "rg"))
	require.Equal(
		t,
		"/subscriptions/sub/resourceGroups/rg/providers/Microsoft.Storage/storageAccounts/sa",
		StorageAccountRID("sub", "rg", "sa"),
	)
	require.Equal(
		t,
		"/subscriptions/sub/resourceGroups/rg/providers/Microsoft.DesktopVirtualization/hostPools/hp",
		HostPoolRID("sub", "rg", "hp"),
	)
	require.Equal(
		t,
		"/subscriptions/sub/resourceGroups/rg/providers/Microsoft.DesktopVirtualization/applicationGroups/ag",
		ApplicationGroupRID("sub", "rg", "ag"),
	)
}

func Test_SubscriptionFromRID(t *testing.T) {
	require.Equal(
		t,
		"c1e5b7c8-0000-0000-0000-000000000000",
		SubscriptionFromRID(
			"/subscriptions/c1e5b7c8-0000-0000-0000-000000000000/resourceGroups/rg/providers/Microsoft.Storage/storageAccounts/sa",
		),
	)
}

func Test_GetResourceGroupName(t *testing.T) {
	name := GetResourceGroupName(
		"/subscriptions/sub/resourceGroups/MY-RG/providers/Microsoft.Compute/virtualMachines/vm",
	)
	require.NotNil(t, name)
	require.Equal(t, "MY-RG", *name)

	require.Nil(t, GetResourceGroupName("not a resource id"))
}
