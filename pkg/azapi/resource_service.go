package azapi

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
)

// The ARM resource type for virtual machines, used to find session hosts in a resource group.
const VirtualMachineResourceType = "Microsoft.Compute/virtualMachines"

type Resource struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Location string `json:"location"`
}

// Optional parameters for resource group resources listing.
type ListResourceGroupResourcesOptions struct {
	// An optional filter expression to filter the resource list result
	// https://learn.microsoft.com/en-us/rest/api/resources/resources/list-by-resource-group#uri-parameters
	Filter *string
}

type ResourceService struct {
	credential       azcore.TokenCredential
	armClientOptions *arm.ClientOptions
}

func NewResourceService(
	credential azcore.TokenCredential,
	armClientOptions *arm.ClientOptions,
) *ResourceService {
	return &ResourceService{
		credential:       credential,
		armClientOptions: armClientOptions,
	}
}

func (rs *ResourceService) ListResourceGroupResources(
	ctx context.Context,
	subscriptionId string,
	resourceGroupName string,
	listOptions *ListResourceGroupResourcesOptions,
) ([]*Resource, error) {
	client, err := rs.createResourcesClient(subscriptionId)
	if err != nil {
		return nil, err
	}

	// Filter expressions on the underlying REST API are different from --query param in az cli.
	// https://learn.microsoft.com/en-us/rest/api/resources/resources/list-by-resource-group#uri-parameters
	options := armresources.ClientListByResourceGroupOptions{}
	if listOptions != nil && listOptions.Filter != nil && *listOptions.Filter != "" {
		options.Filter = listOptions.Filter
	}

	resources := []*Resource{}
	pager := client.NewListByResourceGroupPager(resourceGroupName, &options)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}

		for _, resource := range page.ResourceListResult.Value {
			resources = append(resources, &Resource{
				Id:       *resource.ID,
				Name:     *resource.Name,
				Type:     *resource.Type,
				Location: *resource.Location,
			})
		}
	}

	return resources, nil
}

// ListSessionHostVMs lists the virtual machines in the resource group.
func (rs *ResourceService) ListSessionHostVMs(
	ctx context.Context,
	subscriptionId string,
	resourceGroupName string,
) ([]*Resource, error) {
	filter := fmt.Sprintf("resourceType eq '%s'", VirtualMachineResourceType)

	return rs.ListResourceGroupResources(ctx, subscriptionId, resourceGroupName, &ListResourceGroupResourcesOptions{
		Filter: &filter,
	})
}

// GetResourceGroup fetches the named resource group, surfacing the underlying ARM error
// when it does not exist.
func (rs *ResourceService) GetResourceGroup(
	ctx context.Context,
	subscriptionId string,
	resourceGroupName string,
) (*Resource, error) {
	client, err := rs.createResourceGroupClient(subscriptionId)
	if err != nil {
		return nil, err
	}

	group, err := client.Get(ctx, resourceGroupName, nil)
	if err != nil {
		return nil, fmt.Errorf("getting resource group %s: %w", resourceGroupName, err)
	}

	return &Resource{
		Id:       *group.ID,
		Name:     *group.Name,
		Type:     *group.Type,
		Location: *group.Location,
	}, nil
}

// CreateOrUpdateResourceGroup creates the resource group if it does not already exist.
func (rs *ResourceService) CreateOrUpdateResourceGroup(
	ctx context.Context,
	subscriptionId string,
	resourceGroupName string,
	location string,
	tags map[string]*string,
) (*Resource, error) {
	client, err := rs.createResourceGroupClient(subscriptionId)
	if err != nil {
		return nil, err
	}

	response, err := client.CreateOrUpdate(ctx, resourceGroupName, armresources.ResourceGroup{
		Location: to.Ptr(location),
		Tags:     tags,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("creating or updating resource group: %w", err)
	}

	return &Resource{
		Id:       *response.ID,
		Name:     *response.Name,
		Type:     *response.Type,
		Location: *response.Location,
	}, nil
}

// GetResourceTags returns the tags currently applied to the resource.
func (rs *ResourceService) GetResourceTags(
	ctx context.Context,
	subscriptionId string,
	resourceId string,
) (map[string]*string, error) {
	client, err := rs.createTagsClient(subscriptionId)
	if err != nil {
		return nil, err
	}

	response, err := client.GetAtScope(ctx, resourceId, nil)
	if err != nil {
		return nil, fmt.Errorf("getting tags for %s: %w", resourceId, err)
	}

	if response.Properties == nil {
		return map[string]*string{}, nil
	}

	return response.Properties.Tags, nil
}

// MergeResourceTags merges the supplied tags into the resource's existing tags without
// disturbing tags it does not name.
func (rs *ResourceService) MergeResourceTags(
	ctx context.Context,
	subscriptionId string,
	resourceId string,
	tags map[string]*string,
) error {
	client, err := rs.createTagsClient(subscriptionId)
	if err != nil {
		return err
	}

	_, err = client.UpdateAtScope(ctx, resourceId, armresources.TagsPatchResource{
		Operation: to.Ptr(armresources.TagsPatchOperationMerge),
		Properties: &armresources.Tags{
			Tags: tags,
		},
	}, nil)
	if err != nil {
		return fmt.Errorf("updating tags for %s: %w", resourceId, err)
	}

	return nil
}

func (rs *ResourceService) createResourcesClient(subscriptionId string) (*armresources.Client, error) {
	client, err := armresources.NewClient(subscriptionId, rs.credential, rs.armClientOptions)
	if err != nil {
		return nil, fmt.Errorf("creating resources client: %w", err)
	}

	return client, nil
}

func (rs *ResourceService) createResourceGroupClient(
	subscriptionId string,
) (*armresources.ResourceGroupsClient, error) {
	client, err := armresources.NewResourceGroupsClient(subscriptionId, rs.credential, rs.armClientOptions)
	if err != nil {
		return nil, fmt.Errorf("creating resource groups client: %w", err)
	}

	return client, nil
}

func (rs *ResourceService) createTagsClient(subscriptionId string) (*armresources.TagsClient, error) {
	client, err := armresources.NewTagsClient(subscriptionId, rs.credential, rs.armClientOptions)
	if err != nil {
		return nil, fmt.Errorf("creating tags client: %w", err)
	}

	return client, nil
}
